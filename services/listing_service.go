package services

import (
	"errors"

	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultServicePageSize = 10

var serviceSortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"rating":    "rating",
	"title":     "title",
}

type ServiceFilter struct {
	Category   string
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	PriceType  string
	ProviderID *uuid.UUID
	Page       int
	Limit      int
	Sort       string
}

type ServiceInput struct {
	Title        *string
	Description  *string
	Category     *string
	Price        *float64
	PriceType    *string
	Availability *string
	Images       *[]string
	Tags         *[]string
	IsActive     *bool
}

func ListServices(db *gorm.DB, f ServiceFilter) ([]models.Service, Pagination, error) {
	q := db.Model(&models.Service{}).Where("is_active = ?", true)
	if f.Category != "" && f.Category != "all" {
		q = q.Where("category = ?", f.Category)
	}
	if f.PriceType != "" {
		q = q.Where("price_type = ?", f.PriceType)
	}
	if f.ProviderID != nil {
		q = q.Where("provider_id = ?", *f.ProviderID)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(CAST(tags AS TEXT)) LIKE ?", p, p, p)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var list []models.Service
	err := q.Preload("Provider").
		Order(sortOrder(f.Sort, serviceSortColumns)).
		Scopes(pageScope(f.Page, f.Limit, defaultServicePageSize)).
		Find(&list).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	return list, newPagination(f.Page, f.Limit, defaultServicePageSize, total), nil
}

func GetService(db *gorm.DB, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	err := db.Preload("Provider").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Reviews.User").
		First(&service, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func ListProviderServices(db *gorm.DB, providerID uuid.UUID, activeOnly bool) ([]models.Service, error) {
	q := db.Preload("Provider").Where("provider_id = ?", providerID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var list []models.Service
	err := q.Order("created_at desc").Find(&list).Error
	return list, err
}

func CreateService(db *gorm.DB, provider *models.User, service *models.Service) error {
	if provider.Role != models.RoleServiceProvider {
		return ErrProviderOnly
	}
	service.ID = uuid.Nil
	service.ProviderID = provider.ID
	service.Rating = 0
	service.ReviewCount = 0
	service.IsActive = true
	if service.PriceType == "" {
		service.PriceType = models.PriceTypeFixed
	}
	if service.Availability == "" {
		service.Availability = "Flexible"
	}
	return db.Create(service).Error
}

func ownedService(tx *gorm.DB, id, requesterID uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := tx.First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if service.ProviderID != requesterID {
		return nil, ErrNotAuthorized
	}
	return &service, nil
}

func UpdateService(db *gorm.DB, id, requesterID uuid.UUID, in ServiceInput) (*models.Service, error) {
	service, err := ownedService(db, id, requesterID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Category != nil {
		updates["category"] = *in.Category
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.PriceType != nil {
		updates["price_type"] = *in.PriceType
	}
	if in.Availability != nil {
		updates["availability"] = *in.Availability
	}
	if in.Images != nil {
		updates["images"] = datatypes.JSONSlice[string](*in.Images)
	}
	if in.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](*in.Tags)
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) > 0 {
		if err := db.Model(service).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return GetService(db, id)
}

// AppendServiceImages adds uploaded image URLs to a service the requester owns.
func AppendServiceImages(db *gorm.DB, id, requesterID uuid.UUID, urls []string) (*models.Service, error) {
	service, err := ownedService(db, id, requesterID)
	if err != nil {
		return nil, err
	}
	images := append(datatypes.JSONSlice[string]{}, service.Images...)
	images = append(images, urls...)
	if err := db.Model(service).Update("images", images).Error; err != nil {
		return nil, err
	}
	return GetService(db, id)
}

func DeleteService(db *gorm.DB, id, requesterID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		service, err := ownedService(tx, id, requesterID)
		if err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", service.ID).Delete(&models.ServiceReview{}).Error; err != nil {
			return err
		}
		return tx.Delete(service).Error
	})
}

func ListServiceReviews(db *gorm.DB, serviceID uuid.UUID) ([]models.ServiceReview, error) {
	var count int64
	if err := db.Model(&models.Service{}).Where("id = ?", serviceID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrServiceNotFound
	}
	var reviews []models.ServiceReview
	err := db.Preload("User").Where("service_id = ?", serviceID).Order("created_at desc").Find(&reviews).Error
	return reviews, err
}

// AddServiceReview records one review per user, only after the user has a
// completed booking of the service, then refreshes the service rating.
func AddServiceReview(db *gorm.DB, serviceID, userID uuid.UUID, rating int, comment string) ([]models.ServiceReview, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var service models.Service
		if err := tx.Clauses(lockingUpdate).First(&service, "id = ?", serviceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrServiceNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.ServiceReview{}).Where("service_id = ? AND user_id = ?", serviceID, userID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrServiceReviewed
		}

		var completed int64
		err := tx.Model(&models.Booking{}).
			Where("service_id = ? AND user_id = ? AND status = ?", serviceID, userID, models.StatusCompleted).
			Count(&completed).Error
		if err != nil {
			return err
		}
		if completed == 0 {
			return ErrNoCompletedBooking
		}

		review := models.ServiceReview{ServiceID: serviceID, UserID: userID, Rating: rating, Comment: comment}
		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrServiceReviewed
			}
			return err
		}
		return RecomputeServiceRating(tx, serviceID)
	})
	if err != nil {
		return nil, err
	}
	return ListServiceReviews(db, serviceID)
}
