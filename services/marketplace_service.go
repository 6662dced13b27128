package services

import (
	"errors"
	"slices"

	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultItemPageSize = 12

var itemSortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"viewCount": "view_count",
	"title":     "title",
}

type ItemFilter struct {
	Category  string
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	Condition string
	Page      int
	Limit     int
	Sort      string
}

type ItemInput struct {
	Title       *string
	Description *string
	Price       *float64
	Category    *string
	Condition   *string
	Images      *[]string
	Location    *string
	Address     *models.Address
	Tags        *[]string
}

// ListItems returns active, available listings.
func ListItems(db *gorm.DB, f ItemFilter) ([]models.MarketplaceItem, Pagination, error) {
	q := db.Model(&models.MarketplaceItem{}).
		Where("is_active = ? AND status = ?", true, models.ItemAvailable)
	if f.Category != "" && f.Category != "all" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Condition != "" {
		q = q.Where("condition = ?", f.Condition)
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

	var items []models.MarketplaceItem
	err := q.Preload("Seller").
		Order(sortOrder(f.Sort, itemSortColumns)).
		Scopes(pageScope(f.Page, f.Limit, defaultItemPageSize)).
		Find(&items).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	return items, newPagination(f.Page, f.Limit, defaultItemPageSize, total), nil
}

func GetItem(db *gorm.DB, id uuid.UUID) (*models.MarketplaceItem, error) {
	var item models.MarketplaceItem
	err := db.Preload("Seller").First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ViewItem increments the view counter in a single UPDATE and returns the
// fresh row.
func ViewItem(db *gorm.DB, id uuid.UUID) (*models.MarketplaceItem, error) {
	res := db.Model(&models.MarketplaceItem{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}
	return GetItem(db, id)
}

func CreateItem(db *gorm.DB, sellerID uuid.UUID, item *models.MarketplaceItem) (*models.MarketplaceItem, error) {
	item.ID = uuid.Nil
	item.SellerID = sellerID
	item.Status = models.ItemAvailable
	item.ViewCount = 0
	item.IsActive = true
	if item.Condition == "" {
		item.Condition = "good"
	}
	if err := db.Create(item).Error; err != nil {
		return nil, err
	}
	return GetItem(db, item.ID)
}

func ownedItem(tx *gorm.DB, id, requesterID uuid.UUID) (*models.MarketplaceItem, error) {
	var item models.MarketplaceItem
	if err := tx.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if item.SellerID != requesterID {
		return nil, ErrNotAuthorized
	}
	return &item, nil
}

func UpdateItem(db *gorm.DB, id, requesterID uuid.UUID, in ItemInput) (*models.MarketplaceItem, error) {
	item, err := ownedItem(db, id, requesterID)
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
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Category != nil {
		updates["category"] = *in.Category
	}
	if in.Condition != nil {
		updates["condition"] = *in.Condition
	}
	if in.Images != nil {
		updates["images"] = datatypes.JSONSlice[string](*in.Images)
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.Address != nil {
		updates["address_street"] = in.Address.Street
		updates["address_city"] = in.Address.City
		updates["address_state"] = in.Address.State
		updates["address_zip_code"] = in.Address.ZipCode
	}
	if in.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](*in.Tags)
	}
	if len(updates) > 0 {
		if err := db.Model(item).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return GetItem(db, id)
}

func UpdateItemStatus(db *gorm.DB, id, requesterID uuid.UUID, status string) (*models.MarketplaceItem, error) {
	if !slices.Contains(models.ItemStatuses, status) {
		return nil, ErrInvalidItemStatus
	}
	item, err := ownedItem(db, id, requesterID)
	if err != nil {
		return nil, err
	}
	if err := db.Model(item).Update("status", status).Error; err != nil {
		return nil, err
	}
	return GetItem(db, id)
}

func DeleteItem(db *gorm.DB, id, requesterID uuid.UUID) error {
	item, err := ownedItem(db, id, requesterID)
	if err != nil {
		return err
	}
	return db.Delete(item).Error
}

func ListSellerItems(db *gorm.DB, sellerID uuid.UUID) ([]models.MarketplaceItem, error) {
	var items []models.MarketplaceItem
	err := db.Preload("Seller").Where("seller_id = ?", sellerID).Order("created_at desc").Find(&items).Error
	return items, err
}

func CountSellerItems(db *gorm.DB, sellerID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&models.MarketplaceItem{}).Where("seller_id = ?", sellerID).Count(&count).Error
	return count, err
}
