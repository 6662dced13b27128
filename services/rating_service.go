package services

import (
	"log"

	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ratingAggregate struct {
	Avg   *float64
	Count int64
}

// RecomputeProviderRating rebuilds a provider's rating and reviewCount from
// every booking carrying a customer rating. Must run in the tx that wrote the
// rating.
func RecomputeProviderRating(tx *gorm.DB, providerID uuid.UUID) error {
	var agg ratingAggregate
	err := tx.Model(&models.Booking{}).
		Select("AVG(user_rating) AS avg, COUNT(*) AS count").
		Where("provider_id = ? AND user_rating IS NOT NULL", providerID).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.User{}).Where("id = ?", providerID).Updates(map[string]interface{}{
		"rating":       agg.value(),
		"review_count": agg.Count,
	}).Error
}

// RecomputeServiceRating sets a service's rating to the mean of its reviews,
// or 0 when it has none.
func RecomputeServiceRating(tx *gorm.DB, serviceID uuid.UUID) error {
	var agg ratingAggregate
	err := tx.Model(&models.ServiceReview{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("service_id = ?", serviceID).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Service{}).Where("id = ?", serviceID).Updates(map[string]interface{}{
		"rating":       agg.value(),
		"review_count": agg.Count,
	}).Error
}

func (a ratingAggregate) value() float64 {
	if a.Avg == nil || a.Count == 0 {
		return 0
	}
	return *a.Avg
}

// ReconcileRatings recomputes every provider and service aggregate. It repairs
// drift left by rows removed outside the review paths, such as cascaded
// account deletions.
func ReconcileRatings(db *gorm.DB) error {
	var providerIDs []uuid.UUID
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleServiceProvider).Pluck("id", &providerIDs).Error; err != nil {
		return err
	}
	for _, id := range providerIDs {
		if err := db.Transaction(func(tx *gorm.DB) error { return RecomputeProviderRating(tx, id) }); err != nil {
			log.Printf("Error reconciling rating for provider %s: %v", id, err)
		}
	}

	var serviceIDs []uuid.UUID
	if err := db.Model(&models.Service{}).Pluck("id", &serviceIDs).Error; err != nil {
		return err
	}
	for _, id := range serviceIDs {
		if err := db.Transaction(func(tx *gorm.DB) error { return RecomputeServiceRating(tx, id) }); err != nil {
			log.Printf("Error reconciling rating for service %s: %v", id, err)
		}
	}

	log.Printf("Reconciled ratings for %d providers and %d services", len(providerIDs), len(serviceIDs))
	return nil
}
