package services

import (
	"testing"
	"time"

	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestCreateServiceRequiresProviderRole(t *testing.T) {
	db := newTestDB(t)
	resident := seedUser(t, db, models.RoleResident)
	provider := seedUser(t, db, models.RoleServiceProvider)

	err := CreateService(db, resident, &models.Service{Title: "Dog walking", Description: "Daily walks", Category: "pet_care", Price: 10})
	assert.ErrorIs(t, err, ErrProviderOnly)

	s := &models.Service{Title: "Dog walking", Description: "Daily walks", Category: "pet_care", Price: 10, Rating: 5, ProviderID: resident.ID}
	require.NoError(t, CreateService(db, provider, s))
	assert.Equal(t, provider.ID, s.ProviderID)
	assert.Equal(t, 0.0, s.Rating)
	assert.Equal(t, models.PriceTypeFixed, s.PriceType)
	assert.Equal(t, "Flexible", s.Availability)
	assert.True(t, s.IsActive)
}

func TestDeleteServiceByNonOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, models.RoleServiceProvider)
	other := seedUser(t, db, models.RoleServiceProvider)
	service := seedService(t, db, owner, 50, models.PriceTypeFixed)

	err := DeleteService(db, service.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = GetService(db, service.ID)
	require.NoError(t, err)

	require.NoError(t, DeleteService(db, service.ID, owner.ID))
	_, err = GetService(db, service.ID)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUpdateServiceOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, models.RoleServiceProvider)
	other := seedUser(t, db, models.RoleServiceProvider)
	service := seedService(t, db, owner, 50, models.PriceTypeFixed)

	title := "Emergency plumbing"
	_, err := UpdateService(db, service.ID, other.ID, ServiceInput{Title: &title})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	inactive := false
	tags := []string{"emergency", "24h"}
	got, err := UpdateService(db, service.ID, owner.ID, ServiceInput{Title: &title, IsActive: &inactive, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
	assert.False(t, got.IsActive)
	assert.Equal(t, datatypes.JSONSlice[string](tags), got.Tags)

	_, err = UpdateService(db, uuid.New(), owner.ID, ServiceInput{Title: &title})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestListServicesFilters(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, models.RoleServiceProvider)
	other := seedUser(t, db, models.RoleServiceProvider)

	mk := func(owner *models.User, title, category, priceType string, price float64, tags []string, age time.Duration) *models.Service {
		s := &models.Service{
			Title: title, Description: title + " description", Category: category,
			ProviderID: owner.ID, Price: price, PriceType: priceType, IsActive: true,
			Tags: tags,
		}
		require.NoError(t, db.Create(s).Error)
		db.Model(s).UpdateColumn("created_at", day.Add(-age))
		return s
	}
	tutoring := mk(provider, "Math tutoring", "tutoring", models.PriceTypeHourly, 25, []string{"algebra"}, 1*time.Hour)
	cleaning := mk(provider, "Deep cleaning", "cleaning", models.PriceTypeFixed, 80, nil, 2*time.Hour)
	painting := mk(other, "Fence painting", "painting", models.PriceTypeFixed, 150, []string{"outdoor"}, 3*time.Hour)
	hidden := mk(other, "Hidden", "other", models.PriceTypeFixed, 10, nil, 4*time.Hour)
	db.Model(hidden).Update("is_active", false)

	list, page, err := ListServices(db, ServiceFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, tutoring.ID, list[0].ID)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Pages)
	assert.NotNil(t, list[0].Provider)

	list, _, err = ListServices(db, ServiceFilter{Category: "cleaning"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, cleaning.ID, list[0].ID)

	list, _, err = ListServices(db, ServiceFilter{Search: "ALGEBRA"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tutoring.ID, list[0].ID)

	lo, hi := 50.0, 200.0
	list, _, err = ListServices(db, ServiceFilter{MinPrice: &lo, MaxPrice: &hi, Sort: "-price"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, painting.ID, list[0].ID)
	assert.Equal(t, cleaning.ID, list[1].ID)

	list, _, err = ListServices(db, ServiceFilter{PriceType: models.PriceTypeHourly})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, _, err = ListServices(db, ServiceFilter{ProviderID: &other.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, painting.ID, list[0].ID)

	list, page, err = ListServices(db, ServiceFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, painting.ID, list[0].ID)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, 2, page.Page)
}

func TestListProviderServices(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, models.RoleServiceProvider)
	active := seedService(t, db, provider, 10, models.PriceTypeFixed)
	inactive := seedService(t, db, provider, 10, models.PriceTypeFixed)
	db.Model(inactive).Update("is_active", false)

	public, err := ListProviderServices(db, provider.ID, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, active.ID, public[0].ID)

	own, err := ListProviderServices(db, provider.ID, false)
	require.NoError(t, err)
	assert.Len(t, own, 2)
}

func TestAddServiceReview(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, models.RoleServiceProvider)
	alice := seedUser(t, db, models.RoleResident)
	bob := seedUser(t, db, models.RoleResident)
	service := seedService(t, db, provider, 50, models.PriceTypeFixed)

	_, err := AddServiceReview(db, service.ID, alice.ID, 5, "Great")
	assert.ErrorIs(t, err, ErrNoCompletedBooking)

	seedBooking(t, db, service, alice, at(9), 1, models.StatusCompleted)
	seedBooking(t, db, service, bob, at(12), 1, models.StatusCompleted)

	reviews, err := AddServiceReview(db, service.ID, alice.ID, 5, "Great")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.NotNil(t, reviews[0].User)

	_, err = AddServiceReview(db, service.ID, alice.ID, 1, "Again")
	assert.ErrorIs(t, err, ErrServiceReviewed)

	_, err = AddServiceReview(db, service.ID, bob.ID, 2, "Meh")
	require.NoError(t, err)

	got, err := GetService(db, service.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, got.Rating, 1e-9)
	assert.Equal(t, 2, got.ReviewCount)
	assert.Len(t, got.Reviews, 2)

	_, err = AddServiceReview(db, uuid.New(), alice.ID, 5, "")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestAppendServiceImages(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, models.RoleServiceProvider)
	other := seedUser(t, db, models.RoleServiceProvider)
	service := seedService(t, db, owner, 50, models.PriceTypeFixed)

	got, err := AppendServiceImages(db, service.ID, owner.ID, []string{"https://img/1.jpg"})
	require.NoError(t, err)
	got, err = AppendServiceImages(db, service.ID, owner.ID, []string{"https://img/2.jpg"})
	require.NoError(t, err)
	assert.Equal(t, datatypes.JSONSlice[string]{"https://img/1.jpg", "https://img/2.jpg"}, got.Images)

	_, err = AppendServiceImages(db, service.ID, other.ID, []string{"x"})
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestReconcileRatings(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, models.RoleServiceProvider)
	customer := seedUser(t, db, models.RoleResident)
	service := seedService(t, db, provider, 50, models.PriceTypeFixed)

	b := seedBooking(t, db, service, customer, at(9), 1, models.StatusCompleted)
	db.Model(b).Update("user_rating", 3)
	db.Model(&models.User{}).Where("id = ?", provider.ID).Updates(map[string]interface{}{"rating": 5, "review_count": 9})
	db.Model(service).Updates(map[string]interface{}{"rating": 4, "review_count": 1})

	require.NoError(t, ReconcileRatings(db))

	p, err := GetUser(db, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, p.Rating)
	assert.Equal(t, 1, p.ReviewCount)

	s, err := GetService(db, service.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Rating)
	assert.Equal(t, 0, s.ReviewCount)
}
