package services

import (
	"sync"
	"testing"

	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(title, category, condition string, price float64) *models.MarketplaceItem {
	return &models.MarketplaceItem{
		Title: title, Description: title + " in great shape", Price: price,
		Category: category, Condition: condition, Location: "Westlands",
	}
}

func TestListItemsFilters(t *testing.T) {
	db := newTestDB(t)
	seller := seedUser(t, db, models.RoleResident)

	sofa, err := CreateItem(db, seller.ID, newItem("Sofa", "furniture", "good", 200))
	require.NoError(t, err)
	tv, err := CreateItem(db, seller.ID, newItem("Television", "electronics", "like_new", 350))
	require.NoError(t, err)
	sold, err := CreateItem(db, seller.ID, newItem("Bike", "sports", "fair", 90))
	require.NoError(t, err)
	_, err = UpdateItemStatus(db, sold.ID, seller.ID, models.ItemSold)
	require.NoError(t, err)

	items, page, err := ListItems(db, ItemFilter{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 12, page.Limit)

	items, _, err = ListItems(db, ItemFilter{Category: "furniture"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, sofa.ID, items[0].ID)

	items, _, err = ListItems(db, ItemFilter{Condition: "like_new"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, tv.ID, items[0].ID)

	lo := 300.0
	items, _, err = ListItems(db, ItemFilter{MinPrice: &lo})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, tv.ID, items[0].ID)

	items, _, err = ListItems(db, ItemFilter{Search: "sofa"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotNil(t, items[0].Seller)
}

func TestViewItemCountsEveryView(t *testing.T) {
	db := newTestDB(t)
	seller := seedUser(t, db, models.RoleResident)
	item, err := CreateItem(db, seller.ID, newItem("Desk", "furniture", "good", 60))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = ViewItem(db, item.ID)
		}()
	}
	wg.Wait()

	got, err := ViewItem(db, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 21, got.ViewCount)

	_, err = ViewItem(db, uuid.New())
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestItemOwnership(t *testing.T) {
	db := newTestDB(t)
	seller := seedUser(t, db, models.RoleResident)
	other := seedUser(t, db, models.RoleResident)
	item, err := CreateItem(db, seller.ID, newItem("Lamp", "home", "", 15))
	require.NoError(t, err)
	assert.Equal(t, "good", item.Condition)
	assert.Equal(t, models.ItemAvailable, item.Status)

	price := 10.0
	_, err = UpdateItem(db, item.ID, other.ID, ItemInput{Price: &price})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	got, err := UpdateItem(db, item.ID, seller.ID, ItemInput{Price: &price, Address: &models.Address{City: "Nairobi"}})
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Price)
	assert.Equal(t, "Nairobi", got.Address.City)

	_, err = UpdateItemStatus(db, item.ID, seller.ID, "gone")
	assert.ErrorIs(t, err, ErrInvalidItemStatus)
	_, err = UpdateItemStatus(db, item.ID, other.ID, models.ItemPending)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	assert.ErrorIs(t, DeleteItem(db, item.ID, other.ID), ErrNotAuthorized)

	n, err := CountSellerItems(db, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, DeleteItem(db, item.ID, seller.ID))
	mine, err := ListSellerItems(db, seller.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
