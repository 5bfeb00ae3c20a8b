package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/foodcourt-app/models"
	"github.com/yeremiapane/foodcourt-app/services"
)

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)

	order, err := f.placement.PlaceOrder(context.Background(), services.PlaceOrderRequest{
		TableID: f.table.ID,
		Items: []services.PlaceOrderItemRequest{
			{MenuItemID: f.nasi.ID, Quantity: 2, SpecialInstructions: " pedas "},
			{MenuItemID: f.ayam.ID, Quantity: 1},
			{MenuItemID: f.esTeh.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Guest", order.CustomerName)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("42500.50")), order.TotalAmount.String())

	var items []models.OrderItem
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Order("id").Find(&items).Error)
	require.Len(t, items, 3)
	assert.Equal(t, "Nasi Goreng", items[0].MenuItemName)
	assert.Equal(t, "pedas", items[0].SpecialInstructions)
	assert.True(t, items[0].Subtotal.Equal(decimal.RequireFromString("30000")))
	assert.Equal(t, f.fcB.ID, items[2].FoodcourtID)
	for _, it := range items {
		assert.Equal(t, models.StatusPending, it.Status)
	}

	created := f.events.ofType(services.EventOrderCreated)
	require.Len(t, created, 1)
	assert.Equal(t, []uint{f.fcA.ID, f.fcB.ID}, created[0].FoodcourtIDs)
}

func TestPlaceOrder_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.db.Model(&models.MenuItem{}).Where("id = ?", f.ayam.ID).Update("is_available", false).Error)

	tests := []struct {
		name    string
		req     services.PlaceOrderRequest
		wantErr error
	}{
		{"no items", services.PlaceOrderRequest{TableID: f.table.ID}, services.ErrEmptyItems},
		{"zero quantity", services.PlaceOrderRequest{TableID: f.table.ID, Items: []services.PlaceOrderItemRequest{{MenuItemID: f.nasi.ID}}}, services.ErrInvalidQuantity},
		{"unknown table", services.PlaceOrderRequest{TableID: 99, Items: []services.PlaceOrderItemRequest{{MenuItemID: f.nasi.ID, Quantity: 1}}}, services.ErrTableNotFound},
		{"unknown menu item", services.PlaceOrderRequest{TableID: f.table.ID, Items: []services.PlaceOrderItemRequest{{MenuItemID: 99, Quantity: 1}}}, services.ErrMenuItemNotFound},
		{"unavailable menu item", services.PlaceOrderRequest{TableID: f.table.ID, Items: []services.PlaceOrderItemRequest{{MenuItemID: f.nasi.ID, Quantity: 1}, {MenuItemID: f.ayam.ID, Quantity: 1}}}, services.ErrMenuItemUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.placement.PlaceOrder(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Zero(t, f.count(t, &models.Order{}, ""))
	assert.Zero(t, f.count(t, &models.OrderItem{}, ""))
}
