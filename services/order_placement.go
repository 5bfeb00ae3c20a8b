package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/foodcourt-app/models"
	"github.com/yeremiapane/foodcourt-app/utils"
)

type PlaceOrderRequest struct {
	TableID      uint
	CustomerName string
	Items        []PlaceOrderItemRequest
}

type PlaceOrderItemRequest struct {
	MenuItemID          uint
	Quantity            int
	SpecialInstructions string
}

// OrderPlacementService creates customer orders from a table.
type OrderPlacementService struct {
	DB     *gorm.DB
	Events EventPublisher
}

func NewOrderPlacementService(db *gorm.DB, events EventPublisher) *OrderPlacementService {
	return &OrderPlacementService{DB: db, Events: publisherOrNoop(events)}
}

// PlaceOrder snapshots name and price of every menu item and writes the
// order with its items in one transaction. All items start PENDING.
func (s *OrderPlacementService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		customerName = "Guest"
	}

	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, req.TableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return fmt.Errorf("load table: %w", err)
		}

		now := time.Now()
		items := make([]models.OrderItem, 0, len(req.Items))
		total := decimal.Zero
		for _, it := range req.Items {
			var menuItem models.MenuItem
			if err := tx.Preload("Foodcourt").First(&menuItem, it.MenuItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %d", ErrMenuItemNotFound, it.MenuItemID)
				}
				return fmt.Errorf("load menu item: %w", err)
			}
			if !menuItem.IsAvailable || !menuItem.Foodcourt.IsActive {
				return fmt.Errorf("%w: %s", ErrMenuItemUnavailable, menuItem.Name)
			}

			subtotal := menuItem.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			total = total.Add(subtotal)
			items = append(items, models.OrderItem{
				FoodcourtID:         menuItem.FoodcourtID,
				MenuItemID:          menuItem.ID,
				MenuItemName:        menuItem.Name,
				Quantity:            it.Quantity,
				UnitPrice:           menuItem.Price,
				Subtotal:            subtotal,
				Status:              models.StatusPending,
				SpecialInstructions: strings.TrimSpace(it.SpecialInstructions),
				CreatedAt:           now,
				UpdatedAt:           now,
			})
		}

		order = models.Order{
			TableID:      table.ID,
			CustomerName: customerName,
			TotalAmount:  total,
			Status:       models.StatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return fmt.Errorf("create order items: %w", err)
		}
		order.OrderItems = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	ordersPlaced.Inc()
	utils.InfoLogger.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"table_id": order.TableID,
		"items":    len(order.OrderItems),
	}).Info("order placed")

	s.Events.PublishOrderEvent(OrderEvent{
		Type:         EventOrderCreated,
		OrderID:      order.ID,
		TableID:      order.TableID,
		FoodcourtIDs: foodcourtsOf(order.OrderItems),
		Status:       order.Status,
		OccurredAt:   order.CreatedAt,
	})
	return &order, nil
}

func foodcourtsOf(items []models.OrderItem) []uint {
	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.FoodcourtID]; ok {
			continue
		}
		seen[it.FoodcourtID] = struct{}{}
		ids = append(ids, it.FoodcourtID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
