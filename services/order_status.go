package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/foodcourt-app/models"
	"github.com/yeremiapane/foodcourt-app/utils"
)

// OrderStatusService is the only writer of order and order item status.
type OrderStatusService struct {
	DB          *gorm.DB
	Permissions *PermissionResolver
	Events      EventPublisher
}

func NewOrderStatusService(db *gorm.DB, permissions *PermissionResolver, events EventPublisher) *OrderStatusService {
	return &OrderStatusService{
		DB:          db,
		Permissions: permissions,
		Events:      publisherOrNoop(events),
	}
}

// TransitionResult describes a committed item transition.
type TransitionResult struct {
	Item           models.OrderItem
	PreviousStatus string
	OrderStatus    string
	// OrderChanged is true when every item converged and the order followed.
	OrderChanged        bool
	PreviousOrderStatus string
}

// TransitionItem moves one order item to newStatus on behalf of actor.
//
// Any non-terminal status may move to any status, skipping stages or going
// back included. DELIVERED and CANCELED never move again.
//
// The item update, its log and notification, and the order convergence
// check commit together. The order row is locked first so transitions on
// sibling items of the same order run one after another and the last one
// always sees every sibling's final status.
func (s *OrderStatusService) TransitionItem(ctx context.Context, actor Actor, foodcourtID, orderItemID uint, newStatus string) (*TransitionResult, error) {
	var item models.OrderItem
	if err := s.DB.WithContext(ctx).First(&item, orderItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("load order item: %w", err)
	}
	if item.FoodcourtID != foodcourtID {
		return nil, ErrOrderItemNotFound
	}

	if err := s.Permissions.Require(ctx, actor, item.FoodcourtID, CapabilityUpdateOrders); err != nil {
		return nil, err
	}

	if !models.IsValidOrderStatus(newStatus) {
		return nil, ErrInvalidStatus
	}
	if models.IsTerminalStatus(item.Status) {
		return nil, ErrTerminalState
	}

	var result *TransitionResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = transitionItemTx(tx, actor, item.OrderID, item.ID, newStatus)
		return err
	})
	if err != nil {
		return nil, err
	}

	itemTransitions.WithLabelValues(newStatus).Inc()
	if result.OrderChanged {
		orderConvergences.WithLabelValues(newStatus).Inc()
	}
	utils.InfoLogger.WithFields(map[string]interface{}{
		"order_id":        result.Item.OrderID,
		"order_item_id":   result.Item.ID,
		"previous_status": result.PreviousStatus,
		"new_status":      newStatus,
		"actor_id":        actor.UserID,
	}).Info("order item status updated")

	s.publish(result)
	return result, nil
}

func transitionItemTx(tx *gorm.DB, actor Actor, orderID, itemID uint, newStatus string) (*TransitionResult, error) {
	now := time.Now()

	var order models.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}

	// re-read under the lock; the pre-check may be stale
	var item models.OrderItem
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Foodcourt").
		First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("lock order item: %w", err)
	}
	if models.IsTerminalStatus(item.Status) {
		return nil, ErrTerminalState
	}

	previous := item.Status
	res := tx.Model(&models.OrderItem{}).
		Where("id = ? AND status NOT IN ?", item.ID, models.TerminalStatuses()).
		Updates(map[string]interface{}{"status": newStatus, "updated_at": now})
	if res.Error != nil {
		return nil, fmt.Errorf("update order item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrTerminalState
	}
	item.Status = newStatus
	item.UpdatedAt = now

	itemLog := models.OrderLog{
		OrderID:        order.ID,
		OrderItemID:    &item.ID,
		PreviousStatus: previous,
		NewStatus:      newStatus,
		UpdatedByID:    actor.UserID,
		CreatedAt:      now,
	}
	if err := tx.Create(&itemLog).Error; err != nil {
		return nil, fmt.Errorf("create order item log: %w", err)
	}

	notification := models.OrderNotification{
		OrderID:     order.ID,
		OrderItemID: &item.ID,
		Message:     notificationMessage(item.MenuItemName, item.Foodcourt.Name, newStatus),
		IsDisplayed: false,
		CreatedAt:   now,
	}
	if err := tx.Create(&notification).Error; err != nil {
		return nil, fmt.Errorf("create order notification: %w", err)
	}

	result := &TransitionResult{
		Item:                item,
		PreviousStatus:      previous,
		OrderStatus:         order.Status,
		PreviousOrderStatus: order.Status,
	}

	changed, err := convergeOrderTx(tx, actor, order, newStatus, now)
	if err != nil {
		return nil, err
	}
	if changed {
		result.OrderChanged = true
		result.OrderStatus = newStatus
	}
	return result, nil
}

// convergeOrderTx moves the order to status when every item of the order
// has it. The update is a compare-and-set on both the order status and the
// sibling set, so a convergence is recorded once.
func convergeOrderTx(tx *gorm.DB, actor Actor, order models.Order, status string, now time.Time) (bool, error) {
	if order.Status == status {
		return false, nil
	}

	diverging := tx.Model(&models.OrderItem{}).
		Select("1").
		Where("order_id = ? AND status <> ?", order.ID, status)

	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Where("NOT EXISTS (?)", diverging).
		Updates(map[string]interface{}{"status": status, "updated_at": now})
	if res.Error != nil {
		return false, fmt.Errorf("update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	orderLog := models.OrderLog{
		OrderID:        order.ID,
		OrderItemID:    nil,
		PreviousStatus: order.Status,
		NewStatus:      status,
		UpdatedByID:    actor.UserID,
		CreatedAt:      now,
	}
	if err := tx.Create(&orderLog).Error; err != nil {
		return false, fmt.Errorf("create order log: %w", err)
	}

	return true, nil
}

func (s *OrderStatusService) publish(result *TransitionResult) {
	var order models.Order
	if err := s.DB.Select("id", "table_id").First(&order, result.Item.OrderID).Error; err != nil {
		utils.ErrorLogger.Printf("load order %d for event: %v", result.Item.OrderID, err)
		return
	}

	s.Events.PublishOrderEvent(OrderEvent{
		Type:           EventOrderItemStatus,
		OrderID:        result.Item.OrderID,
		OrderItemID:    result.Item.ID,
		TableID:        order.TableID,
		FoodcourtIDs:   []uint{result.Item.FoodcourtID},
		PreviousStatus: result.PreviousStatus,
		Status:         result.Item.Status,
		OccurredAt:     result.Item.UpdatedAt,
	})

	if !result.OrderChanged {
		return
	}

	var foodcourtIDs []uint
	if err := s.DB.Model(&models.OrderItem{}).
		Where("order_id = ?", result.Item.OrderID).
		Distinct().
		Pluck("foodcourt_id", &foodcourtIDs).Error; err != nil {
		utils.ErrorLogger.Printf("load foodcourts of order %d for event: %v", result.Item.OrderID, err)
		foodcourtIDs = []uint{result.Item.FoodcourtID}
	}
	s.Events.PublishOrderEvent(OrderEvent{
		Type:           EventOrderStatus,
		OrderID:        result.Item.OrderID,
		TableID:        order.TableID,
		FoodcourtIDs:   foodcourtIDs,
		PreviousStatus: result.PreviousOrderStatus,
		Status:         result.OrderStatus,
		OccurredAt:     result.Item.UpdatedAt,
	})
}

func notificationMessage(itemName, foodcourtName, status string) string {
	var state string
	switch status {
	case models.StatusPending:
		state = "is waiting to be prepared"
	case models.StatusPreparing:
		state = "is being prepared"
	case models.StatusReady:
		state = "is ready for pickup"
	case models.StatusDelivered:
		state = "has been delivered"
	case models.StatusCanceled:
		state = "has been canceled"
	default:
		state = "was updated"
	}
	if foodcourtName == "" {
		return fmt.Sprintf("Your %s %s", itemName, state)
	}
	return fmt.Sprintf("Your %s from %s %s", itemName, foodcourtName, state)
}
