package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/foodcourt-app/models"
	"github.com/yeremiapane/foodcourt-app/utils"
)

// OrderFilter selects orders by status. The modes are exclusive; when more
// than one is set ActiveOnly wins, then HistoryOnly, then Status.
type OrderFilter struct {
	ActiveOnly  bool
	HistoryOnly bool
	Status      string
}

// Validate rejects an unknown explicit status when it is the selected mode.
func (f OrderFilter) Validate() error {
	if f.ActiveOnly || f.HistoryOnly || f.Status == "" {
		return nil
	}
	if !models.IsValidOrderStatus(f.Status) {
		return ErrInvalidStatus
	}
	return nil
}

func (f OrderFilter) scope(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case f.ActiveOnly:
			return db.Where(column+" NOT IN ?", models.TerminalStatuses())
		case f.HistoryOnly:
			return db.Where(column+" IN ?", models.TerminalStatuses())
		case f.Status != "":
			return db.Where(column+" = ?", f.Status)
		default:
			return db
		}
	}
}

type OrderItemView struct {
	ID                  uint            `json:"id"`
	MenuItemID          uint            `json:"menu_item_id"`
	MenuItemName        string          `json:"menu_item_name"`
	Quantity            int             `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	UnitPriceFormatted  string          `json:"unit_price_formatted"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	SubtotalFormatted   string          `json:"subtotal_formatted"`
	Status              string          `json:"status"`
	SpecialInstructions string          `json:"special_instructions"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// FoodcourtOrderView is one order as seen by a single foodcourt: only its
// own items, totalled.
type FoodcourtOrderView struct {
	OrderID        uint            `json:"order_id"`
	TableID        uint            `json:"table_id"`
	TableNumber    string          `json:"table_number"`
	CustomerName   string          `json:"customer_name"`
	OrderStatus    string          `json:"order_status"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []OrderItemView `json:"items"`
	Total          decimal.Decimal `json:"total"`
	TotalFormatted string          `json:"total_formatted"`
}

type FoodcourtOrderList struct {
	Orders     []FoodcourtOrderView `json:"orders"`
	Pagination utils.Pagination     `json:"pagination"`
}

type LogActor struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type OrderLogView struct {
	ID             uint      `json:"id"`
	OrderItemID    *uint     `json:"order_item_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	UpdatedBy      LogActor  `json:"updated_by"`
	CreatedAt      time.Time `json:"created_at"`
}

type FoodcourtOrderDetail struct {
	FoodcourtOrderView
	Logs []OrderLogView `json:"logs"`
}

type CustomerFoodcourtGroup struct {
	FoodcourtID       uint            `json:"foodcourt_id"`
	FoodcourtName     string          `json:"foodcourt_name"`
	Items             []OrderItemView `json:"items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	SubtotalFormatted string          `json:"subtotal_formatted"`
}

type CustomerOrderView struct {
	OrderID              uint                     `json:"order_id"`
	CustomerName         string                   `json:"customer_name"`
	Status               string                   `json:"status"`
	CreatedAt            time.Time                `json:"created_at"`
	Foodcourts           []CustomerFoodcourtGroup `json:"foodcourts"`
	TotalAmount          decimal.Decimal          `json:"total_amount"`
	TotalAmountFormatted string                   `json:"total_amount_formatted"`
}

type CustomerOrderList struct {
	TableID     uint                `json:"table_id"`
	TableNumber string              `json:"table_number"`
	Orders      []CustomerOrderView `json:"orders"`
	Pagination  utils.Pagination    `json:"pagination"`
}

type OrderQueryService struct {
	DB          *gorm.DB
	Permissions *PermissionResolver
}

func NewOrderQueryService(db *gorm.DB, permissions *PermissionResolver) *OrderQueryService {
	return &OrderQueryService{DB: db, Permissions: permissions}
}

// ListFoodcourtOrders pages through orders holding at least one item of the
// foodcourt that matches filter. The filter applies to item status.
func (s *OrderQueryService) ListFoodcourtOrders(ctx context.Context, actor Actor, foodcourtID uint, filter OrderFilter, page, limit int) (*FoodcourtOrderList, error) {
	if err := s.Permissions.Require(ctx, actor, foodcourtID, CapabilityViewOrders); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	page = utils.ClampPage(page)

	itemScope := func(db *gorm.DB) *gorm.DB {
		return db.Where("foodcourt_id = ?", foodcourtID).Scopes(filter.scope("status"))
	}
	orders := func() *gorm.DB {
		matching := s.DB.WithContext(ctx).Model(&models.OrderItem{}).Select("order_id").Scopes(itemScope)
		return s.DB.WithContext(ctx).Model(&models.Order{}).Where("id IN (?)", matching)
	}

	var total int64
	if err := orders().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count foodcourt orders: %w", err)
	}

	var rows []models.Order
	err := orders().
		Preload("Table").
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
			return db.Scopes(itemScope).Order("id")
		}).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list foodcourt orders: %w", err)
	}

	list := &FoodcourtOrderList{
		Orders:     make([]FoodcourtOrderView, 0, len(rows)),
		Pagination: utils.NewPagination(page, limit, total),
	}
	for _, o := range rows {
		list.Orders = append(list.Orders, foodcourtOrderView(o, o.OrderItems))
	}
	return list, nil
}

// GetOrderDetail returns the foodcourt's slice of an order plus the order's
// full status history. An order without items for this foodcourt is
// reported as not found.
func (s *OrderQueryService) GetOrderDetail(ctx context.Context, actor Actor, foodcourtID, orderID uint) (*FoodcourtOrderDetail, error) {
	if err := s.Permissions.Require(ctx, actor, foodcourtID, CapabilityViewOrders); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)

	var order models.Order
	if err := db.Preload("Table").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	var items []models.OrderItem
	if err := db.Where("order_id = ? AND foodcourt_id = ?", order.ID, foodcourtID).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrOrderNotFound
	}

	var logs []models.OrderLog
	if err := db.Preload("UpdatedBy").
		Where("order_id = ?", order.ID).
		Order("created_at, id").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("load order logs: %w", err)
	}

	detail := &FoodcourtOrderDetail{
		FoodcourtOrderView: foodcourtOrderView(order, items),
		Logs:               make([]OrderLogView, 0, len(logs)),
	}
	for _, l := range logs {
		detail.Logs = append(detail.Logs, OrderLogView{
			ID:             l.ID,
			OrderItemID:    l.OrderItemID,
			PreviousStatus: l.PreviousStatus,
			NewStatus:      l.NewStatus,
			UpdatedBy: LogActor{
				ID:   l.UpdatedBy.ID,
				Name: l.UpdatedBy.Name,
				Role: l.UpdatedBy.Role,
			},
			CreatedAt: l.CreatedAt,
		})
	}
	return detail, nil
}

// ListCustomerOrdersForTable is the public view of a table's orders, items
// grouped by foodcourt. The filter applies to order status.
func (s *OrderQueryService) ListCustomerOrdersForTable(ctx context.Context, tableID uint, filter OrderFilter, page, limit int) (*CustomerOrderList, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	page = utils.ClampPage(page)

	db := s.DB.WithContext(ctx)

	var table models.Table
	if err := db.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("load table: %w", err)
	}

	orders := func() *gorm.DB {
		return s.DB.WithContext(ctx).Model(&models.Order{}).
			Where("table_id = ?", table.ID).
			Scopes(filter.scope("status"))
	}

	var total int64
	if err := orders().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count table orders: %w", err)
	}

	var rows []models.Order
	err := orders().
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("OrderItems.Foodcourt").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list table orders: %w", err)
	}

	list := &CustomerOrderList{
		TableID:     table.ID,
		TableNumber: table.TableNumber,
		Orders:      make([]CustomerOrderView, 0, len(rows)),
		Pagination:  utils.NewPagination(page, limit, total),
	}
	for _, o := range rows {
		list.Orders = append(list.Orders, customerOrderView(o))
	}
	return list, nil
}

func orderItemView(it models.OrderItem) OrderItemView {
	return OrderItemView{
		ID:                  it.ID,
		MenuItemID:          it.MenuItemID,
		MenuItemName:        it.MenuItemName,
		Quantity:            it.Quantity,
		UnitPrice:           it.UnitPrice,
		UnitPriceFormatted:  utils.FormatCurrencyIDR(it.UnitPrice),
		Subtotal:            it.Subtotal,
		SubtotalFormatted:   utils.FormatCurrencyIDR(it.Subtotal),
		Status:              it.Status,
		SpecialInstructions: it.SpecialInstructions,
		UpdatedAt:           it.UpdatedAt,
	}
}

func foodcourtOrderView(o models.Order, items []models.OrderItem) FoodcourtOrderView {
	view := FoodcourtOrderView{
		OrderID:      o.ID,
		TableID:      o.TableID,
		TableNumber:  o.Table.TableNumber,
		CustomerName: o.CustomerName,
		OrderStatus:  o.Status,
		CreatedAt:    o.CreatedAt,
		Items:        make([]OrderItemView, 0, len(items)),
		Total:        decimal.Zero,
	}
	for _, it := range items {
		view.Items = append(view.Items, orderItemView(it))
		view.Total = view.Total.Add(it.Subtotal)
	}
	view.TotalFormatted = utils.FormatCurrencyIDR(view.Total)
	return view
}

func customerOrderView(o models.Order) CustomerOrderView {
	groups := make(map[uint]*CustomerFoodcourtGroup)
	total := decimal.Zero
	for _, it := range o.OrderItems {
		g, ok := groups[it.FoodcourtID]
		if !ok {
			g = &CustomerFoodcourtGroup{
				FoodcourtID:   it.FoodcourtID,
				FoodcourtName: it.Foodcourt.Name,
				Subtotal:      decimal.Zero,
			}
			groups[it.FoodcourtID] = g
		}
		g.Items = append(g.Items, orderItemView(it))
		g.Subtotal = g.Subtotal.Add(it.Subtotal)
		total = total.Add(it.Subtotal)
	}

	view := CustomerOrderView{
		OrderID:              o.ID,
		CustomerName:         o.CustomerName,
		Status:               o.Status,
		CreatedAt:            o.CreatedAt,
		Foodcourts:           make([]CustomerFoodcourtGroup, 0, len(groups)),
		TotalAmount:          total,
		TotalAmountFormatted: utils.FormatCurrencyIDR(total),
	}
	for _, g := range groups {
		g.SubtotalFormatted = utils.FormatCurrencyIDR(g.Subtotal)
		view.Foodcourts = append(view.Foodcourts, *g)
	}
	sort.Slice(view.Foodcourts, func(i, j int) bool {
		return view.Foodcourts[i].FoodcourtID < view.Foodcourts[j].FoodcourtID
	})
	return view
}
