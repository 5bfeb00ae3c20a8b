package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/foodcourt-app/services"
	"github.com/yeremiapane/foodcourt-app/utils"
)

type OrderController struct {
	Status *services.OrderStatusService
	Query  *services.OrderQueryService
}

func NewOrderController(status *services.OrderStatusService, query *services.OrderQueryService) *OrderController {
	return &OrderController{Status: status, Query: query}
}

type orderItemStatusResponse struct {
	ID          uint      `json:"id"`
	Status      string    `json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
	OrderID     uint      `json:"order_id"`
	OrderStatus string    `json:"order_status"`
}

// UpdateOrderItemStatus -> PATCH /foodcourt/:foodcourt_id/orderitems/:item_id/status
func (oc *OrderController) UpdateOrderItemStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	foodcourtID, ok := parseIDParam(c, "foodcourt_id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, services.ErrInvalidStatus)
		return
	}

	result, err := oc.Status.TransitionItem(c.Request.Context(), actor, foodcourtID, itemID, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order item status updated", orderItemStatusResponse{
		ID:          result.Item.ID,
		Status:      result.Item.Status,
		UpdatedAt:   result.Item.UpdatedAt,
		OrderID:     result.Item.OrderID,
		OrderStatus: result.OrderStatus,
	})
}

// GetFoodcourtOrders -> GET /foodcourt/:foodcourt_id/orders
func (oc *OrderController) GetFoodcourtOrders(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	foodcourtID, ok := parseIDParam(c, "foodcourt_id")
	if !ok {
		return
	}
	page, limit := utils.ParsePagination(c)

	list, err := oc.Query.ListFoodcourtOrders(c.Request.Context(), actor, foodcourtID, parseOrderFilter(c), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Foodcourt orders", list)
}

// GetFoodcourtOrderDetail -> GET /foodcourt/:foodcourt_id/orders/:order_id
func (oc *OrderController) GetFoodcourtOrderDetail(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	foodcourtID, ok := parseIDParam(c, "foodcourt_id")
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "order_id")
	if !ok {
		return
	}

	detail, err := oc.Query.GetOrderDetail(c.Request.Context(), actor, foodcourtID, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", detail)
}

// GetTableOrders -> GET /public/tables/:table_id/orders, no auth
func (oc *OrderController) GetTableOrders(c *gin.Context) {
	tableID, ok := parseIDParam(c, "table_id")
	if !ok {
		return
	}
	page, limit := utils.ParsePagination(c)

	list, err := oc.Query.ListCustomerOrdersForTable(c.Request.Context(), tableID, parseOrderFilter(c), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table orders", list)
}
