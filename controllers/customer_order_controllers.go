package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/foodcourt-app/services"
	"github.com/yeremiapane/foodcourt-app/utils"
)

type CustomerOrderController struct {
	Placement     *services.OrderPlacementService
	Notifications *services.NotificationService
}

func NewCustomerOrderController(placement *services.OrderPlacementService, notifications *services.NotificationService) *CustomerOrderController {
	return &CustomerOrderController{Placement: placement, Notifications: notifications}
}

// CreateOrder -> POST /public/tables/:table_id/orders
func (cc *CustomerOrderController) CreateOrder(c *gin.Context) {
	tableID, ok := parseIDParam(c, "table_id")
	if !ok {
		return
	}

	type itemReq struct {
		MenuItemID          uint   `json:"menu_item_id" binding:"required"`
		Quantity            int    `json:"quantity" binding:"required"`
		SpecialInstructions string `json:"special_instructions"`
	}
	var body struct {
		CustomerName string    `json:"customer_name"`
		Items        []itemReq `json:"items" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	req := services.PlaceOrderRequest{
		TableID:      tableID,
		CustomerName: body.CustomerName,
		Items:        make([]services.PlaceOrderItemRequest, 0, len(body.Items)),
	}
	for _, it := range body.Items {
		req.Items = append(req.Items, services.PlaceOrderItemRequest{
			MenuItemID:          it.MenuItemID,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
		})
	}

	order, err := cc.Placement.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetTableNotifications -> GET /public/tables/:table_id/notifications
func (cc *CustomerOrderController) GetTableNotifications(c *gin.Context) {
	tableID, ok := parseIDParam(c, "table_id")
	if !ok {
		return
	}

	notifs, err := cc.Notifications.TakeUndisplayed(c.Request.Context(), tableID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications", notifs)
}
