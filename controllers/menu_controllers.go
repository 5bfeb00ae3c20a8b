package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/foodcourt-app/services"
	"github.com/yeremiapane/foodcourt-app/utils"
)

type MenuController struct {
	Menu *services.MenuService
}

func NewMenuController(menu *services.MenuService) *MenuController {
	return &MenuController{Menu: menu}
}

// CreateMenuItem -> POST /foodcourt/:foodcourt_id/menu
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	foodcourtID, ok := parseIDParam(c, "foodcourt_id")
	if !ok {
		return
	}

	var body struct {
		Name        string          `json:"name" binding:"required"`
		Price       decimal.Decimal `json:"price"`
		CategoryID  *uint           `json:"category_id"`
		IsAvailable *bool           `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Menu.CreateMenuItem(c.Request.Context(), actor, foodcourtID, services.CreateMenuItemRequest{
		Name:        body.Name,
		Price:       body.Price,
		CategoryID:  body.CategoryID,
		IsAvailable: body.IsAvailable,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem -> PATCH /foodcourt/:foodcourt_id/menu/:menu_item_id
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	foodcourtID, ok := parseIDParam(c, "foodcourt_id")
	if !ok {
		return
	}
	menuItemID, ok := parseIDParam(c, "menu_item_id")
	if !ok {
		return
	}

	var body struct {
		Name        *string          `json:"name"`
		Price       *decimal.Decimal `json:"price"`
		CategoryID  *uint            `json:"category_id"`
		IsAvailable *bool            `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Menu.UpdateMenuItem(c.Request.Context(), actor, foodcourtID, menuItemID, services.UpdateMenuItemRequest{
		Name:        body.Name,
		Price:       body.Price,
		CategoryID:  body.CategoryID,
		IsAvailable: body.IsAvailable,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// GetFoodcourtMenu -> GET /public/foodcourts/:foodcourt_id/menu
func (mc *MenuController) GetFoodcourtMenu(c *gin.Context) {
	foodcourtID, ok := parseIDParam(c, "foodcourt_id")
	if !ok {
		return
	}

	items, err := mc.Menu.ListAvailableMenu(c.Request.Context(), foodcourtID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", items)
}
