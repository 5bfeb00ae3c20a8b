package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/foodcourt-app/services"
	"github.com/yeremiapane/foodcourt-app/utils"
)

// AdminController manages foodcourt ownership and owner permissions.
type AdminController struct {
	Ownership *services.OwnershipService
}

func NewAdminController(ownership *services.OwnershipService) *AdminController {
	return &AdminController{Ownership: ownership}
}

// AssignOwner -> PUT /admin/foodcourts/:foodcourt_id/owner
func (ac *AdminController) AssignOwner(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	foodcourtID, ok := parseIDParam(c, "foodcourt_id")
	if !ok {
		return
	}

	var body struct {
		OwnerID     uint                          `json:"owner_id" binding:"required"`
		Permissions *services.PermissionOverrides `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	perm, err := ac.Ownership.AssignOwner(c.Request.Context(), actor, foodcourtID, body.OwnerID, body.Permissions)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Owner assigned", perm)
}

// UnassignOwner -> DELETE /admin/foodcourts/:foodcourt_id/owner
func (ac *AdminController) UnassignOwner(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	foodcourtID, ok := parseIDParam(c, "foodcourt_id")
	if !ok {
		return
	}

	if err := ac.Ownership.UnassignOwner(c.Request.Context(), actor, foodcourtID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Owner unassigned", gin.H{"foodcourt_id": foodcourtID})
}

// UpdatePermissions -> PATCH /admin/foodcourts/:foodcourt_id/permissions
func (ac *AdminController) UpdatePermissions(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	foodcourtID, ok := parseIDParam(c, "foodcourt_id")
	if !ok {
		return
	}

	var body services.PermissionOverrides
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	perm, err := ac.Ownership.UpdatePermissions(c.Request.Context(), actor, foodcourtID, body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Permissions updated", perm)
}

// GetPermissionHistory -> GET /admin/foodcourts/:foodcourt_id/permissions/history
func (ac *AdminController) GetPermissionHistory(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	foodcourtID, ok := parseIDParam(c, "foodcourt_id")
	if !ok {
		return
	}

	history, err := ac.Ownership.ListPermissionHistory(c.Request.Context(), actor, foodcourtID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Permission history", history)
}
