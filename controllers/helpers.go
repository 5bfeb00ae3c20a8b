package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/foodcourt-app/middlewares"
	"github.com/yeremiapane/foodcourt-app/services"
	"github.com/yeremiapane/foodcourt-app/utils"
)

var ErrUnauthorized = errors.New("unauthorized")

func actorFromContext(c *gin.Context) (services.Actor, bool) {
	userID := c.GetUint(middlewares.ContextUserID)
	role := c.GetString(middlewares.ContextRole)
	if userID == 0 || role == "" {
		return services.Actor{}, false
	}
	return services.Actor{UserID: userID, Role: role}, true
}

// requireActor responds 401 when the request carries no session.
func requireActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrUnauthorized)
	}
	return actor, ok
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps service errors onto HTTP status codes.
func respondServiceError(c *gin.Context, err error) {
	var forbidden *services.ForbiddenError
	switch {
	case errors.As(err, &forbidden):
		utils.RespondError(c, http.StatusForbidden, forbidden)
	case errors.Is(err, services.ErrFoodcourtNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrOrderItemNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrMenuItemNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPermissionNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrTerminalState),
		errors.Is(err, services.ErrEmptyItems),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrInvalidName),
		errors.Is(err, services.ErrMenuItemUnavailable),
		errors.Is(err, services.ErrInvalidOwner),
		errors.Is(err, services.ErrNoOwnerAssigned):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrFoodcourtHasOwner),
		errors.Is(err, services.ErrOwnerHasFoodcourt):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondInternalError(c, err)
	}
}

func parseOrderFilter(c *gin.Context) services.OrderFilter {
	return services.OrderFilter{
		ActiveOnly:  queryBool(c, "activeOnly"),
		HistoryOnly: queryBool(c, "historyOnly"),
		Status:      c.Query("status"),
	}
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
