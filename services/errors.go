package services

import (
	"errors"
	"fmt"
)

// Errors returned by the services.
var (
	ErrFoodcourtNotFound   = errors.New("foodcourt not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderItemNotFound   = errors.New("order item not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidStatus       = errors.New("invalid status value")
	ErrTerminalState       = errors.New("order item is already in a terminal state")
	ErrEmptyItems          = errors.New("items are required")
	ErrInvalidQuantity     = errors.New("quantity must be > 0")
	ErrInvalidPrice        = errors.New("price must be >= 0")
	ErrInvalidName         = errors.New("name is required")
	ErrMenuItemUnavailable = errors.New("menu item is not available")
	ErrInvalidOwner        = errors.New("user is not a foodcourt owner")
	ErrFoodcourtHasOwner   = errors.New("foodcourt already has an owner")
	ErrOwnerHasFoodcourt   = errors.New("owner is already assigned to another foodcourt")
	ErrNoOwnerAssigned     = errors.New("foodcourt has no owner assigned")
	ErrPermissionNotFound  = errors.New("owner permission not found")
)

// ForbiddenError is returned when the resolver denies a capability.
type ForbiddenError struct {
	Capability Capability
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("You don't have permission to %s for this foodcourt", e.Capability.Description())
}
