package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeremiapane/foodcourt-app/models"
)

type Capability string

const (
	CapabilityViewOrders   Capability = "view_orders"
	CapabilityUpdateOrders Capability = "update_orders"
	CapabilityEditMenu     Capability = "edit_menu"
	// admin only, never granted through OwnerPermission
	CapabilityManageOwners Capability = "manage_owners"
)

func (c Capability) Description() string {
	switch c {
	case CapabilityViewOrders:
		return "view orders"
	case CapabilityUpdateOrders:
		return "update orders"
	case CapabilityEditMenu:
		return "edit the menu"
	case CapabilityManageOwners:
		return "manage owners"
	default:
		return string(c)
	}
}

// ownerGrantable reports whether c can be held by anyone other than an admin.
func (c Capability) ownerGrantable() bool {
	switch c {
	case CapabilityViewOrders, CapabilityUpdateOrders, CapabilityEditMenu:
		return true
	default:
		return false
	}
}

// granted reads the flag matching c from an OwnerPermission row.
func (c Capability) granted(p models.OwnerPermission) bool {
	switch c {
	case CapabilityViewOrders:
		return p.CanViewOrders
	case CapabilityUpdateOrders:
		return p.CanUpdateOrders
	case CapabilityEditMenu:
		return p.CanEditMenu
	default:
		return false
	}
}

// Actor is the authenticated caller as supplied by the session layer.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// PermissionResolver decides whether an actor may use a capability on a
// foodcourt. It never writes.
type PermissionResolver struct {
	DB *gorm.DB
}

func NewPermissionResolver(db *gorm.DB) *PermissionResolver {
	return &PermissionResolver{DB: db}
}

// Can resolves in order: admin, direct owner of the foodcourt, then the
// (owner, foodcourt) permission row. A missing row denies.
func (r *PermissionResolver) Can(ctx context.Context, actor Actor, foodcourtID uint, capability Capability) (bool, error) {
	var foodcourt models.Foodcourt
	if err := r.DB.WithContext(ctx).Select("id", "owner_id").First(&foodcourt, foodcourtID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrFoodcourtNotFound
		}
		return false, fmt.Errorf("load foodcourt: %w", err)
	}

	if actor.IsAdmin() {
		return true, nil
	}
	if actor.UserID == 0 || !capability.ownerGrantable() {
		return false, nil
	}
	if foodcourt.OwnerID != nil && *foodcourt.OwnerID == actor.UserID {
		return true, nil
	}

	var perm models.OwnerPermission
	err := r.DB.WithContext(ctx).
		Where("owner_id = ? AND foodcourt_id = ?", actor.UserID, foodcourt.ID).
		Take(&perm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load owner permission: %w", err)
	}
	return capability.granted(perm), nil
}

// Require is Can with denial turned into a *ForbiddenError.
func (r *PermissionResolver) Require(ctx context.Context, actor Actor, foodcourtID uint, capability Capability) error {
	ok, err := r.Can(ctx, actor, foodcourtID, capability)
	if err != nil {
		return err
	}
	if !ok {
		permissionDenials.WithLabelValues(string(capability)).Inc()
		return &ForbiddenError{Capability: capability}
	}
	return nil
}
