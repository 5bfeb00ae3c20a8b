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

// PermissionOverrides changes only the flags that are set.
type PermissionOverrides struct {
	CanEditMenu     *bool `json:"can_edit_menu"`
	CanViewOrders   *bool `json:"can_view_orders"`
	CanUpdateOrders *bool `json:"can_update_orders"`
}

func (o *PermissionOverrides) apply(p *models.OwnerPermission) {
	if o == nil {
		return
	}
	if o.CanEditMenu != nil {
		p.CanEditMenu = *o.CanEditMenu
	}
	if o.CanViewOrders != nil {
		p.CanViewOrders = *o.CanViewOrders
	}
	if o.CanUpdateOrders != nil {
		p.CanUpdateOrders = *o.CanUpdateOrders
	}
}

type PermissionHistoryView struct {
	ID               uint                       `json:"id"`
	OwnerID          uint                       `json:"owner_id"`
	FoodcourtID      uint                       `json:"foodcourt_id"`
	PreviousSettings *models.PermissionSettings `json:"previous_settings"`
	NewSettings      models.PermissionSettings  `json:"new_settings"`
	ChangedBy        LogActor                   `json:"changed_by"`
	CreatedAt        time.Time                  `json:"created_at"`
}

// OwnershipService assigns owners to foodcourts and manages their
// permission rows. Every create or update of a permission row appends a
// PermissionHistory entry in the same transaction.
type OwnershipService struct {
	DB *gorm.DB
}

func NewOwnershipService(db *gorm.DB) *OwnershipService {
	return &OwnershipService{DB: db}
}

func requireAdmin(actor Actor) error {
	if !actor.IsAdmin() {
		permissionDenials.WithLabelValues(string(CapabilityManageOwners)).Inc()
		return &ForbiddenError{Capability: CapabilityManageOwners}
	}
	return nil
}

func lockFoodcourt(tx *gorm.DB, foodcourtID uint) (*models.Foodcourt, error) {
	var fc models.Foodcourt
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&fc, foodcourtID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodcourtNotFound
		}
		return nil, fmt.Errorf("load foodcourt: %w", err)
	}
	return &fc, nil
}

// AssignOwner makes ownerID the owner of the foodcourt. All three
// capabilities default to granted unless overridden.
func (s *OwnershipService) AssignOwner(ctx context.Context, actor Actor, foodcourtID, ownerID uint, overrides *PermissionOverrides) (*models.OwnerPermission, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var perm models.OwnerPermission
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fc, err := lockFoodcourt(tx, foodcourtID)
		if err != nil {
			return err
		}
		if fc.OwnerID != nil {
			return ErrFoodcourtHasOwner
		}

		var owner models.User
		if err := tx.First(&owner, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load owner: %w", err)
		}
		if owner.Role != models.RoleFoodcourtOwner {
			return ErrInvalidOwner
		}

		var owned int64
		if err := tx.Model(&models.Foodcourt{}).Where("owner_id = ?", owner.ID).Count(&owned).Error; err != nil {
			return fmt.Errorf("count owned foodcourts: %w", err)
		}
		if owned > 0 {
			return ErrOwnerHasFoodcourt
		}

		if err := tx.Model(&models.Foodcourt{}).Where("id = ?", fc.ID).
			Updates(map[string]interface{}{"owner_id": owner.ID, "updated_at": time.Now()}).Error; err != nil {
			return fmt.Errorf("assign owner: %w", err)
		}

		// a row can survive only if it was written outside unassignment
		var previous *models.PermissionSettings
		var existing models.OwnerPermission
		err = tx.Where("owner_id = ? AND foodcourt_id = ?", owner.ID, fc.ID).Take(&existing).Error
		switch {
		case err == nil:
			settings := existing.Settings()
			previous = &settings
			perm = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			perm = models.OwnerPermission{OwnerID: owner.ID, FoodcourtID: fc.ID}
		default:
			return fmt.Errorf("load owner permission: %w", err)
		}

		perm.CanEditMenu, perm.CanViewOrders, perm.CanUpdateOrders = true, true, true
		overrides.apply(&perm)
		return savePermission(tx, actor, &perm, previous)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"foodcourt_id": foodcourtID,
		"owner_id":     ownerID,
		"actor_id":     actor.UserID,
	}).Info("foodcourt owner assigned")
	return &perm, nil
}

// UnassignOwner clears the foodcourt's owner and deletes every permission
// row on that foodcourt.
func (s *OwnershipService) UnassignOwner(ctx context.Context, actor Actor, foodcourtID uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	var previousOwner uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fc, err := lockFoodcourt(tx, foodcourtID)
		if err != nil {
			return err
		}
		if fc.OwnerID == nil {
			return ErrNoOwnerAssigned
		}
		previousOwner = *fc.OwnerID

		if err := tx.Model(&models.Foodcourt{}).Where("id = ?", fc.ID).
			Updates(map[string]interface{}{"owner_id": nil, "updated_at": time.Now()}).Error; err != nil {
			return fmt.Errorf("unassign owner: %w", err)
		}
		if err := tx.Where("foodcourt_id = ?", fc.ID).Delete(&models.OwnerPermission{}).Error; err != nil {
			return fmt.Errorf("delete owner permissions: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"foodcourt_id": foodcourtID,
		"owner_id":     previousOwner,
		"actor_id":     actor.UserID,
	}).Info("foodcourt owner unassigned")
	return nil
}

// UpdatePermissions changes the flags of the current owner's row.
func (s *OwnershipService) UpdatePermissions(ctx context.Context, actor Actor, foodcourtID uint, overrides PermissionOverrides) (*models.OwnerPermission, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var perm models.OwnerPermission
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fc, err := lockFoodcourt(tx, foodcourtID)
		if err != nil {
			return err
		}
		if fc.OwnerID == nil {
			return ErrNoOwnerAssigned
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_id = ? AND foodcourt_id = ?", *fc.OwnerID, fc.ID).
			Take(&perm).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPermissionNotFound
			}
			return fmt.Errorf("load owner permission: %w", err)
		}

		previous := perm.Settings()
		overrides.apply(&perm)
		return savePermission(tx, actor, &perm, &previous)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"foodcourt_id": foodcourtID,
		"owner_id":     perm.OwnerID,
		"actor_id":     actor.UserID,
	}).Info("owner permissions updated")
	return &perm, nil
}

func savePermission(tx *gorm.DB, actor Actor, perm *models.OwnerPermission, previous *models.PermissionSettings) error {
	now := time.Now()
	perm.UpdatedAt = now
	if previous == nil {
		perm.CreatedAt = now
		if err := tx.Omit(clause.Associations).Create(perm).Error; err != nil {
			return fmt.Errorf("create owner permission: %w", err)
		}
	} else {
		if err := tx.Model(&models.OwnerPermission{}).
			Where("owner_id = ? AND foodcourt_id = ?", perm.OwnerID, perm.FoodcourtID).
			Updates(map[string]interface{}{
				"can_edit_menu":     perm.CanEditMenu,
				"can_view_orders":   perm.CanViewOrders,
				"can_update_orders": perm.CanUpdateOrders,
				"updated_at":        now,
			}).Error; err != nil {
			return fmt.Errorf("update owner permission: %w", err)
		}
	}

	history := models.PermissionHistory{
		OwnerID:          perm.OwnerID,
		FoodcourtID:      perm.FoodcourtID,
		PreviousSettings: previous,
		NewSettings:      perm.Settings(),
		ChangedByID:      actor.UserID,
		CreatedAt:        now,
	}
	if err := tx.Omit(clause.Associations).Create(&history).Error; err != nil {
		return fmt.Errorf("create permission history: %w", err)
	}
	return nil
}

// ListPermissionHistory returns the foodcourt's permission changes, newest first.
func (s *OwnershipService) ListPermissionHistory(ctx context.Context, actor Actor, foodcourtID uint) ([]PermissionHistoryView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Foodcourt{}).Where("id = ?", foodcourtID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("load foodcourt: %w", err)
	}
	if count == 0 {
		return nil, ErrFoodcourtNotFound
	}

	var rows []models.PermissionHistory
	if err := db.Preload("ChangedBy").
		Where("foodcourt_id = ?", foodcourtID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list permission history: %w", err)
	}

	views := make([]PermissionHistoryView, 0, len(rows))
	for _, h := range rows {
		views = append(views, PermissionHistoryView{
			ID:               h.ID,
			OwnerID:          h.OwnerID,
			FoodcourtID:      h.FoodcourtID,
			PreviousSettings: h.PreviousSettings,
			NewSettings:      h.NewSettings,
			ChangedBy: LogActor{
				ID:   h.ChangedBy.ID,
				Name: h.ChangedBy.Name,
				Role: h.ChangedBy.Role,
			},
			CreatedAt: h.CreatedAt,
		})
	}
	return views, nil
}
