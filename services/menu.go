package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/foodcourt-app/models"
	"github.com/yeremiapane/foodcourt-app/utils"
)

type CreateMenuItemRequest struct {
	Name        string
	Price       decimal.Decimal
	CategoryID  *uint
	IsAvailable *bool
}

type UpdateMenuItemRequest struct {
	Name        *string
	Price       *decimal.Decimal
	CategoryID  *uint
	IsAvailable *bool
}

type MenuItemView struct {
	ID             uint            `json:"id"`
	FoodcourtID    uint            `json:"foodcourt_id"`
	CategoryID     *uint           `json:"category_id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	PriceFormatted string          `json:"price_formatted"`
	IsAvailable    bool            `json:"is_available"`
}

// MenuService edits a foodcourt's menu. Price changes never touch existing
// order items, which keep the price they were ordered at.
type MenuService struct {
	DB          *gorm.DB
	Permissions *PermissionResolver
}

func NewMenuService(db *gorm.DB, permissions *PermissionResolver) *MenuService {
	return &MenuService{DB: db, Permissions: permissions}
}

func (s *MenuService) CreateMenuItem(ctx context.Context, actor Actor, foodcourtID uint, req CreateMenuItemRequest) (*models.MenuItem, error) {
	if err := s.Permissions.Require(ctx, actor, foodcourtID, CapabilityEditMenu); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	now := time.Now()
	item := models.MenuItem{
		FoodcourtID: foodcourtID,
		CategoryID:  req.CategoryID,
		Name:        name,
		Price:       req.Price.Round(2),
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}

	utils.InfoLogger.Printf("Menu item created: %s (foodcourt=%d)", item.Name, foodcourtID)
	return &item, nil
}

func (s *MenuService) UpdateMenuItem(ctx context.Context, actor Actor, foodcourtID, menuItemID uint, req UpdateMenuItemRequest) (*models.MenuItem, error) {
	if err := s.Permissions.Require(ctx, actor, foodcourtID, CapabilityEditMenu); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var item models.MenuItem
	if err := db.Where("id = ? AND foodcourt_id = ?", menuItemID, foodcourtID).Take(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("load menu item: %w", err)
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		updates["name"] = name
		item.Name = name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		item.Price = req.Price.Round(2)
		updates["price"] = item.Price
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
		item.CategoryID = req.CategoryID
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
		item.IsAvailable = *req.IsAvailable
	}

	if err := db.Model(&models.MenuItem{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	item.UpdatedAt = updates["updated_at"].(time.Time)
	return &item, nil
}

// ListAvailableMenu is the public menu of an active foodcourt.
func (s *MenuService) ListAvailableMenu(ctx context.Context, foodcourtID uint) ([]MenuItemView, error) {
	db := s.DB.WithContext(ctx)

	var fc models.Foodcourt
	if err := db.Where("id = ? AND is_active = ?", foodcourtID, true).Take(&fc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodcourtNotFound
		}
		return nil, fmt.Errorf("load foodcourt: %w", err)
	}

	var items []models.MenuItem
	if err := db.Where("foodcourt_id = ? AND is_available = ?", fc.ID, true).
		Order("name").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}

	views := make([]MenuItemView, 0, len(items))
	for _, it := range items {
		views = append(views, MenuItemView{
			ID:             it.ID,
			FoodcourtID:    it.FoodcourtID,
			CategoryID:     it.CategoryID,
			Name:           it.Name,
			Price:          it.Price,
			PriceFormatted: utils.FormatCurrencyIDR(it.Price),
			IsAvailable:    it.IsAvailable,
		})
	}
	return views, nil
}
