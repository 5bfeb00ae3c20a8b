package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem snapshots name and unit price of the menu item at creation.
// Subtotal is fixed once written.
type OrderItem struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	OrderID             uint            `gorm:"not null;index" json:"order_id"`
	Order               Order           `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	FoodcourtID         uint            `gorm:"not null;index" json:"foodcourt_id"`
	Foodcourt           Foodcourt       `gorm:"foreignKey:FoodcourtID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	MenuItemID          uint            `gorm:"not null" json:"menu_item_id"`
	MenuItem            MenuItem        `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	MenuItemName        string          `gorm:"type:varchar(255);not null" json:"menu_item_name"`
	Quantity            int             `gorm:"not null" json:"quantity"`
	UnitPrice           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Status              string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	SpecialInstructions string          `gorm:"type:text" json:"special_instructions"`
	CreatedAt           time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null" json:"updated_at"`
}
