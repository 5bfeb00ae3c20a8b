package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	FoodcourtID uint            `gorm:"not null;index" json:"foodcourt_id"`
	Foodcourt   Foodcourt       `gorm:"foreignKey:FoodcourtID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CategoryID  *uint           `gorm:"index" json:"category_id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	IsAvailable bool            `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}
