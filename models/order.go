package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status is derived from its items: it only changes when every item
// shares one status.
type Order struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	TableID      uint            `gorm:"not null;index" json:"table_id"`
	Table        Table           `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CustomerName string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status       string          `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt    time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
	OrderItems   []OrderItem     `gorm:"foreignKey:OrderID" json:"order_items,omitempty"`
}
