package models

import (
	"time"
)

type OrderNotification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	Order       Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	OrderItemID *uint     `json:"order_item_id,omitempty"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	IsDisplayed bool      `gorm:"not null;index" json:"is_displayed"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}
