package models

import "time"

// OrderLog is an append-only status audit row. A nil OrderItemID marks an
// order-level transition.
type OrderLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderID        uint      `gorm:"not null;index" json:"order_id"`
	Order          Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	OrderItemID    *uint     `gorm:"index" json:"order_item_id"`
	PreviousStatus string    `gorm:"type:varchar(20);not null" json:"previous_status"`
	NewStatus      string    `gorm:"type:varchar(20);not null" json:"new_status"`
	UpdatedByID    uint      `gorm:"not null" json:"updated_by_id"`
	UpdatedBy      User      `gorm:"foreignKey:UpdatedByID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}
