package models

import "time"

// OwnerPermission is the capability grant of one owner on one foodcourt.
type OwnerPermission struct {
	OwnerID         uint      `gorm:"primaryKey;autoIncrement:false" json:"owner_id"`
	FoodcourtID     uint      `gorm:"primaryKey;autoIncrement:false" json:"foodcourt_id"`
	Owner           User      `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Foodcourt       Foodcourt `gorm:"foreignKey:FoodcourtID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CanEditMenu     bool      `gorm:"not null" json:"can_edit_menu"`
	CanViewOrders   bool      `gorm:"not null" json:"can_view_orders"`
	CanUpdateOrders bool      `gorm:"not null" json:"can_update_orders"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

// Settings snapshots the three flags.
func (p OwnerPermission) Settings() PermissionSettings {
	return PermissionSettings{
		CanEditMenu:     p.CanEditMenu,
		CanViewOrders:   p.CanViewOrders,
		CanUpdateOrders: p.CanUpdateOrders,
	}
}

type PermissionSettings struct {
	CanEditMenu     bool `json:"can_edit_menu"`
	CanViewOrders   bool `json:"can_view_orders"`
	CanUpdateOrders bool `json:"can_update_orders"`
}

// PermissionHistory is append-only. PreviousSettings is nil for the initial grant.
type PermissionHistory struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	OwnerID          uint                `gorm:"not null;index" json:"owner_id"`
	FoodcourtID      uint                `gorm:"not null;index" json:"foodcourt_id"`
	PreviousSettings *PermissionSettings `gorm:"type:text;serializer:json" json:"previous_settings"`
	NewSettings      PermissionSettings  `gorm:"type:text;serializer:json;not null" json:"new_settings"`
	ChangedByID      uint                `gorm:"not null" json:"changed_by_id"`
	ChangedBy        User                `gorm:"foreignKey:ChangedByID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedAt        time.Time           `gorm:"not null" json:"created_at"`
}
