package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeremiapane/foodcourt-app/models"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// TakeUndisplayed returns the table's pending notifications, oldest first,
// and marks them displayed. A notification is returned at most once.
func (s *NotificationService) TakeUndisplayed(ctx context.Context, tableID uint) ([]models.OrderNotification, error) {
	var notifs []models.OrderNotification
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.Select("id").First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return fmt.Errorf("load table: %w", err)
		}

		tableOrders := tx.Model(&models.Order{}).Select("id").Where("table_id = ?", table.ID)
		if err := tx.Where("order_id IN (?) AND is_displayed = ?", tableOrders, false).
			Order("created_at, id").
			Find(&notifs).Error; err != nil {
			return fmt.Errorf("load notifications: %w", err)
		}
		if len(notifs) == 0 {
			return nil
		}

		ids := make([]uint, len(notifs))
		for i, n := range notifs {
			ids[i] = n.ID
		}
		res := tx.Model(&models.OrderNotification{}).
			Where("id IN ? AND is_displayed = ?", ids, false).
			Update("is_displayed", true)
		if res.Error != nil {
			return fmt.Errorf("mark notifications displayed: %w", res.Error)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i := range notifs {
		notifs[i].IsDisplayed = true
	}
	return notifs, nil
}
