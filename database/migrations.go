package database

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/yeremiapane/foodcourt-app/models"
	"github.com/yeremiapane/foodcourt-app/utils"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Foodcourt{},
		&models.OwnerPermission{},
		&models.PermissionHistory{},
		&models.Table{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderLog{},
		&models.OrderNotification{},
	}
}

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202601010001_initial_schema",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(Models()...)
			},
			Rollback: func(tx *gorm.DB) error {
				all := Models()
				for i := len(all) - 1; i >= 0; i-- {
					if err := tx.Migrator().DropTable(all[i]); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			// history listing filters by foodcourt and sorts by time
			ID: "202601150001_permission_history_index",
			Migrate: func(tx *gorm.DB) error {
				if tx.Migrator().HasIndex(&models.PermissionHistory{}, "idx_permission_histories_fc_created") {
					return nil
				}
				return tx.Exec("CREATE INDEX idx_permission_histories_fc_created ON permission_histories (foodcourt_id, created_at)").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropIndex(&models.PermissionHistory{}, "idx_permission_histories_fc_created")
			},
		},
	}
}

// Migrate brings the schema to the latest version. A clean database is
// initialised in one step.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	m.InitSchema(func(tx *gorm.DB) error {
		utils.InfoLogger.Println("clean database detected, running full schema initialization")
		if err := tx.AutoMigrate(Models()...); err != nil {
			return err
		}
		return tx.Exec("CREATE INDEX idx_permission_histories_fc_created ON permission_histories (foodcourt_id, created_at)").Error
	})
	if err := m.Migrate(); err != nil {
		return err
	}
	utils.InfoLogger.Println("Migration completed.")
	return nil
}
