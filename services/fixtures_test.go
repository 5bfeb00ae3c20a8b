package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/foodcourt-app/database"
	"github.com/yeremiapane/foodcourt-app/models"
	"github.com/yeremiapane/foodcourt-app/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	require.NoError(t, db.Omit(clause.Associations).Create(value).Error)
}

// fixture seeds two foodcourts:
//   - fcA owned by ownerA with no permission row (direct owner path)
//   - fcB owned by ownerB with an explicit permission row
//
// staff holds a view-only row on fcA; outsider has nothing.
type fixture struct {
	db *gorm.DB

	admin, ownerA, ownerB, staff, outsider models.User
	fcA, fcB                               models.Foodcourt
	table                                  models.Table
	nasi, ayam, esTeh                      models.MenuItem

	resolver  *services.PermissionResolver
	status    *services.OrderStatusService
	query     *services.OrderQueryService
	placement *services.OrderPlacementService
	events    *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	f := &fixture{db: db, events: &recordingPublisher{}}

	f.admin = models.User{Name: "Admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin}
	f.ownerA = models.User{Name: "Owner A", Email: "a@example.com", Password: "x", Role: models.RoleFoodcourtOwner}
	f.ownerB = models.User{Name: "Owner B", Email: "b@example.com", Password: "x", Role: models.RoleFoodcourtOwner}
	f.staff = models.User{Name: "Staff", Email: "staff@example.com", Password: "x", Role: models.RoleFoodcourtOwner}
	f.outsider = models.User{Name: "Outsider", Email: "out@example.com", Password: "x", Role: models.RoleFoodcourtOwner}
	for _, u := range []*models.User{&f.admin, &f.ownerA, &f.ownerB, &f.staff, &f.outsider} {
		mustCreate(t, db, u)
	}

	f.fcA = models.Foodcourt{Name: "Warung Nasi", IsActive: true, OwnerID: &f.ownerA.ID, CreatorID: f.admin.ID}
	f.fcB = models.Foodcourt{Name: "Kedai Es", IsActive: true, OwnerID: &f.ownerB.ID, CreatorID: f.admin.ID}
	mustCreate(t, db, &f.fcA)
	mustCreate(t, db, &f.fcB)

	mustCreate(t, db, &models.OwnerPermission{
		OwnerID: f.ownerB.ID, FoodcourtID: f.fcB.ID,
		CanEditMenu: true, CanViewOrders: true, CanUpdateOrders: true,
	})
	mustCreate(t, db, &models.OwnerPermission{
		OwnerID: f.staff.ID, FoodcourtID: f.fcA.ID,
		CanEditMenu: false, CanViewOrders: true, CanUpdateOrders: false,
	})

	f.table = models.Table{TableNumber: "A1", Capacity: 4, IsAvailable: true}
	mustCreate(t, db, &f.table)

	f.nasi = models.MenuItem{FoodcourtID: f.fcA.ID, Name: "Nasi Goreng", Price: decimal.RequireFromString("15000.00"), IsAvailable: true}
	f.ayam = models.MenuItem{FoodcourtID: f.fcA.ID, Name: "Ayam Bakar", Price: decimal.RequireFromString("7500.50"), IsAvailable: true}
	f.esTeh = models.MenuItem{FoodcourtID: f.fcB.ID, Name: "Es Teh", Price: decimal.RequireFromString("5000.00"), IsAvailable: true}
	for _, m := range []*models.MenuItem{&f.nasi, &f.ayam, &f.esTeh} {
		mustCreate(t, db, m)
	}

	f.resolver = services.NewPermissionResolver(db)
	f.status = services.NewOrderStatusService(db, f.resolver, f.events)
	f.query = services.NewOrderQueryService(db, f.resolver)
	f.placement = services.NewOrderPlacementService(db, f.events)
	return f
}

func actorOf(u models.User) services.Actor {
	return services.Actor{UserID: u.ID, Role: u.Role}
}

// placeOrder places an order at the fixture table; each menu item is ordered once
// unless quantities are given in the same order.
func (f *fixture) placeOrder(t *testing.T, items []models.MenuItem, quantities ...int) *models.Order {
	t.Helper()
	req := services.PlaceOrderRequest{TableID: f.table.ID, CustomerName: "Budi"}
	for i, m := range items {
		qty := 1
		if i < len(quantities) {
			qty = quantities[i]
		}
		req.Items = append(req.Items, services.PlaceOrderItemRequest{MenuItemID: m.ID, Quantity: qty})
	}
	order, err := f.placement.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	return order
}

func (f *fixture) reloadOrder(t *testing.T, id uint) models.Order {
	t.Helper()
	var o models.Order
	require.NoError(t, f.db.First(&o, id).Error)
	return o
}

func (f *fixture) reloadItem(t *testing.T, id uint) models.OrderItem {
	t.Helper()
	var it models.OrderItem
	require.NoError(t, f.db.First(&it, id).Error)
	return it
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []services.OrderEvent
}

func (p *recordingPublisher) PublishOrderEvent(evt services.OrderEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) ofType(eventType string) []services.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []services.OrderEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
