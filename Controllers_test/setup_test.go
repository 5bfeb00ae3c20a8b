package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/foodcourt-app/database"
	"github.com/yeremiapane/foodcourt-app/models"
	"github.com/yeremiapane/foodcourt-app/router"
	"github.com/yeremiapane/foodcourt-app/utils"
)

const testPassword = "rahasia123"

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	tokens *utils.TokenManager

	admin, ownerA, ownerB, staff models.User
	fcA, fcB                     models.Foodcourt
	table                        models.Table
	nasi, ayam, esTeh            models.MenuItem
}

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

func create(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	require.NoError(t, db.Omit(clause.Associations).Create(value).Error)
}

// newTestEnv seeds fcA (owned by ownerA directly) and fcB (owned by ownerB
// with a permission row). staff can only view fcA's orders.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	db := setupTestDB(t)
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	e := &testEnv{db: db, tokens: utils.NewTokenManager("test-secret", time.Hour)}

	e.admin = models.User{Name: "Admin", Email: "admin@foodcourt.test", Password: string(hash), Role: models.RoleAdmin}
	e.ownerA = models.User{Name: "Owner A", Email: "a@foodcourt.test", Password: string(hash), Role: models.RoleFoodcourtOwner}
	e.ownerB = models.User{Name: "Owner B", Email: "b@foodcourt.test", Password: string(hash), Role: models.RoleFoodcourtOwner}
	e.staff = models.User{Name: "Staff", Email: "staff@foodcourt.test", Password: string(hash), Role: models.RoleFoodcourtOwner}
	for _, u := range []*models.User{&e.admin, &e.ownerA, &e.ownerB, &e.staff} {
		create(t, db, u)
	}

	e.fcA = models.Foodcourt{Name: "Warung Nasi", IsActive: true, OwnerID: &e.ownerA.ID, CreatorID: e.admin.ID}
	e.fcB = models.Foodcourt{Name: "Kedai Es", IsActive: true, OwnerID: &e.ownerB.ID, CreatorID: e.admin.ID}
	create(t, db, &e.fcA)
	create(t, db, &e.fcB)
	create(t, db, &models.OwnerPermission{OwnerID: e.ownerB.ID, FoodcourtID: e.fcB.ID, CanEditMenu: true, CanViewOrders: true, CanUpdateOrders: true})
	create(t, db, &models.OwnerPermission{OwnerID: e.staff.ID, FoodcourtID: e.fcA.ID, CanViewOrders: true})

	e.table = models.Table{TableNumber: "A1", Capacity: 4, IsAvailable: true}
	create(t, db, &e.table)

	e.nasi = models.MenuItem{FoodcourtID: e.fcA.ID, Name: "Nasi Goreng", Price: decimal.RequireFromString("15000.00"), IsAvailable: true}
	e.ayam = models.MenuItem{FoodcourtID: e.fcA.ID, Name: "Ayam Bakar", Price: decimal.RequireFromString("7500.50"), IsAvailable: true}
	e.esTeh = models.MenuItem{FoodcourtID: e.fcB.ID, Name: "Es Teh", Price: decimal.RequireFromString("5000.00"), IsAvailable: true}
	for _, m := range []*models.MenuItem{&e.nasi, &e.ayam, &e.esTeh} {
		create(t, db, m)
	}

	e.router = router.SetupRouter(router.Options{DB: db, Tokens: e.tokens})
	return e
}

func (e *testEnv) token(t *testing.T, u models.User) string {
	t.Helper()
	tok, err := e.tokens.GenerateToken(u.ID, u.Role)
	require.NoError(t, err)
	return tok
}

// do sends a JSON request and decodes the response envelope.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

// placeOrder goes through the public endpoint and returns the order id and
// its item ids in request order.
func (e *testEnv) placeOrder(t *testing.T, items map[uint]int, order ...uint) (uint, []uint) {
	t.Helper()
	var reqItems []map[string]interface{}
	for _, id := range order {
		reqItems = append(reqItems, map[string]interface{}{"menu_item_id": id, "quantity": items[id]})
	}
	w, resp := e.do(t, http.MethodPost, fmt.Sprintf("/public/tables/%d/orders", e.table.ID), "", map[string]interface{}{
		"customer_name": "Budi",
		"items":         reqItems,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := resp["data"].(map[string]interface{})
	var itemIDs []uint
	for _, it := range data["order_items"].([]interface{}) {
		itemIDs = append(itemIDs, uint(it.(map[string]interface{})["id"].(float64)))
	}
	return uint(data["id"].(float64)), itemIDs
}
