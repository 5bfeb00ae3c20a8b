package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/foodcourt-app/kds"
	"github.com/yeremiapane/foodcourt-app/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// KDSController serves the realtime order feeds.
type KDSController struct {
	Hub         *kds.Hub
	Permissions *services.PermissionResolver
}

func NewKDSController(hub *kds.Hub, permissions *services.PermissionResolver) *KDSController {
	return &KDSController{Hub: hub, Permissions: permissions}
}

// FoodcourtFeed -> GET /ws/foodcourt/:foodcourt_id, requires viewOrders
func (kc *KDSController) FoodcourtFeed(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	foodcourtID, ok := parseIDParam(c, "foodcourt_id")
	if !ok {
		return
	}
	if err := kc.Permissions.Require(c.Request.Context(), actor, foodcourtID, services.CapabilityViewOrders); err != nil {
		respondServiceError(c, err)
		return
	}
	kc.serve(c, kds.FoodcourtRoom(foodcourtID))
}

// TableFeed -> GET /ws/tables/:table_id, public
func (kc *KDSController) TableFeed(c *gin.Context) {
	tableID, ok := parseIDParam(c, "table_id")
	if !ok {
		return
	}
	kc.serve(c, kds.TableRoom(tableID))
}

func (kc *KDSController) serve(c *gin.Context, room string) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	kc.Hub.RegisterClient(ws, room)

	// clients only listen; reading detects disconnects
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	kc.Hub.UnregisterClient(ws, room)
}
