package kds

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/foodcourt-app/services"
	"github.com/yeremiapane/foodcourt-app/utils"
)

const (
	writeWait = 5 * time.Second
	// messages queued per client before it is dropped as too slow
	sendBuffer = 64
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// FoodcourtRoom and TableRoom name the rooms a connection can join.
func FoodcourtRoom(foodcourtID uint) string { return fmt.Sprintf("foodcourt:%d", foodcourtID) }
func TableRoom(tableID uint) string         { return fmt.Sprintf("table:%d", tableID) }

// Hub fans order events out to websocket clients grouped in rooms. Each
// client has its own queue and writer goroutine, so a stalled connection
// never holds up Broadcast.
type Hub struct {
	mutex sync.Mutex
	rooms map[string]map[*websocket.Conn]*client
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*websocket.Conn]*client)}
}

func (h *Hub) RegisterClient(conn *websocket.Conn, room string) {
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*websocket.Conn]*client)
	}
	h.rooms[room][conn] = cl
	h.mutex.Unlock()

	go cl.writePump(room)
}

func (h *Hub) UnregisterClient(conn *websocket.Conn, room string) {
	h.mutex.Lock()
	h.removeLocked(room, conn)
	h.mutex.Unlock()
	conn.Close()
}

// removeLocked drops conn from room and stops its writer. Callers hold the mutex.
func (h *Hub) removeLocked(room string, conn *websocket.Conn) {
	clients, ok := h.rooms[room]
	if !ok {
		return
	}
	if cl, ok := clients[conn]; ok {
		delete(clients, conn)
		close(cl.send)
	}
	if len(clients) == 0 {
		delete(h.rooms, room)
	}
}

func (cl *client) writePump(room string) {
	defer cl.conn.Close()
	for data := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending to client in %s: %v", room, err)
			return
		}
	}
}

// ClientCount is the number of connections in room.
func (h *Hub) ClientCount(room string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.rooms[room])
}

// PublishOrderEvent sends evt to every involved foodcourt and to the table.
func (h *Hub) PublishOrderEvent(evt services.OrderEvent) {
	msg := Message{Event: evt.Type, Data: evt}
	for _, fcID := range evt.FoodcourtIDs {
		h.Broadcast(FoodcourtRoom(fcID), msg)
	}
	h.Broadcast(TableRoom(evt.TableID), msg)
}

// Broadcast queues msg for every client in room. A client whose queue is
// full is disconnected.
func (h *Hub) Broadcast(room string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, cl := range h.rooms[room] {
		select {
		case cl.send <- data:
		default:
			utils.ErrorLogger.Printf("Dropping slow client in %s, %s not delivered", room, msg.Event)
			h.removeLocked(room, conn)
			conn.Close()
		}
	}
}
