// Package websocket pushes order and bill events to connected staff
// devices. Clients join rooms named after their role and receive the events
// emitted to those rooms.
package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client to server message types
const (
	TypeJoinRole   = "joinRole"
	TypeLeaveRole  = "leaveRole"
	TypeHeartbeat  = "heartbeat"
	TypeRoleJoined = "roleJoined"
	TypeRoleLeft   = "roleLeft"
)

// Server to client events
const (
	EventNewOrder           = "newOrder"
	EventOrderStatusUpdated = "orderStatusUpdated"
	EventBillCreated        = "billCreated"
	EventBillPaid           = "billPaid"
	EventTableUpdated       = "tableUpdated"
)

// Rooms, named after staff roles
const (
	RoomKitchen = "kitchen"
	RoomWaiter  = "waiter"
	RoomCashier = "cashier"
	RoomAdmin   = "admin"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 54 * time.Second
	sendBuffer   = 256
	maxRoomLen   = 64
	maxFrameSize = 4096
)

// Message is the envelope for every frame in both directions
type Message struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Logger is the subset of the application logger used by the hub
type Logger interface {
	LogInfo(message string, details ...string)
	LogError(message string, err error, details ...string)
}

// Client is one connected device
type Client struct {
	ID          string
	RemoteAddr  string
	ConnectedAt time.Time

	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]bool // guarded by hub.mu
}

// Hub tracks clients and their rooms
type Hub struct {
	clients    map[string]*Client
	rooms      map[string]map[string]*Client
	unregister chan *Client
	done       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
	logger     Logger
}

// NewHub creates a hub and starts its run loop. logger may be nil.
func NewHub(logger Logger) *Hub {
	h := &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Staff devices connect from the local network
				return true
			},
		},
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				h.removeLocked(client)
			}
			h.mu.Unlock()
			h.logInfo("Client disconnected", "id="+client.ID)

		case <-h.done:
			h.mu.Lock()
			for _, client := range h.clients {
				h.removeLocked(client)
				client.conn.Close()
			}
			h.mu.Unlock()
			return
		}
	}
}

// removeLocked drops client from every room and closes its send channel.
// Senders hold the read lock, so the channel is never written after close.
func (h *Hub) removeLocked(client *Client) {
	for room := range client.rooms {
		h.leaveLocked(client, room)
	}
	delete(h.clients, client.ID)
	close(client.send)
}

func (h *Hub) leaveLocked(client *Client, room string) {
	delete(client.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Join adds the client to room
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[room] = members
	}
	members[client.ID] = client
	client.rooms[room] = true
}

// Leave removes the client from room
func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(client, room)
}

// Emit sends event to every client in the given rooms. A client that is in
// several of them receives a single copy. Delivery is at most once: clients
// whose buffer is full miss the event.
func (h *Hub) Emit(event string, payload interface{}, rooms ...string) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logError("Failed to marshal event payload", err, "event="+event)
		return
	}
	frame, err := json.Marshal(Message{Type: event, Timestamp: time.Now(), Data: data})
	if err != nil {
		h.logError("Failed to marshal event", err, "event="+event)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := make(map[string]bool)
	for _, room := range rooms {
		for id, client := range h.rooms[room] {
			if sent[id] {
				continue
			}
			sent[id] = true
			select {
			case client.send <- frame:
			default:
				h.logError("Dropped event for slow client", nil, fmt.Sprintf("event=%s client=%s", event, id))
			}
		}
	}
}

// Status summarizes connected clients
type Status struct {
	Clients int            `json:"clients"`
	Rooms   map[string]int `json:"rooms"`
}

// Status returns the number of clients overall and per room
func (h *Hub) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := Status{Clients: len(h.clients), Rooms: make(map[string]int, len(h.rooms))}
	for room, members := range h.rooms {
		s.Rooms[room] = len(members)
	}
	return s
}

// Close disconnects every client and stops the run loop
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ServeWS upgrades the request and attaches a client. An optional role query
// parameter joins that room immediately.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logError("WebSocket upgrade failed", err)
		return
	}

	client := &Client{
		ID:          uuid.NewString(),
		RemoteAddr:  r.RemoteAddr,
		ConnectedAt: time.Now(),
		hub:         h,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		rooms:       make(map[string]bool),
	}

	if !h.add(client) {
		conn.Close()
		return
	}
	h.logInfo("Client connected", fmt.Sprintf("id=%s addr=%s", client.ID, client.RemoteAddr))

	if role := r.URL.Query().Get("role"); validRoom(role) {
		h.Join(client, role)
	}

	go client.writePump()
	go client.readPump()
}

// add registers client unless the hub is closed
func (h *Hub) add(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return false
	default:
	}
	h.clients[client.ID] = client
	return true
}

func validRoom(room string) bool {
	return room != "" && len(room) <= maxRoomLen
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logError("WebSocket read failed", err, "id="+c.ID)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.hub.logError("Invalid client message", err, "id="+c.ID)
			continue
		}
		c.handleMessage(&msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case TypeJoinRole, TypeLeaveRole:
		var room string
		if err := json.Unmarshal(msg.Data, &room); err != nil || !validRoom(room) {
			c.hub.logError("Invalid room in "+msg.Type, err, "id="+c.ID)
			return
		}
		if msg.Type == TypeJoinRole {
			c.hub.Join(c, room)
			c.reply(TypeRoleJoined, room)
		} else {
			c.hub.Leave(c, room)
			c.reply(TypeRoleLeft, room)
		}

	case TypeHeartbeat:
		c.reply(TypeHeartbeat, map[string]string{"status": "alive"})

	default:
		c.hub.logInfo("Ignoring client message", fmt.Sprintf("id=%s type=%s", c.ID, msg.Type))
	}
}

// reply queues a message for this client only
func (c *Client) reply(msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	frame, _ := json.Marshal(Message{Type: msgType, Timestamp: time.Now(), Data: data})

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.clients[c.ID]; !ok {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

func (h *Hub) logInfo(message string, details ...string) {
	if h.logger != nil {
		h.logger.LogInfo(message, details...)
	}
}

func (h *Hub) logError(message string, err error, details ...string) {
	if h.logger != nil {
		h.logger.LogError(message, err, details...)
	}
}
