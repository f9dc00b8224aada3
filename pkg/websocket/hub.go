package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hub fans live position updates and alerts out to connected dashboard
// sessions. Each customer joins a personal room on connect and may join
// device rooms explicitly.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mutex      sync.RWMutex
}

type Message struct {
	Type      string                 `json:"type"`
	RoomID    string                 `json:"room_id,omitempty"`
	DeviceID  string                 `json:"device_id,omitempty"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true

	// Every customer gets a personal room for their notifications.
	h.joinRoom(client, customerRoom(client.CustomerID))

	welcomeMsg := Message{
		Type:      "welcome",
		Timestamp: getCurrentTimestamp(),
		Data: map[string]interface{}{
			"message": "Connected successfully",
		},
	}

	h.sendToClient(client, welcomeMsg)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		for roomID, room := range h.rooms {
			if _, exists := room[client]; exists {
				delete(room, client)
				if len(room) == 0 {
					delete(h.rooms, roomID)
				}
			}
		}
	}
}

func (h *Hub) broadcastMessage(message []byte) {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		return
	}

	if msg.RoomID != "" {
		h.mutex.RLock()
		h.sendToRoom(msg.RoomID, msg)
		h.mutex.RUnlock()
	}
}

// sendToRoom requires at least a read lock held by the caller.
func (h *Hub) sendToRoom(roomID string, message Message) {
	room, exists := h.rooms[roomID]
	if !exists {
		return
	}

	data, _ := json.Marshal(message)
	for client := range room {
		select {
		case client.send <- data:
		default:
			// Slow consumer, drop the message rather than block the hub.
		}
	}
}

func (h *Hub) sendToClient(client *Client, message Message) {
	data, _ := json.Marshal(message)
	select {
	case client.send <- data:
	default:
	}
}

// SendToCustomer delivers a message to every session of one customer.
func (h *Hub) SendToCustomer(customerID primitive.ObjectID, message Message) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	h.sendToRoom(customerRoom(customerID), message)
}

// SendDeviceUpdate delivers a message to sessions watching a specific device.
func (h *Hub) SendDeviceUpdate(deviceID primitive.ObjectID, message Message) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	h.sendToRoom(deviceRoom(deviceID), message)
}

func (h *Hub) joinRoom(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.rooms[roomID] = true
}

func (h *Hub) LeaveRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if room, exists := h.rooms[roomID]; exists {
		delete(room, client)
		delete(client.rooms, roomID)

		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// WatchDevice joins the client to a device room for live tracking.
func (h *Hub) WatchDevice(client *Client, deviceID primitive.ObjectID) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.joinRoom(client, deviceRoom(deviceID))
}

func customerRoom(customerID primitive.ObjectID) string {
	return "customer_" + customerID.Hex()
}

func deviceRoom(deviceID primitive.ObjectID) string {
	return "device_" + deviceID.Hex()
}

func getCurrentTimestamp() int64 {
	return time.Now().Unix()
}
