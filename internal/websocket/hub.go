package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// Tipe event yang dikirim ke dashboard.
const (
	EventTaskCreated = "task_created"
	EventTaskUpdated = "task_updated"
	EventTaskDeleted = "task_deleted"
	EventTaskDue     = "task_due"
)

// Event adalah pesan perubahan task yang di-broadcast ke semua client
// supaya dashboard bisa refresh secara live.
type Event struct {
	Type   string     `json:"type"`
	TaskID int        `json:"task_id,omitempty"`
	UserID int        `json:"user_id,omitempty"`
	Name   string     `json:"name,omitempty"`
	Date   *time.Time `json:"date,omitempty"`
}

// Client merepresentasikan klien WebSocket.
type Client struct {
	Conn *websocket.Conn
	Mu   sync.Mutex
}

// Hub mengelola koneksi WebSocket.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
}

// NewHub membuat instance Hub baru.
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Publish mengenkode event ke JSON lalu mem-broadcast-nya.
// Hub harus sudah dijalankan lewat Run sebelum Publish dipanggil.
func (h *Hub) Publish(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast <- data
}

// Run menjalankan loop Hub untuk mengelola register, unregister, dan Broadcast.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.Conn.Close()
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				client.Mu.Lock()
				err := client.Conn.WriteMessage(websocket.TextMessage, message)
				client.Mu.Unlock()
				if err != nil {
					// langsung hapus di sini, kirim ke Unregister dari
					// loop yang sama akan deadlock
					delete(h.Clients, client)
					client.Conn.Close()
				}
			}
		}
	}
}
