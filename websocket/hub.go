package websocket

import (
	"log"

	"github.com/google/uuid"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// sendBuffer is how many events a client may fall behind before the hub
// drops it.
const sendBuffer = 16

type Client struct {
	UserID uuid.UUID
	Conn   Conn

	send chan Event
}

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`

	recipients []uuid.UUID
}

// Hub owns the set of connected clients. A user may hold several
// connections, one per open tab. Writes happen on each client's own
// goroutine so a slow connection never holds up the hub.
type Hub struct {
	clients    map[uuid.UUID]map[Conn]*Client
	Register   chan *Client
	Unregister chan *Client
	events     chan Event
	quit       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[Conn]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		events:     make(chan Event, 256),
		quit:       make(chan struct{}),
	}
}

var DefaultHub = NewHub()

func init() {
	go DefaultHub.Run()
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			log.Printf("Client registered: %s", client.UserID)
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[Conn]*Client)
			}
			if _, ok := h.clients[client.UserID][client.Conn]; ok {
				continue
			}
			client.send = make(chan Event, sendBuffer)
			h.clients[client.UserID][client.Conn] = client
			go h.writePump(client)
		case client := <-h.Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			h.drop(client.UserID, client.Conn)
		case event := <-h.events:
			for _, userID := range event.recipients {
				for conn, client := range h.clients[userID] {
					select {
					case client.send <- event:
					default:
						log.Printf("Client %s is not keeping up, dropping connection", userID)
						h.drop(userID, conn)
						conn.Close()
					}
				}
			}
		case <-h.quit:
			for userID, conns := range h.clients {
				for conn := range conns {
					h.drop(userID, conn)
					conn.Close()
				}
			}
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.quit)
}

// writePump delivers queued events to one connection until the hub closes
// its send channel or a write fails.
func (h *Hub) writePump(client *Client) {
	for event := range client.send {
		if err := client.Conn.WriteJSON(event); err != nil {
			log.Printf("Error sending %s event to client %s: %v", event.Type, client.UserID, err)
			client.Conn.Close()
			select {
			case h.Unregister <- client:
			case <-h.quit:
			}
			return
		}
	}
}

func (h *Hub) drop(userID uuid.UUID, conn Conn) {
	conns, ok := h.clients[userID]
	if !ok {
		return
	}
	client, ok := conns[conn]
	if !ok {
		return
	}
	close(client.send)
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, userID)
	}
}

// Publish queues an event for the given users. It never blocks; events are
// dropped when the queue is full.
func (h *Hub) Publish(userIDs []uuid.UUID, eventType string, data interface{}) {
	event := Event{Type: eventType, Data: data, recipients: userIDs}
	select {
	case h.events <- event:
	default:
		log.Printf("⚠️ Websocket event queue full, dropping %s event", eventType)
	}
}

func Notify(userIDs []uuid.UUID, eventType string, data interface{}) {
	DefaultHub.Publish(userIDs, eventType, data)
}
