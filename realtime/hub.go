package realtime

import (
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event names carried on the wire, matching what the admin dashboard and the
// shopping client listen for.
const (
	EventAdminNewOrder        = "admin_new_order"
	EventOrderAccepted        = "order_accepted"
	EventAdminNewPrescription = "admin_new_prescription"
	EventPrescriptionAccepted = "prescription_accepted"
)

// Topics. Admin sessions join both admin topics at connect time; a customer
// session joins only its own user topic, so nothing leaks across tenants.
const (
	TopicAdminOrders        = "admin:orders"
	TopicAdminPrescriptions = "admin:prescriptions"
)

func UserTopic(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// Message is the JSON envelope written to every subscriber of a topic.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub fans events out to websocket sessions grouped by topic. Delivery is
// best-effort: no acknowledgement, no replay for late subscribers. A failed
// write drops the session from all topics.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[*websocket.Conn]bool)}
}

// Subscribe registers a session on the given topics.
func (h *Hub) Subscribe(conn *websocket.Conn, topics ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, topic := range topics {
		if h.topics[topic] == nil {
			h.topics[topic] = make(map[*websocket.Conn]bool)
		}
		h.topics[topic][conn] = true
	}
}

// Unsubscribe removes a session from every topic it joined.
func (h *Hub) Unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(conn)
}

func (h *Hub) removeLocked(conn *websocket.Conn) {
	for topic, conns := range h.topics {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Publish writes the event to every session subscribed to the topic. The hub
// lock also serializes writes per connection, which gorilla requires.
func (h *Hub) Publish(topic, event string, data any) {
	msg := Message{Event: event, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.topics[topic] {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("realtime: dropping session on %s: %v", topic, err)
			h.removeLocked(conn)
			conn.Close()
		}
	}
}

// SubscriberCount reports how many sessions currently hold the topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}
