package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	natsPackage "github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	ATTEMPT_SUBJECT = "xams.attempt"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

type Subscriber interface {
	Subscribe(subject string, handler natsPackage.MsgHandler) (*natsPackage.Subscription, error)
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans attempt events out to the websockets watching each schedule
type Hub struct {
	upgrader    websocket.Upgrader
	mu          sync.RWMutex
	subscribers map[string]map[*client]bool
}

func (h *Hub) register(schedule string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[schedule] == nil {
		h.subscribers[schedule] = make(map[*client]bool)
	}
	h.subscribers[schedule][c] = true
}

func (h *Hub) unregister(schedule string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.subscribers[schedule]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.subscribers, schedule)
	}
}

func (h *Hub) Count(schedule string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[schedule])
}

// Broadcast delivers the event to the watchers of its schedule. A watcher
// too slow to keep up is disconnected.
func (h *Hub) Broadcast(event *res.AttemptEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.ReportError(err)
		return
	}
	var slow []*client
	h.mu.RLock()
	for c := range h.subscribers[event.Schedule] {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range slow {
		h.unregister(event.Schedule, c)
	}
}

func (h *Hub) handleMessage(m *natsPackage.Msg) {
	var event res.AttemptEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		logger.ReportError(err, zap.String("subject", m.Subject))
		return
	}
	h.Broadcast(&event)
}

// Listen feeds the hub from the attempt events published by the feed server
func (h *Hub) Listen(nats Subscriber) error {
	_, err := nats.Subscribe(ATTEMPT_SUBJECT, h.handleMessage)
	return err
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

// readPump only watches for the close of the connection, the monitor is
// read only
func (h *Hub) readPump(schedule string, c *client) {
	defer h.unregister(schedule, c)
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Serve upgrades the request and streams the events of schedule until the
// client goes away
func (h *Hub) Serve(ctx *gin.Context, schedule string) error {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		return err
	}
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.register(schedule, c)
	go h.writePump(c)
	go h.readPump(schedule, c)
	return nil
}

// NewHub accepts websocket origins through checkOrigin. A nil function
// allows same host requests only.
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		subscribers: make(map[string]map[*client]bool),
	}
}
