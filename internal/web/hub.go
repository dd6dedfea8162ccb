package web

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vendlasvegas/SelfCheck/internal/types"
	"github.com/vendlasvegas/SelfCheck/log2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendQueueSize  = 32
)

type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub is a Renderer that streams every View to connected websocket clients.
// Render never blocks: client with full queue is disconnected.
type Hub struct {
	log     *log2.Log
	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
}

func NewHub(log *log2.Log) *Hub {
	return &Hub{log: log, clients: make(map[*client]struct{})}
}

func (self *Hub) Render(v types.View) {
	b, err := json.Marshal(v)
	if err != nil {
		self.log.Errorf("web view marshal err=%v", err)
		return
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	self.last = b
	for c := range self.clients {
		select {
		case c.send <- b:
		default:
			self.log.Errorf("web client=%s too slow, disconnect", c.id)
			self.removeLocked(c)
		}
	}
}

func (self *Hub) Len() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return len(self.clients)
}

// register queues last rendered view so new client draws immediately.
func (self *Hub) register(conn *websocket.Conn) *client {
	c := &client{
		id:   uuid.New().String(),
		hub:  self,
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
	self.mu.Lock()
	self.clients[c] = struct{}{}
	if self.last != nil {
		c.send <- self.last
	}
	self.mu.Unlock()
	self.log.Debugf("web client=%s connected remote=%s", c.id, conn.RemoteAddr())
	return c
}

func (self *Hub) remove(c *client) {
	self.mu.Lock()
	self.removeLocked(c)
	self.mu.Unlock()
}

func (self *Hub) removeLocked(c *client) {
	if _, ok := self.clients[c]; ok {
		delete(self.clients, c)
		close(c.send)
	}
}

// Close disconnects all clients.
func (self *Hub) Close() {
	self.mu.Lock()
	for c := range self.clients {
		self.removeLocked(c)
	}
	self.mu.Unlock()
}

// readPump only detects disconnect, renderer input goes through HTTP.
func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debugf("web client=%s err=%v", c.id, err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case b, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// one View per message, renderer only needs the latest
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
