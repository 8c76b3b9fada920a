package controllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type feedClient struct {
	conn  *websocket.Conn
	hubID string // empty subscribes to every hub
}

// FeedHub fans processed telemetry and alert events out to connected
// websocket clients. Implements ingest.Broadcaster.
type FeedHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]feedClient
}

func NewFeedHub() *FeedHub {
	return &FeedHub{clients: make(map[*websocket.Conn]feedClient)}
}

// Handle upgrades the request and keeps the connection registered until
// the client goes away. An optional hub_id query param scopes the feed.
func (h *FeedHub) Handle(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = feedClient{conn: conn, hubID: c.Query("hub_id")}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish sends one event to every client subscribed to hubID.
func (h *FeedHub) Publish(event, hubID string, payload any) {
	msg, err := json.Marshal(gin.H{
		"event":  event,
		"hub_id": hubID,
		"data":   payload,
	})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range h.clients {
		if client.hubID != "" && client.hubID != hubID {
			continue
		}
		client.conn.WriteMessage(websocket.TextMessage, msg)
	}
}
