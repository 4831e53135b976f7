package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dealpulse/pkg/models"
)

// Hub fans completed analyses out to connected websocket clients
type Hub struct {
	clients    map[*websocket.Conn]clientInfo
	mu         sync.RWMutex
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	closeOnce  sync.Once
	logger     *zap.Logger
}

type clientInfo struct {
	Connected time.Time
}

// LiveEvent is the structure pushed to websocket clients
type LiveEvent struct {
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin enforcement is handled by the CORS layer
		return true
	},
}

// NewHub creates a websocket hub and starts its dispatch loop
func NewHub(logger *zap.Logger) *Hub {
	hub := &Hub{
		clients:    make(map[*websocket.Conn]clientInfo),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		logger:     logger,
	}

	go hub.run()

	return hub
}

// HandleConnection upgrades an HTTP request to a websocket subscription
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade websocket", zap.Error(err))
		return
	}

	h.register <- conn

	conn.WriteJSON(LiveEvent{
		Type:      "connection_established",
		Timestamp: time.Now().Unix(),
	})

	go h.readLoop(conn)
}

// BroadcastAnalysis pushes a completed analysis to all clients
func (h *Hub) BroadcastAnalysis(analysis *models.DealHealthAnalysis) {
	event := LiveEvent{
		Type:      "analysis_completed",
		Timestamp: time.Now().Unix(),
		Data: map[string]interface{}{
			"deal_id":     analysis.DealID,
			"analysis_id": analysis.AnalysisID,
			"score":       analysis.Overall.CurrentScore,
			"grade":       analysis.Overall.Grade,
			"risk_level":  analysis.Overall.RiskLevel,
			"trend":       analysis.Overall.Trend,
		},
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("failed to marshal live event", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		// Drop the event rather than block the request path
	}
}

// Close shuts down the dispatch loop and disconnects all clients
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = clientInfo{Connected: time.Now()}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("websocket client connected", zap.Int("total", total))

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("websocket client disconnected", zap.Int("total", total))

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
			}
			h.clients = make(map[*websocket.Conn]clientInfo)
			h.mu.Unlock()
			return
		}
	}
}

// readLoop drains client messages so ping/pong and close frames are
// processed; clients have nothing to say otherwise
func (h *Hub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
			return
		}
	}
}
