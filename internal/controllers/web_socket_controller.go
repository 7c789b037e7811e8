package controllers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"train_schedule/internal/models"
)

const boardWriteTimeout = 5 * time.Second

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is handled by middleware for the REST side
	},
}

// BoardEvent is pushed to every client watching StationID's board.
type BoardEvent struct {
	Type       string             `json:"type"`
	StationID  uint               `json:"station_id"`
	Assignment *models.Assignment `json:"assignment"`
}

// BoardHub fans assignment changes out to the websocket clients of each
// station. Only the run goroutine writes to connections.
type BoardHub struct {
	clients   map[uint]map[*websocket.Conn]bool
	broadcast chan BoardEvent
	mu        sync.Mutex
	closed    bool
}

// NewBoardHub creates a hub and starts its broadcast loop.
func NewBoardHub() *BoardHub {
	hub := &BoardHub{
		clients:   make(map[uint]map[*websocket.Conn]bool),
		broadcast: make(chan BoardEvent, 100),
	}
	go hub.run()
	return hub
}

func (h *BoardHub) run() {
	for evt := range h.broadcast {
		h.mu.Lock()
		conns := make([]*websocket.Conn, 0, len(h.clients[evt.StationID]))
		for conn := range h.clients[evt.StationID] {
			conns = append(conns, conn)
		}
		h.mu.Unlock()

		for _, conn := range conns {
			_ = conn.SetWriteDeadline(time.Now().Add(boardWriteTimeout))
			if err := conn.WriteJSON(evt); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"station_id": evt.StationID,
					"conn_ptr":   fmt.Sprintf("%p", conn),
				}).Warn("Failed to push board event, dropping client.")
				h.UnregisterClient(evt.StationID, conn)
				conn.Close()
			}
		}
	}
}

// RegisterClient subscribes conn to a station's board.
func (h *BoardHub) RegisterClient(stationID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[stationID]; !ok {
		h.clients[stationID] = make(map[*websocket.Conn]bool)
	}
	h.clients[stationID][conn] = true
	logrus.WithFields(logrus.Fields{
		"station_id": stationID,
		"conn_ptr":   fmt.Sprintf("%p", conn),
	}).Info("Board client registered.")
}

// UnregisterClient removes conn; a station with no clients left is dropped.
func (h *BoardHub) UnregisterClient(stationID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[stationID]
	if !ok || !clients[conn] {
		return
	}
	delete(clients, conn)
	if len(clients) == 0 {
		delete(h.clients, stationID)
	}
	logrus.WithFields(logrus.Fields{
		"station_id": stationID,
		"conn_ptr":   fmt.Sprintf("%p", conn),
	}).Info("Board client unregistered.")
}

// ClientCount reports how many clients watch stationID.
func (h *BoardHub) ClientCount(stationID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[stationID])
}

// Publish queues evt without blocking; a full buffer or a closed hub
// drops it.
func (h *BoardHub) Publish(evt BoardEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		logrus.WithField("station_id", evt.StationID).Debug("Board hub closed, dropping event.")
		return
	}
	select {
	case h.broadcast <- evt:
	default:
		logrus.WithField("station_id", evt.StationID).Warn("Board broadcast channel full, dropping event.")
	}
}

// Close stops the broadcast loop. Later Publish calls are dropped.
func (h *BoardHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.broadcast)
	}
}

// HandleBoardWebSocket streams assignment changes for the station in :id.
// Clients only listen; anything they send is ignored.
func (ctl *Controller) HandleBoardWebSocket(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if _, err := ctl.Store.GetStation(c.Request.Context(), id); err != nil {
		respondError(c, "station", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctl.Hub.RegisterClient(id, conn)
	defer ctl.Hub.UnregisterClient(id, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.WithError(err).WithField("station_id", id).Debug("Board WebSocket read ended")
			}
			return
		}
	}
}
