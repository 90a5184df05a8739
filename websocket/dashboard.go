package websocket

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"stageready/logger"
	"stageready/services"
)

const statsPushInterval = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced by the HTTP layer
	},
}

// DashboardHandler pushes a fresh stats snapshot to connected consoles on an
// interval, so the dashboard stays current without polling.
type DashboardHandler struct {
	stats *services.StatsService
	log   *logger.Logger
}

func NewDashboardHandler(stats *services.StatsService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{stats: stats, log: log.With("handler", "DashboardWS")}
}

// Serve upgrades the connection and streams stats until the client goes away
func (h *DashboardHandler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	clientID := uuid.NewString()
	h.log.Info("dashboard client connected", "clientId", clientID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		conn.Close()
		h.log.Info("dashboard client disconnected", "clientId", clientID)
	}()

	ticker := time.NewTicker(statsPushInterval)
	defer ticker.Stop()

	if !h.push(c, conn, clientID) {
		return
	}
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !h.push(c, conn, clientID) {
				return
			}
		}
	}
}

func (h *DashboardHandler) push(c *gin.Context, conn *websocket.Conn, clientID string) bool {
	stats, err := h.stats.DashboardStats(c.Request.Context())
	if err != nil {
		h.log.Error("stats aggregation failed", "clientId", clientID, "error", err)
		return true // transient; keep the connection and retry next tick
	}
	if err := conn.WriteJSON(stats); err != nil {
		return false
	}
	return true
}
