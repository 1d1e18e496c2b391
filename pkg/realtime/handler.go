package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"uberfriends/pkg/logger"
)

// Handler upgrades HTTP requests into registry-bound connections.
type Handler struct {
	registry *Registry
	upgrader websocket.Upgrader
	opts     *Options
	log      *logger.Logger
}

func NewHandler(registry *Registry, opts *Options, log *logger.Logger) *Handler {
	o := opts.withDefaults()
	return &Handler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  o.ReadBufferSize,
			WriteBufferSize: o.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true // Configure properly in production
			},
		},
		opts: o,
		log:  log,
	}
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	conn := newConn(h.registry, ws, h.opts, h.log)
	go conn.writePump()
	go conn.readPump()
}
