package realtime

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"uberfriends/pkg/logger"
)

// Options tunes the per-connection pumps. Zero values fall back to the
// defaults below.
type Options struct {
	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int
	WriteWait       time.Duration
	PongWait        time.Duration
	MaxMessageSize  int64
}

func DefaultOptions() *Options {
	return &Options{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendQueueSize:   256,
		WriteWait:       10 * time.Second,
		PongWait:        60 * time.Second,
		MaxMessageSize:  512,
	}
}

func (o *Options) withDefaults() *Options {
	d := DefaultOptions()
	if o == nil {
		return d
	}
	out := *o
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = d.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = d.WriteBufferSize
	}
	if out.SendQueueSize == 0 {
		out.SendQueueSize = d.SendQueueSize
	}
	if out.WriteWait == 0 {
		out.WriteWait = d.WriteWait
	}
	if out.PongWait == 0 {
		out.PongWait = d.PongWait
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = d.MaxMessageSize
	}
	return &out
}

// Conn is one live websocket session. It stays anonymous until the client
// sends a register frame; after that it is bound in the registry under its
// actor key until teardown or replacement.
type Conn struct {
	registry *Registry
	ws       *websocket.Conn
	send     chan []byte
	opts     *Options
	log      *logger.Logger

	mu       sync.Mutex
	actorKey string
	once     sync.Once
}

func newConn(registry *Registry, ws *websocket.Conn, opts *Options, log *logger.Logger) *Conn {
	o := opts.withDefaults()
	return &Conn{
		registry: registry,
		ws:       ws,
		send:     make(chan []byte, o.SendQueueSize),
		opts:     o,
		log:      log,
	}
}

// enqueue offers data to the write pump without blocking. Reports whether
// the frame was queued.
func (c *Conn) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// shutdown closes the send queue exactly once; the write pump then closes
// the socket, which unwinds the read pump.
func (c *Conn) shutdown() {
	c.once.Do(func() {
		close(c.send)
	})
}

func (c *Conn) readPump() {
	defer func() {
		c.mu.Lock()
		key := c.actorKey
		c.mu.Unlock()
		if key != "" {
			c.registry.Unregister(key, c)
		}
		c.shutdown()
		c.ws.Close()
	}()

	c.ws.SetReadLimit(c.opts.MaxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("WebSocket read failed")
			}
			break
		}

		c.handleMessage(message)
	}
}

func (c *Conn) writePump() {
	pingPeriod := c.opts.PongWait * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// inboundFrame is the tagged envelope clients send.
type inboundFrame struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func (c *Conn) handleMessage(message []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		c.log.WithError(err).Warn("Dropping undecodable frame")
		return
	}

	switch frame.Type {
	case "register":
		c.handleRegister(frame.ID)
	default:
		c.log.WithField("frame_type", frame.Type).Debug("Ignoring unknown frame type")
	}
}

func (c *Conn) handleRegister(id string) {
	key, err := ParseActorID(id)
	if err != nil {
		c.log.WithError(err).Warn("Rejected register frame")
		return
	}

	c.mu.Lock()
	prev := c.actorKey
	c.actorKey = key
	c.mu.Unlock()

	if prev != "" && prev != key {
		c.registry.Unregister(prev, c)
	}
	c.registry.Register(key, c)

	ack, _ := json.Marshal(map[string]string{"type": "registered", "id": id})
	c.enqueue(ack)
}

// ParseActorID converts a wire identity ("rider_<id>" or "driver_<id>") into
// a registry actor key ("rider:<id>" / "driver:<id>").
func ParseActorID(id string) (string, error) {
	role, identity, found := strings.Cut(id, "_")
	if !found || identity == "" {
		return "", fmt.Errorf("malformed actor id %q", id)
	}
	if role != "rider" && role != "driver" {
		return "", fmt.Errorf("unknown actor role %q", role)
	}
	return role + ":" + identity, nil
}
