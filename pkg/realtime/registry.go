package realtime

import (
	"encoding/json"
	"errors"
	"sync"

	"uberfriends/pkg/logger"
)

// ErrNotConnected is returned by Send when no live binding exists for the
// actor key. Callers log it and drop the event; there is no queue or retry.
var ErrNotConnected = errors.New("actor not connected")

// Registry maps actor keys ("rider:<id>", "driver:<id>") to their live
// connection. It is constructed once at startup and injected into whatever
// needs to push events. Bindings are never persisted: a restart drops them
// all and actors must re-register.
type Registry struct {
	mu       sync.Mutex
	bindings map[string]*Conn
	closed   bool
	log      *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		bindings: make(map[string]*Conn),
		log:      log,
	}
}

// Register binds key to conn. A previous binding for the same key is
// replaced and its connection shut down.
func (r *Registry) Register(key string, conn *Conn) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		conn.shutdown()
		return
	}
	prev := r.bindings[key]
	r.bindings[key] = conn
	r.mu.Unlock()

	if prev != nil && prev != conn {
		prev.shutdown()
		r.log.WithActorKey(key).Info("Replaced existing connection binding")
	} else {
		r.log.WithActorKey(key).Info("Actor registered")
	}
}

// Unregister removes the binding for key only if it still points at conn.
// A stale unregister from a replaced connection never evicts the newer one.
func (r *Registry) Unregister(key string, conn *Conn) {
	r.mu.Lock()
	if r.bindings[key] == conn {
		delete(r.bindings, key)
		r.mu.Unlock()
		r.log.WithActorKey(key).Info("Actor unregistered")
		return
	}
	r.mu.Unlock()
}

// Send marshals event and queues it on the actor's connection. Fire and
// forget: an unbound actor yields ErrNotConnected, a full send queue drops
// the event. Delivery never blocks the caller.
func (r *Registry) Send(key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	r.mu.Lock()
	conn := r.bindings[key]
	r.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	if !conn.enqueue(data) {
		r.log.WithActorKey(key).Warn("Send queue full, event dropped")
	}
	return nil
}

// Connected reports whether the actor currently has a live binding.
func (r *Registry) Connected(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bindings[key] != nil
}

// Close shuts down every binding. Called once on process shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	conns := make([]*Conn, 0, len(r.bindings))
	for _, conn := range r.bindings {
		conns = append(conns, conn)
	}
	r.bindings = make(map[string]*Conn)
	r.mu.Unlock()

	for _, conn := range conns {
		conn.shutdown()
	}
}
