// Package events fans processing updates out to server-sent-event
// subscribers.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	TypeConnected        = "connected"
	TypeHeartbeat        = "heartbeat"
	TypeProcessingUpdate = "processing_update"

	// DefaultBuffer is the per-subscriber queue length.
	DefaultBuffer = 16
)

// Event is one message on the stream.
type Event struct {
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	FileID    string `json:"fileId,omitempty"`
	Status    string `json:"status,omitempty"`
	Progress  int    `json:"progress,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Registry tracks live subscribers by connection id. Subscribers are added
// with Register and must be removed with Deregister.
type Registry struct {
	mu     sync.RWMutex
	subs   map[string]chan Event
	buffer int
	Now    func() time.Time
}

// NewRegistry returns an empty registry; buffer <= 0 selects DefaultBuffer.
func NewRegistry(buffer int) *Registry {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Registry{subs: make(map[string]chan Event), buffer: buffer}
}

func (r *Registry) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Register adds a subscriber and returns its id and queue.
func (r *Registry) Register() (string, <-chan Event) {
	id := uuid.NewString()
	ch := make(chan Event, r.buffer)
	r.mu.Lock()
	r.subs[id] = ch
	n := len(r.subs)
	r.mu.Unlock()
	log.Debug().Str("component", "events").Str("conn_id", id).Int("subscribers", n).Msg("subscriber registered")
	return id, ch
}

// Deregister removes a subscriber and closes its queue. Unknown ids are
// ignored.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	ch, ok := r.subs[id]
	if ok {
		delete(r.subs, id)
		close(ch)
	}
	r.mu.Unlock()
	if ok {
		log.Debug().Str("component", "events").Str("conn_id", id).Msg("subscriber removed")
	}
}

// Len returns the number of live subscribers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// Publish queues ev for every subscriber and returns how many accepted it.
// A subscriber whose queue is full misses the event.
func (r *Registry) Publish(ev Event) int {
	if ev.Timestamp == 0 {
		ev.Timestamp = r.now().UnixMilli()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	delivered := 0
	for id, ch := range r.subs {
		select {
		case ch <- ev:
			delivered++
		default:
			log.Warn().Str("component", "events").Str("conn_id", id).Str("type", ev.Type).Msg("dropping event; subscriber buffer full")
		}
	}
	return delivered
}

// SendProcessingUpdate publishes the progress of one document.
func (r *Registry) SendProcessingUpdate(fileID string, status string, progress int, data any) {
	r.Publish(Event{Type: TypeProcessingUpdate, FileID: fileID, Status: status, Progress: progress, Data: data})
}
