package events

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// DefaultHeartbeat is the interval between heartbeat events.
const DefaultHeartbeat = 30 * time.Second

// Stream serves the registry as text/event-stream. Each connection is
// registered for its lifetime and owns its heartbeat ticker.
func Stream(r *Registry, heartbeat time.Duration) gin.HandlerFunc {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return func(c *gin.Context) {
		id, queue := r.Register()
		defer r.Deregister(id)

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
		c.Status(200)

		if err := writeEvent(c.Writer, Event{Type: TypeConnected, Message: "Real-time processing connected", Timestamp: r.now().UnixMilli()}); err != nil {
			return
		}
		c.Writer.Flush()

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()
		ctx := c.Request.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := writeEvent(c.Writer, Event{Type: TypeHeartbeat, Timestamp: r.now().UnixMilli()}); err != nil {
					return
				}
			case ev, ok := <-queue:
				if !ok {
					return
				}
				if err := writeEvent(c.Writer, ev); err != nil {
					return
				}
			}
			c.Writer.Flush()
		}
	}
}

// writeEvent writes ev as an unnamed SSE message so that EventSource
// onmessage handlers receive it.
func writeEvent(w io.Writer, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		log.Warn().Str("component", "events").Err(err).Msg("failed to marshal event")
		return nil
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", b)
	return err
}
