package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Connection is the handle for one open event stream. Emit frames a named
// event for the SSE wire; sends are non-blocking and drop when the client
// cannot keep up. The durable notification record remains the source of
// truth.
type Connection struct {
	ID   string
	send chan []byte
}

func NewConnection() *Connection {
	return &Connection{
		ID:   uuid.New().String(),
		send: make(chan []byte, 16),
	}
}

func (c *Connection) Emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", event, err)
	}

	frame := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event, data))
	select {
	case c.send <- frame:
		return nil
	default:
		return fmt.Errorf("connection %s is not keeping up, dropped %s event", c.ID, event)
	}
}

// Frames exposes the outbound frame stream to the serving loop and to tests.
func (c *Connection) Frames() <-chan []byte {
	return c.send
}
