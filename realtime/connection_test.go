package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_EmitFramesEvent(t *testing.T) {
	conn := NewConnection()

	require.NoError(t, conn.Emit("taskAssigned", map[string]string{"message": "hi", "taskId": "42"}))

	frame := <-conn.Frames()
	assert.Equal(t, "event: taskAssigned\ndata: {\"message\":\"hi\",\"taskId\":\"42\"}\n\n", string(frame))
}

func TestConnection_EmitDropsWhenFull(t *testing.T) {
	conn := NewConnection()

	for i := 0; i < 16; i++ {
		require.NoError(t, conn.Emit("taskUpdated", map[string]string{}))
	}

	// buffer full and nobody draining: the send drops instead of blocking
	err := conn.Emit("taskUpdated", map[string]string{})
	assert.Error(t, err)
}

func TestConnection_EmitRejectsUnencodablePayload(t *testing.T) {
	conn := NewConnection()
	assert.Error(t, conn.Emit("taskUpdated", make(chan int)))
}
