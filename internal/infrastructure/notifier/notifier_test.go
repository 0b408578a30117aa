package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/application/jobs"
	"github.com/jhoicas/tiendapp-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingNotifier struct{ calls int }

func (c *countingNotifier) Send(context.Context, jobs.Message) error {
	c.calls++
	return nil
}

func TestLogNotifier_EscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logger.New(logger.Config{Env: "production", Level: "info", Output: &buf}))

	err := n.Send(context.Background(), jobs.Message{Kind: "daily_brief", Recipient: "a@b.com", Subject: "Resumen"})
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "notifier", entry["component"])
	assert.Equal(t, "a@b.com", entry["recipient"])
	assert.Equal(t, "daily_brief", entry["kind"])
}

func TestThrottled_Delega(t *testing.T) {
	next := &countingNotifier{}
	n := NewThrottled(next, 100)

	for i := 0; i < 3; i++ {
		require.NoError(t, n.Send(context.Background(), jobs.Message{}))
	}
	assert.Equal(t, 3, next.calls)
}

func TestThrottled_RespetaContexto(t *testing.T) {
	next := &countingNotifier{}
	n := NewThrottled(next, 0.001)
	require.NoError(t, n.Send(context.Background(), jobs.Message{}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := n.Send(ctx, jobs.Message{})
	assert.Error(t, err)
	assert.Equal(t, 1, next.calls)
}
