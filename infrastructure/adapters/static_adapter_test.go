package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticAdapter_Respond(t *testing.T) {
	adapter := NewStaticAdapter("canned", map[string]string{
		"q1": "answer one",
	}, "fallback answer")

	assert.Equal(t, "canned", adapter.Name())

	resp, err := adapter.Respond(context.Background(), "q1", "")
	require.NoError(t, err)
	assert.Equal(t, "answer one", resp.Text)
	assert.Equal(t, "canned", resp.Model)
	assert.Equal(t, 2, resp.TokenCount, "token count approximates by words")

	resp, err = adapter.Respond(context.Background(), "unknown question", "")
	require.NoError(t, err)
	assert.Equal(t, "fallback answer", resp.Text)
}

func TestStaticAdapter_DefaultName(t *testing.T) {
	adapter := NewStaticAdapter("", nil, "")
	assert.Equal(t, "static", adapter.Name())
}

func TestStaticAdapter_Errors(t *testing.T) {
	adapter := NewStaticAdapter("flaky", map[string]string{"ok": "fine"}, "")
	adapter.ErrFor = map[string]error{"bad": errors.New("simulated outage")}

	_, err := adapter.Respond(context.Background(), "bad", "")
	assert.ErrorContains(t, err, "simulated outage")

	resp, err := adapter.Respond(context.Background(), "ok", "")
	require.NoError(t, err)
	assert.Equal(t, "fine", resp.Text)

	adapter.Err = errors.New("total outage")
	_, err = adapter.Respond(context.Background(), "ok", "")
	assert.ErrorContains(t, err, "total outage")
}

func TestStaticAdapter_DelayHonorsContext(t *testing.T) {
	adapter := NewStaticAdapter("slow", nil, "late answer")
	adapter.Delay = 200 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := adapter.Respond(ctx, "q", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
