package adapters

import (
	"context"
	"strings"
	"time"

	"github.com/ahrav/go-evalkit/internal/domain"
	"github.com/ahrav/go-evalkit/internal/ports"
)

var _ ports.ModelAdapter = (*StaticAdapter)(nil)

// StaticAdapter answers from a fixed input-to-output map. It makes
// runs deterministic, which is what tests and offline demos need:
// the same suite against the same StaticAdapter always yields the
// same scores.
type StaticAdapter struct {
	name      string
	responses map[string]string
	fallback  string

	// Delay simulates model latency per call; DelayFor overrides it for
	// specific inputs so tests can invert completion order.
	Delay    time.Duration
	DelayFor map[string]time.Duration

	// Err, when set, fails every call. ErrFor fails specific inputs.
	Err    error
	ErrFor map[string]error
}

// NewStaticAdapter creates an adapter answering from the given map.
// Unknown inputs get the fallback response.
func NewStaticAdapter(name string, responses map[string]string, fallback string) *StaticAdapter {
	if name == "" {
		name = "static"
	}
	return &StaticAdapter{
		name:      name,
		responses: responses,
		fallback:  fallback,
	}
}

// Name returns the adapter's model label.
func (a *StaticAdapter) Name() string { return a.name }

// Respond looks up the canned response for the input.
func (a *StaticAdapter) Respond(ctx context.Context, input string, _ string) (domain.ModelResponse, error) {
	if err, ok := a.ErrFor[input]; ok && err != nil {
		return domain.ModelResponse{}, err
	}
	if a.Err != nil {
		return domain.ModelResponse{}, a.Err
	}

	delay := a.Delay
	if d, ok := a.DelayFor[input]; ok {
		delay = d
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return domain.ModelResponse{}, ctx.Err()
		}
	}

	text, ok := a.responses[input]
	if !ok {
		text = a.fallback
	}
	return domain.ModelResponse{
		Text:       text,
		Model:      a.name,
		TokenCount: len(strings.Fields(text)),
	}, nil
}
