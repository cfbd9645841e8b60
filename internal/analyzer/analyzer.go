package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"idea-analyzer/internal/submission"
)

// RawResponse is the untyped payload returned by the analysis service.
type RawResponse = json.RawMessage

// Analyzer sends one validated submission to an analysis backend.
// Implementations do not retry; callers serialize submissions per user.
type Analyzer interface {
	Analyze(ctx context.Context, input submission.Input) (RawResponse, error)
}

// ErrNotConfigured is returned by Stub when neither a payload nor an error was set.
var ErrNotConfigured = errors.New("analyzer not configured")

// Stub returns a fixed payload or error. It records the last input it saw.
type Stub struct {
	mu      sync.Mutex
	Payload RawResponse
	Err     error
	// Calls counts Analyze invocations.
	Calls int
	Last  submission.Input
}

// Analyze returns the configured payload.
func (s *Stub) Analyze(ctx context.Context, input submission.Input) (RawResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	s.Last = input
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Payload == nil {
		return nil, ErrNotConfigured
	}
	return s.Payload, nil
}

// Func adapts a function to the Analyzer interface.
type Func func(ctx context.Context, input submission.Input) (RawResponse, error)

// Analyze calls f.
func (f Func) Analyze(ctx context.Context, input submission.Input) (RawResponse, error) {
	return f(ctx, input)
}
