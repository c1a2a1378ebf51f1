package session

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrRenderTimeout indicates the wait expression never became truthy within
// the render bound. The partial RenderResult still carries the page markup.
var ErrRenderTimeout = errors.New("render wait timed out")

// RenderRequest describes one rendered-page readout.
type RenderRequest struct {
	URL string
	// WaitExpr is a JavaScript expression polled until truthy.
	WaitExpr string
	// EvalExpr is evaluated once WaitExpr holds; it must yield a JSON string.
	EvalExpr string
	// Timeout bounds the whole navigation + wait + readout.
	Timeout time.Duration
}

// RenderResult is the outcome of a rendered-page readout. HTML is populated
// on both success and wait-timeout so callers can scan the markup for
// bot-check signatures.
type RenderResult struct {
	Payload []byte
	HTML    string
}

// Engine is the stateful automation backend owned by the Manager. It is not
// safe for concurrent use; the Manager serializes access.
type Engine interface {
	Render(ctx context.Context, req RenderRequest) (RenderResult, error)
	Close(ctx context.Context) error
}

// Factory creates a fresh Engine with the given authentication cookies
// applied. Called at first acquisition and again after session rotation.
type Factory func(ctx context.Context, cookies []*http.Cookie) (Engine, error)
