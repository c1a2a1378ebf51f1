// Package client resolves live-video identifiers on YouTube to currently
// valid HLS manifest URLs. Resolution runs through a fallback chain of
// extraction strategies serialized onto a single automation session; the
// package is safe for concurrent use.
package client

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/famomatic/livehls/internal/extract"
	"github.com/famomatic/livehls/internal/queue"
	"github.com/famomatic/livehls/internal/resolver"
	"github.com/famomatic/livehls/internal/session"
)

// Client is the resolver facade.
type Client struct {
	cfg      Config
	sessions *session.Manager
	queue    *queue.Queue
	cancel   context.CancelFunc
	closed   atomic.Bool
}

// New builds a client and starts its queue consumer. The automation session
// itself is created lazily on the first request that needs it.
func New(cfg Config) *Client {
	cfg = cfg.withDefaults()

	factory := session.NewChromeFactory(session.ChromeOptions{
		ExecPath:  cfg.BrowserPath,
		Headless:  !cfg.HeadlessOff,
		UserAgent: cfg.UserAgent,
	})
	sessions := session.NewManager(factory, cfg.Cookies, session.Options{
		FailureThreshold: cfg.FailureThreshold,
		CreateAttempts:   3,
		HTTPClient:       cfg.HTTPClient,
		Logger:           cfg.Logger,
	})

	strategies := []extract.Strategy{
		extract.NewMetadataStrategy(cfg.MetadataTimeout),
		extract.NewRenderedStrategy(cfg.RenderTimeout),
		extract.NewWatchPageStrategy(cfg.FetchTimeout, cfg.UserAgent),
	}
	runner := resolver.NewRunner(strategies, sessions, cfg.Logger)

	q := queue.New(runner, queue.Options{
		Ceiling: cfg.RequestCeiling,
		Logger:  cfg.Logger,
	})
	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)

	return &Client{
		cfg:      cfg,
		sessions: sessions,
		queue:    q,
		cancel:   cancel,
	}
}

// Resolve accepts a video ID or watch URL and blocks until its ticket
// resolves. Resolution failures are reported inside the Result; the error
// return is reserved for malformed input and client shutdown.
func (c *Client) Resolve(ctx context.Context, input string) (Result, error) {
	if c.closed.Load() {
		return Result{}, ErrClosed
	}
	videoID, err := ExtractVideoID(input)
	if err != nil {
		return Result{}, err
	}
	res, err := c.queue.Submit(ctx, videoID)
	if err != nil {
		return Result{}, fmt.Errorf("submit: %w", err)
	}
	return fromInternal(res), nil
}

// QueueDepth reports the number of requests waiting or in flight.
func (c *Client) QueueDepth() int64 { return c.queue.Depth() }

// SessionState reports the automation session's liveness label.
func (c *Client) SessionState() string { return c.sessions.State().String() }

// SessionRestarts reports how many times the automation engine was created.
func (c *Client) SessionRestarts() int { return c.sessions.Restarts() }

// Close stops the consumer and releases the automation session.
func (c *Client) Close(ctx context.Context) {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.cancel()
	c.sessions.Close(ctx)
}
