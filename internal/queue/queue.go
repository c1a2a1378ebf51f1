package queue

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/famomatic/livehls/internal/types"
)

// Resolver is the consumer-side resolution entry point.
type Resolver interface {
	Resolve(ctx context.Context, videoID string) types.ResolutionResult
}

// Logger is the minimal logging surface the queue needs.
type Logger interface {
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}
func (nopLogger) Infof(string, ...any) {}

type ticket struct {
	id      string
	videoID string
	result  chan types.ResolutionResult
}

// Queue serializes concurrent resolution requests onto a single consumer
// goroutine, which is the only caller of the Resolver and therefore the only
// user of the automation session. Tickets are served strictly FIFO.
type Queue struct {
	resolver Resolver
	tickets  chan *ticket
	ceiling  time.Duration
	log      Logger

	depth   atomic.Int64
	stopped chan struct{}
}

// Options tunes queue behavior.
type Options struct {
	// Ceiling is the hard per-ticket bound. Should cover the sum of all
	// strategy bounds plus margin. Zero defaults to two minutes.
	Ceiling time.Duration
	Logger  Logger
}

func New(resolver Resolver, opts Options) *Queue {
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}
	ceiling := opts.Ceiling
	if ceiling <= 0 {
		ceiling = 2 * time.Minute
	}
	return &Queue{
		resolver: resolver,
		// Unbuffered: blocked submitters form the queue, and the runtime
		// wakes them in FIFO order.
		tickets: make(chan *ticket),
		ceiling: ceiling,
		log:     log,
		stopped: make(chan struct{}),
	}
}

// Start runs the consumer until ctx is cancelled. Call once.
func (q *Queue) Start(ctx context.Context) {
	go q.consume(ctx)
}

// Depth reports the number of submissions currently waiting or in flight.
func (q *Queue) Depth() int64 { return q.depth.Load() }

// Submit enqueues one resolution request and blocks until its ticket
// resolves. Safe for concurrent use; each caller only ever sees its own
// result. The error is non-nil only when the request never entered
// processing (cancelled caller or stopped queue).
func (q *Queue) Submit(ctx context.Context, videoID string) (types.ResolutionResult, error) {
	t := &ticket{
		id:      uuid.NewString(),
		videoID: videoID,
		result:  make(chan types.ResolutionResult, 1),
	}

	q.depth.Add(1)
	defer q.depth.Add(-1)

	select {
	case q.tickets <- t:
	case <-ctx.Done():
		return types.ResolutionResult{}, ctx.Err()
	case <-q.stopped:
		return types.ResolutionResult{}, fmt.Errorf("queue stopped")
	}

	// The ticket is now owned by the consumer, which always produces
	// exactly one result, so waiting on ctx here would leak nothing but
	// would break the one-result-per-ticket pairing. Wait it out.
	select {
	case res := <-t.result:
		return res, nil
	case <-q.stopped:
		return types.ResolutionResult{}, fmt.Errorf("queue stopped")
	}
}

func (q *Queue) consume(ctx context.Context) {
	defer close(q.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-q.tickets:
			start := time.Now()
			res := q.process(ctx, t)
			t.result <- res
			q.log.Infof("[ticket %s] %s resolved status=%s in %s", t.id, t.videoID, res.Status, time.Since(start).Round(time.Millisecond))
		}
	}
}

// process runs one ticket under the hard ceiling. A wedged resolution
// unblocks the ticket at the ceiling; the underlying work is cancelled via
// context and the consumer moves on. A panicking resolver is converted to a
// TransientFailure for this ticket only.
func (q *Queue) process(ctx context.Context, t *ticket) types.ResolutionResult {
	tctx, cancel := context.WithTimeout(ctx, q.ceiling)
	defer cancel()

	done := make(chan types.ResolutionResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				q.log.Warnf("[ticket %s] resolver panic: %v", t.id, r)
				done <- types.ResolutionResult{
					Status: types.StatusTransientFailure,
					Err:    fmt.Sprintf("internal fault: %v", r),
				}
			}
		}()
		done <- q.resolver.Resolve(tctx, t.videoID)
	}()

	select {
	case res := <-done:
		return res
	case <-tctx.Done():
		return types.ResolutionResult{
			Status: types.StatusTransientFailure,
			Err:    fmt.Sprintf("request ceiling (%s) exceeded", q.ceiling),
		}
	}
}
