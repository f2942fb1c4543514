// Package eventstream turns the backend's pull-style event journal into a
// push-style subscription: it polls the backend and forwards newly emitted
// events to a channel, optionally filtered by declared event type.
package eventstream

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gabapcia/ledgertest/internal/ledger"
	"github.com/gabapcia/ledgertest/internal/pkg/logger"
	"github.com/gabapcia/ledgertest/internal/pkg/resilience/retry"
	"github.com/gabapcia/ledgertest/internal/pkg/types"
	"github.com/gabapcia/ledgertest/internal/pkg/x/chflow"
)

// ErrServiceAlreadyStarted is returned if Start is called more than once.
var ErrServiceAlreadyStarted = errors.New("service already started")

const (
	defaultPollInterval    = 10 * time.Millisecond
	eventChannelBufferSize = 10
)

// EventSource is the slice of the backend the stream polls. The in-memory
// emulator and the remote JSON-RPC backend both satisfy it.
type EventSource interface {
	// Events returns every event emitted since backend creation, in order.
	Events(ctx context.Context) ([]ledger.Event, error)
}

// Service streams backend events to a channel.
type Service interface {
	// Start begins polling the source and returns the channel newly emitted
	// events are delivered on. Returns ErrServiceAlreadyStarted if the
	// service is already running. Call Close to stop.
	Start(ctx context.Context) (<-chan ledger.Event, error)

	// Close stops polling and releases the channel returned by Start.
	Close()
}

type closeFunc func()

type service struct {
	mu        sync.Mutex
	isStarted bool
	closeFunc closeFunc

	source   EventSource
	interval time.Duration
	filter   types.Set[string]
	retry    retry.Retry
}

var _ Service = (*service)(nil)

func (s *service) Start(ctx context.Context) (<-chan ledger.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return nil, ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	eventCh := make(chan ledger.Event, eventChannelBufferSize)

	s.closeFunc = func() {
		cancel()
		close(eventCh)
	}

	go s.poll(ctx, eventCh)

	s.isStarted = true
	return eventCh, nil
}

func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}
	s.isStarted = false
	s.closeFunc = nil
}

// poll fetches the full event journal on every tick and forwards the suffix
// it has not seen yet. Fetch failures are logged and the tick skipped; the
// cursor only advances on success, so no event is lost.
func (s *service) poll(ctx context.Context, out chan<- ledger.Event) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var cursor int
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var events []ledger.Event
		fetch := func() error {
			var err error
			events, err = s.source.Events(ctx)
			return err
		}

		var err error
		if s.retry != nil {
			err = s.retry.Execute(ctx, fetch)
		} else {
			err = fetch()
		}
		if err != nil {
			logger.Error(ctx, "failed to fetch backend events", "error", err)
			continue
		}

		if cursor > len(events) {
			// backend was reset below our cursor; start over
			cursor = 0
		}

		fresh := events[cursor:]
		cursor = len(events)

		for _, event := range fresh {
			if !s.wants(event) {
				continue
			}
			if ok := chflow.Send(ctx, out, event); !ok {
				return
			}
		}
	}
}

// wants reports whether the event passes the type filter. An empty filter
// passes everything.
func (s *service) wants(event ledger.Event) bool {
	if len(s.filter) == 0 {
		return true
	}
	_, ok := s.filter[event.Type]
	return ok
}

type config struct {
	interval time.Duration
	filter   types.Set[string]
	retry    retry.Retry
}

// Option configures the stream before construction.
type Option func(*config)

// WithPollInterval sets how often the source is polled.
// Default: 10 milliseconds.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.interval = d
	}
}

// WithTypeFilter restricts the stream to events of the given declared
// types. Default: all types.
func WithTypeFilter(eventTypes ...string) Option {
	return func(c *config) {
		c.filter = types.NewSet(eventTypes...)
	}
}

// WithRetry wraps every poll in the given retry policy, for sources backed
// by a remote emulator. Default: no retries.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// New builds an event stream over the given source.
func New(source EventSource, opts ...Option) *service {
	cfg := config{
		interval: defaultPollInterval,
		filter:   types.NewSet[string](),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		source:   source,
		interval: cfg.interval,
		filter:   cfg.filter,
		retry:    cfg.retry,
	}
}
