package minisdk

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
)

const msgReinitializing = "SDK was already initialized. Reinitializing..."

var (
	// ErrAlreadyStarted is returned by Start when lifecycle tracking is active.
	ErrAlreadyStarted = errors.New("minisdk: lifecycle tracking already started")

	// ErrClosed is returned by calls that need a result after Close.
	ErrClosed = errors.New("minisdk: sdk closed")

	// ErrNilSource is returned by Start when given a nil LifecycleSource.
	ErrNilSource = errors.New("minisdk: nil lifecycle source")
)

// Option configures SDK.
type Option func(*SDK)

// WithSlog sets the logger used for SDK diagnostics. Messages meant for the
// host go through the Logger capability instead.
func WithSlog(logger *slog.Logger) Option {
	return func(s *SDK) {
		s.logger = logger
	}
}

// SDK is the event and push-token facade.
//
// Operations never block and never fail from the caller's perspective. Each
// returns an *Op that resolves after its effects have been delivered.
type SDK struct {
	sink   Logger
	store  TokenStore
	logger *slog.Logger

	// config is only written inside barrier tasks on serial.
	config SdkConfig

	serial   *dispatchQueue
	delivery *dispatchQueue

	mu          sync.Mutex
	closed      bool
	unsubscribe func()
}

// New creates an SDK delivering messages to sink and persisting push tokens
// in store. A nil sink logs to stdout; a nil store keeps the token in memory.
func New(sink Logger, store TokenStore, opts ...Option) *SDK {
	if sink == nil {
		sink = NewStdoutLogger(nil)
	}
	if store == nil {
		store = NewMemoryTokenStore()
	}
	s := &SDK{
		sink:   sink,
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.serial = newDispatchQueue("serial", true, s.logger)
	s.delivery = newDispatchQueue("delivery", false, s.logger)
	return s
}

// Initialize replaces the SDK configuration. Calling it again overwrites the
// previous configuration and logs a reinitialization warning first. The API
// key is not validated.
func (s *SDK) Initialize(apiKey string, base64Encoding bool) *Op {
	op := newOp()
	s.submit(op, true, func() {
		reinit := s.config.Initialized
		s.config = SdkConfig{
			APIKey:         apiKey,
			Base64Encoding: base64Encoding,
			Initialized:    true,
		}
		s.deliver(op, func() {
			if reinit {
				s.sink.Log(msgReinitializing)
			}
			s.sink.Log("Initialized with API Key: " + apiKey)
		})
	})
	return op
}

// SendPushToken stores token verbatim and logs it. The logged form is
// base64-encoded when the configuration in effect at execution time asks for
// it.
func (s *SDK) SendPushToken(token string) *Op {
	op := newOp()
	s.submit(op, false, func() {
		storeErr := s.storeToken(token)
		shown := token
		if s.config.Base64Encoding {
			shown = base64.StdEncoding.EncodeToString([]byte(token))
		}
		s.deliver(op, func() {
			if storeErr != nil {
				s.sink.Log(fmt.Sprintf("Failed to store push token: %v", storeErr))
			}
			s.sink.Log("Push Token Sent: " + shown)
		})
	})
	return op
}

// TrackEvent logs an event. A nil payload logs only the name; otherwise the
// payload is rendered with EncodePayload. The top level of payload is copied,
// so the caller may reuse the map once TrackEvent returns.
func (s *SDK) TrackEvent(name string, payload map[string]any) *Op {
	rec := EventRecord{Name: name, Payload: maps.Clone(payload)}
	op := newOp()
	s.submit(op, false, func() {
		s.deliver(op, func() {
			s.sink.Log(rec.Message())
		})
	})
	return op
}

// TrackPushReceived tracks a delivered push notification.
func (s *SDK) TrackPushReceived(payload map[string]any) *Op {
	return s.TrackEvent(EventPushReceived, payload)
}

// TrackPushOpened tracks a push notification the user opened.
func (s *SDK) TrackPushOpened(payload map[string]any) *Op {
	return s.TrackEvent(EventPushOpened, payload)
}

// OnForegrounded tracks the application entering the foreground.
func (s *SDK) OnForegrounded() *Op {
	return s.TrackEvent(EventAppForegrounded, nil)
}

// OnBackgrounded tracks the application entering the background.
func (s *SDK) OnBackgrounded() *Op {
	return s.TrackEvent(EventAppBackgrounded, nil)
}

// Config returns the configuration as seen after every previously submitted
// Initialize.
func (s *SDK) Config(ctx context.Context) (SdkConfig, error) {
	ch := make(chan SdkConfig, 1)
	if !s.serial.async(func() { ch <- s.config }) {
		return SdkConfig{}, ErrClosed
	}
	select {
	case cfg := <-ch:
		return cfg, nil
	case <-ctx.Done():
		return SdkConfig{}, ctx.Err()
	}
}

// Flush waits until every operation submitted before it has delivered its
// effects.
func (s *SDK) Flush(ctx context.Context) error {
	op := newOp()
	s.submit(op, true, func() {
		s.deliver(op, func() {})
	})
	return op.Wait(ctx)
}

// Start subscribes to src and tracks foreground and background transitions
// until Stop or Close.
func (s *SDK) Start(src LifecycleSource) error {
	if src == nil {
		return ErrNilSource
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.unsubscribe != nil {
		return ErrAlreadyStarted
	}
	s.unsubscribe = src.Subscribe(s.handleLifecycle)
	s.logger.Debug("lifecycle tracking started")
	return nil
}

// Stop ends lifecycle tracking. It is a no-op when tracking is not active.
func (s *SDK) Stop() {
	s.mu.Lock()
	cancel := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		s.logger.Debug("lifecycle tracking stopped")
	}
}

// Close stops lifecycle tracking, waits for queued operations to deliver
// their effects and releases the queue goroutines. Operations submitted after
// Close resolve immediately without effect.
func (s *SDK) Close(ctx context.Context) error {
	s.Stop()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.serial.close()
	err := s.serial.wait(ctx)
	s.delivery.close()
	if err != nil {
		return fmt.Errorf("draining sdk queue: %w", err)
	}
	if err := s.delivery.wait(ctx); err != nil {
		return fmt.Errorf("draining delivery queue: %w", err)
	}
	return nil
}

func (s *SDK) handleLifecycle(e LifecycleEvent) {
	switch e {
	case Foregrounded:
		s.OnForegrounded()
	case Backgrounded:
		s.OnBackgrounded()
	default:
		s.logger.Debug("ignoring lifecycle event", "event", e.String())
	}
}

// submit schedules fn on the serialization queue. op is resolved here if the
// task is dropped or fn panics before handing off to the delivery queue.
func (s *SDK) submit(op *Op, barrier bool, fn func()) {
	task := func() {
		handedOff := false
		defer func() {
			if !handedOff {
				op.resolve()
			}
		}()
		fn()
		handedOff = true
	}
	var ok bool
	if barrier {
		ok = s.serial.barrier(task)
	} else {
		ok = s.serial.async(task)
	}
	if !ok {
		s.logger.Debug("dropping operation on closed sdk")
		op.resolve()
	}
}

// deliver schedules fn on the delivery queue and resolves op once it has run.
func (s *SDK) deliver(op *Op, fn func()) {
	ok := s.delivery.async(func() {
		defer op.resolve()
		fn()
	})
	if !ok {
		op.resolve()
	}
}

// storeToken persists token, turning a panicking store into an error.
func (s *SDK) storeToken(token string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("token store panicked: %v", r)
		}
	}()
	if err := s.store.StoreToken(token); err != nil {
		s.logger.Warn("failed to store push token", "error", err)
		return err
	}
	return nil
}
