package push

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/slush-dev/minisdk"
)

// maxSeenIDs bounds the presented-notification dedup window.
const maxSeenIDs = 200

// Tracker is the part of minisdk.SDK the bridge drives.
type Tracker interface {
	SendPushToken(token string) *minisdk.Op
	TrackPushReceived(payload map[string]any) *minisdk.Op
	TrackPushOpened(payload map[string]any) *minisdk.Op
}

// Option configures Bridge.
type Option func(*Bridge)

// WithLogger sets a custom logger for Bridge.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// Bridge forwards push provider callbacks to a Tracker.
type Bridge struct {
	tracker Tracker
	logger  *slog.Logger

	mu      sync.Mutex
	seen    map[string]struct{}
	seenIDs []string
	onError func(error)
}

// NewBridge creates a Bridge for tracker.
func NewBridge(tracker Tracker, opts ...Option) *Bridge {
	b := &Bridge{
		tracker: tracker,
		logger:  slog.Default(),
		seen:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OnError registers a callback for provider failures reported through
// HandleFailure.
func (b *Bridge) OnError(fn func(error)) {
	b.mu.Lock()
	b.onError = fn
	b.mu.Unlock()
}

// HandleToken reports a newly issued registration token. Empty tokens are
// ignored and yield a nil (already resolved) Op.
func (b *Bridge) HandleToken(token string) *minisdk.Op {
	if token == "" {
		b.logger.Debug("ignoring empty push token")
		return nil
	}
	b.logger.Debug("push token issued", "token_prefix", truncate(token, 20))
	return b.tracker.SendPushToken(token)
}

// HandleFailure records a registration or permission failure. Failures never
// reach the SDK; they are logged and passed to the OnError callback.
func (b *Bridge) HandleFailure(err error) {
	if err == nil {
		return
	}
	b.logger.Warn("push registration failed", "error", err)
	b.mu.Lock()
	fn := b.onError
	b.mu.Unlock()
	if fn != nil {
		fn(fmt.Errorf("push registration: %w", err))
	}
}

// Presented tracks a notification delivered to the device. A notification
// whose ID was already presented recently is dropped and yields a nil Op.
func (b *Bridge) Presented(n Notification) *minisdk.Op {
	if !b.markSeen(n.ID) {
		b.logger.Debug("dropping duplicate push notification", "id", n.ID)
		return nil
	}
	return b.tracker.TrackPushReceived(n.Data)
}

// Opened tracks a notification the user opened.
func (b *Bridge) Opened(n Notification) *minisdk.Op {
	return b.tracker.TrackPushOpened(n.Data)
}

// markSeen records id and reports whether it is new. Older IDs are pruned
// once the window exceeds maxSeenIDs.
func (b *Bridge) markSeen(id string) bool {
	if id == "" {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.seen[id]; ok {
		return false
	}
	b.seen[id] = struct{}{}
	b.seenIDs = append(b.seenIDs, id)
	if len(b.seenIDs) > maxSeenIDs {
		drop := len(b.seenIDs) - maxSeenIDs
		for _, old := range b.seenIDs[:drop] {
			delete(b.seen, old)
		}
		b.seenIDs = b.seenIDs[drop:]
	}
	return true
}

// truncate returns the first maxLen bytes of s, or s itself if shorter.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
