package minisdk

import "sync"

// LifecycleEvent is an application lifecycle transition.
type LifecycleEvent int

const (
	Foregrounded LifecycleEvent = iota + 1
	Backgrounded
)

func (e LifecycleEvent) String() string {
	switch e {
	case Foregrounded:
		return "foregrounded"
	case Backgrounded:
		return "backgrounded"
	default:
		return "unknown"
	}
}

// LifecycleSource delivers lifecycle events to subscribers. The returned
// cancel func ends the subscription; calling it more than once is allowed.
type LifecycleSource interface {
	Subscribe(fn func(LifecycleEvent)) (cancel func())
}

// LifecycleNotifier is an in-process LifecycleSource. Hosts call Post when
// the application changes state.
type LifecycleNotifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(LifecycleEvent)
}

func NewLifecycleNotifier() *LifecycleNotifier {
	return &LifecycleNotifier{subs: make(map[int]func(LifecycleEvent))}
}

func (n *LifecycleNotifier) Subscribe(fn func(LifecycleEvent)) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Post delivers e synchronously to every current subscriber.
func (n *LifecycleNotifier) Post(e LifecycleEvent) {
	n.mu.Lock()
	fns := make([]func(LifecycleEvent), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Subscribers returns the number of active subscriptions.
func (n *LifecycleNotifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
