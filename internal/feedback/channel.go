// Package feedback implements the transient notification surface driven by store intents.
package feedback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

const subscriberBuffer = 16

type Kind int

const (
	Success Kind = iota + 1
	Error
)

var kindNames = [...]string{"success", "error"}

func (k Kind) String() string {
	if k < Success || int(k) > len(kindNames) {
		return "unknown"
	}
	return kindNames[k-1]
}

// Notification is a single toast message.
type Notification struct {
	ID        uuid.UUID
	Kind      Kind
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Channel stacks notifications and dismisses them once their TTL elapsed.
// Enqueueing never blocks and the queue is unbounded.
type Channel struct {
	ttl time.Duration
	now func() time.Time

	mu          sync.Mutex
	queue       []Notification
	subscribers map[chan Notification]struct{}
}

// New creates a channel whose notifications expire after ttl. A ttl <= 0 selects DefaultTTL.
func New(ttl time.Duration) *Channel {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock is New with an injected clock.
func NewWithClock(ttl time.Duration, now func() time.Time) *Channel {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Channel{
		ttl:         ttl,
		now:         now,
		subscribers: make(map[chan Notification]struct{}),
	}
}

// Notify enqueues a notification and fans it out to subscribers.
func (c *Channel) Notify(kind Kind, message string) {
	now := c.now()
	n := Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	slog.Debug("notification", "kind", kind.String(), "message", message)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune(now)
	c.queue = append(c.queue, n)
	for sub := range c.subscribers {
		select {
		case sub <- n:
		default:
			slog.Warn("notification subscriber is full, dropping", "message", message)
		}
	}
}

func (c *Channel) Success(message string) {
	c.Notify(Success, message)
}

func (c *Channel) Error(message string) {
	c.Notify(Error, message)
}

// Active returns the notifications still visible, oldest first.
func (c *Channel) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune(c.now())
	out := make([]Notification, len(c.queue))
	copy(out, c.queue)
	return out
}

// Dismiss removes a notification before it expires.
func (c *Channel) Dismiss(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.queue {
		if n.ID == id {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Subscribe returns a channel receiving every new notification and a func to stop the subscription.
// A subscriber that does not keep up misses notifications.
func (c *Channel) Subscribe() (<-chan Notification, func()) {
	sub := make(chan Notification, subscriberBuffer)
	c.mu.Lock()
	c.subscribers[sub] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	return sub, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers, sub)
			close(sub)
		})
	}
}

// prune must be called with mu held.
func (c *Channel) prune(now time.Time) {
	kept := c.queue[:0]
	for _, n := range c.queue {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	c.queue = kept
}
