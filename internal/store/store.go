// Package store keeps the client side state of a resource collection in sync with the API.
//
// Every intent issues exactly one request. The state only changes once the
// server answered: a fulfilled intent runs its reducer, a rejected one records
// the error and leaves the items alone. Intents are not queued against each
// other, so by default the response that arrives last wins. WithSequencing
// discards a response once a newer request for the same id was applied.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/lustre-atelier/backoffice/internal/feedback"
	"github.com/lustre-atelier/backoffice/internal/remote"
	"github.com/lustre-atelier/backoffice/internal/resource"
)

// ErrInvalidStatus is returned by SetStatus for a status outside the kind's status set.
var ErrInvalidStatus = errors.New("invalid status")

// Remote is the API surface a store needs for one resource kind.
type Remote[T resource.Resource] interface {
	List(ctx context.Context, q remote.ListQuery) (*remote.Page[T], error)
	Create(ctx context.Context, in remote.CreateInput) (T, error)
	Update(ctx context.Context, id resource.ID, patch resource.Fields) (T, error)
	Delete(ctx context.Context, id resource.ID) error
	SetStatus(ctx context.Context, id resource.ID, status resource.Status) (T, error)
}

// Notifier receives the feedback of every intent outcome.
type Notifier interface {
	Notify(kind feedback.Kind, message string)
}

type Store[T resource.Resource] struct {
	kind      resource.Kind
	remote    Remote[T]
	notifier  Notifier
	observer  Observer
	sequenced bool

	mu          sync.Mutex
	state       State[T]
	listGen     uint64
	listApplied uint64
	idGen       map[resource.ID]uint64 // Latest generation sent per id, kept while requests are in flight
	idApplied   map[resource.ID]uint64 // Newest generation applied per id
	inflight    map[resource.ID]int
	listeners   map[int]func(State[T])
	nextID      int
}

// New creates an empty store for kind. A nil notifier drops the feedback.
func New[T resource.Resource](kind resource.Kind, r Remote[T], notifier Notifier, opts ...Option) *Store[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if notifier == nil {
		notifier = discard{}
	}
	return &Store[T]{
		kind:      kind,
		remote:    r,
		notifier:  notifier,
		observer:  o.observer,
		sequenced: o.sequenced,
		state: State[T]{
			Items:   []T{},
			Pending: make(map[Intent]int),
		},
		idGen:     make(map[resource.ID]uint64),
		idApplied: make(map[resource.ID]uint64),
		inflight:  make(map[resource.ID]int),
		listeners: make(map[int]func(State[T])),
	}
}

func (s *Store[T]) Kind() resource.Kind {
	return s.kind
}

// Snapshot returns a copy of the current state.
func (s *Store[T]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive a snapshot after every transition.
// fn runs outside the store lock and may dispatch intents. Snapshots of
// concurrent transitions can arrive out of order, compare State.Version to
// keep the latest.
func (s *Store[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// FetchList replaces the items and the pagination with one page from the API.
func (s *Store[T]) FetchList(ctx context.Context, q remote.ListQuery) error {
	t := s.begin(FetchList, "", true)
	page, err := s.remote.List(ctx, q)
	if err != nil {
		s.reject(t, err)
		return err
	}
	s.fulfill(t, func(st *State[T]) {
		reduceFetched(st, page)
	})
	return nil
}

// Create creates a resource and puts it first in the items.
func (s *Store[T]) Create(ctx context.Context, in remote.CreateInput) (T, error) {
	t := s.begin(Create, "", true)
	item, err := s.remote.Create(ctx, in)
	if err != nil {
		s.reject(t, err)
		return item, err
	}
	s.fulfill(t, func(st *State[T]) {
		reduceCreated(st, item)
	})
	return item, nil
}

// Update patches a resource and replaces it in place if it is loaded.
func (s *Store[T]) Update(ctx context.Context, id resource.ID, patch resource.Fields) (T, error) {
	t := s.begin(Update, id, true)
	item, err := s.remote.Update(ctx, id, patch)
	if err != nil {
		s.reject(t, err)
		return item, err
	}
	s.fulfill(t, func(st *State[T]) {
		reduceReplaced(st, item)
	})
	return item, nil
}

// Delete deletes a resource and removes it from the items.
func (s *Store[T]) Delete(ctx context.Context, id resource.ID) error {
	t := s.begin(Delete, id, true)
	if err := s.remote.Delete(ctx, id); err != nil {
		s.reject(t, err)
		return err
	}
	s.fulfill(t, func(st *State[T]) {
		reduceDeleted(st, id)
	})
	return nil
}

// SetStatus moves a resource to status and replaces it with the server's copy.
// A status outside the kind's set is rejected without calling the API.
func (s *Store[T]) SetStatus(ctx context.Context, id resource.ID, status resource.Status) (T, error) {
	valid := s.kind.ValidStatus(status)
	t := s.begin(SetStatus, id, valid)
	if !valid {
		var zero T
		err := fmt.Errorf("%w %q for %s, expected one of %s", ErrInvalidStatus, status, s.kind.Name, s.kind.StatusNames())
		s.reject(t, err)
		return zero, err
	}

	item, err := s.remote.SetStatus(ctx, id, status)
	if err != nil {
		s.reject(t, err)
		return item, err
	}
	s.fulfill(t, func(st *State[T]) {
		reduceReplaced(st, item)
	})
	return item, nil
}

// ticket tracks one in flight intent.
type ticket struct {
	intent  Intent
	id      resource.ID
	gen     uint64
	started time.Time
}

// begin applies the pending transition. A generation is only claimed when a request will be sent.
func (s *Store[T]) begin(intent Intent, id resource.ID, sends bool) ticket {
	t := ticket{intent: intent, id: id, started: time.Now()}

	s.mu.Lock()
	s.state.Pending[intent]++
	if intent == FetchList {
		s.state.Loading = true
	}
	switch {
	case !sends:
	case intent == FetchList:
		s.listGen++
		t.gen = s.listGen
	case id != "":
		s.idGen[id]++
		s.inflight[id]++
		t.gen = s.idGen[id]
	}
	snapshot, listeners := s.publish()
	s.mu.Unlock()

	slog.Debug("intent pending", "kind", s.kind.Name, "intent", intent, "id", id)
	s.emit(snapshot, listeners)
	return t
}

// stale must be called with mu held. A result is stale once a newer request
// for the same target was applied. Rejections never invalidate older results
// and a confirmed delete always applies.
func (s *Store[T]) stale(t ticket, fulfilled bool) bool {
	if !s.sequenced || t.gen == 0 {
		return false
	}
	switch {
	case t.intent == FetchList:
		return t.gen < s.listApplied
	case t.intent == Delete && fulfilled:
		return false
	case t.id != "":
		return t.gen < s.idApplied[t.id]
	}
	return false
}

// applied must be called with mu held, for a fulfilled result that was not stale.
func (s *Store[T]) applied(t ticket) {
	switch {
	case t.gen == 0:
	case t.intent == FetchList:
		s.listApplied = max(s.listApplied, t.gen)
	case t.id != "":
		s.idApplied[t.id] = max(s.idApplied[t.id], t.gen)
	}
}

// settle must be called with mu held. It drops the pending mark and reports whether the result is stale.
func (s *Store[T]) settle(t ticket, fulfilled bool) bool {
	s.state.Pending[t.intent]--
	if s.state.Pending[t.intent] <= 0 {
		delete(s.state.Pending, t.intent)
	}

	stale := s.stale(t, fulfilled)
	if fulfilled && !stale {
		s.applied(t)
	}
	if t.intent == FetchList {
		if s.sequenced {
			s.state.Loading = s.state.Pending[FetchList] > 0
		} else {
			s.state.Loading = false
		}
	}
	if t.intent != FetchList && t.id != "" && t.gen != 0 {
		s.inflight[t.id]--
		if s.inflight[t.id] <= 0 {
			delete(s.inflight, t.id)
			delete(s.idGen, t.id)
			delete(s.idApplied, t.id)
		}
	}
	return stale
}

func (s *Store[T]) fulfill(t ticket, reduce func(*State[T])) {
	s.mu.Lock()
	stale := s.settle(t, true)
	if !stale {
		reduce(&s.state)
		s.state.Err = nil
	}
	snapshot, listeners := s.publish()
	s.mu.Unlock()

	outcome := Fulfilled
	if stale {
		outcome = Discarded
		slog.Debug("discarding stale response", "kind", s.kind.Name, "intent", t.intent, "id", t.id)
	} else {
		slog.Debug("intent fulfilled", "kind", s.kind.Name, "intent", t.intent, "id", t.id)
	}
	s.observe(t, outcome)
	if msg := s.kind.Message(t.intent.String(), true); msg != "" {
		s.notifier.Notify(feedback.Success, msg)
	}
	s.emit(snapshot, listeners)
}

func (s *Store[T]) reject(t ticket, err error) {
	s.mu.Lock()
	stale := s.settle(t, false)
	if !stale {
		s.state.Err = err
	}
	snapshot, listeners := s.publish()
	s.mu.Unlock()

	slog.Warn("intent rejected", "kind", s.kind.Name, "intent", t.intent, "id", t.id, "error", err)
	outcome := Rejected
	if stale {
		outcome = Discarded
	}
	s.observe(t, outcome)
	s.notifier.Notify(feedback.Error, s.kind.Message(t.intent.String(), false))
	s.emit(snapshot, listeners)
}

// publish must be called with mu held, after a transition was applied.
func (s *Store[T]) publish() (State[T], []func(State[T])) {
	s.state.Version++
	if len(s.listeners) == 0 {
		return State[T]{}, nil
	}
	listeners := make([]func(State[T]), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	return s.state.clone(), listeners
}

func (s *Store[T]) emit(snapshot State[T], listeners []func(State[T])) {
	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (s *Store[T]) observe(t ticket, outcome Outcome) {
	if s.observer != nil {
		s.observer.ObserveIntent(s.kind, t.intent, outcome, time.Since(t.started))
	}
}

type discard struct{}

func (discard) Notify(feedback.Kind, string) {}
