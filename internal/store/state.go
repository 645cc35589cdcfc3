package store

import (
	"github.com/lustre-atelier/backoffice/internal/resource"
)

// Intent is a named asynchronous operation the store drives against the API.
type Intent string

const (
	FetchList Intent = "fetchList"
	Create    Intent = "create"
	Update    Intent = "update"
	Delete    Intent = "delete"
	SetStatus Intent = "setStatus"
)

func (i Intent) String() string {
	return string(i)
}

// State is the client side view of one resource collection.
//
// Total, CurrentPage and TotalPages are only authoritative right after a
// FetchList. Create and Delete adjust Total locally, so it can drift from the
// server until the next fetch.
type State[T resource.Resource] struct {
	Items       []T
	Loading     bool  // A FetchList is in flight
	Err         error // Last rejection, cleared by the next fulfilled intent
	Total       int
	CurrentPage int
	TotalPages  int
	Pending     map[Intent]int // In flight requests per intent
	Version     uint64         // Incremented by every transition
}

// IsPending returns true while at least one request of the intent is in flight.
func (s State[T]) IsPending(intent Intent) bool {
	return s.Pending[intent] > 0
}

// Find returns the item with the given id.
func (s State[T]) Find(id resource.ID) (T, bool) {
	if i := indexOf(s.Items, id); i >= 0 {
		return s.Items[i], true
	}
	var zero T
	return zero, false
}

// IDs returns the ids of the items in display order.
func (s State[T]) IDs() []resource.ID {
	ids := make([]resource.ID, len(s.Items))
	for i, item := range s.Items {
		ids[i] = item.ResourceID()
	}
	return ids
}

func (s State[T]) clone() State[T] {
	out := s
	out.Items = make([]T, len(s.Items))
	copy(out.Items, s.Items)
	out.Pending = make(map[Intent]int, len(s.Pending))
	for k, v := range s.Pending {
		out.Pending[k] = v
	}
	return out
}

func indexOf[T resource.Resource](items []T, id resource.ID) int {
	for i, item := range items {
		if item.ResourceID() == id {
			return i
		}
	}
	return -1
}
