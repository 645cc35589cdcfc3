package store

import (
	"time"

	"github.com/lustre-atelier/backoffice/internal/resource"
)

// Outcome is the terminal state of an intent.
type Outcome string

const (
	Fulfilled Outcome = "fulfilled"
	Rejected  Outcome = "rejected"
	Discarded Outcome = "discarded" // Resolved after a newer request for the same target
)

// Observer is told about every settled intent, e.g. to export metrics.
type Observer interface {
	ObserveIntent(kind resource.Kind, intent Intent, outcome Outcome, elapsed time.Duration)
}

type options struct {
	observer  Observer
	sequenced bool
}

type Option func(*options)

// WithSequencing makes the store drop responses overtaken by a newer request
// that was already applied: a FetchList older than the latest applied page, or
// a mutation of an id older than the latest applied mutation of the same id.
// A confirmed Delete always applies. Without it the last response to arrive wins.
func WithSequencing() Option {
	return func(o *options) {
		o.sequenced = true
	}
}

func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}
