// Package app wires the stores of every resource kind into one back-office session.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lustre-atelier/backoffice/internal/feedback"
	"github.com/lustre-atelier/backoffice/internal/httpclient"
	"github.com/lustre-atelier/backoffice/internal/metrics"
	"github.com/lustre-atelier/backoffice/internal/remote"
	"github.com/lustre-atelier/backoffice/internal/resource"
	"github.com/lustre-atelier/backoffice/internal/store"
)

type Options struct {
	Sequenced bool          // Discard stale responses, see store.WithSequencing
	ToastTTL  time.Duration // Lifetime of feedback notifications
}

// Session owns the stores for the lifetime of one back-office session.
type Session struct {
	HTTP     *httpclient.HttpClient
	Feedback *feedback.Channel
	Metrics  *metrics.Intents
	Media    *remote.MediaClient

	Blogs        *store.Store[resource.Blog]
	Products     *store.Store[resource.Product]
	Banners      *store.Store[resource.Banner]
	Appointments *store.Store[resource.Appointment]
}

// Summary is the pagination state of one store.
type Summary struct {
	Kind        resource.Kind
	Loaded      int
	Total       int
	CurrentPage int
	TotalPages  int
	Err         error
}

func New(http *httpclient.HttpClient, opts Options) *Session {
	s := &Session{
		HTTP:     http,
		Feedback: feedback.New(opts.ToastTTL),
		Metrics:  metrics.New(),
		Media:    remote.NewMediaClient(http),
	}

	storeOpts := []store.Option{store.WithObserver(s.Metrics)}
	if opts.Sequenced {
		storeOpts = append(storeOpts, store.WithSequencing())
	}

	s.Blogs = store.New[resource.Blog](resource.BlogKind,
		remote.NewClient[resource.Blog](http, resource.BlogKind), s.Feedback, storeOpts...)
	s.Products = store.New[resource.Product](resource.ProductKind,
		remote.NewClient[resource.Product](http, resource.ProductKind), s.Feedback, storeOpts...)
	s.Banners = store.New[resource.Banner](resource.BannerKind,
		remote.NewClient[resource.Banner](http, resource.BannerKind), s.Feedback, storeOpts...)
	s.Appointments = store.New[resource.Appointment](resource.AppointmentKind,
		remote.NewClient[resource.Appointment](http, resource.AppointmentKind), s.Feedback, storeOpts...)

	return s
}

// Refresh fetches the first page of every store concurrently.
// A failing store does not stop the others; the first error is returned.
func (s *Session) Refresh(ctx context.Context) error {
	slog.Info("Refreshing all resources...")
	var g errgroup.Group
	first := remote.ListQuery{Page: 1}

	g.Go(func() error { return s.Blogs.FetchList(ctx, first) })
	g.Go(func() error { return s.Products.FetchList(ctx, first) })
	g.Go(func() error { return s.Banners.FetchList(ctx, first) })
	g.Go(func() error { return s.Appointments.FetchList(ctx, first) })

	if err := g.Wait(); err != nil {
		return errors.WithMessage(err, "could not refresh resources")
	}
	return nil
}

// Summaries returns the pagination state of every store, in resource.Kinds order.
func (s *Session) Summaries() []Summary {
	return []Summary{
		summarize(s.Blogs),
		summarize(s.Products),
		summarize(s.Banners),
		summarize(s.Appointments),
	}
}

func summarize[T resource.Resource](st *store.Store[T]) Summary {
	snap := st.Snapshot()
	return Summary{
		Kind:        st.Kind(),
		Loaded:      len(snap.Items),
		Total:       snap.Total,
		CurrentPage: snap.CurrentPage,
		TotalPages:  snap.TotalPages,
		Err:         snap.Err,
	}
}
