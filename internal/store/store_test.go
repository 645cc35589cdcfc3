package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lustre-atelier/backoffice/internal/feedback"
	"github.com/lustre-atelier/backoffice/internal/remote"
	"github.com/lustre-atelier/backoffice/internal/resource"
	"github.com/lustre-atelier/backoffice/internal/store"
)

type fakeRemote struct {
	list      func(q remote.ListQuery) (*remote.Page[resource.Blog], error)
	create    func(in remote.CreateInput) (resource.Blog, error)
	update    func(id resource.ID, patch resource.Fields) (resource.Blog, error)
	delete    func(id resource.ID) error
	setStatus func(id resource.ID, status resource.Status) (resource.Blog, error)
	calls     atomic.Int32
}

func (f *fakeRemote) List(_ context.Context, q remote.ListQuery) (*remote.Page[resource.Blog], error) {
	f.calls.Add(1)
	return f.list(q)
}

func (f *fakeRemote) Create(_ context.Context, in remote.CreateInput) (resource.Blog, error) {
	f.calls.Add(1)
	return f.create(in)
}

func (f *fakeRemote) Update(_ context.Context, id resource.ID, patch resource.Fields) (resource.Blog, error) {
	f.calls.Add(1)
	return f.update(id, patch)
}

func (f *fakeRemote) Delete(_ context.Context, id resource.ID) error {
	f.calls.Add(1)
	return f.delete(id)
}

func (f *fakeRemote) SetStatus(_ context.Context, id resource.ID, status resource.Status) (resource.Blog, error) {
	f.calls.Add(1)
	return f.setStatus(id, status)
}

type notification struct {
	kind    feedback.Kind
	message string
}

type recorder struct {
	mu            sync.Mutex
	notifications []notification
	outcomes      []store.Outcome
}

func (r *recorder) Notify(kind feedback.Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, notification{kind, message})
}

func (r *recorder) ObserveIntent(_ resource.Kind, _ store.Intent, outcome store.Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recorder) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.notifications...)
}

func blog(id, title string, status resource.Status) resource.Blog {
	return resource.Blog{ID: resource.ID(id), Title: title, Status: status}
}

func page(items ...resource.Blog) *remote.Page[resource.Blog] {
	return &remote.Page[resource.Blog]{Items: items, Total: len(items), CurrentPage: 1, TotalPages: 1}
}

func newStore(t *testing.T, f *fakeRemote, opts ...store.Option) (*store.Store[resource.Blog], *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append(opts, store.WithObserver(rec))
	return store.New[resource.Blog](resource.BlogKind, f, rec, opts...), rec
}

// loaded returns a store holding the given items after a successful fetch.
func loaded(t *testing.T, f *fakeRemote, items ...resource.Blog) (*store.Store[resource.Blog], *recorder) {
	t.Helper()
	f.list = func(remote.ListQuery) (*remote.Page[resource.Blog], error) { return page(items...), nil }
	s, rec := newStore(t, f)
	require.NoError(t, s.FetchList(context.Background(), remote.ListQuery{Page: 1}))
	return s, rec
}

func TestStore_Initial(t *testing.T) {
	s, _ := newStore(t, &fakeRemote{})
	st := s.Snapshot()
	require.Empty(t, st.Items)
	require.False(t, st.Loading)
	require.NoError(t, st.Err)
	require.Zero(t, st.Total)
	require.Equal(t, resource.BlogKind, s.Kind())
}

func TestStore_FetchList(t *testing.T) {
	f := &fakeRemote{list: func(q remote.ListQuery) (*remote.Page[resource.Blog], error) {
		require.Equal(t, 2, q.Page)
		return &remote.Page[resource.Blog]{
			Items:       []resource.Blog{blog("1", "A", "draft"), blog("2", "B", "published"), blog("1", "A again", "draft")},
			Total:       42,
			CurrentPage: 2,
			TotalPages:  5,
		}, nil
	}}
	s, rec := newStore(t, f)

	require.NoError(t, s.FetchList(context.Background(), remote.ListQuery{Page: 2}))

	st := s.Snapshot()
	require.Equal(t, []resource.ID{"1", "2"}, st.IDs())
	require.Equal(t, 42, st.Total)
	require.Equal(t, 2, st.CurrentPage)
	require.Equal(t, 5, st.TotalPages)
	require.False(t, st.Loading)
	require.False(t, st.IsPending(store.FetchList))
	require.Empty(t, rec.all())
	require.Equal(t, []store.Outcome{store.Fulfilled}, rec.outcomes)
}

func TestStore_FetchListRejected(t *testing.T) {
	f := &fakeRemote{}
	s, rec := loaded(t, f, blog("1", "A", "draft"))

	f.list = func(remote.ListQuery) (*remote.Page[resource.Blog], error) {
		return nil, &remote.Error{Kind: remote.ServerError, StatusCode: 500, Message: "boom"}
	}
	err := s.FetchList(context.Background(), remote.ListQuery{Page: 2})
	require.Error(t, err)

	st := s.Snapshot()
	require.Equal(t, []resource.ID{"1"}, st.IDs())
	require.Equal(t, 1, st.CurrentPage)
	require.False(t, st.Loading)
	require.Equal(t, err, st.Err)
	require.Equal(t, []notification{{feedback.Error, "Failed to fetch blogs"}}, rec.all())
}

func TestStore_Create(t *testing.T) {
	f := &fakeRemote{create: func(in remote.CreateInput) (resource.Blog, error) {
		return blog("3", in.Fields["title"].(string), "draft"), nil
	}}
	s, rec := loaded(t, f, blog("1", "A", "draft"), blog("2", "B", "draft"))

	created, err := s.Create(context.Background(), remote.CreateInput{Fields: resource.Fields{"title": "C"}})
	require.NoError(t, err)
	require.Equal(t, resource.ID("3"), created.ID)

	st := s.Snapshot()
	require.Equal(t, []resource.ID{"3", "1", "2"}, st.IDs())
	require.Equal(t, "C", st.Items[0].Title)
	require.Equal(t, 3, st.Total)
	require.Equal(t, []notification{{feedback.Success, "Blog created successfully"}}, rec.all())
}

func TestStore_CreateExistingID(t *testing.T) {
	f := &fakeRemote{create: func(remote.CreateInput) (resource.Blog, error) {
		return blog("2", "B2", "draft"), nil
	}}
	s, _ := loaded(t, f, blog("1", "A", "draft"), blog("2", "B", "draft"))

	_, err := s.Create(context.Background(), remote.CreateInput{})
	require.NoError(t, err)
	require.Equal(t, []resource.ID{"2", "1"}, s.Snapshot().IDs())
}

func TestStore_CreateRejected(t *testing.T) {
	f := &fakeRemote{create: func(remote.CreateInput) (resource.Blog, error) {
		return resource.Blog{}, &remote.Error{Kind: remote.ClientError, StatusCode: 400, Message: "Title required"}
	}}
	s, rec := loaded(t, f, blog("1", "A", "draft"))
	before := s.Snapshot()

	_, err := s.Create(context.Background(), remote.CreateInput{Fields: resource.Fields{"title": ""}})
	require.Error(t, err)

	st := s.Snapshot()
	require.Equal(t, before.Items, st.Items)
	require.Equal(t, before.Total, st.Total)
	require.Equal(t, "Title required", remote.MessageOf(st.Err))
	require.Equal(t, []notification{{feedback.Error, "Failed to create blog"}}, rec.all())
}

func TestStore_Update(t *testing.T) {
	f := &fakeRemote{update: func(id resource.ID, patch resource.Fields) (resource.Blog, error) {
		return blog(id.String(), patch["title"].(string), "draft"), nil
	}}
	s, rec := loaded(t, f, blog("1", "A", "draft"), blog("2", "B", "draft"))

	_, err := s.Update(context.Background(), "2", resource.Fields{"title": "B2"})
	require.NoError(t, err)

	st := s.Snapshot()
	require.Equal(t, []resource.ID{"1", "2"}, st.IDs())
	require.Equal(t, "B2", st.Items[1].Title)
	require.Equal(t, 2, st.Total)
	require.Equal(t, []notification{{feedback.Success, "Blog updated successfully"}}, rec.all())
}

func TestStore_UpdateUnknownID(t *testing.T) {
	f := &fakeRemote{update: func(id resource.ID, _ resource.Fields) (resource.Blog, error) {
		return blog(id.String(), "Z", "draft"), nil
	}}
	s, rec := loaded(t, f, blog("1", "A", "draft"))
	before := s.Snapshot()

	_, err := s.Update(context.Background(), "99", resource.Fields{"title": "Z"})
	require.NoError(t, err)

	st := s.Snapshot()
	require.Equal(t, before.Items, st.Items)
	require.Equal(t, before.Total, st.Total)
	require.Len(t, rec.all(), 1)
}

func TestStore_Delete(t *testing.T) {
	f := &fakeRemote{delete: func(resource.ID) error { return nil }}
	s, rec := loaded(t, f, blog("1", "A", "draft"), blog("2", "B", "draft"))

	require.NoError(t, s.Delete(context.Background(), "1"))
	st := s.Snapshot()
	require.Equal(t, []resource.ID{"2"}, st.IDs())
	require.Equal(t, 1, st.Total)

	// Items are unchanged by a second delete, the total still moves.
	require.NoError(t, s.Delete(context.Background(), "1"))
	st = s.Snapshot()
	require.Equal(t, []resource.ID{"2"}, st.IDs())
	require.Equal(t, 0, st.Total)

	require.Equal(t, []notification{
		{feedback.Success, "Blog deleted successfully"},
		{feedback.Success, "Blog deleted successfully"},
	}, rec.all())
}

func TestStore_DeleteRejected(t *testing.T) {
	f := &fakeRemote{delete: func(resource.ID) error { return errors.New("offline") }}
	s, rec := loaded(t, f, blog("1", "A", "draft"))

	require.Error(t, s.Delete(context.Background(), "1"))
	st := s.Snapshot()
	require.Equal(t, []resource.ID{"1"}, st.IDs())
	require.Equal(t, 1, st.Total)
	require.Equal(t, []notification{{feedback.Error, "Failed to delete blog"}}, rec.all())
}

func TestStore_SetStatus(t *testing.T) {
	f := &fakeRemote{setStatus: func(id resource.ID, status resource.Status) (resource.Blog, error) {
		return blog(id.String(), "A", status), nil
	}}
	s, rec := loaded(t, f, blog("1", "A", resource.BlogDraft))

	_, err := s.SetStatus(context.Background(), "1", resource.BlogPublished)
	require.NoError(t, err)

	st := s.Snapshot()
	item, ok := st.Find("1")
	require.True(t, ok)
	require.Equal(t, resource.BlogPublished, item.Status)
	require.Len(t, st.Items, 1)
	require.Equal(t, 1, st.Total)
	require.Equal(t, []notification{{feedback.Success, "Blog status updated successfully"}}, rec.all())
}

func TestStore_SetInvalidStatus(t *testing.T) {
	f := &fakeRemote{}
	s, rec := loaded(t, f, blog("1", "A", resource.BlogDraft))
	calls := f.calls.Load()

	_, err := s.SetStatus(context.Background(), "1", "active")
	require.ErrorIs(t, err, store.ErrInvalidStatus)
	require.Equal(t, calls, f.calls.Load())

	st := s.Snapshot()
	require.Equal(t, resource.BlogDraft, st.Items[0].Status)
	require.ErrorIs(t, st.Err, store.ErrInvalidStatus)
	require.False(t, st.IsPending(store.SetStatus))
	require.Equal(t, []notification{{feedback.Error, "Failed to update blog status"}}, rec.all())
}

func TestStore_ErrClearedByNextFulfilledIntent(t *testing.T) {
	fail := true
	f := &fakeRemote{update: func(id resource.ID, _ resource.Fields) (resource.Blog, error) {
		if fail {
			return resource.Blog{}, errors.New("offline")
		}
		return blog(id.String(), "A2", "draft"), nil
	}}
	s, _ := loaded(t, f, blog("1", "A", "draft"))

	_, err := s.Update(context.Background(), "1", nil)
	require.Error(t, err)
	require.Error(t, s.Snapshot().Err)

	fail = false
	_, err = s.Update(context.Background(), "1", nil)
	require.NoError(t, err)
	require.NoError(t, s.Snapshot().Err)
}

// gate blocks a fake call until released.
type gate struct {
	started chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) wait() {
	close(g.started)
	<-g.release
}

func TestStore_Pending(t *testing.T) {
	g := newGate()
	f := &fakeRemote{list: func(remote.ListQuery) (*remote.Page[resource.Blog], error) {
		g.wait()
		return page(blog("1", "A", "draft")), nil
	}}
	s, _ := newStore(t, f)

	done := make(chan error)
	go func() { done <- s.FetchList(context.Background(), remote.ListQuery{}) }()

	<-g.started
	st := s.Snapshot()
	require.True(t, st.Loading)
	require.True(t, st.IsPending(store.FetchList))

	close(g.release)
	require.NoError(t, <-done)
	st = s.Snapshot()
	require.False(t, st.Loading)
	require.False(t, st.IsPending(store.FetchList))
}

// racingUpdates issues two updates of id 1 and resolves the newer one first.
func racingUpdates(t *testing.T, opts ...store.Option) (*store.Store[resource.Blog], *recorder) {
	t.Helper()
	gates := map[string]*gate{"old": newGate(), "new": newGate()}
	f := &fakeRemote{
		list: func(remote.ListQuery) (*remote.Page[resource.Blog], error) { return page(blog("1", "A", "draft")), nil },
		update: func(id resource.ID, patch resource.Fields) (resource.Blog, error) {
			title := patch["title"].(string)
			gates[title].wait()
			return blog(id.String(), title, "draft"), nil
		},
	}
	s, rec := newStore(t, f, opts...)
	require.NoError(t, s.FetchList(context.Background(), remote.ListQuery{}))

	oldDone := make(chan error)
	go func() {
		_, err := s.Update(context.Background(), "1", resource.Fields{"title": "old"})
		oldDone <- err
	}()
	<-gates["old"].started

	newDone := make(chan error)
	go func() {
		_, err := s.Update(context.Background(), "1", resource.Fields{"title": "new"})
		newDone <- err
	}()
	<-gates["new"].started
	require.Equal(t, 2, s.Snapshot().Pending[store.Update])

	close(gates["new"].release)
	require.NoError(t, <-newDone)
	close(gates["old"].release)
	require.NoError(t, <-oldDone)
	return s, rec
}

func TestStore_LastResponseWins(t *testing.T) {
	s, rec := racingUpdates(t)

	st := s.Snapshot()
	require.Equal(t, "old", st.Items[0].Title)
	require.False(t, st.IsPending(store.Update))
	require.Equal(t, []store.Outcome{store.Fulfilled, store.Fulfilled, store.Fulfilled}, rec.outcomes)
}

func TestStore_SequencedDiscardsStaleResponse(t *testing.T) {
	s, rec := racingUpdates(t, store.WithSequencing())

	st := s.Snapshot()
	require.Equal(t, "new", st.Items[0].Title)
	require.False(t, st.IsPending(store.Update))
	require.Equal(t, []store.Outcome{store.Fulfilled, store.Fulfilled, store.Discarded}, rec.outcomes)
}

// racingFetches issues two fetches and resolves them in the given order.
func racingFetches(t *testing.T, order ...int) (*store.Store[resource.Blog], *recorder, []store.State[resource.Blog]) {
	t.Helper()
	gates := []*gate{newGate(), newGate()}
	var n atomic.Int32
	f := &fakeRemote{list: func(remote.ListQuery) (*remote.Page[resource.Blog], error) {
		i := n.Add(1) - 1
		gates[i].wait()
		return page(blog(string(rune('1'+i)), "A", "draft")), nil
	}}
	s, rec := newStore(t, f, store.WithSequencing())

	done := make([]chan error, len(gates))
	for i := range gates {
		done[i] = make(chan error)
		go func(i int) { done[i] <- s.FetchList(context.Background(), remote.ListQuery{Page: i + 1}) }(i)
		<-gates[i].started
	}

	var states []store.State[resource.Blog]
	for _, i := range order {
		close(gates[i].release)
		require.NoError(t, <-done[i])
		states = append(states, s.Snapshot())
	}
	return s, rec, states
}

func TestStore_SequencedFetchInOrder(t *testing.T) {
	_, rec, states := racingFetches(t, 0, 1)

	// The older page applies while the newer fetch is still loading
	require.True(t, states[0].Loading)
	require.Equal(t, []resource.ID{"1"}, states[0].IDs())

	require.False(t, states[1].Loading)
	require.Equal(t, []resource.ID{"2"}, states[1].IDs())
	require.Equal(t, []store.Outcome{store.Fulfilled, store.Fulfilled}, rec.outcomes)
}

func TestStore_SequencedFetchDiscardsOlderPage(t *testing.T) {
	_, rec, states := racingFetches(t, 1, 0)

	require.True(t, states[0].Loading)
	require.Equal(t, []resource.ID{"2"}, states[0].IDs())

	require.False(t, states[1].Loading)
	require.Equal(t, []resource.ID{"2"}, states[1].IDs())
	require.Equal(t, []store.Outcome{store.Fulfilled, store.Discarded}, rec.outcomes)
}

func TestStore_SequencedRejectedUpdateKeepsConfirmedDelete(t *testing.T) {
	g := newGate()
	f := &fakeRemote{
		delete: func(resource.ID) error {
			g.wait()
			return nil
		},
		update: func(resource.ID, resource.Fields) (resource.Blog, error) {
			return resource.Blog{}, &remote.Error{Kind: remote.ClientError, StatusCode: 404, Message: "Not Found"}
		},
	}
	f.list = func(remote.ListQuery) (*remote.Page[resource.Blog], error) { return page(blog("1", "A", "draft")), nil }
	s, rec := newStore(t, f, store.WithSequencing())
	require.NoError(t, s.FetchList(context.Background(), remote.ListQuery{}))

	done := make(chan error)
	go func() { done <- s.Delete(context.Background(), "1") }()
	<-g.started

	_, err := s.Update(context.Background(), "1", resource.Fields{"title": "B"})
	require.Error(t, err)

	close(g.release)
	require.NoError(t, <-done)

	st := s.Snapshot()
	require.Empty(t, st.Items)
	require.Equal(t, 0, st.Total)
	require.Equal(t, []store.Outcome{store.Fulfilled, store.Rejected, store.Fulfilled}, rec.outcomes)
}

func TestStore_SequencedInvalidStatusKeepsConfirmedUpdate(t *testing.T) {
	g := newGate()
	f := &fakeRemote{update: func(id resource.ID, patch resource.Fields) (resource.Blog, error) {
		g.wait()
		return blog(id.String(), patch["title"].(string), "draft"), nil
	}}
	f.list = func(remote.ListQuery) (*remote.Page[resource.Blog], error) { return page(blog("1", "A", "draft")), nil }
	s, rec := newStore(t, f, store.WithSequencing())
	require.NoError(t, s.FetchList(context.Background(), remote.ListQuery{}))

	type result struct {
		item resource.Blog
		err  error
	}
	done := make(chan result)
	go func() {
		item, err := s.Update(context.Background(), "1", resource.Fields{"title": "B"})
		done <- result{item, err}
	}()
	<-g.started

	_, err := s.SetStatus(context.Background(), "1", "active")
	require.ErrorIs(t, err, store.ErrInvalidStatus)

	close(g.release)
	require.NoError(t, (<-done).err)

	st := s.Snapshot()
	require.Equal(t, "B", st.Items[0].Title)
	require.NoError(t, st.Err)
	require.Equal(t, []store.Outcome{store.Fulfilled, store.Rejected, store.Fulfilled}, rec.outcomes)
}

func TestStore_Subscribe(t *testing.T) {
	f := &fakeRemote{delete: func(resource.ID) error { return nil }}
	s, _ := loaded(t, f, blog("1", "A", "draft"))

	var snapshots []store.State[resource.Blog]
	unsubscribe := s.Subscribe(func(st store.State[resource.Blog]) {
		snapshots = append(snapshots, st)
	})

	require.NoError(t, s.Delete(context.Background(), "1"))
	require.Len(t, snapshots, 2)
	require.True(t, snapshots[0].IsPending(store.Delete))
	require.Equal(t, []resource.ID{"1"}, snapshots[0].IDs())
	require.False(t, snapshots[1].IsPending(store.Delete))
	require.Empty(t, snapshots[1].Items)
	require.Greater(t, snapshots[1].Version, snapshots[0].Version)

	unsubscribe()
	require.NoError(t, s.Delete(context.Background(), "1"))
	require.Len(t, snapshots, 2)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s, _ := loaded(t, &fakeRemote{}, blog("1", "A", "draft"))

	st := s.Snapshot()
	st.Items[0].Title = "changed"
	st.Pending[store.Create] = 3

	again := s.Snapshot()
	require.Equal(t, "A", again.Items[0].Title)
	require.False(t, again.IsPending(store.Create))
}
