package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLists serves a fixed in-memory table of lists.
type fakeLists struct {
	mu      sync.Mutex
	rows    []models.List
	queries []models.Query
	nextID  int

	filterErr error
	createErr error
	deleteErr error

	// gate, when set, is consulted on every Filter call; the call waits for
	// a value on the channel returned for its query page.
	gate func(q models.Query) <-chan struct{}
}

func newFakeLists(n int) *fakeLists {
	f := &fakeLists{nextID: n + 1}
	for i := 1; i <= n; i++ {
		f.rows = append(f.rows, models.List{ID: models.ID(fmt.Sprint(i)), Name: fmt.Sprintf("list-%d", i)})
	}
	return f
}

func (f *fakeLists) Filter(ctx context.Context, q models.Query) (models.Page[models.List], error) {
	if f.gate != nil {
		<-f.gate(q)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.filterErr != nil {
		return models.Page[models.List]{}, f.filterErr
	}
	start := (q.Page - 1) * q.Limit
	end := start + q.Limit
	if start > len(f.rows) {
		start = len(f.rows)
	}
	if end > len(f.rows) {
		end = len(f.rows)
	}
	rows := append([]models.List(nil), f.rows[start:end]...)
	return models.Page[models.List]{Rows: rows, Total: len(f.rows)}, nil
}

func (f *fakeLists) Create(ctx context.Context, fields models.ListFields) (models.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.List{}, f.createErr
	}
	row := models.List{ID: models.ID(fmt.Sprint(f.nextID)), Name: fields.Name}
	f.nextID++
	f.rows = append([]models.List{row}, f.rows...)
	return row, nil
}

func (f *fakeLists) Update(ctx context.Context, id models.ID, fields models.ListFields) (models.List, error) {
	return models.List{ID: id, Name: fields.Name}, nil
}

func (f *fakeLists) Delete(ctx context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			break
		}
	}
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	success  []string
	failures []string
}

func (n *recordingNotifier) Success(action string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success = append(n.success, action)
}

func (n *recordingNotifier) Failure(action string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, action)
}

func newLists(res Resource[models.List, models.ListFields], insert InsertPosition, n Notifier) *Controller[models.List, models.ListFields] {
	return New[models.List, models.ListFields](res, Options{Noun: "list", Limit: 5, Insert: insert}, n, logging.Nop())
}

func ids(rows []models.List) []models.ID {
	out := make([]models.ID, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestLoad(t *testing.T) {
	res := newFakeLists(7)
	c := newLists(res, Prepend, nil)

	require.NoError(t, c.Load(context.Background()))
	s := c.Snapshot()
	assert.Equal(t, 7, s.Total)
	assert.Equal(t, 2, s.TotalPages())
	assert.Equal(t, []models.ID{"1", "2", "3", "4", "5"}, ids(s.Rows))
	assert.False(t, s.Loading)
	assert.Equal(t, models.Query{Page: 1, Limit: 5}, res.queries[0])
}

func TestLoad_FailureKeepsRows(t *testing.T) {
	res := newFakeLists(3)
	n := &recordingNotifier{}
	c := newLists(res, Prepend, n)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))

	res.filterErr = errors.New("boom")
	require.Error(t, c.Load(ctx))

	s := c.Snapshot()
	assert.Len(t, s.Rows, 3)
	assert.EqualError(t, s.Err, "boom")
	assert.False(t, s.Loading)
	assert.Equal(t, []string{"load list"}, n.failures)

	res.filterErr = nil
	require.NoError(t, c.Load(ctx))
	assert.NoError(t, c.Snapshot().Err)
}

func TestSetPage_Bounds(t *testing.T) {
	c := newLists(newFakeLists(12), Prepend, nil)
	require.NoError(t, c.Load(context.Background()))

	for _, n := range []int{0, -1, 4, 100} {
		assert.False(t, c.SetPage(n), "page %d", n)
		assert.Equal(t, 1, c.Snapshot().Page)
	}
	assert.True(t, c.SetPage(3))
	assert.Equal(t, 3, c.Snapshot().Page)

	assert.False(t, c.NextPage())
	assert.True(t, c.PrevPage())
	assert.Equal(t, 2, c.Snapshot().Page)
}

func TestSetPage_BeforeFirstLoad(t *testing.T) {
	c := newLists(newFakeLists(12), Prepend, nil)
	assert.False(t, c.SetPage(1), "no pages are known before a load")
}

func TestSetSearch_ResetsPage(t *testing.T) {
	res := newFakeLists(12)
	c := newLists(res, Prepend, nil)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	require.True(t, c.SetPage(3))

	c.SetSearch("news")
	assert.Equal(t, 1, c.Snapshot().Page)

	require.NoError(t, c.Load(ctx))
	assert.Equal(t, models.Query{Page: 1, Limit: 5, Search: "news"}, res.queries[len(res.queries)-1])
}

func TestCreate_Prepend(t *testing.T) {
	res := newFakeLists(3)
	n := &recordingNotifier{}
	c := newLists(res, Prepend, n)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	loads := len(res.queries)

	row, err := c.Create(ctx, models.ListFields{Name: "fresh"})
	require.NoError(t, err)

	s := c.Snapshot()
	assert.Equal(t, row, s.Rows[0])
	assert.Equal(t, 4, s.Total)
	assert.Len(t, res.queries, loads, "create must not reload")
	assert.Equal(t, []string{"create list"}, n.success)
}

func TestCreate_Append(t *testing.T) {
	c := newLists(newFakeLists(2), Append, nil)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	row, err := c.Create(ctx, models.ListFields{Name: "last"})
	require.NoError(t, err)
	s := c.Snapshot()
	assert.Equal(t, row, s.Rows[len(s.Rows)-1])
	assert.Equal(t, 3, s.Total)
}

func TestCreate_FailureLeavesRows(t *testing.T) {
	res := newFakeLists(2)
	n := &recordingNotifier{}
	c := newLists(res, Prepend, n)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	before := c.Snapshot()

	res.createErr = errors.New("name taken")
	_, err := c.Create(ctx, models.ListFields{Name: "dup"})
	require.Error(t, err)

	after := c.Snapshot()
	assert.Equal(t, before.Rows, after.Rows)
	assert.Equal(t, before.Total, after.Total)
	assert.Equal(t, []string{"create list"}, n.failures)
}

func TestUpdate_ReplacesInPlace(t *testing.T) {
	c := newLists(newFakeLists(3), Prepend, nil)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	_, err := c.Update(ctx, "2", models.ListFields{Name: "renamed"})
	require.NoError(t, err)

	want := []models.List{{ID: "1", Name: "list-1"}, {ID: "2", Name: "renamed"}, {ID: "3", Name: "list-3"}}
	if diff := cmp.Diff(want, c.Snapshot().Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestDelete_RemovesRow(t *testing.T) {
	c := newLists(newFakeLists(3), Prepend, nil)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.Delete(ctx, "2"))
	s := c.Snapshot()
	assert.Equal(t, []models.ID{"1", "3"}, ids(s.Rows))
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Page)
}

func TestDelete_LastRowStepsBack(t *testing.T) {
	res := newFakeLists(6)
	c := newLists(res, Prepend, nil)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	require.True(t, c.SetPage(2))
	require.NoError(t, c.Load(ctx))
	require.Equal(t, []models.ID{"6"}, ids(c.Snapshot().Rows))

	require.NoError(t, c.Delete(ctx, "6"))
	assert.Equal(t, 1, c.Snapshot().Page)

	require.NoError(t, c.Load(ctx))
	assert.Equal(t, models.Query{Page: 1, Limit: 5}, res.queries[len(res.queries)-1])
	assert.Len(t, c.Snapshot().Rows, 5)
}

func TestDelete_LastRowOnFirstPageStays(t *testing.T) {
	c := newLists(newFakeLists(1), Prepend, nil)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.Delete(ctx, "1"))
	s := c.Snapshot()
	assert.Equal(t, 1, s.Page)
	assert.Empty(t, s.Rows)
	assert.Zero(t, s.Total)
}

func TestDelete_Failure(t *testing.T) {
	res := newFakeLists(2)
	n := &recordingNotifier{}
	c := newLists(res, Prepend, n)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	res.deleteErr = errors.New("in use")
	require.Error(t, c.Delete(ctx, "1"))
	assert.Len(t, c.Snapshot().Rows, 2)
	assert.Equal(t, []string{"delete list"}, n.failures)
}

func TestDeleteWith_CustomWorkflow(t *testing.T) {
	c := newLists(newFakeLists(2), Prepend, nil)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	var called models.ID
	require.NoError(t, c.DeleteWith(ctx, "2", func(_ context.Context, id models.ID) error {
		called = id
		return nil
	}))
	assert.Equal(t, models.ID("2"), called)
	_, found := c.Find("2")
	assert.False(t, found)
}

func TestLoad_StaleResponseDropped(t *testing.T) {
	res := newFakeLists(12)
	first := make(chan struct{})
	second := make(chan struct{})
	res.gate = func(q models.Query) <-chan struct{} {
		if q.Search == "old" {
			return first
		}
		return second
	}
	c := newLists(res, Prepend, nil)
	ctx := context.Background()

	c.SetSearch("old")
	done := make(chan error, 1)
	go func() { done <- c.Load(ctx) }()

	// let the first load register before issuing the second
	require.Eventually(t, func() bool { return c.Snapshot().Loading }, time.Second, time.Millisecond)

	c.SetSearch("new")
	close(second)
	require.NoError(t, c.Load(ctx))
	newRows := c.Snapshot().Rows

	// the older request now answers with a failure; it must be ignored
	res.mu.Lock()
	res.filterErr = errors.New("late failure")
	res.mu.Unlock()
	close(first)
	require.NoError(t, <-done)

	s := c.Snapshot()
	assert.Equal(t, newRows, s.Rows)
	assert.NoError(t, s.Err)
	assert.False(t, s.Loading)
}

func TestSnapshot_IsACopy(t *testing.T) {
	c := newLists(newFakeLists(2), Prepend, nil)
	require.NoError(t, c.Load(context.Background()))

	s := c.Snapshot()
	s.Rows[0].Name = "mutated"
	assert.Equal(t, "list-1", c.Snapshot().Rows[0].Name)
}
