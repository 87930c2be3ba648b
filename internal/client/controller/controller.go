// Package controller keeps one paginated, searchable page of a backend
// resource in memory.
//
// Mutations patch the local page on success: a created row is inserted at
// the resource's insert position, an updated row is replaced in place and a
// deleted row is removed. The page is not reloaded. The next Load replaces
// the rows wholesale with what the server returns.
//
// Loads are tagged with a sequence number. A response that arrives after a
// newer Load was issued is dropped.
package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/logging"
)

// Resource is the backend surface a controller drives. F is the editable
// field set of a row.
type Resource[T models.Row, F any] interface {
	Filter(ctx context.Context, q models.Query) (models.Page[T], error)
	Create(ctx context.Context, fields F) (T, error)
	Update(ctx context.Context, id models.ID, fields F) (T, error)
	Delete(ctx context.Context, id models.ID) error
}

// InsertPosition is where a created row lands in the current page.
type InsertPosition int

const (
	Prepend InsertPosition = iota
	Append
)

// Options fixes the per-resource behaviour.
type Options struct {
	// Noun names the resource in notifications ("list", "template").
	Noun   string
	Limit  int
	Insert InsertPosition
}

// State is a copy of the controller state.
type State[T any] struct {
	Page    int
	Limit   int
	Search  string
	Total   int
	Rows    []T
	Loading bool
	Err     error
}

// TotalPages is ceil(Total/Limit).
func (s State[T]) TotalPages() int {
	if s.Limit <= 0 {
		return 0
	}
	return (s.Total + s.Limit - 1) / s.Limit
}

type Controller[T models.Row, F any] struct {
	res      Resource[T, F]
	notifier Notifier
	logger   logging.Logger
	noun     string
	insert   InsertPosition

	mu    sync.Mutex
	state State[T]
	seq   uint64
}

func New[T models.Row, F any](res Resource[T, F], opts Options, notifier Notifier, logger logging.Logger) *Controller[T, F] {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller[T, F]{
		res:      res,
		notifier: notifier,
		logger:   logger.With("resource", opts.Noun),
		noun:     opts.Noun,
		insert:   opts.Insert,
		state:    State[T]{Page: 1, Limit: opts.Limit, Rows: []T{}},
	}
}

func (c *Controller[T, F]) action(verb string) string {
	return fmt.Sprintf("%s %s", verb, c.noun)
}

func (c *Controller[T, F]) fail(ctx context.Context, action string, err error) error {
	c.mu.Lock()
	c.state.Err = err
	c.mu.Unlock()
	return c.report(ctx, action, err)
}

func (c *Controller[T, F]) report(ctx context.Context, action string, err error) error {
	c.logger.Warn(ctx, action+" failed", "error", err)
	c.notifier.Failure(action, err)
	return err
}

// Load fetches the current page. On failure the previous rows stay visible.
func (c *Controller[T, F]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	q := models.Query{Page: c.state.Page, Limit: c.state.Limit, Search: c.state.Search}
	c.state.Loading = true
	c.mu.Unlock()

	page, err := c.res.Filter(ctx, q)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug(ctx, "dropping superseded load", "page", q.Page, "search", q.Search)
		return nil
	}
	c.state.Loading = false
	if err != nil {
		c.state.Err = err
		c.mu.Unlock()
		return c.report(ctx, c.action("load"), err)
	}
	c.state.Rows = page.Rows
	if c.state.Rows == nil {
		c.state.Rows = []T{}
	}
	c.state.Total = page.Total
	c.state.Err = nil
	c.mu.Unlock()
	return nil
}

// SetSearch sets the search term and goes back to the first page.
func (c *Controller[T, F]) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Search = term
	c.state.Page = 1
}

// SetPage moves to page n. It reports false, changing nothing, when n is
// outside 1..TotalPages.
func (c *Controller[T, F]) SetPage(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || n > c.state.TotalPages() {
		return false
	}
	c.state.Page = n
	return true
}

func (c *Controller[T, F]) NextPage() bool {
	return c.SetPage(c.Snapshot().Page + 1)
}

func (c *Controller[T, F]) PrevPage() bool {
	return c.SetPage(c.Snapshot().Page - 1)
}

// Create adds a row through the backend and inserts it locally.
func (c *Controller[T, F]) Create(ctx context.Context, fields F) (T, error) {
	action := c.action("create")
	row, err := c.res.Create(ctx, fields)
	if err != nil {
		var zero T
		return zero, c.fail(ctx, action, err)
	}

	c.mu.Lock()
	rows := make([]T, 0, len(c.state.Rows)+1)
	if c.insert == Prepend {
		rows = append(append(rows, row), c.state.Rows...)
	} else {
		rows = append(append(rows, c.state.Rows...), row)
	}
	c.state.Rows = rows
	c.state.Total++
	c.state.Err = nil
	c.mu.Unlock()

	c.notifier.Success(action)
	return row, nil
}

// Update edits row id through the backend and replaces it in the page.
func (c *Controller[T, F]) Update(ctx context.Context, id models.ID, fields F) (T, error) {
	action := c.action("update")
	row, err := c.res.Update(ctx, id, fields)
	if err != nil {
		var zero T
		return zero, c.fail(ctx, action, err)
	}
	c.Replace(id, row)
	c.notifier.Success(action)
	return row, nil
}

// Replace swaps the local copy of row id for row, if it is on the page.
func (c *Controller[T, F]) Replace(id models.ID, row T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := make([]T, len(c.state.Rows))
	copy(rows, c.state.Rows)
	for i := range rows {
		if rows[i].RowID() == id {
			rows[i] = row
		}
	}
	c.state.Rows = rows
	c.state.Err = nil
}

// Delete removes row id through the backend's plain delete.
func (c *Controller[T, F]) Delete(ctx context.Context, id models.ID) error {
	return c.DeleteWith(ctx, id, c.res.Delete)
}

// DeleteWith removes row id using del, which may be a multi-step workflow,
// and then drops it locally. If that empties a page other than the first,
// the controller steps back one page so the next Load shows rows.
func (c *Controller[T, F]) DeleteWith(ctx context.Context, id models.ID, del func(context.Context, models.ID) error) error {
	action := c.action("delete")
	if err := del(ctx, id); err != nil {
		return c.fail(ctx, action, err)
	}

	c.mu.Lock()
	rows := make([]T, 0, len(c.state.Rows))
	removed := false
	for _, r := range c.state.Rows {
		if r.RowID() == id {
			removed = true
			continue
		}
		rows = append(rows, r)
	}
	c.state.Rows = rows
	if removed && c.state.Total > 0 {
		c.state.Total--
	}
	if len(rows) == 0 && c.state.Page > 1 {
		c.state.Page--
	}
	c.state.Err = nil
	c.mu.Unlock()

	c.notifier.Success(action)
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller[T, F]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Rows = make([]T, len(c.state.Rows))
	copy(s.Rows, c.state.Rows)
	return s
}

// Find returns the local copy of row id.
func (c *Controller[T, F]) Find(id models.ID) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.state.Rows {
		if r.RowID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}
