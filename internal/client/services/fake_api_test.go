package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mailadmin/internal/client/client"
)

// fakeAPI is an in-memory client.API. handle answers each request; the
// fake records what was sent and in which order requests started and
// finished.
type fakeAPI struct {
	mu          sync.Mutex
	calls       []client.Request
	events      []string
	inflight    int
	maxInflight int

	handle func(req client.Request) (json.RawMessage, error)
}

func (f *fakeAPI) Do(ctx context.Context, req client.Request) (json.RawMessage, error) {
	key := req.Method + " " + req.Path

	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.events = append(f.events, "start "+key)
	f.inflight++
	if f.inflight > f.maxInflight {
		f.maxInflight = f.inflight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inflight--
		f.events = append(f.events, "done "+key)
		f.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", client.ErrUnavailable, err)
	}
	if f.handle == nil {
		return json.RawMessage(`{}`), nil
	}
	return f.handle(req)
}

func (f *fakeAPI) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeAPI) countMethod(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (f *fakeAPI) eventLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}
