package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mailadmin/internal/client/client"
	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// CascadePolicy decides what happens to the list when some of its item
// deletes fail.
type CascadePolicy string

const (
	// CascadeProceed deletes the list whatever happened to its items.
	CascadeProceed CascadePolicy = "proceed"
	// CascadeAbort cancels the outstanding item deletes on the first failure
	// and keeps the list.
	CascadeAbort CascadePolicy = "abort"
	// CascadeRequireAll lets every item delete finish and keeps the list if
	// any failed.
	CascadeRequireAll CascadePolicy = "require-all"
	// CascadeRetry retries transient item delete failures, then behaves like
	// CascadeRequireAll.
	CascadeRetry CascadePolicy = "retry"
)

func ParseCascadePolicy(s string) (CascadePolicy, error) {
	switch p := CascadePolicy(s); p {
	case CascadeProceed, CascadeAbort, CascadeRequireAll, CascadeRetry:
		return p, nil
	default:
		return "", fmt.Errorf("unknown cascade policy %q", s)
	}
}

// CascadeOptions tunes DeleteCascade. Zero Concurrency and RatePerSecond
// mean unlimited.
type CascadeOptions struct {
	Policy        CascadePolicy
	Concurrency   int
	RatePerSecond float64
	Retries       int
	Backoff       time.Duration
}

func (o CascadeOptions) withDefaults() CascadeOptions {
	if o.Policy == "" {
		o.Policy = CascadeRequireAll
	}
	if o.Policy == CascadeRetry && o.Retries <= 0 {
		o.Retries = 2
	}
	if o.Backoff <= 0 {
		o.Backoff = 200 * time.Millisecond
	}
	return o
}

// CascadeError reports item deletes that did not succeed. Err is the first
// failure; errors.Is sees through to it.
type CascadeError struct {
	ListID models.ID
	Items  int
	Failed []models.ID
	Err    error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("delete list %s: %d of %d item deletes failed, list kept: %v",
		e.ListID, len(e.Failed), e.Items, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

// DeleteCascade deletes every item of list id and then the list itself.
// The list delete is issued only after all item deletes have returned. A
// failure to fetch the items aborts before anything is deleted.
func (s *listService) DeleteCascade(ctx context.Context, id models.ID) error {
	log := s.logger.With("list_id", id.String(), "policy", string(s.cascade.Policy))

	items, err := s.Items(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch items of list %s: %w", id, err)
	}
	log.Info(ctx, "cascade delete started", "items", len(items))

	failed, firstErr := s.deleteItems(ctx, items)
	if len(failed) > 0 {
		cerr := &CascadeError{ListID: id, Items: len(items), Failed: failed, Err: firstErr}
		if s.cascade.Policy != CascadeProceed {
			log.Warn(ctx, "item deletes failed, list kept", "failed", len(failed), "error", firstErr)
			return cerr
		}
		log.Warn(ctx, "item deletes failed, deleting list anyway", "failed", len(failed), "error", firstErr)
	}

	if err := s.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete list %s: %w", id, err)
	}
	log.Info(ctx, "cascade delete done", "items", len(items)-len(failed))
	return nil
}

func (s *listService) deleteItems(ctx context.Context, items []models.ListItem) ([]models.ID, error) {
	if len(items) == 0 {
		return nil, nil
	}

	var limiter *rate.Limiter
	if s.cascade.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cascade.RatePerSecond), 1)
	}

	abort := s.cascade.Policy == CascadeAbort
	g, gctx := new(errgroup.Group), ctx
	if abort {
		g, gctx = errgroup.WithContext(ctx)
	}
	if s.cascade.Concurrency > 0 {
		g.SetLimit(s.cascade.Concurrency)
	}

	errs := make([]error, len(items))
	for i, item := range items {
		g.Go(func() error {
			err := s.deleteItem(gctx, item.ID, limiter)
			errs[i] = err
			if abort {
				return err
			}
			return nil
		})
	}
	waitErr := g.Wait()

	var (
		failed   []models.ID
		firstErr = waitErr
	)
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed = append(failed, items[i].ID)
		if firstErr == nil {
			firstErr = err
		}
	}
	return failed, firstErr
}

func (s *listService) deleteItem(ctx context.Context, id models.ID, limiter *rate.Limiter) error {
	attempts := 1
	if s.cascade.Policy == CascadeRetry {
		attempts += s.cascade.Retries
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if attempt > 0 {
			if !retryable(err) {
				return err
			}
			if werr := sleep(ctx, s.cascade.Backoff<<(attempt-1)); werr != nil {
				return werr
			}
		}
		if limiter != nil {
			if werr := limiter.Wait(ctx); werr != nil {
				return werr
			}
		}
		if err = deleteItem(ctx, s.api, id); err == nil {
			return nil
		}
	}
	return err
}

func retryable(err error) bool {
	return errors.Is(err, client.ErrUnavailable) || errors.Is(err, client.ErrServer)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
