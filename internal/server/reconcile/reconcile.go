// Package reconcile synchronizes an entity's tag set with a requested set
// using the minimal number of attach and detach operations.
//
// Per-tag operations are independent and run concurrently. The whole call
// is not atomic: when some operations fail the others stay applied, and the
// caller receives a *PartialFailureError naming the tags that failed.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/logging"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
	"golang.org/x/sync/errgroup"
)

// Store performs the single-tag steps. Each call must be atomic on its own.
type Store interface {
	// FindOrCreateTag returns the tag named name, creating it if needed.
	FindOrCreateTag(ctx context.Context, name string) (*models.Category, error)
	// Attach links entityID to tag unless the link already exists.
	Attach(ctx context.Context, entityID string, tag *models.Category) error
	// Detach removes the link between entityID and tag.
	Detach(ctx context.Context, entityID string, tag *models.Category) error
}

// Result lists the tag names that were added and removed, sorted.
type Result struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// PartialFailureError reports the tags whose operation failed.
type PartialFailureError struct {
	Failed []string
	Err    error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: %s: %v", common.ErrPartialReconciliation, strings.Join(e.Failed, ", "), e.Err)
}

func (e *PartialFailureError) Unwrap() []error {
	return []error{common.ErrPartialReconciliation, e.Err}
}

type Reconciler struct {
	store       Store
	parallelism int
	logger      logging.Logger
}

// New builds a Reconciler. parallelism bounds in-flight per-tag operations;
// values below 1 mean unbounded.
func New(store Store, parallelism int, logger logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Reconciler{store: store, parallelism: parallelism, logger: logger.With("module", "reconcile")}
}

// Diff computes the names to add and the tags to remove. Names compare
// case-sensitively and duplicates in target collapse.
func Diff(current []*models.Category, target []string) (toAdd []string, toRemove []*models.Category) {
	want := make(map[string]struct{}, len(target))
	for _, name := range target {
		want[name] = struct{}{}
	}

	have := make(map[string]struct{}, len(current))
	for _, tag := range current {
		have[tag.Name] = struct{}{}
		if _, ok := want[tag.Name]; !ok {
			toRemove = append(toRemove, tag)
		}
	}

	for name := range want {
		if _, ok := have[name]; !ok {
			toAdd = append(toAdd, name)
		}
	}
	sort.Strings(toAdd)
	sort.Slice(toRemove, func(i, j int) bool { return toRemove[i].Name < toRemove[j].Name })
	return toAdd, toRemove
}

// Reconcile makes the tags of entityID equal to target, given the tags it
// currently carries. Every per-tag operation runs to completion before
// Reconcile returns, even when some of them fail.
func (r *Reconciler) Reconcile(ctx context.Context, entityID string, current []*models.Category, target []string) (*Result, error) {
	toAdd, toRemove := Diff(current, target)

	var (
		mu     sync.Mutex
		result = &Result{Added: []string{}, Removed: []string{}}
		failed []string
		errs   []error
	)
	record := func(name string, done *[]string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failed = append(failed, name)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*done = append(*done, name)
	}

	var g errgroup.Group
	if r.parallelism > 0 {
		g.SetLimit(r.parallelism)
	}

	for _, name := range toAdd {
		g.Go(func() error {
			record(name, &result.Added, r.add(ctx, entityID, name))
			return nil
		})
	}
	for _, tag := range toRemove {
		g.Go(func() error {
			record(tag.Name, &result.Removed, r.store.Detach(ctx, entityID, tag))
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(result.Added)
	sort.Strings(result.Removed)

	if len(failed) > 0 {
		sort.Strings(failed)
		r.logger.Warn(ctx, "reconciliation partially failed", "entity", entityID, "failed", failed)
		return result, &PartialFailureError{Failed: failed, Err: errors.Join(errs...)}
	}

	r.logger.Debug(ctx, "reconciled", "entity", entityID, "added", result.Added, "removed", result.Removed)
	return result, nil
}

func (r *Reconciler) add(ctx context.Context, entityID, name string) error {
	tag, err := r.store.FindOrCreateTag(ctx, name)
	if err != nil {
		return err
	}
	return r.store.Attach(ctx, entityID, tag)
}
