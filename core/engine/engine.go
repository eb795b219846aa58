// Package engine orchestrates a fetch: validate the selection, split it
// into quota-compliant sub-selections, issue them concurrently and merge
// the payloads into one result.
package engine

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"eurobase/core/merge"
	"eurobase/core/partition"
	"eurobase/core/types"
	"eurobase/internal/errors"
	"eurobase/internal/logging"
)

// Executor issues one remote request for a single sub-selection and
// returns its cells, already normalized from the wire format.
type Executor interface {
	Execute(ctx context.Context, ds *types.Dataset, sub types.Selection) ([]types.Cell, error)
}

// MetadataProvider supplies dataset metadata: the ordered dimensions and
// their ordered code lists.
type MetadataProvider interface {
	Dataset(ctx context.Context, code string) (*types.Dataset, error)
}

// Options configures fetch behavior
type Options struct {
	// Quota is the maximum category count per sub-request
	Quota int64

	// Concurrency bounds the number of in-flight sub-requests
	Concurrency int

	// AllowPartial returns a best-effort result when some sub-requests
	// fail instead of failing the whole fetch
	AllowPartial bool
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		Quota:       partition.DefaultQuota,
		Concurrency: 4,
	}
}

// Engine coordinates the partitioner, the executor and the merger
type Engine struct {
	exec Executor
	meta MetadataProvider
	opts Options
}

// New creates an engine. Zero option fields fall back to defaults.
func New(exec Executor, meta MetadataProvider, opts Options) *Engine {
	if opts.Quota <= 0 {
		opts.Quota = partition.DefaultQuota
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Engine{exec: exec, meta: meta, opts: opts}
}

// Plan resolves the dataset metadata and returns the sub-selections the
// partitioner would issue for the selection, without touching the data
// service. Used by the CLI dry-run.
func (e *Engine) Plan(ctx context.Context, code string, sel types.Selection) (*types.Dataset, []types.Selection, error) {
	ds, err := e.meta.Dataset(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	subs, err := partition.Split(ds, sel, e.opts.Quota)
	if err != nil {
		return nil, nil, err
	}
	return ds, subs, nil
}

// Fetch retrieves the dataset cells the selection asks for. The call is
// synchronous; internally the sub-requests run concurrently up to the
// configured limit. Context cancellation stops all pending sub-requests.
//
// When some sub-requests fail and AllowPartial is set, Fetch returns the
// merged result of the successes wrapped in a *PartialError.
func (e *Engine) Fetch(ctx context.Context, code string, sel types.Selection) (*types.Result, error) {
	ds, subs, err := e.Plan(ctx, code, sel)
	if err != nil {
		return nil, err
	}

	log := logging.With(
		zap.String("dataset", code),
		zap.String("query_id", uuid.NewString()),
	)
	log.Debug("fetch planned",
		zap.Int64("categories", partition.CategoryCount(ds, sel)),
		zap.Int("sub_requests", len(subs)),
	)

	merger := merge.New(ds)
	var failures failureList

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for _, sub := range subs {
		sub := sub
		g.Go(func() error {
			cells, err := e.exec.Execute(gctx, ds, sub)
			if err != nil {
				if errors.IsType(err, errors.TypeQuotaExceeded) {
					// A quota rejection here means the partitioner
					// sized this sub-request wrong. Abort, never
					// retry.
					return errors.PartitioningDefect(err).
						WithContext("selection", sub.String())
				}
				merger.Fail(sub)
				failures.add(SubFailure{Selection: sub, Err: err})
				log.Warn("sub-request failed",
					zap.String("selection", sub.String()), zap.Error(err))
				if !e.opts.AllowPartial {
					return err
				}
				return nil
			}
			return merger.Add(cells)
		})
	}

	if err := g.Wait(); err != nil {
		// Invariant violations and fail-fast transport errors abort
		// the whole fetch; no partial result is returned.
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Transport("fetch canceled", err)
	}

	result := merger.Result()
	log.Debug("fetch merged",
		zap.Int("cells", len(result.Cells)),
		zap.Int("failed_sub_requests", len(result.Unfetched)),
	)

	if failed := failures.all(); len(failed) > 0 {
		if len(failed) == len(subs) {
			return nil, errors.Wrapf(errors.TypeTransport, failed[0].Err,
				"all %d sub-requests failed", len(subs))
		}
		return result, newPartialError(result, failed, len(subs))
	}
	return result, nil
}
