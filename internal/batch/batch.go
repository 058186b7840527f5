// Package batch runs a per-file operation over many inputs with bounded
// parallelism. A failing file never stops the others.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/EQt/barnacleboy/internal/logger"
)

// Result is the outcome for one input path.
type Result[T any] struct {
	Path  string
	Value T
	Err   error
}

// Run calls fn for every path using at most jobs goroutines (GOMAXPROCS when
// jobs <= 0). Results keep the order of paths.
func Run[T any](ctx context.Context, paths []string, jobs int, fn func(context.Context, string) (T, error)) []Result[T] {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	log := logger.FromContext(ctx)
	results := make([]Result[T], len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		results[i].Path = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			v, err := fn(gctx, path)
			results[i].Value = v
			results[i].Err = err
			if err != nil {
				log.Warn("file failed", "file", path, "err", err)
			} else {
				log.Debug("file done", "file", path)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Err joins the errors of all failed results, each prefixed with its path.
func Err[T any](results []Result[T]) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	return errors.Join(errs...)
}

// Failed counts failed results.
func Failed[T any](results []Result[T]) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
