// Package engine orchestrates rule application across files: a bounded worker
// pool applies every loaded rule to every file, findings funnel through a
// channel into one collector, and the deduplicator picks a winner per
// location once all workers join.
package engine

import (
	"context"
	"runtime"
	"sync"

	"github.com/codesentinel/codesentinel/internal/log"
	"github.com/codesentinel/codesentinel/internal/rules"
	"github.com/codesentinel/codesentinel/internal/types"
)

// Input is one unit of work: a path and the text read from it. The engine
// never touches the filesystem itself; a walker or any other collaborator
// supplies inputs.
type Input struct {
	Path string
	Text string
}

// Options tunes a scan. The zero value is usable.
type Options struct {
	// Workers bounds the file-level worker pool. Zero means GOMAXPROCS.
	Workers int
	// MinConfidence drops findings below the threshold before deduplication.
	MinConfidence float64
}

// Scan applies every rule to every input and returns the deduplicated
// findings. Rules are shared read-only across workers; a rule failing on one
// file is logged and contributes nothing for that file only. An empty ruleset
// is the single fatal condition. Cancellation is honored between files:
// on context error the partial result set is discarded.
func Scan(ctx context.Context, ruleset []rules.Rule, inputs []Input, opts Options) ([]types.Finding, error) {
	if len(ruleset) == 0 {
		return nil, rules.ErrNoRules
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(inputs) && len(inputs) > 0 {
		workers = len(inputs)
	}

	work := make(chan Input)
	results := make(chan types.Finding, 64)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range work {
				scanFile(ruleset, in, results)
			}
		}()
	}

	// Feed inputs, checking cancellation between files.
	feedErr := make(chan error, 1)
	go func() {
		defer close(work)
		for _, in := range inputs {
			select {
			case <-ctx.Done():
				feedErr <- ctx.Err()
				return
			case work <- in:
			}
		}
		feedErr <- nil
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var collected []types.Finding
	for f := range results {
		if opts.MinConfidence > 0 && f.Confidence < opts.MinConfidence {
			continue
		}
		collected = append(collected, f)
	}

	if err := <-feedErr; err != nil {
		return nil, err
	}
	return Deduplicate(collected), nil
}

// scanFile applies the full ruleset to one input sequentially.
func scanFile(ruleset []rules.Rule, in Input, results chan<- types.Finding) {
	for _, r := range ruleset {
		findings, err := r.Apply(in.Path, in.Text)
		if err != nil {
			log.Warnf("engine: rule %s failed on %s: %v", r.ID(), in.Path, err)
			continue
		}
		for _, f := range findings {
			results <- f
		}
	}
}
