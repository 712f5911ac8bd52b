// Package scanner drives the matcher over an input and feeds a report
// accumulator.
package scanner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/praetorian-inc/sift/pkg/enum"
	"github.com/praetorian-inc/sift/pkg/matcher"
	"github.com/praetorian-inc/sift/pkg/report"
	"github.com/praetorian-inc/sift/pkg/rule"
	"github.com/praetorian-inc/sift/pkg/types"
)

var (
	// cachedBuiltinRules holds builtin rules loaded once per process
	cachedBuiltinRules []*types.Rule
	cachedRulesErr     error
	cacheOnce          sync.Once
)

// BuiltinRules returns the embedded rules, loading them once per process.
// Callers must not modify the returned rules.
func BuiltinRules() ([]*types.Rule, error) {
	cacheOnce.Do(func() {
		cachedBuiltinRules, cachedRulesErr = rule.NewLoader().LoadBuiltinRules()
	})
	return cachedBuiltinRules, cachedRulesErr
}

// Scanner classifies every line of an input.
type Scanner struct {
	Matcher *matcher.Matcher

	// Workers > 1 shards lines across that many goroutines. The report is
	// identical to a sequential run.
	Workers int

	// BatchSize is the number of lines per sharded task (0 = DefaultBatchSize).
	BatchSize int

	// Logger receives progress at debug level. Nil discards it.
	Logger *slog.Logger
}

// Run enumerates lines and adds every match to acc. acc is only touched from
// one goroutine at a time, in line order.
func (s *Scanner) Run(ctx context.Context, e enum.Enumerator, acc report.Accumulator) (Stats, error) {
	if s.Matcher == nil {
		return Stats{}, fmt.Errorf("scanner has no matcher")
	}
	log := s.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var stats Stats
	var err error
	if s.Workers <= 1 {
		err = s.runSequential(ctx, e, acc, &stats)
	} else {
		err = s.runSharded(ctx, e, acc, &stats)
	}

	if sr, ok := e.(enum.StatsReporter); ok {
		es := sr.Stats()
		stats.LossyLines = es.Lossy
		stats.TruncatedLines = es.Truncated
	}
	stats.RegexFailures = s.Matcher.RegexFailures()

	if err != nil {
		return stats, err
	}
	log.Debug("scan complete",
		"lines", stats.Lines,
		"matches", stats.Matches,
		"lossy", stats.LossyLines,
		"workers", max(s.Workers, 1))
	return stats, nil
}

func (s *Scanner) runSequential(ctx context.Context, e enum.Enumerator, acc report.Accumulator, stats *Stats) error {
	return e.Enumerate(ctx, func(index int, line string) error {
		stats.Lines++
		for _, m := range s.Matcher.Classify(line, index) {
			acc.Add(m)
			stats.Matches++
		}
		return nil
	})
}

// runSharded classifies batches on a bounded worker pool. Each batch gets a
// result channel that is queued in submission order; a single reducer drains
// the queue front to back, so acc sees matches in line order.
func (s *Scanner) runSharded(ctx context.Context, e enum.Enumerator, acc report.Accumulator, stats *Stats) error {
	size := s.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	queue := make(chan chan []types.Match, s.Workers*2)
	reduced := make(chan int)
	go func() {
		n := 0
		for results := range queue {
			for _, m := range <-results {
				acc.Add(m)
				n++
			}
		}
		reduced <- n
	}()

	var pool errgroup.Group
	pool.SetLimit(s.Workers)

	submit := func(b batch) error {
		results := make(chan []types.Match, 1)
		select {
		case queue <- results:
		case <-ctx.Done():
			return ctx.Err()
		}
		pool.Go(func() error {
			results <- s.classifyBatch(b)
			return nil
		})
		return nil
	}

	cur := batch{lines: make([]string, 0, size)}
	err := e.Enumerate(ctx, func(index int, line string) error {
		stats.Lines++
		if len(cur.lines) == 0 {
			cur.first = index
		}
		cur.lines = append(cur.lines, line)
		if len(cur.lines) < size {
			return nil
		}
		b := cur
		cur = batch{lines: make([]string, 0, size)}
		return submit(b)
	})
	if err == nil && len(cur.lines) > 0 {
		err = submit(cur)
	}

	_ = pool.Wait()
	close(queue)
	stats.Matches = <-reduced
	return err
}

func (s *Scanner) classifyBatch(b batch) []types.Match {
	var out []types.Match
	for i, line := range b.lines {
		out = append(out, s.Matcher.Classify(line, b.first+i)...)
	}
	return out
}
