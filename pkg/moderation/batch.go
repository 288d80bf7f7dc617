package moderation

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"ai-research-safety-be/pkg/trace"
)

const (
	// Parallel fan-out is capped to avoid stampeding the analysis models.
	maxParallelItems = 5
	// Sequential mode rate-shapes with a fixed pause between items.
	sequentialPause = 100 * time.Millisecond
)

// BatchSummary carries exact tallies over the ordered result list.
type BatchSummary struct {
	TotalItems     int            `json:"total_items"`
	SafeItems      int            `json:"safe_items"`
	UnsafeItems    int            `json:"unsafe_items"`
	CategoryCounts map[string]int `json:"category_counts"`
}

// Coordinator runs independent moderation requests as one batch, isolating
// per-item failures: a failed item becomes an error verdict at its index and
// never disturbs its siblings.
type Coordinator struct {
	pipeline *Pipeline
	logger   *log.Logger
}

func NewCoordinator(pipeline *Pipeline, logger *log.Logger) *Coordinator {
	return &Coordinator{pipeline: pipeline, logger: logger}
}

// Run moderates every item, preserving input order in the output regardless
// of completion order. Parallel mode is honored only for small batches.
func (c *Coordinator) Run(ctx context.Context, items []Request, parallel bool) []*Verdict {
	results := make([]*Verdict, len(items))

	if parallel && len(items) <= maxParallelItems {
		var wg sync.WaitGroup
		for i, item := range items {
			wg.Add(1)
			go func(idx int, req Request) {
				defer wg.Done()
				results[idx] = c.runOne(ctx, idx, req)
			}(i, item)
		}
		wg.Wait()
		return results
	}

	for i, item := range items {
		results[i] = c.runOne(ctx, i, item)
		if i < len(items)-1 {
			time.Sleep(sequentialPause)
		}
	}
	return results
}

// runOne moderates a single item, converting any escape (including panics
// that slip past the pipeline's own recovery) into an error verdict.
func (c *Coordinator) runOne(ctx context.Context, idx int, req Request) (verdict *Verdict) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Printf("[ERROR] Batch item %d failed: %v", idx+1, r)
			verdict = errorVerdict(
				fmt.Sprintf("Item %d processing error: %v", idx+1, r),
				[]trace.Step{}, 0.0)
		}
	}()
	return c.pipeline.Moderate(ctx, req)
}

// Summarize tallies the final ordered result list in a single pass.
func Summarize(results []*Verdict) BatchSummary {
	summary := BatchSummary{
		TotalItems:     len(results),
		CategoryCounts: make(map[string]int),
	}
	for _, r := range results {
		if r.IsSafe {
			summary.SafeItems++
		} else {
			summary.UnsafeItems++
		}
		for _, category := range r.ViolationCategories {
			summary.CategoryCounts[category]++
		}
	}
	return summary
}
