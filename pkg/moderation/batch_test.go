package moderation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"testing"

	"ai-research-safety-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordTextModel flags inputs containing "bad" so positional joins can be
// verified item by item.
type keywordTextModel struct{}

func (m *keywordTextModel) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return cleanTextReply, nil
}

func (m *keywordTextModel) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	if strings.Contains(prompt, "bad") {
		return `HARASSMENT_DETECTED: YES
HARASSMENT_CONFIDENCE: 0.95
HARASSMENT_DETAILS: direct threat
TOXICITY_DETECTED: NO
HATE_SPEECH_DETECTED: NO
PII_DETECTED: NO
OVERALL_SAFETY: UNSAFE`, nil
	}
	return cleanTextReply, nil
}

func batchItems(texts ...string) []Request {
	items := make([]Request, len(texts))
	for i, text := range texts {
		items[i] = Request{Text: text}
	}
	return items
}

func TestBatchRunSequential(t *testing.T) {
	p := newTestPipeline(&keywordTextModel{}, nil, cleanAPI())
	c := NewCoordinator(p, log.Default())

	texts := make([]string, 7) // above the parallel cap
	for i := range texts {
		if i == 3 {
			texts[i] = fmt.Sprintf("bad item %d", i)
		} else {
			texts[i] = fmt.Sprintf("fine item %d", i)
		}
	}

	results := c.Run(context.Background(), batchItems(texts...), true)

	require.Len(t, results, 7)
	for i, verdict := range results {
		require.NotNil(t, verdict, "index %d", i)
		if i == 3 {
			assert.False(t, verdict.IsSafe, "index %d", i)
		} else {
			assert.True(t, verdict.IsSafe, "index %d", i)
		}
	}
}

func TestBatchRunParallel(t *testing.T) {
	p := newTestPipeline(&keywordTextModel{}, nil, cleanAPI())
	c := NewCoordinator(p, log.Default())

	results := c.Run(context.Background(),
		batchItems("fine one", "bad two", "fine three"), true)

	require.Len(t, results, 3)
	assert.True(t, results[0].IsSafe)
	assert.False(t, results[1].IsSafe)
	assert.True(t, results[2].IsSafe)
}

func TestBatchItemFailureIsolated(t *testing.T) {
	p := newTestPipeline(&keywordTextModel{}, nil, cleanAPI())
	c := NewCoordinator(p, log.Default())

	// Empty item fails validation; neighbors are untouched
	items := []Request{
		{Text: "fine"},
		{},
		{Text: "fine"},
	}

	results := c.Run(context.Background(), items, false)

	require.Len(t, results, 3)
	assert.True(t, results[0].IsSafe)
	assert.False(t, results[1].IsSafe)
	assert.Contains(t, results[1].Rationale, "No content provided")
	assert.True(t, results[2].IsSafe)
}

func TestSummarize(t *testing.T) {
	p := newTestPipeline(&keywordTextModel{}, nil, cleanAPI())
	c := NewCoordinator(p, log.Default())

	results := c.Run(context.Background(),
		batchItems("fine", "bad", "bad again"), false)

	summary := Summarize(results)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 1, summary.SafeItems)
	assert.Equal(t, 2, summary.UnsafeItems)
	assert.Equal(t, 2, summary.CategoryCounts["harassment"])
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.TotalItems)
	assert.Empty(t, summary.CategoryCounts)
}
