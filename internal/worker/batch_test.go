package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/slant/internal/model"
)

type mockChecker struct {
	calls int32
	delay time.Duration
}

func (m *mockChecker) Check(ctx context.Context, req model.HighlightRequest) model.CheckResult {
	atomic.AddInt32(&m.calls, 1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
		}
	}
	return model.CheckResult{
		SelectedText: req.Text,
		Summary:      "summary of " + req.Text,
		BiasNotes:    model.NoBiasDetected,
		Sources:      []model.Evidence{model.PlaceholderEvidence()},
	}
}

func TestBatchProcessor_ProcessTexts(t *testing.T) {
	checker := &mockChecker{delay: time.Millisecond}
	processor := NewBatchProcessor(checker, 2)

	texts := []string{"first", "second", "third"}
	results, err := processor.ProcessTexts(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, text := range texts {
		assert.Equal(t, text, results[i].SelectedText)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&checker.calls))
}

func TestBatchProcessor_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockChecker{}, 2)
	results, err := processor.ProcessTexts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	processor := NewBatchProcessor(&mockChecker{}, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := processor.ProcessTexts(ctx, []string{"a", "b", "c"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestReadTextsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snippets.txt")
	content := strings.Join([]string{
		"Experts call the decision shocking",
		"",
		"   ",
		"#breaking Markets in chaos",
		"Experts call the decision shocking",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	texts, err := ReadTextsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Experts call the decision shocking",
		"#breaking Markets in chaos",
		"Experts call the decision shocking",
	}, texts)
}

func TestReadTextsFromFile_Missing(t *testing.T) {
	_, err := ReadTextsFromFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
