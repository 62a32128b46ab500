package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/slant/internal/model"
)

// Checker runs one highlight check
type Checker interface {
	Check(ctx context.Context, req model.HighlightRequest) model.CheckResult
}

// BatchProcessor checks many snippets concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessTexts checks every text and returns results in input order. Texts
// left unprocessed because ctx was cancelled are omitted, and ctx.Err() is
// returned alongside the partial results.
func (b *BatchProcessor) ProcessTexts(ctx context.Context, texts []string) ([]model.CheckResult, error) {
	if len(texts) == 0 {
		return []model.CheckResult{}, nil
	}

	pool := NewPool[model.CheckResult](ctx, b.concurrency)
	pool.Start()

	for _, text := range texts {
		req := model.HighlightRequest{Text: text}
		if !pool.Submit(func(ctx context.Context) model.CheckResult {
			return b.checker.Check(ctx, req)
		}) {
			break
		}
	}

	results := pool.Wait()

	out := make([]model.CheckResult, 0, len(results))
	for _, r := range results {
		if r.Done {
			out = append(out, r.Value)
		}
	}

	if len(out) < len(texts) {
		if err := ctx.Err(); err != nil {
			return out, err
		}
	}
	return out, nil
}

// ProcessFile reads snippets from a file and checks them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]model.CheckResult, error) {
	texts, err := ReadTextsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read texts: %w", err)
	}

	return b.ProcessTexts(ctx, texts)
}

// ReadTextsFromFile reads snippets from a file, one per non-blank line
func ReadTextsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var texts []string

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		texts = append(texts, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return texts, nil
}
