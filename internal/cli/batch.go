package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ppiankov/slant/internal/pipeline"
	"github.com/ppiankov/slant/internal/worker"
)

var (
	concurrency  int
	outputFile   string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check every line of a file in parallel",
	Long: `Batch runs a highlight check for each non-empty line of a file:
- Lines are processed concurrently with a configurable worker count
- Results are written as a JSON array in input order

Example:
  slant batch snippets.txt
  slant batch snippets.txt --concurrency 8 --output results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent workers")
	batchCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	file := args[0]

	p, err := pipeline.NewFromConfig(cfg, nil)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()
	ctx = log.Logger.WithContext(ctx)

	log.Info().Str("file", file).Int("workers", concurrency).Msg("batch started")
	startAt := time.Now()

	processor := worker.NewBatchProcessor(p, concurrency)
	results, procErr := processor.ProcessFile(ctx, file)
	if procErr != nil && !errors.Is(procErr, context.DeadlineExceeded) && !errors.Is(procErr, context.Canceled) {
		return fmt.Errorf("batch: %w", procErr)
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		out = f
	}

	if err := writeJSON(out, results); err != nil {
		return err
	}

	log.Info().
		Int("checked", len(results)).
		Dur("elapsed", time.Since(startAt)).
		Msg("batch complete")

	if procErr != nil {
		return fmt.Errorf("batch stopped early after %d results: %w", len(results), procErr)
	}
	return nil
}
