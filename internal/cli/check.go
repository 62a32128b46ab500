package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ppiankov/slant/internal/model"
	"github.com/ppiankov/slant/internal/pipeline"
)

var checkTimeout time.Duration

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Check a single snippet and print the result as JSON",
	Long: `Check runs one highlight check without starting the server.
The text is taken from the arguments, or from stdin when none are given.

Example:
  slant check "Experts call the decision shocking"
  pbpaste | slant check`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 30*time.Second, "overall timeout")
}

func runCheck(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), cfg.Server.MaxBodyBytes))
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	p, err := pipeline.NewFromConfig(cfg, nil)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	ctx = log.Logger.WithContext(ctx)

	result := p.Check(ctx, model.HighlightRequest{Text: text})
	return writeJSON(cmd.OutOrStdout(), result)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
