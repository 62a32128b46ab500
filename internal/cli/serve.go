package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/slant/internal/metrics"
	"github.com/ppiankov/slant/internal/pipeline"
	"github.com/ppiankov/slant/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the /check endpoint for browser extensions",
	Long: `Serve starts the HTTP service:
  POST /check    {"text": "..."} -> summary, bias notes and sources
  GET  /health   liveness and configured providers (?deep=1 probes the summarizer)
  GET  /metrics  Prometheus metrics

Example:
  slant serve
  slant serve --addr 0.0.0.0:5000
  GNEWS_API_KEY=... GEMINI_API_KEY=... slant serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default 127.0.0.1:5000)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	p, err := pipeline.NewFromConfig(cfg, m)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	status := p.Status()
	log.Info().
		Bool("gnews", status["gnews"]).
		Bool("google_cse", status["google_cse"]).
		Bool("summarizer", status["summarizer"]).
		Str("llm_provider", cfg.LLM.Provider).
		Msg("providers")

	srv := server.New(p, cfg.Server,
		server.WithLogger(log.Logger),
		server.WithStatus(p.Status),
		server.WithProbe(p.Probe),
		server.WithGatherer(reg),
	)

	return srv.Run(ctx)
}
