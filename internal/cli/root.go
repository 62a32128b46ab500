package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/slant/internal/model"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool

	// cfg is the loaded configuration, available to every subcommand
	cfg *model.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "slant",
	Short: "Slant - neutral, source-grounded summaries for highlighted text",
	Long: `Slant takes a snippet of highlighted text and returns a neutral summary
grounded in external news sources, plus a flag for loaded wording.

It looks up related articles (GNews first, Google Programmable Search as a
fallback), asks a language model for a short neutral summary that relies
only on those articles, and scans the text for bias-indicating words.

Slant reports wording, not truth.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Slant.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "slant %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.slant/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console, json)")
	rootCmd.PersistentFlags().String("llm-provider", "", "summarization provider (gemini, openai, anthropic, ollama)")
	rootCmd.PersistentFlags().String("llm-model", "", "summarization model name")

	// Bind flags to viper
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.model", rootCmd.PersistentFlags().Lookup("llm-model"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".slant"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(viper.GetViper(), model.DefaultConfig())

	// Read in environment variables that match SLANT_*, e.g. SLANT_SEARCH_TIMEOUT
	viper.SetEnvPrefix("SLANT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Conventional credential variables
	_ = viper.BindEnv("search.gnews.api_key", "SLANT_SEARCH_GNEWS_API_KEY", "GNEWS_API_KEY")
	_ = viper.BindEnv("search.google.api_key", "SLANT_SEARCH_GOOGLE_API_KEY", "GOOGLE_CSE_API_KEY")
	_ = viper.BindEnv("search.google.cx", "SLANT_SEARCH_GOOGLE_CX", "GOOGLE_CSE_CX")

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so env variables and flags can override
// values that the config file does not mention
func setDefaults(v *viper.Viper, d *model.Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)

	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.rate_per_second", d.Search.RatePerSecond)
	v.SetDefault("search.cache_ttl", d.Search.CacheTTL)
	v.SetDefault("search.gnews.api_key", d.Search.GNews.APIKey)
	v.SetDefault("search.gnews.endpoint", d.Search.GNews.Endpoint)
	v.SetDefault("search.google.api_key", d.Search.Google.APIKey)
	v.SetDefault("search.google.cx", d.Search.Google.CX)
	v.SetDefault("search.google.endpoint", d.Search.Google.Endpoint)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.strict_evidence", d.LLM.StrictEvidence)

	v.SetDefault("bias.lexicon", d.Bias.Lexicon)

	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.http_proxy", d.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", d.HTTP.HTTPSProxy)
	v.SetDefault("http.no_proxy", d.HTTP.NoProxy)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// loadConfig decodes viper into cfg, fills provider credentials from their
// conventional variables, validates, and sets up logging
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := decodeConfig(viper.GetViper(), os.Getenv)
	if err != nil {
		return err
	}
	cfg = loaded

	setupLogging(cfg.Log, verbose, os.Stderr)
	if f := viper.ConfigFileUsed(); f != "" {
		log.Debug().Str("file", f).Msg("loaded config file")
	}
	return nil
}

func decodeConfig(v *viper.Viper, getenv func(string) string) (*model.Config, error) {
	c := model.DefaultConfig()
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyCredentialEnv(c, getenv)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// applyCredentialEnv fills the LLM key from the variable conventional for
// the selected provider when no key was configured
func applyCredentialEnv(c *model.Config, getenv func(string) string) {
	provider := strings.ToLower(strings.TrimSpace(c.LLM.Provider))

	if c.LLM.APIKey == "" {
		switch provider {
		case "gemini", "google":
			c.LLM.APIKey = getenv("GEMINI_API_KEY")
		case "openai":
			c.LLM.APIKey = getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			c.LLM.APIKey = getenv("ANTHROPIC_API_KEY")
		}
	}

	if provider == "ollama" && c.LLM.BaseURL == "" {
		if base := getenv("OLLAMA_BASE_URL"); base != "" {
			c.LLM.BaseURL = strings.TrimSuffix(base, "/") + "/v1"
		}
	}

	// The default model names a Gemini model; other providers pick their own
	if provider != "gemini" && provider != "google" && c.LLM.Model == model.DefaultConfig().LLM.Model {
		c.LLM.Model = ""
	}
}

func setupLogging(lc model.LogConfig, verbose bool, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	if lc.Format == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil || lc.Level == "" {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.DefaultContextLogger = &log.Logger
}
