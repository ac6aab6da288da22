package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/woonki/tweetql/internal/config"
	"github.com/woonki/tweetql/internal/graph"
	"github.com/woonki/tweetql/internal/logging"
	"github.com/woonki/tweetql/internal/movies"
	"github.com/woonki/tweetql/internal/tweet"
	"github.com/woonki/tweetql/internal/tweetcore"
	"github.com/woonki/tweetql/internal/ui"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "tweetql",
	Short: "A small GraphQL API for tweets, users and movies",
	Long: `tweetql serves a GraphQL API over an in-memory set of tweets and users,
and proxies a movie listing from the YTS API.

Nothing is persisted: every start begins from the seed data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}

		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadSeed returns the configured seed, or the built-in one.
func loadSeed() (*tweet.Seed, error) {
	if cfg.Seed.File == "" {
		return tweet.DefaultSeed(), nil
	}
	seed, err := tweet.LoadSeed(cfg.Seed.File)
	if err != nil {
		return nil, fmt.Errorf("loading seed: %w", err)
	}
	return seed, nil
}

// newCore builds a seeded store.
func newCore() (*tweetcore.Core, error) {
	seed, err := loadSeed()
	if err != nil {
		return nil, err
	}
	return tweetcore.New(seed, tweetcore.WithLogger(logger))
}

// newResolver wires the store and the movie client into a root resolver.
func newResolver(core *tweetcore.Core) *graph.Resolver {
	return &graph.Resolver{
		Core:   core,
		Movies: movies.New(cfg.Movies.BaseURL, cfg.MovieTimeout(), movies.WithLogger(logger)),
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.ConfigFile, "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError(err.Error()))
		os.Exit(1)
	}
}
