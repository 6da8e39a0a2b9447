package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillprobe/internal/app"
	"github.com/abhisek/skillprobe/internal/config"
	"github.com/abhisek/skillprobe/internal/logger"
	"github.com/abhisek/skillprobe/internal/store"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "skillprobe",
	Short:         "Adaptive Excel skills interviewer",
	Long:          "skillprobe runs adaptive Excel interviews, scores free-text answers with rubric rules and an AI judge, and reports against role baselines.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is skillprobe.yaml in the working directory)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (overrides SKILLPROBE_DB and store.dsn)")
	rootCmd.PersistentFlags().String("metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if err := store.EnsureDir(p); err != nil {
			return nil, err
		}
		cfg.Store.Driver = store.DriverSQLite
		cfg.Store.DSN = p
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		cfg.Metrics.Addr = addr
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Log.Debug = true
	}
	if json, _ := cmd.Flags().GetBool("json"); json {
		cfg.Log.JSON = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log, nil
}

// newApp builds the full interview engine.
func newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), cfg, log, app.Options{})
}

// openStore opens the configured store for read-mostly commands.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openConfiguredStore(cfg)
}

func openConfiguredStore(cfg *config.Config) (*store.Store, error) {
	var err error
	dsn := cfg.Store.DSN
	if dsn == "" && cfg.Store.Driver == store.DriverSQLite {
		if dsn, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}
	s, err := store.Open(cfg.Store.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
