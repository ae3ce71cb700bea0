// Package cli provides the rollup command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zoobzio/rollup"
	"github.com/zoobzio/rollup/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// envKey is used to store the command environment in context.
type envKey struct{}

// Env is what every command needs: the loaded configuration and a compiler
// for the configured dialect.
type Env struct {
	Config    *config.Config
	Compiler  *rollup.Compiler
	WeekStart time.Weekday
	Logger    *slog.Logger
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "rollup",
		Short: "Render cumulative and time-series SQL for a target dialect",
		Long: `rollup renders dialect-specific SQL for time-windowed and cumulative
aggregation queries: date series, rolling joins and filter predicates.

It never connects to a database; it prints SQL.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			env, err := newEnv(cfgFile, cmd)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, env))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./rollup.yaml)")
	rootCmd.PersistentFlags().StringP("dialect", "d", "", "SQL dialect (bigquery, postgres, mssql, mysql, sqlite)")
	rootCmd.PersistentFlags().String("timezone", "", "timezone for converting instants (default UTC)")
	rootCmd.PersistentFlags().String("week-start", "", "first day of the week (default monday)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(NewVersionCommand(Version))
	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewFilterCommand())
	rootCmd.AddCommand(NewSeriesCommand())
	rootCmd.AddCommand(NewDialectsCommand())

	return rootCmd
}

func newEnv(cfgFile string, cmd *cobra.Command) (*Env, error) {
	cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	d, err := cfg.OpenDialect()
	if err != nil {
		return nil, err
	}
	level, _ := cfg.Level()
	day, _ := cfg.Weekday()

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if cfg.FileUsed != "" {
		logger.Debug("using config file", "path", cfg.FileUsed)
	}

	return &Env{
		Config:    cfg,
		Compiler:  rollup.New(d, rollup.WithLogger(logger)),
		WeekStart: day,
		Logger:    logger,
	}, nil
}

// GetEnv retrieves the command environment from context.
func GetEnv(ctx context.Context) (*Env, error) {
	if env, ok := ctx.Value(envKey{}).(*Env); ok {
		return env, nil
	}
	return nil, fmt.Errorf("command environment not initialized")
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
