package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/invertedv/transit/analysis"
	"github.com/invertedv/transit/config"
	"github.com/invertedv/transit/report"
	"github.com/invertedv/transit/source"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if e := newRootCmd().Execute(); e != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		envFile    string
		verbose    bool
		logger     *zap.Logger
	)

	root := &cobra.Command{
		Use:   "transitcost",
		Short: "Compare transit operating costs per revenue hour using NTD data",
		Long: `transitcost reads National Transit Database service, expense and rail extracts and reports
bus rapid transit cost per vehicle revenue hour, published estimates in base-year dollars,
rail cost per train hour and per car hour, and a regression of rail operating expense.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if e := godotenv.Load(envFile); e != nil && !errors.Is(e, fs.ErrNotExist) {
				return fmt.Errorf("env file %s: %w", envFile, e)
			}

			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}

			var e error
			if logger, e = cfg.Build(); e != nil {
				return fmt.Errorf("failed to initialize logger: %w", e)
			}

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "file of environment variables, skipped if missing")

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the analysis and print the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, configFile, logger)
		},
	}
	run.Flags().StringVarP(&configFile, "config", "c", "transitcost.yaml", "configuration file")

	check := &cobra.Command{
		Use:   "check",
		Short: "Load the configuration and extracts without running the analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, in, e := loadInputs(configFile, logger)
			if e != nil {
				return e
			}

			_, e = fmt.Fprintf(cmd.OutOrStdout(), "service:\n%s\n\nexpense:\n%s\n\ntrain:\n%s\n",
				in.Service.Describe(), in.Expense.Describe(), in.Train.Describe())
			return e
		},
	}
	check.Flags().StringVarP(&configFile, "config", "c", "transitcost.yaml", "configuration file")

	root.AddCommand(run, check)

	return root
}

func loadInputs(configFile string, logger *zap.Logger) (*config.Config, *source.Inputs, error) {
	cfg, e := config.Load(configFile)
	if e != nil {
		logger.Error("config", zap.Error(e))
		return nil, nil, e
	}

	in, e := source.Load(cfg.Source, cfg.Year, logger)
	if e != nil {
		logger.Error("load", zap.String("source", cfg.Source.Kind), zap.Error(e))
		return nil, nil, e
	}

	return cfg, in, nil
}

func runAnalysis(cmd *cobra.Command, configFile string, logger *zap.Logger) error {
	cfg, in, e := loadInputs(configFile, logger)
	if e != nil {
		return e
	}

	var res *analysis.Results
	if res, e = analysis.Run(cfg, in, logger); e != nil {
		logger.Error("analysis", zap.Error(e))
		return e
	}

	return report.Write(cmd.OutOrStdout(), res)
}
