package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/secret-squirrel/ssq/internal/config"
	"github.com/secret-squirrel/ssq/internal/logging"
	"github.com/secret-squirrel/ssq/internal/types"
)

var (
	flagConfig       string
	flagStaged       bool
	flagHistory      bool
	flagHistoryDepth int
	flagSeverity     string
	flagPrintConfig  bool
	flagJSON         bool
	flagSARIF        bool
	flagBaseline     string
	flagWriteBase    string
	flagNoColor      bool
	flagThreads      int
	flagMaxBytes     int64
	flagVerbose      bool

	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:           "ssq [path]",
	Short:         "Find potential secrets in your code",
	Long:          "Secret Squirrel scans the working tree, staged changes or commit history against layered detection patterns and reports matches at or above the configured severity.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		logging.Init(flagVerbose)
	},
	RunE: runScan,
}

// Execute runs the CLI. Exit status: 0 clean, 1 findings at or above the
// threshold, 2 configuration or repository errors.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "override the base config file location")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.Flags().BoolVar(&flagStaged, "staged", false, "only scan staged files")
	rootCmd.Flags().BoolVar(&flagHistory, "history", false, "scan git history")
	rootCmd.Flags().IntVar(&flagHistoryDepth, "history-depth", 0, "limit history to the newest N commits (0 = full)")
	rootCmd.Flags().StringVar(&flagSeverity, "severity", "", "only report findings of this severity or higher (LOW|MEDIUM|HIGH|CRITICAL)")
	rootCmd.Flags().BoolVar(&flagPrintConfig, "print-config", false, "print the effective configuration and exit")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.Flags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	rootCmd.Flags().StringVar(&flagBaseline, "baseline", ".ssq-baseline.json", "baseline file of accepted findings")
	rootCmd.Flags().StringVar(&flagWriteBase, "write-baseline", "", "write current findings to this baseline file and exit clean")
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.Flags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 1<<20, "skip content larger than this")

	rootCmd.MarkFlagsMutuallyExclusive("staged", "history")
	rootCmd.MarkFlagsMutuallyExclusive("json", "sarif")
}

// loadConfig resolves base + project configuration for root, then applies the
// --severity override on top.
func loadConfig(root string) (*config.Config, error) {
	cfg, err := config.Load(root, flagConfig)
	if err != nil {
		return nil, err
	}
	if flagSeverity != "" {
		sev, perr := types.ParseSeverity(flagSeverity)
		if perr != nil {
			return nil, perr
		}
		cfg.MinSeverity = sev
	}
	return cfg, nil
}
