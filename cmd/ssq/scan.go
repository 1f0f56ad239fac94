package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/secret-squirrel/ssq/internal/engine"
	"github.com/secret-squirrel/ssq/internal/gitrepo"
	"github.com/secret-squirrel/ssq/internal/logging"
	"github.com/secret-squirrel/ssq/internal/report"
)

func runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(abs)
	if err != nil {
		return err
	}

	if flagPrintConfig {
		out, merr := yaml.Marshal(cfg.EffectiveView())
		if merr != nil {
			return merr
		}
		_, _ = os.Stdout.Write(out)
		return nil
	}

	mode := engine.ModeWorktree
	switch {
	case flagStaged:
		mode = engine.ModeStaged
	case flagHistory:
		mode = engine.ModeHistory
	}

	logging.L().Debugw("starting scan", "root", abs, "mode", mode, "min_severity", cfg.MinSeverity.String())

	res, err := engine.Scan(cmd.Context(), engine.Options{
		Root:         abs,
		Config:       cfg,
		Mode:         mode,
		Workers:      flagThreads,
		MaxBytes:     flagMaxBytes,
		HistoryDepth: flagHistoryDepth,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintln(os.Stderr, "scan interrupted; results are partial")
		} else {
			if gitrepo.IsNotRepository(err) {
				return fmt.Errorf("%s is not a git repository (required for --staged/--history)", abs)
			}
			return err
		}
	}

	findings := res.Findings
	if flagWriteBase != "" {
		if err := report.SaveBaseline(flagWriteBase, findings); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d finding(s) to %s\n", len(findings), flagWriteBase)
		return nil
	}
	if base, berr := report.LoadBaseline(flagBaseline); berr == nil {
		findings = report.FilterNewFindings(findings, base)
	}

	opts := report.PrintOptions{
		NoColor:       flagNoColor || !report.IsTerminal(os.Stdout),
		Duration:      res.Stats.Duration,
		UnitsScanned:  res.Stats.UnitsScanned,
		CommitsWalked: res.Stats.CommitsWalked,
	}

	switch {
	case flagSARIF:
		if err := report.WriteSARIF(os.Stdout, findings, version); err != nil {
			return err
		}
	case flagJSON:
		if err := report.WriteJSON(os.Stdout, findings, res.Warnings, opts); err != nil {
			return err
		}
	default:
		report.PrintText(os.Stdout, findings, res.Warnings, opts)
	}

	if len(findings) > 0 {
		os.Exit(1)
	}
	return nil
}
