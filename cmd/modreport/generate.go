package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modreport/modreport/internal/diag"
	"github.com/modreport/modreport/internal/discover"
	"github.com/modreport/modreport/internal/engine"
	"github.com/modreport/modreport/internal/gha"
	"github.com/modreport/modreport/internal/render"
)

const (
	metricsFile  = "CODE_METRICS.md"
	commandsFile = "COMMANDS.md"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Analyze the configured projects and write the documentation",
	Long: `Discovers the configured project files, builds per-project metrics
trees and command modules, and writes CODE_METRICS.md and COMMANDS.md.
Step outputs for GitHub Actions are published afterwards.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	sink := &diag.LogrusSink{Log: logger}
	projects, err := discover.Projects(cfg.Projects, sink)
	if err != nil {
		return err
	}
	logger.WithField("projects", len(projects)).Info("starting analysis")

	eng := engine.New(cfg.Workspace, cfg.Parallel, logger)
	res, err := eng.Run(cmd.Context(), projects)
	return finishRun(res, err, cmd.OutOrStdout())
}

// finishRun renders whatever the engine committed. A cancelled run
// aborts the remaining projects but still publishes documents built
// from the completed ones; only unexpected engine errors escalate.
func finishRun(res engine.Result, runErr error, stdout io.Writer) error {
	if runErr != nil {
		if !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
			return runErr
		}
		logger.WithError(runErr).Warn("run interrupted, rendering projects committed so far")
	}

	// An empty metrics aggregate means nothing was analyzed; neither
	// document is written then, so a broken run cannot blank the docs.
	if len(res.Metrics) == 0 {
		logger.Warn("no project produced metrics, keeping existing documents")
		return gha.Outputs{
			Changed: false,
			Title:   "Documentation unchanged",
			Details: "No project produced metrics.",
		}.Write(stdout)
	}

	lc := render.LinkContext{
		Owner:  cfg.Owner,
		Repo:   cfg.Repo,
		Branch: cfg.Branch,
		Marker: cfg.Workspace,
	}

	var changed []string
	metricsChanged, err := writeDoc(filepath.Join(cfg.OutputDir, metricsFile),
		render.MetricsReport(res.MetricsSlice(), lc))
	if err != nil {
		return err
	}
	if metricsChanged {
		changed = append(changed, metricsFile)
	}

	commandsChanged, err := writeDoc(filepath.Join(cfg.OutputDir, commandsFile),
		render.CommandCatalog(res.CommandsSlice(), lc))
	if err != nil {
		return err
	}
	if commandsChanged {
		changed = append(changed, commandsFile)
	}

	out := gha.Outputs{Changed: len(changed) > 0}
	if out.Changed {
		out.Title = "Update generated documentation"
		out.Details = "Regenerated: " + strings.Join(changed, ", ")
	} else {
		out.Title = "Documentation unchanged"
		out.Details = "Generated documents match the committed versions."
	}
	logger.WithField("changed", changed).Info("analysis complete")
	return out.Write(stdout)
}

// writeDoc writes content to path and reports whether the file content
// actually changed. An unchanged file is not rewritten.
func writeDoc(path, content string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, []byte(content)) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
