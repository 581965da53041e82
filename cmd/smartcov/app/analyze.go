package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dammyololade/smart-coverage-sub001/internal/config"
	"github.com/Dammyololade/smart-coverage-sub001/internal/coverage"
	"github.com/Dammyololade/smart-coverage-sub001/internal/exec"
	"github.com/Dammyololade/smart-coverage-sub001/internal/gitdiff"
	"github.com/Dammyololade/smart-coverage-sub001/internal/insights"
	"github.com/Dammyololade/smart-coverage-sub001/internal/lcov"
	"github.com/Dammyololade/smart-coverage-sub001/internal/logger"
	"github.com/Dammyololade/smart-coverage-sub001/internal/model"
	"github.com/Dammyololade/smart-coverage-sub001/internal/report"
)

const insightsTimeout = 60 * time.Second

// NewAnalyzeCommand creates the "analyze" subcommand.
func NewAnalyzeCommand() *cobra.Command {
	var (
		input        string
		baseRef      string
		repoRoot     string
		modifiedOnly bool
		htmlDir      string
		jsonPath     string
		aiEnabled    bool
		noColor      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Parse an LCOV tracefile and report coverage.",
		Long: `Parse an LCOV tracefile and report coverage.

With --modified-only the report is narrowed to the source files changed
against the base revision; the unfiltered view is used as a fallback when
no modified source files are found.

Configuration:
  Default values are loaded from smart_coverage.yaml.
  Command line flags override the config file values.

Examples:
  # Full report on the default tracefile
  smartcov analyze

  # Only files changed against origin/main, with an HTML report
  smartcov analyze --modified-only --base-ref origin/main --html-dir coverage_html

  # Machine-readable output plus AI insights
  smartcov analyze --json coverage.json --ai`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// Config values are the defaults, command line flags override.
			if !cmd.Flags().Changed("input") {
				input = cfg.Input
			}
			if !cmd.Flags().Changed("base-ref") {
				baseRef = cfg.BaseRef
			}
			if !cmd.Flags().Changed("modified-only") {
				modifiedOnly = cfg.ModifiedOnly
			}
			if !cmd.Flags().Changed("html-dir") {
				htmlDir = cfg.Output.HTMLDir
			}
			if !cmd.Flags().Changed("json") {
				jsonPath = cfg.Output.JSONPath
			}
			if !cmd.Flags().Changed("ai") {
				aiEnabled = cfg.AI.Enabled
			}

			logger.Init(cfg.LogLevel)

			return runAnalyze(cfg, analyzeOptions{
				input:        input,
				baseRef:      baseRef,
				repoRoot:     repoRoot,
				modifiedOnly: modifiedOnly,
				htmlDir:      htmlDir,
				jsonPath:     jsonPath,
				aiEnabled:    aiEnabled,
				noColor:      noColor,
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "coverage/lcov.info", "Path to the LCOV tracefile")
	cmd.Flags().StringVar(&baseRef, "base-ref", "main", "Base git revision to diff against")
	cmd.Flags().StringVar(&repoRoot, "repo-root", ".", "Repository root for git operations")
	cmd.Flags().BoolVar(&modifiedOnly, "modified-only", false, "Only report files changed against the base revision")
	cmd.Flags().StringVar(&htmlDir, "html-dir", "", "Directory to write the HTML report into (disabled when empty)")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Path to write the JSON report to (disabled when empty)")
	cmd.Flags().BoolVar(&aiEnabled, "ai", false, "Generate AI insights about coverage gaps")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colorized console output")

	return cmd
}

type analyzeOptions struct {
	input        string
	baseRef      string
	repoRoot     string
	modifiedOnly bool
	htmlDir      string
	jsonPath     string
	aiEnabled    bool
	noColor      bool
}

func runAnalyze(cfg *config.Config, opts analyzeOptions) error {
	full, err := lcov.ParseFile(opts.input)
	if err != nil {
		return err
	}
	logger.Info("parsed %d file records from %s", len(full.Files), opts.input)

	view := full
	if opts.modifiedOnly {
		view = modifiedView(cfg, opts, full)
	}

	console := report.NewConsoleReporter(os.Stdout, !opts.noColor)
	if err := console.Write(view); err != nil {
		return err
	}

	var insightsMarkdown string
	if opts.aiEnabled {
		insightsMarkdown = generateInsights(cfg, view)
	}

	if opts.htmlDir != "" {
		if err := report.NewHTMLReporter(opts.htmlDir).Write(view, insightsMarkdown); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
		logger.Info("HTML report written to %s", opts.htmlDir)
	}
	if opts.jsonPath != "" {
		if err := report.NewJSONReporter(opts.jsonPath).Write(view); err != nil {
			return fmt.Errorf("failed to write JSON report: %w", err)
		}
		logger.Info("JSON report written to %s", opts.jsonPath)
	}

	return nil
}

// modifiedView narrows the model to the files changed against the base
// revision. The fallback policy lives here, not in the aggregator: when no
// modified source files exist the full view is reported instead.
func modifiedView(cfg *config.Config, opts analyzeOptions, full *model.CoverageModel) *model.CoverageModel {
	resolver := gitdiff.NewGitResolver(opts.repoRoot, cfg.SourceDir, cfg.SourceExt, exec.NewCommandExecutor())

	files, err := resolver.ModifiedFiles(opts.baseRef)
	if err != nil {
		logger.Warn("could not resolve modified files (%v), reporting full coverage", err)
		return full
	}
	if len(files) == 0 {
		logger.Info("no modified source files against %s, reporting full coverage", opts.baseRef)
		return full
	}

	logger.Debug("filtering coverage to %d modified files", len(files))
	filtered := coverage.Filter(full, coverage.NewPathSet(files))
	if len(filtered.Files) == 0 {
		logger.Warn("none of the %d modified files appear in the coverage data", len(files))
	}
	return filtered
}

// generateInsights is best-effort: failures are logged and the run
// continues without insights.
func generateInsights(cfg *config.Config, view *model.CoverageModel) string {
	apiKey, err := insights.ResolveAPIKey(cfg.AI.APIKeyEnv)
	if err != nil {
		logger.Warn("AI insights skipped: %v", err)
		return ""
	}

	client := insights.NewOpenAIClient(apiKey, cfg.AI.Model, cfg.AI.Endpoint)

	ctx, cancel := context.WithTimeout(context.Background(), insightsTimeout)
	defer cancel()

	result, err := insights.NewGenerator(client).Generate(ctx, view)
	if err != nil {
		logger.Warn("AI insights skipped: %v", err)
		return ""
	}
	return result.Markdown()
}
