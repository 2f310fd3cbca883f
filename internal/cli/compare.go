package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/rust2mojo/internal/harness"
	"github.com/roach88/rust2mojo/internal/store"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	Database string // optional run database
	Report   string // optional markdown report path

	// Translator, IDGenerator and Clock override the harness defaults
	// (for testing).
	Translator  harness.Translator
	IDGenerator harness.IDGenerator
	Clock       harness.Clock
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare <cases.yaml>",
		Short: "Compare translations against reference translations",
		Long: `Run a comparison case file through the translator.

Each case is translated and scored against a reference translation, either
the case's own reference or one produced by the configured reference
translator. Case expectations (contains, not_contains, error) decide
whether a case passes. Running this command enables comparison regardless
of the configuration file.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (bad case file, database error, etc.)

Examples:
  rust2mojo compare testdata/cases.yaml
  rust2mojo compare cases.yaml --db runs.db --report report.md
  rust2mojo compare cases.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for run records")
	cmd.Flags().StringVar(&opts.Report, "report", "", "write the markdown batch report to this file")

	return cmd
}

func runCompare(opts *CompareOptions, casesPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())

	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	cfg.Comparison.Enabled = true

	cf, err := harness.LoadCases(casesPath)
	if err != nil {
		if _, statErr := os.Stat(casesPath); os.IsNotExist(statErr) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("case file not found: %s", casesPath), nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeCases, "invalid case file", err)
	}
	formatter.VerboseLog("Loaded %d case(s) from %s", len(cf.Cases), casesPath)

	c, err := newCompiler(cfg, false, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	engine := harness.NewEngine(cfg.Comparison, c,
		harness.WithTranslator(opts.Translator),
		harness.WithLogger(logger),
	)

	runnerOpts := []harness.RunnerOption{
		harness.WithIDGenerator(opts.IDGenerator),
		harness.WithClock(opts.Clock),
		harness.WithRunLogger(logger),
	}
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		runnerOpts = append(runnerOpts, harness.WithStore(st))
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := harness.NewRunner(engine, runnerOpts...).Run(ctx, cf)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "comparison run failed", err)
	}

	if opts.Report != "" {
		if err := writeOutput(opts.Report, res.Report()); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "writing report", err)
		}
		formatter.VerboseLog("Wrote report to %s", opts.Report)
	}

	if opts.Format == "json" {
		if err := formatter.Success(res); err != nil {
			return err
		}
	} else {
		outputCompareText(formatter, res)
	}

	if !res.Pass() {
		failed := len(res.Cases) - res.Passed
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", failed))
	}
	return nil
}

func outputCompareText(formatter *OutputFormatter, res *harness.RunResult) {
	w := formatter.Writer
	for _, c := range res.Cases {
		mark := "✓"
		if !c.Pass {
			mark = "✗"
		}
		switch {
		case c.Comparison != nil:
			fmt.Fprintf(w, "%s %s (overall %.2f%%)\n", mark, c.Name, c.Comparison.Metrics.Overall*100)
		default:
			fmt.Fprintf(w, "%s %s (compile error)\n", mark, c.Name)
		}
		if formatter.Verbose && c.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", c.Error)
		}
		for _, f := range c.Failures {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d/%d case(s) passed\n", res.Passed, len(res.Cases))
	fmt.Fprintf(w, "Run: %s\n", res.RunID)
}
