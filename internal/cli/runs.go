package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/rust2mojo/internal/harness"
	"github.com/roach88/rust2mojo/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
}

// RunSummary is one row of the runs listing.
type RunSummary struct {
	ID         string     `json:"id"`
	Suite      string     `json:"suite"`
	CaseFile   string     `json:"case_file"`
	Model      string     `json:"model"`
	IRVersion  string     `json:"ir_version"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"` // nil for runs that never finished
	Total      int        `json:"total"`
	Passed     int        `json:"passed"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded comparison runs",
		Long: `List comparison runs recorded with compare --db, oldest first.

Examples:
  rust2mojo runs --db runs.db
  rust2mojo runs --db runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := openExisting(opts.Database)
	if err != nil {
		return databaseFailure(formatter, opts.Database, err)
	}
	defer st.Close()

	runs, err := st.ListRuns(commandContext(cmd))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to list runs", err)
	}

	summaries := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		s := RunSummary{
			ID:        r.ID,
			Suite:     r.Suite,
			CaseFile:  r.CaseFile,
			Model:     r.Model,
			IRVersion: r.IRVersion,
			StartedAt: r.StartedAt,
			Total:     r.Total,
			Passed:    r.Passed,
		}
		if !r.FinishedAt.IsZero() {
			finished := r.FinishedAt
			s.FinishedAt = &finished
		}
		summaries = append(summaries, s)
	}

	if opts.Format == "json" {
		return formatter.Success(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUITE\tPASSED\tSTARTED")
	for _, s := range summaries {
		passed := fmt.Sprintf("%d/%d", s.Passed, s.Total)
		if s.FinishedAt == nil {
			passed = "unfinished"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Suite, passed, s.StartedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database string
	Output   string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report <run-id>",
		Short: "Render the batch report of a recorded run",
		Long: `Rebuild a recorded comparison run and render its markdown batch report.

With --format json the stored run results are printed instead.

Examples:
  rust2mojo report --db runs.db 0191a2b3-...
  rust2mojo report --db runs.db 0191a2b3-... -o report.md`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the report to this file")

	return cmd
}

func runReport(opts *ReportOptions, runID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := openExisting(opts.Database)
	if err != nil {
		return databaseFailure(formatter, opts.Database, err)
	}
	defer st.Close()

	res, err := harness.LoadRun(commandContext(cmd), st, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run not found: %s", runID), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to load run", err)
	}

	if opts.Output != "" {
		if err := writeOutput(opts.Output, res.Report()); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "writing report", err)
		}
	}

	if opts.Format == "json" {
		return formatter.Success(res)
	}
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote report for run %s to %s\n", runID, opts.Output)
		return nil
	}
	_, err = fmt.Fprint(formatter.Writer, res.Report())
	return err
}

var errNoDatabase = errors.New("database not found")

// openExisting opens a database that must already exist. store.Open would
// create an empty one.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errNoDatabase
	}
	return store.Open(path)
}

func databaseFailure(formatter *OutputFormatter, path string, err error) error {
	if errors.Is(err, errNoDatabase) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", path), nil)
	}
	return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
