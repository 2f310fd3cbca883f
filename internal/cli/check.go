package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rust2mojo/internal/compiler"
	"github.com/roach88/rust2mojo/internal/ir"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Strict bool
}

// CheckResult holds what a translation of the file would report.
type CheckResult struct {
	File        string                      `json:"file"`
	Policy      compiler.Policy             `json:"policy"`
	Items       int                         `json:"items"`
	Skipped     []ir.Diagnostic             `json:"skipped"`
	Unsupported []*ir.Unsupported           `json:"unsupported"`
	Recursion   []compiler.RecursionWarning `json:"recursion"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <file.rs>",
		Short: "Translate without writing and report diagnostics",
		Long: `Translate a Rust file without writing any output.

Reports top-level declarations that were skipped, constructs that would be
emitted as unsupported markers, and recursive call cycles. Recursion is
reported for information only.

Examples:
  rust2mojo check main.rs
  rust2mojo check main.rs --strict
  rust2mojo check main.rs --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "reject unsupported constructs")

	return cmd
}

func runCheck(opts *CheckOptions, input string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	c, err := newCompiler(cfg, opts.Strict, opts.logger(cmd.ErrOrStderr()))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}

	tr, err := c.TranslateFile(input)
	if err != nil {
		return compileFailure(formatter, err)
	}

	result := CheckResult{
		File:        input,
		Policy:      c.Options().Policy,
		Items:       tr.Items,
		Skipped:     nonNilSlice(tr.Skipped),
		Unsupported: nonNilSlice(tr.Unsupported),
		Recursion:   nonNilSlice(tr.Recursion),
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	outputCheckText(formatter, result)
	return nil
}

func outputCheckText(formatter *OutputFormatter, result CheckResult) {
	w := formatter.Writer
	fmt.Fprintf(w, "✓ %s: %d item(s)\n", result.File, result.Items)

	if len(result.Skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Skipped declarations:")
		for _, d := range result.Skipped {
			name := d.Kind
			if d.Name != "" {
				name += " " + d.Name
			}
			fmt.Fprintf(w, "  line %d: %s: %s\n", d.Line, name, d.Message)
		}
	}

	if len(result.Unsupported) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Unsupported constructs:")
		for _, u := range result.Unsupported {
			if u.Source == "" {
				fmt.Fprintf(w, "  %s\n", u.Construct)
				continue
			}
			fmt.Fprintf(w, "  %s: %s\n", u.Construct, firstLine(u.Source))
		}
	}

	if len(result.Recursion) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Recursion:")
		for _, r := range result.Recursion {
			fmt.Fprintf(w, "  %s\n", r.Message)
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
