package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rust2mojo/internal/ir"
)

// VersionInfo describes the build.
type VersionInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	IRVersion   string `json:"ir_version"`
	RustEdition string `json:"rust_edition"`
	MojoTarget  string `json:"mojo_target"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print version information",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Name:        "rust2mojo",
				Version:     ir.CompilerVersion,
				IRVersion:   ir.IRVersion,
				RustEdition: ir.DefaultRustEdition,
				MojoTarget:  ir.DefaultMojoVersion,
			}
			formatter := rootOpts.formatter(cmd)
			if rootOpts.Format == "json" {
				return formatter.Success(info)
			}
			return formatter.Success(fmt.Sprintf("%s %s (IR v%s, Rust %s → Mojo %s)",
				info.Name, info.Version, info.IRVersion, info.RustEdition, info.MojoTarget))
		},
	}
}
