package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shabbyrobe/go-bnfuzz/modules"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string
	Modules []string

	config *Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the bnfuzz CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bnfuzz",
		Short: "bnfuzz - run bignum library modules by hand",
		Long: `Run single bignum operations and known-answer vectors against the
library modules bnfuzz compares.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "TOML config file")
	cmd.PersistentFlags().StringSliceVarP(&opts.Modules, "module", "m", nil, "modules to run (default all)")

	// Add subcommands
	cmd.AddCommand(NewOpsCommand(opts))
	cmd.AddCommand(NewExecCommand(opts))
	cmd.AddCommand(NewVectorsCommand(opts))

	return cmd
}

// setup applies the config file under any flags given on the command line,
// then validates the result and builds the logger.
func (opts *RootOptions) setup(cmd *cobra.Command) error {
	opts.config = &Config{}
	if opts.Config != "" {
		cfg, err := LoadConfig(opts.Config)
		if err != nil {
			return WrapExitError(ExitCommandError, "config", err)
		}
		opts.config = cfg

		flags := cmd.Flags()
		if !flags.Changed("format") && cfg.Format != "" {
			opts.Format = cfg.Format
		}
		if !flags.Changed("verbose") && cfg.Verbose {
			opts.Verbose = true
		}
		if !flags.Changed("module") && len(cfg.Modules) > 0 {
			opts.Modules = cfg.Modules
		}
	}

	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}
	if _, err := modules.Select(opts.Modules); err != nil {
		return WrapExitError(ExitCommandError, "invalid --module", err)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if opts.Config != "" {
		opts.logger.Debug("config loaded", "path", opts.Config)
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
