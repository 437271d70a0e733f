// Package cli implements creditctl, the operator command line for the
// credit service.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/bootstrap"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/infrastructure/adapter"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/infrastructure/config"
	"github.com/sanjanarawald/CreditApprovalSystem/pkg/observability"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	// AsOf pins "today" (YYYY-MM-DD) for scoring and debt.
	AsOf string

	// loadConfig is swapped out in tests.
	loadConfig func() (config.Config, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for creditctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{loadConfig: config.Load})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creditctl",
		Short: "Operate the credit approval service",
		Long: `creditctl runs the batch and maintenance jobs of the credit approval
service: schema migrations, spreadsheet ingestion, debt recomputation and
ad-hoc scoring. It reads the same configuration as creditd.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitUsage, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if _, err := opts.clock(); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.AsOf, "as-of", "", "evaluate as of this date (YYYY-MM-DD) instead of today")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewIngestCommand(opts))
	cmd.AddCommand(NewRecomputeDebtCommand(opts))
	cmd.AddCommand(NewScoreCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewEMICommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewKeysCommand(opts))
	cmd.AddCommand(NewCertsCommand(opts))
	cmd.AddCommand(NewEventsCommand(opts))

	return cmd
}

func (o *RootOptions) clock() (port.Clock, error) {
	if o.AsOf == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(o.AsOf)
	if err != nil {
		return nil, NewExitError(ExitUsage, fmt.Sprintf("invalid --as-of %q: want YYYY-MM-DD", o.AsOf))
	}
	return adapter.FixedClock{Day: d}, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// config loads and validates the service configuration and sets up logging
// on stderr so that stdout stays machine-readable.
func (o *RootOptions) config(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return config.Config{}, nil, WrapExitError(ExitCommandError, "load configuration", err)
	}

	level := "warn"
	if o.Verbose {
		level = "debug"
	}
	logger := observability.InitLogger(observability.LogConfig{
		Level:   level,
		Format:  "text",
		Service: "creditctl",
		Output:  cmd.ErrOrStderr(),
	})
	return cfg, logger, nil
}

// openApp connects to the service backends.
func (o *RootOptions) openApp(cmd *cobra.Command) (*bootstrap.App, error) {
	cfg, logger, err := o.config(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	clock, err := o.clock()
	if err != nil {
		return nil, err
	}

	app, err := bootstrap.New(commandContext(cmd), cfg, logger, bootstrap.Options{Clock: clock})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "connect", err)
	}
	return app, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
