package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	pkgpg "github.com/sanjanarawald/CreditApprovalSystem/pkg/postgres"
)

type migrateOptions struct {
	source string
	steps  int
	all    bool
}

// MigrationStatus is the output of the migrate subcommands.
type MigrationStatus struct {
	Action  string `json:"action"`
	Version uint   `json:"version"`
	Dirty   bool   `json:"dirty"`
	Applied bool   `json:"applied"`
}

// NewMigrateCommand creates the migrate command group.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &migrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().StringVar(&opts.source, "source", "", "migration source URL (defaults to the configured migrations_path)")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, opts, cmd, "up")
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Long:  "Roll back the last --steps migrations, or every migration with --all.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.steps <= 0 && !opts.all {
				return NewExitError(ExitUsage, "migrate down needs --steps N or --all")
			}
			return runMigrate(rootOpts, opts, cmd, "down")
		},
	}
	down.Flags().IntVar(&opts.steps, "steps", 0, "number of migrations to roll back")
	down.Flags().BoolVar(&opts.all, "all", false, "roll back every migration")
	down.MarkFlagsMutuallyExclusive("steps", "all")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, opts, cmd, "version")
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func runMigrate(rootOpts *RootOptions, opts *migrateOptions, cmd *cobra.Command, action string) error {
	cfg, logger, err := rootOpts.config(cmd)
	if err != nil {
		return err
	}
	dsn := cfg.Postgres().DSN()
	source := opts.source
	if source == "" {
		source = cfg.DB.MigrationsPath
	}
	logger.Debug("running migrations", "action", action, "source", source)

	status := MigrationStatus{Action: action}
	switch action {
	case "up":
		err = pkgpg.RunMigrations(dsn, source)
		status.Applied = err == nil
	case "down":
		steps := opts.steps
		if opts.all {
			steps = 0
		}
		err = pkgpg.RunMigrationsDown(dsn, source, steps)
		status.Applied = err == nil
	}
	if err != nil {
		return WrapExitError(ExitFailure, "migrate "+action, err)
	}

	status.Version, status.Dirty, err = pkgpg.MigrationVersion(dsn, source)
	if err != nil {
		return WrapExitError(ExitFailure, "read schema version", err)
	}

	return rootOpts.formatter(cmd).Print(status, func(w io.Writer) {
		switch action {
		case "version":
			fmt.Fprintf(w, "schema version %d", status.Version)
		default:
			fmt.Fprintf(w, "migrate %s done, schema version %d", action, status.Version)
		}
		if status.Dirty {
			fmt.Fprint(w, " (dirty)")
		}
		fmt.Fprintln(w)
	})
}
