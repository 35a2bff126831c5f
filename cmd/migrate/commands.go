package main

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/hexlet/taskmanager/internal/infrastructure/config"
	"github.com/hexlet/taskmanager/internal/infrastructure/logger"
	"github.com/hexlet/taskmanager/internal/infrastructure/migration"
	"github.com/hexlet/taskmanager/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	path     string
	logLevel string
	log      *zap.Logger
}

// source prefers an explicit directory over the migrations compiled into the binary
func (o *options) source() migration.Source {
	if o.path != "" {
		return migration.FromDir(o.path)
	}
	return migration.FromFS(migrations.FS)
}

// dir is where create and list look for files
func (o *options) dir() (string, error) {
	dir := o.path
	if dir == "" {
		dir = "migrations"
		if cfg, err := config.Load(); err == nil && cfg.Database.MigrationsPath != "" {
			dir = cfg.Database.MigrationsPath
		}
	}
	return filepath.Abs(dir)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Task manager schema migrations",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			log, err := logger.New(&logger.Config{
				Level:      opts.logLevel,
				Format:     "console",
				Output:     "stdout",
				TimeFormat: "2006-01-02 15:04:05",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.log = log
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.log != nil {
				_ = logger.Sync(opts.log)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.path, "path", "", "migrations directory (default: embedded migrations)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newCreateCmd(opts),
		newListCmd(opts),
		newMigratorCmd(opts, "up", "Apply all pending migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ []string) error { return m.Up() }),
		newMigratorCmd(opts, "down", "Roll back all migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ []string) error { return m.Down() }),
		newMigratorCmd(opts, "step <n>", "Apply n migrations (negative rolls back)", cobra.ExactArgs(1),
			func(m *migration.Migrator, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(n)
			}),
		newMigratorCmd(opts, "goto <version>", "Migrate to a specific version", cobra.ExactArgs(1),
			func(m *migration.Migrator, args []string) error {
				v, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.GoTo(uint(v))
			}),
		newMigratorCmd(opts, "version", "Show the applied migration version", cobra.NoArgs,
			func(m *migration.Migrator, _ []string) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				opts.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
				return nil
			}),
		newMigratorCmd(opts, "force <version>", "Set the version without running migrations", cobra.ExactArgs(1),
			func(m *migration.Migrator, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.Force(v)
			}),
		newDropCmd(opts),
	)
	return cmd
}

func newCreateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create a new up/down migration pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := opts.dir()
			if err != nil {
				return err
			}
			description := ""
			if len(args) == 2 {
				description = args[1]
			}

			mf, err := migration.CreateMigration(dir, args[0], description)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), mf.UpPath)
			fmt.Fprintln(cmd.OutOrStdout(), mf.DownPath)
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List migrations found on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := opts.dir()
			if err != nil {
				return err
			}
			names, err := migration.ListMigrations(dir)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newDropCmd(opts *options) *cobra.Command {
	var confirm bool
	cmd := newMigratorCmd(opts, "drop", "Drop every table (destroys all data)", cobra.NoArgs,
		func(m *migration.Migrator, _ []string) error { return m.Drop() })

	run := cmd.RunE
	cmd.RunE = func(c *cobra.Command, args []string) error {
		if !confirm {
			return errors.New("drop needs --confirm")
		}
		return run(c, args)
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm dropping all tables")
	return cmd
}

func newMigratorCmd(opts *options, use, short string, args cobra.PositionalArgs,
	run func(m *migration.Migrator, args []string) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(_ *cobra.Command, args []string) error {
			m, err := openMigrator(opts)
			if err != nil {
				return err
			}
			defer func() {
				if err := m.Close(); err != nil {
					opts.log.Warn("Failed to close migrator", zap.Error(err))
				}
			}()
			return run(m, args)
		},
	}
}

func openMigrator(opts *options) (*migration.Migrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("migrations target postgres, database.driver is %q", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := migration.New(db, opts.source(), opts.log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}
