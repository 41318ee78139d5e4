// Package cli implements the cinder command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	gormlogger "gorm.io/gorm/logger"

	"github.com/c1nderscript/Cinder-s-Webscraper/internal/config"
	"github.com/c1nderscript/Cinder-s-Webscraper/internal/logx"
	"github.com/c1nderscript/Cinder-s-Webscraper/internal/scrape"
	"github.com/c1nderscript/Cinder-s-Webscraper/internal/tasks"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/catalog"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/registry"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/storage"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	dbOverride string
	debug      bool

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	catalog  *catalog.Catalog
	jobs     *tasks.Jobs
}

// NewRootCmd builds the cinder command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "cinder",
		Short:         "A persistent scheduler for recurring scraping tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "config.yaml", "Path to the YAML or JSON config file")
	root.PersistentFlags().StringVar(&a.dbOverride, "db", "", "Database path or postgres:// URL (overrides config)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		RunCmd(a),
		AddCmd(a),
		CreateCmd(a),
		RemoveCmd(a),
		UpdateCmd(a),
		DeleteCmd(a),
		GetCmd(a),
		ListCmd(a),
		SchedulesCmd(a),
		JobsCmd(a),
	)
	return root
}

// Execute runs the command line with ctx and returns the first error.
func Execute(ctx context.Context, args []string, out io.Writer) error {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbOverride != "" {
		cfg.Database = a.dbOverride
	}
	if a.debug {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	logger, closeLog, err := logx.New(cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closeLog = closeLog

	engine, err := scrape.FromConfig(cfg.Scraper, logger)
	if err != nil {
		return err
	}

	a.catalog = catalog.New()
	a.jobs, err = tasks.Register(a.catalog, tasks.Deps{
		Logger:   logger,
		Engine:   engine,
		Websites: cfg.Websites,
	})
	return err
}

func (a *app) teardown() error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}

// openRegistry opens the configured database and restores its tasks.
func (a *app) openRegistry(ctx context.Context) (*registry.Registry, error) {
	store, err := storage.Open(a.cfg.Database, a.storageOptions()...)
	if err != nil {
		return nil, err
	}
	reg, err := registry.Open(ctx, store, a.catalog, registry.WithLogger(a.logger))
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return reg, nil
}

// storageOptions turns on GORM's SQL logging under --debug.
func (a *app) storageOptions() []storage.OpenOption {
	if !a.debug {
		return nil
	}
	return []storage.OpenOption{storage.WithGormLogLevel(gormlogger.Info)}
}

// withRegistry runs fn against an open registry and closes it afterwards.
func (a *app) withRegistry(cmd *cobra.Command, fn func(reg *registry.Registry) error) (err error) {
	reg, err := a.openRegistry(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := reg.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(reg)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
