// Package cmd implements the stepflow command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/stepflow/internal/app"
	"github.com/zjrosen/stepflow/internal/archive"
	"github.com/zjrosen/stepflow/internal/config"
	"github.com/zjrosen/stepflow/internal/infrastructure/sqlite"
	"github.com/zjrosen/stepflow/internal/log"
	"github.com/zjrosen/stepflow/internal/mockai"
	"github.com/zjrosen/stepflow/internal/mode"
	"github.com/zjrosen/stepflow/internal/mode/shared"
	"github.com/zjrosen/stepflow/internal/store"
	"github.com/zjrosen/stepflow/internal/tracing"
	"github.com/zjrosen/stepflow/internal/ui/markdown"
	"github.com/zjrosen/stepflow/internal/ui/styles"
	"github.com/zjrosen/stepflow/internal/watcher"
	"github.com/zjrosen/stepflow/internal/workflow/templates"
)

// skipConfig marks commands that run without loading the config file.
const skipConfig = "skip-config"

var (
	cfgFile   string
	seedFlag  uint64
	instant   bool
	debugFlag bool

	cfg        config.Config
	logCleanup = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "stepflow",
	Short: "Draft, review and approve automation workflows",
	Long: `stepflow turns a plain-language description into a draft workflow,
lets you review, reorder, edit and revise its steps, and records the
workflows you approve.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(*cobra.Command, []string) { logCleanup() },
	RunE:              runTUI,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/stepflow/config.yaml)")
	flags.Uint64Var(&seedFlag, "seed", 0, "seed for the simulated assistant")
	flags.BoolVar(&instant, "instant", false, "skip simulated latency")
	flags.BoolVarP(&debugFlag, "debug", "d", false, "write a debug log")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		loaded.Seed = seedFlag
	}
	if flags.Changed("instant") {
		loaded.Simulation.Instant = instant
	}
	if debugFlag {
		loaded.Log.Level = "debug"
		if loaded.Log.File == "" {
			if dir, err := config.Dir(); err == nil {
				loaded.Log.File = filepath.Join(dir, "debug.log")
			}
		}
	}
	cfg = loaded

	logCleanup = log.Init(log.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	log.Info(log.CatConfig, "stepflow starting", "command", cmd.Name(), "seed", cfg.Seed)
	return nil
}

// configPath returns the config file in use.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultPath()
}

func newGenerator(c config.Config, pool templates.Pool, tp trace.TracerProvider) *mockai.Generator {
	opts := []mockai.Option{
		mockai.WithPool(pool),
		mockai.WithDelays(mockai.Delays{
			GenerateMin: c.Simulation.GenerateMin,
			GenerateMax: c.Simulation.GenerateMax,
			Revise:      c.Simulation.Revise,
		}),
	}
	if tp != nil {
		opts = append(opts, mockai.WithTracerProvider(tp))
	}
	if c.Seed != 0 {
		opts = append(opts, mockai.WithSeed(c.Seed))
	}
	if c.Simulation.Instant {
		opts = append(opts, mockai.WithSleeper(mockai.NoDelay))
	}
	return mockai.New(opts...)
}

// openArchive opens the approvals database.
func openArchive(c config.Config) (*sqlite.DB, error) {
	path, err := c.ArchivePath()
	if err != nil {
		return nil, err
	}
	return sqlite.NewDB(path)
}

func setupTracing(ctx context.Context) (*tracing.Provider, func(), error) {
	tp, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up tracing: %w", err)
	}
	return tp, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Tracer shutdown failed", err)
		}
	}, nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tp, shutdown, err := setupTracing(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	styles.DetectBackground()
	if err := styles.ApplyTheme(styles.ThemeConfig(cfg.Theme)); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}
	mdStyle := markdown.StyleLight
	if lipgloss.HasDarkBackground() {
		mdStyle = markdown.StyleDark
	}

	pool := templates.Load(cfg.TemplatesFile)
	bridge := app.NewEventBridge(0)
	st := store.New(newGenerator(cfg, pool, tp.TracerProvider), store.WithListener(bridge.Listener()))

	var repo archive.Repository
	if cfg.Archive.Enabled {
		db, err := openArchive(cfg)
		if err != nil {
			log.ErrorErr(log.CatDB, "Archive unavailable, approvals will not be recorded", err)
		} else {
			defer func() { _ = db.Close() }()
			repo = db.ApprovalRepository()
		}
	}

	svc := mode.Services{
		Store:     st,
		Config:    cfg,
		Clipboard: shared.SystemClipboard{},
		Archive:   repo,
		Markdown:  markdown.New(mdStyle),
		Examples:  pool.Examples,
		Tools:     pool.Tools,
		Agents:    pool.Agents,
		Now:       time.Now,
	}

	opts := []app.Option{app.WithEvents(bridge)}
	if cfg.WatchConfig {
		path, err := configPath()
		if err == nil {
			w, werr := watcher.New(path, watcher.DefaultDebounce)
			if werr != nil {
				log.ErrorErr(log.CatConfig, "Config watch disabled", werr, "path", path)
			} else {
				defer func() { _ = w.Close() }()
				opts = append(opts, app.WithConfigWatch(path, w.Changes()))
			}
		}
	}

	zone.NewGlobal()
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	_, err = tea.NewProgram(app.New(svc, opts...), progOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
