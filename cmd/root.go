package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/orchard/internal/app"
	"github.com/zjrosen/orchard/internal/config"
	"github.com/zjrosen/orchard/internal/document"
	"github.com/zjrosen/orchard/internal/infrastructure/sqlite"
	"github.com/zjrosen/orchard/internal/log"
	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
	"github.com/zjrosen/orchard/internal/tracing"
	"github.com/zjrosen/orchard/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
	cfgErr    error
)

var rootCmd = &cobra.Command{
	Use:   "orchard [file]",
	Short: "A terminal editor for visual workflow schemes",
	Long: `A terminal editor for visual workflow schemes: place widgets from the
registry on a canvas, connect their channels and group them into macros.

The file argument is opened when it exists and used as the save path
otherwise.`,
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/orchard/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also ORCHARD_DEBUG)")
	rootCmd.PersistentFlags().StringSlice("registry", nil,
		"extra widget registration files or directories")
	rootCmd.Flags().Bool("no-watch", false,
		"do not reload the document when it changes on disk")

	// Bind flags to viper
	_ = viper.BindPFlag("registry.paths", rootCmd.PersistentFlags().Lookup("registry"))
}

func initConfig() {
	v := viper.GetViper()
	config.Locate(v, cfgFile)
	cfg, cfgErr = config.Load(v)
	if cfgErr != nil || cfgFile != "" || v.ConfigFileUsed() != "" {
		return
	}

	// No config file found anywhere - create the user default.
	if home, err := os.UserHomeDir(); err == nil {
		_ = config.WriteDefaultConfig(filepath.Join(home, ".config", "orchard", "config.yaml"))
	}
}

// initLogging enables the debug log when requested. The returned cleanup is
// never nil.
func initLogging(prefix string) (func(), error) {
	if os.Getenv("ORCHARD_DEBUG") == "" && !debugFlag {
		return func() {}, nil
	}
	logPath := os.Getenv("ORCHARD_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing debug log: %w", err)
	}
	log.Info(log.CatConfig, "orchard starting", "version", version, "config", viper.ConfigFileUsed())
	return cleanup, nil
}

func loadRegistry() (*registry.Registry, error) {
	reg, err := registry.Load(cfg.Registry.Paths, cfg.Registry.SkipBuiltin)
	if err != nil {
		return nil, fmt.Errorf("loading widget registry: %w", err)
	}
	return reg, nil
}

func loopPolicy(s string) scheme.LoopPolicy {
	if s == "forbid" {
		return scheme.NoLoops
	}
	return scheme.AllowLoops
}

func clipboardBackend(name string) document.Clipboard {
	if name == "system" && document.SystemClipboardAvailable() {
		return document.SystemClipboard{}
	}
	return document.NewMemoryClipboard()
}

func tracingConfig(t config.TracingConfig) tracing.Config {
	return tracing.Config{
		Enabled:      t.Enabled,
		Exporter:     t.Exporter,
		FilePath:     t.FilePath,
		OTLPEndpoint: t.OTLPEndpoint,
		SampleRate:   t.SampleRate,
		ServiceName:  tracing.DefaultServiceName,
	}
}

// openUsage opens the statistics database when statistics are enabled. The
// returned close function is never nil.
func openUsage() (*sqlite.UsageRepository, func(), error) {
	if !cfg.Statistics.Enabled {
		return nil, func() {}, nil
	}
	path := cfg.Statistics.DBPath
	if path == "" {
		path = config.DefaultStatisticsPath()
	}
	db, err := sqlite.NewDB(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening statistics database: %w", err)
	}
	return db.UsageRepository(), func() { _ = db.Close() }, nil
}

func runApp(cmd *cobra.Command, args []string) (err error) {
	if cfgErr != nil {
		return fmt.Errorf("invalid configuration: %w", cfgErr)
	}
	cleanupLog, err := initLogging("orchard")
	if err != nil {
		return err
	}
	defer cleanupLog()

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		return fmt.Errorf("invalid theme configuration: %w", err)
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	provider, err := tracing.NewProvider(tracingConfig(cfg.Tracing))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	usage, closeUsage, err := openUsage()
	if err != nil {
		return err
	}
	defer closeUsage()

	opts := []document.Option{
		document.WithClipboard(clipboardBackend(cfg.Clipboard.Backend)),
		document.WithTracer(provider.Tracer()),
		document.WithDuplicateOffset(cfg.Editor.DuplicateOffset),
		document.WithNodeSpacing(cfg.Editor.NodeSpacing),
		document.WithLoopPolicy(loopPolicy(cfg.Editor.LoopPolicy)),
	}
	if usage != nil {
		opts = append(opts, document.WithUsage(usage))
	}
	doc := document.New(reg, opts...)
	defer doc.Close()

	ctx := cmd.Context()
	if len(args) == 1 {
		if err := openDocument(ctx, doc, args[0]); err != nil {
			return err
		}
	}

	if usage != nil {
		if err := usage.StartSession(ctx, doc.Path()); err != nil {
			log.ErrorErr(log.CatStore, "starting session", err)
		}
		defer func() { _ = usage.EndSession(context.Background()) }()
	}

	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Watcher.Enabled = false
	}

	zone.NewGlobal()
	model := app.New(doc, cfg)
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openDocument loads path into doc, or adopts it as the save path of the
// empty document when it does not exist yet.
func openDocument(ctx context.Context, doc *document.Controller, path string) error {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		doc.SetScheme(doc.Scheme(), path)
		return nil
	}
	warnings, err := doc.Load(ctx, path)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.Warn(log.CatDocument, "skipped entry", "path", path, "error", w.Error())
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
