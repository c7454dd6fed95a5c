// Package main provides the Polaris installer entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/polarisapp/polaris-setup/internal/archive"
	"github.com/polarisapp/polaris-setup/internal/client"
	"github.com/polarisapp/polaris-setup/internal/config"
	"github.com/polarisapp/polaris-setup/internal/logging"
	"github.com/polarisapp/polaris-setup/internal/pipeline"
	"github.com/polarisapp/polaris-setup/internal/progress"
	"github.com/polarisapp/polaris-setup/internal/shortcut"
	"github.com/polarisapp/polaris-setup/internal/singleinst"
	"github.com/polarisapp/polaris-setup/internal/steps"
	"github.com/polarisapp/polaris-setup/internal/store"
	"github.com/polarisapp/polaris-setup/internal/telemetry"
	"github.com/polarisapp/polaris-setup/internal/version"
)

var (
	configFile string
	uninstall  bool
	quiet      bool
	debug      bool

	rootCmd = &cobra.Command{
		Use:           "polaris-setup",
		Short:         "Polaris Installer",
		Long:          `polaris-setup installs, updates, repairs and removes Polaris.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "setup.yaml", "config file path")
	rootCmd.Flags().BoolVar(&uninstall, "uninstall", false, "remove the installed application")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "no console output, no acknowledgment wait")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "verbose logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Full())
		},
	})
}

// errRunFailed signals a failed run whose cause was already shown to the
// user through the progress sink.
var errRunFailed = errors.New("run failed")

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCfg := logging.DefaultConfig()
	if debug {
		logCfg.Level = "debug"
	}
	if err := logging.Setup(logCfg); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logging.Close()

	// Finish a self-update a previous run left behind.
	archive.CleanupOld()

	// Only one installer at a time.
	guard, err := singleinst.Acquire(cfg.AppName + "-setup")
	if err != nil {
		if errors.Is(err, singleinst.ErrAlreadyRunning) {
			return fmt.Errorf("another %s installer is already running", cfg.DisplayName)
		}
		return fmt.Errorf("acquire instance guard: %w", err)
	}
	defer guard.Release()

	st, err := store.Open()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	applier, err := archive.NewApplier()
	if err != nil {
		return fmt.Errorf("create applier: %w", err)
	}

	setupPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate own executable: %w", err)
	}

	d := &steps.Deps{
		Config:    cfg,
		Client:    client.New(cfg.BaseURL),
		Store:     st,
		Applier:   applier,
		Shortcuts: shortcut.New(),
		SetupPath: setupPath,
	}

	var sink progress.Sink
	var console *progress.Console
	if quiet {
		sink = progress.NewQuiet()
	} else {
		console = progress.NewConsole()
		sink = console
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logging.Info("Received signal", "signal", sig)
		if console != nil {
			console.Cancel()
		}
		cancel()
	}()

	title := "Installing " + cfg.DisplayName
	done := "Installation completed successfully."
	pipelineSteps := steps.InstallSteps(d)
	if uninstall {
		title = "Uninstalling " + cfg.DisplayName
		done = cfg.DisplayName + " has been removed."
		pipelineSteps = steps.UninstallSteps(d)
	}

	runner := pipeline.NewRunner(title, done, pipelineSteps, sink, telemetry.NewLogCollector(), cfg.AutoClose || quiet)
	state := runner.Run(ctx, pipeline.NewContext())
	logging.Info("Run finished", "state", state)

	if !state.Succeeded() {
		return errRunFailed
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
