// Command tetherd runs the SSH-over-USB lifecycle daemon.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tether/config"
	"tether/daemon"
	"tether/gadget"
	"tether/internal/buildinfo"
	"tether/internal/logging"
	"tether/platform"
	"tether/service"
	"tether/settings"
	"tether/sshd"
)

func main() {
	var (
		configPath string
		debug      bool
	)

	root := &cobra.Command{
		Use:           "tetherd",
		Short:         "SSH over USB gadget lifecycle daemon",
		Version:       buildinfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, debug)
		},
	}
	root.Flags().StringVar(&configPath, "config", config.DefaultPath, "config file path")
	root.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if debug {
		level = logging.LevelDebug
	}
	if err := logging.Configure(level); err != nil {
		return err
	}

	store, err := settings.Open(cfg.SettingsDB())
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	defer store.Close()

	runner := platform.ExecRunner{}

	sup := sshd.New(cfg.SSHDBinary, cfg.PIDFile, cfg.KeyDir(), runner, platform.Processes{},
		sshd.WithPrereqs(platform.Devpts{Dir: cfg.PTSDir}))

	supported := platform.SupportsUSBGadget() && !cfg.NoGadget
	gad := gadget.New(cfg.Helper, cfg.Interface, supported, runner, platform.Links{})

	notify := daemon.NewNotifier()
	opts := []service.Option{service.WithNotifier(notify)}
	if cfg.PowerSupply != "" {
		opts = append(opts, service.WithPlugProber(platform.SysfsPlugProber{Supply: cfg.PowerSupply}))
	}

	coord, err := service.New(store, sup, gad, opts...)
	if err != nil {
		return fmt.Errorf("init coordinator: %w", err)
	}

	d := daemon.New(coord, store, notify,
		daemon.WithSources(platform.NewUEventWatcher(), platform.PowerSignals{}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Tetherd starting.", "version", buildinfo.Version, "socket", cfg.Socket, "gadget", supported)
	return d.Run(ctx, cfg.Socket)
}
