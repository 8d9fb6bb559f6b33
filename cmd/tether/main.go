// Command tether is the CLI for the tetherd daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tether/client"
	"tether/cmd/tether/ui"
	"tether/config"
	"tether/internal/buildinfo"
	"tether/internal/logging"
)

func main() {
	var (
		debug  bool
		socket string
	)

	root := &cobra.Command{
		Use:           "tether",
		Short:         "SSH over USB gadget networking",
		Version:       buildinfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.Configure()
			level := logging.LevelWarn
			if debug {
				level = logging.LevelDebug
			}
			return logging.Configure(level)
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&socket, "socket", config.DefaultSocket, "tetherd control socket path")

	dial := func() *client.Client { return client.New(socket) }

	root.AddCommand(statusCmd(dial))
	root.AddCommand(startCmd(dial))
	root.AddCommand(stopCmd(dial))
	root.AddCommand(toggleCmd(dial))
	root.AddCommand(settingsCmd(dial))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorMsg("%v", err))
		os.Exit(1)
	}
}

func startCmd(dial func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the SSH service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dial().Start(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("start requested"))
			return nil
		},
	}
}

func stopCmd(dial func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the SSH service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dial().Stop(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("stop requested"))
			return nil
		},
	}
}

func toggleCmd(dial func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Toggle the SSH service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dial().Toggle(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("toggle requested"))
			return nil
		},
	}
}
