package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tether/client"
	"tether/cmd/tether/ui"
	"tether/settings"
)

func settingsCmd(dial func() *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change daemon settings",
	}
	cmd.AddCommand(settingsListCmd(dial))
	cmd.AddCommand(settingsSetCmd(dial))
	return cmd
}

func settingsListCmd(dial func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List settings and their stored values",
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, err := dial().Settings(cmd.Context())
			if err != nil {
				return err
			}

			var pairs []ui.Pair
			for _, key := range settings.KnownKeys() {
				value, ok := stored[key]
				if !ok {
					value = "(default)"
				}
				pairs = append(pairs, ui.KV(key, ui.Accent(value)))
			}
			fmt.Print(ui.KeyValues("", pairs...))
			return nil
		},
	}
}

func settingsSetCmd(dial func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting; the daemon applies it on the next start",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dial().Set(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("%s = %s", args[0], args[1]))
			return nil
		},
	}
}
