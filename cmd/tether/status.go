package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tether/client"
	"tether/cmd/tether/ui"
)

func statusCmd(dial func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and SSH service state",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := dial().Status(cmd.Context())
			if err != nil {
				return err
			}

			pairs := []ui.Pair{
				ui.KV("service", ui.OnOff(st.Running)),
				ui.KV("port", ui.Accent(strconv.Itoa(st.Port))),
				ui.KV("usb", st.Plug),
				ui.KV("gadget", ui.Bool(st.GadgetActive)),
			}
			if st.AutostartPending {
				pairs = append(pairs, ui.KV("pending", "waiting for cable"))
			}
			if st.ResumePending {
				pairs = append(pairs, ui.KV("pending", "resume"))
			}
			if st.ReplugPending {
				pairs = append(pairs, ui.KV("pending", "replug"))
			}
			if st.LastMessage != "" {
				pairs = append(pairs, ui.KV("last", st.LastMessage))
			}
			pairs = append(pairs, ui.KV("daemon", st.Version))

			fmt.Print(ui.KeyValues("", pairs...))
			return nil
		},
	}
}
