package main

import (
	"fmt"
	"time"

	"github.com/1broseidon/gridmgr/internal/ipc"
	"github.com/1broseidon/gridmgr/internal/runtimepath"
	"github.com/1broseidon/gridmgr/internal/tiling"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func daemonClient() (*ipc.Client, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, err
	}
	return ipc.NewClient(socketPath), nil
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running daemon's status and monitors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := daemonClient()
			if err != nil {
				return err
			}
			status, err := client.GetStatus()
			if err != nil {
				return err
			}
			viewports, err := client.GetViewports()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			row := func(label, value string, style lipgloss.Style) {
				fmt.Fprintln(w, styleLabel.Render(label)+style.Render(value))
			}
			row("pid", fmt.Sprint(status.PID), styleValue)
			row("uptime", (time.Duration(status.UptimeSeconds) * time.Second).String(), styleValue)
			row("bindings", fmt.Sprint(status.Bindings), styleValue)
			row("actions", fmt.Sprint(status.ActionsRun), styleValue)
			if status.LastAction != "" {
				row("last", status.LastAction, styleValue)
			}
			if status.LastError != "" {
				row("error", status.LastError, styleError)
			}
			for _, v := range viewports.Viewports {
				line := fmt.Sprintf("viewport %d: %s", v.Index, v.Rect())
				if v.Active {
					line = styleActive.Render("* " + line)
				} else {
					line = "  " + line
				}
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}
}

func newSendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <position|monitor|focus> <target>",
		Short: "Ask the running daemon to carry out an action",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := tiling.Action{Kind: tiling.ActionKind(args[0]), Target: args[1]}
			if err := action.Validate(); err != nil {
				return err
			}
			client, err := daemonClient()
			if err != nil {
				return err
			}
			res, err := client.Run(action)
			if err != nil {
				return err
			}
			a.logger.Debug("sent", "action", action, "window", res.WindowID, "changed", res.Changed, "state", res.State)
			return nil
		},
	}
}
