package main

import (
	"errors"

	"github.com/1broseidon/gridmgr/internal/palette"
	"github.com/spf13/cobra"
)

func newPaletteCmd(a *app) *cobra.Command {
	var launcher string

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Pick an action from a rofi, fuzzel, wofi or dmenu menu",
		Long: `Pick an action from a launcher menu and carry it out. The action goes
to the running daemon when there is one, otherwise it runs directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := palette.NewLauncher(launcher)
			if err != nil {
				return err
			}
			action, err := palette.Pick(l)
			if errors.Is(err, palette.ErrCancelled) {
				return nil
			}
			if err != nil {
				return err
			}
			a.logger.Debug("palette", "launcher", l.Name(), "action", action)

			if client, err := daemonClient(); err == nil && client.Ping() == nil {
				_, err := client.Run(action)
				return err
			}
			return a.runAction(cmd, action, false)
		},
	}
	cmd.Flags().StringVar(&launcher, "launcher", "auto", "menu program (auto, rofi, fuzzel, wofi, dmenu)")
	return cmd
}
