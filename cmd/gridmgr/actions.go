package main

import (
	"fmt"
	"io"

	"github.com/1broseidon/gridmgr/internal/neighbor"
	"github.com/1broseidon/gridmgr/internal/tiling"
	"github.com/spf13/cobra"
)

func newPositionCmd(a *app) *cobra.Command {
	var (
		monitor string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "position <pos>",
		Short: "Snap the active window to a grid position",
		Long: `Snap the active window to one of nine grid positions:

  topleft   top     topright
  left      center  right
  botleft   bottom  botright

Repeating a position cycles the window through its widths. "current"
keeps the layout, which together with --monitor moves the window to
another monitor unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor, err := tiling.ParseAnchor(args[0])
			if err != nil {
				return err
			}
			dir, err := tiling.ParseDirection(monitor)
			if err != nil {
				return err
			}
			if dir.IsDiagonal() {
				return fmt.Errorf("--monitor: %w: %s", neighbor.ErrInvalidDirection, dir)
			}

			s, err := a.connect(dryRun)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.tiler.Position(anchor, dir)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&monitor, "monitor", "current", "move to the neighboring monitor first (up, down, left, right)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without moving the window")
	return cmd
}

func newMonitorCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "monitor <dir>",
		Short: "Move the active window to the neighboring monitor, keeping its layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAction(cmd, tiling.Action{Kind: tiling.ActionMonitor, Target: args[0]}, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without moving the window")
	return cmd
}

func newFocusCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "focus <dir>",
		Short: "Focus the nearest window in a direction",
		Long: `Focus the nearest window in a direction. Directions are up, down,
left, right and the diagonals upleft, upright, downleft and downright.
Position names such as "topleft" are accepted too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAction(cmd, tiling.Action{Kind: tiling.ActionFocus, Target: args[0]}, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the selection without changing focus")
	return cmd
}

func (a *app) runAction(cmd *cobra.Command, action tiling.Action, dryRun bool) error {
	if err := action.Validate(); err != nil {
		return err
	}

	s, err := a.connect(dryRun)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.tiler.Run(action)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

// printResult reports dry runs on w. Real runs are silent.
func printResult(w io.Writer, res tiling.Result) {
	if !res.DryRun {
		return
	}
	if res.Plan.Target.Empty() {
		fmt.Fprintf(w, "focus %#x %q\n", uint32(res.Window.ID), res.Window.Title)
		return
	}
	fmt.Fprintf(w, "%s -> %s %s\n", res.Plan.Current, res.Plan.Next, res.Plan.Target)
}
