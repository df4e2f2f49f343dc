package main

import (
	"fmt"

	"github.com/1broseidon/gridmgr/internal/hotkeys"
	"github.com/1broseidon/gridmgr/internal/ipc"
	"github.com/1broseidon/gridmgr/internal/runtimepath"
	"github.com/spf13/cobra"
)

func newDaemonCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Grab the configured key bindings and run in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDaemon(cmd)
		},
	}
}

func (a *app) runDaemon(cmd *cobra.Command) error {
	lockPath, err := runtimepath.LockPath()
	if err != nil {
		return err
	}
	lock, err := runtimepath.AcquireLock(lockPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	s, err := a.connect(false)
	if err != nil {
		return err
	}
	defer s.Close()

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return err
	}
	server := ipc.NewServer(socketPath, s.tiler, s.backend, len(a.cfg.Bindings), a.logger)

	handler, err := hotkeys.NewHandler(s.backend, server, a.logger)
	if err != nil {
		return err
	}
	if err := handler.RegisterBindings(a.cfg.Bindings); err != nil {
		return fmt.Errorf("register bindings: %w", err)
	}

	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()
	a.logger.Info("daemon started", "bindings", len(a.cfg.Bindings), "viewport_source", a.cfg.ViewportSource)

	ctx := cmd.Context()
	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			a.logger.Info("shutting down")
			s.backend.Quit()
			// Closing the connection wakes the loop if no event is pending.
			s.Close()
		case <-stopped:
		}
	}()

	s.backend.EventLoop()
	close(stopped)
	return nil
}
