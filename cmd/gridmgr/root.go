package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/gridmgr/internal/config"
	"github.com/1broseidon/gridmgr/internal/platform"
	"github.com/1broseidon/gridmgr/internal/tiling"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app holds what every subcommand shares once flags are parsed.
type app struct {
	configPath string
	logPath    string
	verbose    bool

	stderr io.Writer
	cfg    *config.Config
	logger *log.Logger
	logOut *os.File
}

// newRootCmd builds the command tree. The caller must call finish on the
// returned app once the command has run, whether it failed or not.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{stderr: os.Stderr}

	root := &cobra.Command{
		Use:           "gridmgr",
		Short:         "Snap windows to a grid, move them between monitors and move focus",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.logPath, "log", "", "append log output to `file`")
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.config/gridmgr/config.yaml)")

	root.AddCommand(
		newPositionCmd(a),
		newMonitorCmd(a),
		newFocusCmd(a),
		newDaemonCmd(a),
		newStatusCmd(a),
		newSendCmd(a),
		newPaletteCmd(a),
		newConfigCmd(a),
	)
	return root, a
}

func (a *app) setup() error {
	path := a.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return err
	}
	a.cfg = res.Config

	level := a.cfg.Level()
	if a.verbose {
		level = log.DebugLevel
	}

	w := a.stderr
	logPath := a.logPath
	if logPath == "" {
		logPath = a.cfg.LogFile
	}
	if logPath != "" {
		f, err := openLogFile(logPath, os.Args, time.Now())
		if err != nil {
			return err
		}
		a.logOut = f
		w = f
	}
	a.logger = newLogger(w, level)
	if res.File != "" {
		a.logger.Debug("config loaded", "file", res.File)
	}
	return nil
}

// finish records a failed run in the log file and closes it.
func (a *app) finish(err error) {
	if a.logOut == nil {
		return
	}
	if err != nil {
		a.logger.Error("command failed", "err", err)
	}
	a.logOut.Close()
	a.logOut = nil
}

// session is a live display connection with a tiler on top of it.
type session struct {
	backend *platform.LinuxBackend
	tiler   *tiling.Tiler
	once    sync.Once
}

func (a *app) connect(dryRun bool) (*session, error) {
	source, err := platform.ParseViewportSource(string(a.cfg.ViewportSource))
	if err != nil {
		return nil, err
	}
	backend, err := platform.NewLinuxBackendFromDisplay(source, a.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to display: %w", err)
	}
	tiler := tiling.NewTiler(backend, a.logger, tiling.Options{
		MaximizeFull: a.cfg.MaximizeFull,
		DryRun:       dryRun,
	})
	return &session{backend: backend, tiler: tiler}, nil
}

// Close disconnects once, however many times it is called.
func (s *session) Close() {
	s.once.Do(s.backend.Disconnect)
}
