// Package hotkeys binds global key chords to tiling actions for the daemon.
package hotkeys

import (
	"fmt"
	"io"
	"sync"

	"github.com/1broseidon/gridmgr/internal/config"
	"github.com/1broseidon/gridmgr/internal/platform"
	"github.com/1broseidon/gridmgr/internal/tiling"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/charmbracelet/log"
)

// Runner carries out a tiling action.
type Runner interface {
	Run(tiling.Action) (tiling.Result, error)
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	runner Runner
	logger *log.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler on the backend's X connection.
func NewHandler(backend platform.Backend, runner Runner, logger *log.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("hotkeys need an X11 backend")
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	xu := accessor.XUtil()
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   accessor.RootWindow(),
		runner: runner,
		logger: logger,
	}, nil
}

// RegisterBindings grabs every binding. It stops at the first chord that
// cannot be grabbed, which usually means another client already owns it.
func (h *Handler) RegisterBindings(bindings []config.Binding) error {
	for i, b := range bindings {
		b := b // per-iteration copy for the closure below (go < 1.22 loop semantics)
		action := b.TilingAction()
		if err := action.Validate(); err != nil {
			return fmt.Errorf("binding %d (%s): %w", i, b.Keys, err)
		}
		if err := h.RegisterFunc(b.Keys, func() { h.dispatch(b.Keys, action) }); err != nil {
			return fmt.Errorf("grab %s: %w", b.Keys, err)
		}
		h.logger.Debug("bound", "keys", b.Keys, "action", action)
	}
	return nil
}

func (h *Handler) dispatch(keys string, action tiling.Action) {
	res, err := h.runner.Run(action)
	if err != nil {
		h.logger.Error("action failed", "keys", keys, "action", action, "err", err)
		return
	}
	h.logger.Info("action", "keys", keys, "action", action, "window", res.Window.Title, "changed", res.Changed)
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// configureIgnoreMods makes every binding fire regardless of the lock keys.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	xevent.IgnoreMods = lockMaskCombinations(base)
}

// lockMaskCombinations returns 0 plus the OR of every non-empty subset of
// masks, without duplicates.
func lockMaskCombinations(masks []uint16) []uint16 {
	seen := map[uint16]struct{}{0: {}}
	out := []uint16{0}
	for subset := 1; subset < (1 << len(masks)); subset++ {
		var mask uint16
		for bit := range masks {
			if subset&(1<<bit) != 0 {
				mask |= masks[bit]
			}
		}
		if _, ok := seen[mask]; ok {
			continue
		}
		seen[mask] = struct{}{}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
