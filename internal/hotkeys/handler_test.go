package hotkeys

import (
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/1broseidon/gridmgr/internal/geom"
	"github.com/1broseidon/gridmgr/internal/platform"
	"github.com/1broseidon/gridmgr/internal/tiling"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/charmbracelet/log"
)

func TestLockMaskCombinations(t *testing.T) {
	caps := uint16(xproto.ModMaskLock)
	num := uint16(xproto.ModMask2)

	got := lockMaskCombinations([]uint16{caps, num})
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	want := []uint16{0, caps, num, caps | num}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

	if len(got) != len(want) {
		t.Fatalf("lockMaskCombinations = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lockMaskCombinations = %v, want %v", got, want)
		}
	}
}

func TestLockMaskCombinations_CapsOnly(t *testing.T) {
	got := lockMaskCombinations([]uint16{uint16(xproto.ModMaskLock)})
	if len(got) != 2 || got[0] != 0 || got[1] != uint16(xproto.ModMaskLock) {
		t.Fatalf("lockMaskCombinations = %v", got)
	}
}

type headlessBackend struct{}

func (headlessBackend) ActiveWindow() (platform.Window, error) { return platform.Window{}, nil }
func (headlessBackend) Viewports(geom.Rect) ([]geom.Rect, int, error) {
	return nil, 0, nil
}
func (headlessBackend) CandidateWindows() ([]platform.Window, int, error) { return nil, -1, nil }
func (headlessBackend) MoveResize(platform.WindowID, geom.Rect) error     { return nil }
func (headlessBackend) Maximize(platform.WindowID) error                  { return nil }
func (headlessBackend) Activate(platform.WindowID) error                  { return nil }

type recordingRunner struct {
	actions []tiling.Action
	err     error
}

func (r *recordingRunner) Run(a tiling.Action) (tiling.Result, error) {
	r.actions = append(r.actions, a)
	return tiling.Result{}, r.err
}

func TestNewHandler_RequiresX11Backend(t *testing.T) {
	if _, err := NewHandler(headlessBackend{}, &recordingRunner{}, nil); err == nil {
		t.Fatal("expected an error for a backend without an X connection")
	}
}

func TestDispatch_RunsActionAndSurvivesErrors(t *testing.T) {
	runner := &recordingRunner{err: errors.New("no active window")}
	h := &Handler{runner: runner, logger: log.NewWithOptions(io.Discard, log.Options{})}

	action := tiling.Action{Kind: tiling.ActionPosition, Target: "left"}
	h.dispatch("Mod4-KP_4", action)
	runner.err = nil
	h.dispatch("Mod4-KP_4", action)

	if len(runner.actions) != 2 || runner.actions[0] != action {
		t.Fatalf("runner saw %v, want two %v", runner.actions, action)
	}
}
