package x11

import (
	"errors"
	"reflect"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

type stateRequest struct {
	action        int
	first, second string
}

type fakeStates struct {
	current  []string
	err      error
	failReq  error
	requests []stateRequest
}

func (f *fakeStates) states(xproto.Window) ([]string, error) { return f.current, f.err }

func (f *fakeStates) request(_ xproto.Window, action int, first, second string) error {
	f.requests = append(f.requests, stateRequest{action, first, second})
	return f.failReq
}

func TestClearStates_MissingPropertyIsNoStates(t *testing.T) {
	sc := &fakeStates{err: errNoState}
	if err := clearStates(sc, 0x1a); err != nil {
		t.Fatalf("clearStates: %v", err)
	}
	if len(sc.requests) != 0 {
		t.Fatalf("unexpected requests %v", sc.requests)
	}
}

func TestClearStates_ReturnsReadErrors(t *testing.T) {
	sc := &fakeStates{err: errors.New("BadWindow")}
	if err := clearStates(sc, 0x1a); err == nil {
		t.Fatal("expected an error")
	}
}

func TestClearStates_RemovesBlockingStatesInPairs(t *testing.T) {
	sc := &fakeStates{current: []string{
		"_NET_WM_STATE_MAXIMIZED_VERT",
		"_NET_WM_STATE_STICKY",
		"_NET_WM_STATE_MAXIMIZED_HORZ",
		"_NET_WM_STATE_FULLSCREEN",
	}}
	if err := clearStates(sc, 0x1a); err != nil {
		t.Fatalf("clearStates: %v", err)
	}

	want := []stateRequest{
		{ewmh.StateRemove, "_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ"},
		{ewmh.StateRemove, "_NET_WM_STATE_FULLSCREEN", ""},
	}
	if !reflect.DeepEqual(sc.requests, want) {
		t.Fatalf("requests = %v, want %v", sc.requests, want)
	}
}

func TestClearStates_ReturnsRequestErrors(t *testing.T) {
	sc := &fakeStates{
		current: []string{"_NET_WM_STATE_SHADED"},
		failReq: errors.New("connection closed"),
	}
	if err := clearStates(sc, 0x1a); err == nil {
		t.Fatal("expected an error")
	}
}

func TestClearStates_NothingToClear(t *testing.T) {
	sc := &fakeStates{current: []string{"_NET_WM_STATE_ABOVE"}}
	if err := clearStates(sc, 0x1a); err != nil {
		t.Fatalf("clearStates: %v", err)
	}
	if len(sc.requests) != 0 {
		t.Fatalf("unexpected requests %v", sc.requests)
	}
}
