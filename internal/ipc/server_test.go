package ipc

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/1broseidon/gridmgr/internal/geom"
	"github.com/1broseidon/gridmgr/internal/grid"
	"github.com/1broseidon/gridmgr/internal/platform"
	"github.com/1broseidon/gridmgr/internal/tiling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu      sync.Mutex
	actions []tiling.Action
	result  tiling.Result
	err     error
}

func (f *fakeRunner) Run(a tiling.Action) (tiling.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, a)
	return f.result, f.err
}

func (f *fakeRunner) seen() []tiling.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tiling.Action(nil), f.actions...)
}

type fakeViewports struct {
	mu        sync.Mutex
	active    platform.Window
	activeErr error
	rects     []geom.Rect
	cur       int
	gotActive geom.Rect
}

func (f *fakeViewports) ActiveWindow() (platform.Window, error) { return f.active, f.activeErr }

func (f *fakeViewports) Viewports(active geom.Rect) ([]geom.Rect, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotActive = active
	return f.rects, f.cur, nil
}

func (f *fakeViewports) queried() geom.Rect {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gotActive
}

func startServer(t *testing.T, runner Runner, vp ViewportReader) (*Server, *Client) {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "gridmgr.sock")
	srv := NewServer(sock, runner, vp, 21, nil)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)
	return srv, NewClient(sock)
}

func TestServer_Status(t *testing.T) {
	runner := &fakeRunner{}
	_, client := startServer(t, runner, &fakeViewports{})

	status, err := client.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), status.PID)
	assert.Equal(t, 21, status.Bindings)
	assert.Zero(t, status.ActionsRun)
	assert.NoError(t, client.Ping())
}

func TestServer_Run(t *testing.T) {
	runner := &fakeRunner{result: tiling.Result{
		Window:  platform.Window{ID: 42, Title: "editor"},
		Changed: true,
		Plan: grid.Plan{
			Next:   grid.State{Anchor: grid.AnchorLeft, Density: grid.DensityTwoCol},
			Target: geom.Rect{X: 0, Y: 0, Width: 960, Height: 1080},
		},
	}}
	_, client := startServer(t, runner, &fakeViewports{})

	action := tiling.Action{Kind: tiling.ActionPosition, Target: "left"}
	data, err := client.Run(action)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), data.WindowID)
	assert.Equal(t, "editor", data.Title)
	assert.True(t, data.Changed)
	assert.NotEmpty(t, data.State)
	assert.NotEmpty(t, data.Target)
	assert.Equal(t, []tiling.Action{action}, runner.seen())

	status, err := client.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.ActionsRun)
	assert.Equal(t, "position left", status.LastAction)
	assert.Empty(t, status.LastError)
}

func TestServer_RunErrorIsReported(t *testing.T) {
	runner := &fakeRunner{err: errors.New("no active window")}
	_, client := startServer(t, runner, &fakeViewports{})

	_, err := client.Run(tiling.Action{Kind: tiling.ActionFocus, Target: "up"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active window")

	status, err := client.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "no active window", status.LastError)
}

func TestServer_RunRecordsDirectCalls(t *testing.T) {
	runner := &fakeRunner{}
	srv, client := startServer(t, runner, &fakeViewports{})

	_, err := srv.Run(tiling.Action{Kind: tiling.ActionMonitor, Target: "right"})
	require.NoError(t, err)

	status, err := client.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.ActionsRun)
	assert.Equal(t, "monitor right", status.LastAction)
}

func TestServer_Viewports(t *testing.T) {
	vp := &fakeViewports{
		active: platform.Window{Bounds: geom.Rect{X: 2000, Y: 0, Width: 800, Height: 600}},
		rects: []geom.Rect{
			{X: 0, Y: 0, Width: 1920, Height: 1050},
			{X: 1920, Y: 0, Width: 1920, Height: 1080},
		},
		cur: 1,
	}
	_, client := startServer(t, &fakeRunner{}, vp)

	data, err := client.GetViewports()
	require.NoError(t, err)
	require.Len(t, data.Viewports, 2)
	assert.False(t, data.Viewports[0].Active)
	assert.True(t, data.Viewports[1].Active)
	assert.Equal(t, vp.rects[1], data.Viewports[1].Rect())
	assert.Equal(t, vp.active.Bounds, vp.queried())
}

func TestServer_ViewportsWithoutActiveWindow(t *testing.T) {
	vp := &fakeViewports{
		activeErr: errors.New("no active window"),
		rects:     []geom.Rect{{X: 0, Y: 0, Width: 1920, Height: 1080}},
	}
	_, client := startServer(t, &fakeRunner{}, vp)

	data, err := client.GetViewports()
	require.NoError(t, err)
	require.Len(t, data.Viewports, 1)
	assert.Equal(t, geom.Rect{}, vp.queried())
}

func TestServer_UnknownCommand(t *testing.T) {
	_, client := startServer(t, &fakeRunner{}, &fakeViewports{})

	_, err := client.sendRequest(&Request{Command: "UNDO"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown command")
}

func TestClient_NoDaemon(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "missing.sock"))
	err := client.Ping()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is the daemon running?")
}

func TestServer_StopRemovesSocket(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "gridmgr.sock")
	srv := NewServer(sock, &fakeRunner{}, &fakeViewports{}, 0, nil)
	require.NoError(t, srv.Start())

	srv.Stop()
	_, err := os.Stat(sock)
	assert.True(t, os.IsNotExist(err))
}
