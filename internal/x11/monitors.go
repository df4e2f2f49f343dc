package x11

import (
	"errors"
	"fmt"

	"github.com/1broseidon/gridmgr/internal/geom"
	"github.com/1broseidon/gridmgr/internal/viewport"
	"github.com/BurntSushi/xgb/randr"
	xinext "github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xinerama"
	"github.com/BurntSushi/xgbutil/xrect"
)

// ErrXineramaInactive is returned by Screens when the server has the
// extension but is not using it.
var ErrXineramaInactive = errors.New("xinerama is not active")

// Screens returns the physical heads reported by Xinerama, ordered left to
// right then top to bottom.
func (c *Connection) Screens() ([]geom.Rect, error) {
	conn := c.XUtil.Conn()
	if err := xinext.Init(conn); err != nil {
		return nil, fmt.Errorf("xinerama init: %w", err)
	}
	active, err := xinext.IsActive(conn).Reply()
	if err != nil {
		return nil, fmt.Errorf("xinerama is-active: %w", err)
	}
	if active.State == 0 {
		return nil, ErrXineramaInactive
	}

	heads, err := xinerama.PhysicalHeads(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("query xinerama screens: %w", err)
	}
	return rects(heads), nil
}

// RandrScreens returns the geometry of every enabled CRTC.
func (c *Connection) RandrScreens() ([]geom.Rect, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init: %w", err)
	}

	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("get screen resources: %w", err)
	}

	var screens []geom.Rect
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		screens = append(screens, geom.Rect{
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return screens, nil
}

// Workarea returns _NET_WORKAREA for the current desktop, or for desktop 0
// when the current one is unknown or out of range.
func (c *Connection) Workarea() (geom.Rect, error) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil {
		return geom.Rect{}, fmt.Errorf("get workarea: %w", err)
	}
	if len(areas) == 0 {
		return geom.Rect{}, fmt.Errorf("workarea is empty")
	}

	i := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(areas) {
		i = int(cur)
	}
	wa := areas[i]
	return geom.Rect{
		X:      int(wa.X),
		Y:      int(wa.Y),
		Width:  int(wa.Width),
		Height: int(wa.Height),
	}, nil
}

// Struts collects the reserved edges of every managed client. Clients that
// only set the legacy _NET_WM_STRUT are treated as reserving the full edge.
func (c *Connection) Struts() ([]viewport.Strut, error) {
	clients, err := c.ClientList()
	if err != nil {
		return nil, err
	}

	root, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return nil, fmt.Errorf("get root geometry: %w", err)
	}

	var struts []viewport.Strut
	for _, win := range clients {
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			struts = append(struts, viewport.StrutsFromPartial(viewport.Partial{
				Left:         int(sp.Left),
				Right:        int(sp.Right),
				Top:          int(sp.Top),
				Bottom:       int(sp.Bottom),
				LeftStartY:   int(sp.LeftStartY),
				LeftEndY:     int(sp.LeftEndY),
				RightStartY:  int(sp.RightStartY),
				RightEndY:    int(sp.RightEndY),
				TopStartX:    int(sp.TopStartX),
				TopEndX:      int(sp.TopEndX),
				BottomStartX: int(sp.BottomStartX),
				BottomEndX:   int(sp.BottomEndX),
			})...)
			continue
		}

		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			p := viewport.PartialFromStrut(int(s.Left), int(s.Right), int(s.Top), int(s.Bottom),
				int(root.Width), int(root.Height))
			struts = append(struts, viewport.StrutsFromPartial(p)...)
		}
	}
	return struts, nil
}

func rects(heads []xrect.Rect) []geom.Rect {
	out := make([]geom.Rect, len(heads))
	for i, h := range heads {
		out[i] = geom.Rect{X: h.X(), Y: h.Y(), Width: h.Width(), Height: h.Height()}
	}
	return out
}
