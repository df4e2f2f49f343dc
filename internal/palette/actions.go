package palette

import (
	"fmt"
	"strings"

	"github.com/1broseidon/gridmgr/internal/tiling"
)

type entry struct {
	label  string
	target string
	icon   string
}

var (
	positionEntries = []entry{
		{"Top left", "topleft", "go-top"},
		{"Top", "top", "go-up"},
		{"Top right", "topright", "go-top"},
		{"Left", "left", "go-previous"},
		{"Center", "center", "view-fullscreen"},
		{"Right", "right", "go-next"},
		{"Bottom left", "botleft", "go-bottom"},
		{"Bottom", "bottom", "go-down"},
		{"Bottom right", "botright", "go-bottom"},
	}
	monitorEntries = []entry{
		{"Monitor up", "up", "go-up"},
		{"Monitor left", "left", "go-previous"},
		{"Monitor right", "right", "go-next"},
		{"Monitor down", "down", "go-down"},
	}
	focusEntries = []entry{
		{"Focus up", "up", "go-up"},
		{"Focus left", "left", "go-previous"},
		{"Focus right", "right", "go-next"},
		{"Focus down", "down", "go-down"},
	}
)

// ActionItems lists every action the palette offers, grouped under headers.
func ActionItems() []Item {
	groups := []struct {
		header  string
		kind    tiling.ActionKind
		entries []entry
	}{
		{"Position", tiling.ActionPosition, positionEntries},
		{"Move to monitor", tiling.ActionMonitor, monitorEntries},
		{"Focus", tiling.ActionFocus, focusEntries},
	}

	var items []Item
	for _, g := range groups {
		items = append(items, Item{Label: g.header, IsHeader: true})
		for _, e := range g.entries {
			items = append(items, Item{
				Label:  e.label,
				Action: string(g.kind) + ":" + e.target,
				Icon:   e.icon,
			})
		}
	}
	return items
}

// ParseAction turns an item's Action back into a tiling action.
func ParseAction(s string) (tiling.Action, error) {
	kind, target, ok := strings.Cut(s, ":")
	if !ok {
		return tiling.Action{}, fmt.Errorf("palette: malformed action %q", s)
	}
	action := tiling.Action{Kind: tiling.ActionKind(kind), Target: target}
	if err := action.Validate(); err != nil {
		return tiling.Action{}, err
	}
	return action, nil
}

// Pick shows the action palette and returns the chosen action.
func Pick(l *Launcher) (tiling.Action, error) {
	item, err := l.Show("gridmgr", ActionItems())
	if err != nil {
		return tiling.Action{}, err
	}
	return ParseAction(item.Action)
}
