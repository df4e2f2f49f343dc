// Package palette shows gridmgr actions in an external dmenu-style launcher
// (rofi, fuzzel, wofi or dmenu) and returns the one picked.
package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Item is a single row. Headers are shown but cannot be picked.
type Item struct {
	Label    string
	Action   string
	Icon     string
	IsHeader bool
}

// Launcher is a dmenu-compatible program.
type Launcher struct {
	command string
	// indexed launchers print the selected row number instead of its text.
	indexed bool
	markup  bool

	// exec runs the launcher. Tests replace it.
	exec func(name string, args []string, stdin string) (stdout string, err error)
}

// launchers in detection order.
var launchers = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// NewLauncher returns the named launcher, or the first one found in PATH
// for "" and "auto".
func NewLauncher(name string) (*Launcher, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		for _, candidate := range launchers {
			if _, err := exec.LookPath(candidate); err == nil {
				return newLauncher(candidate), nil
			}
		}
		return nil, fmt.Errorf("no palette launcher found in PATH (looked for: %s)", strings.Join(launchers, ", "))
	}

	for _, candidate := range launchers {
		if candidate != name {
			continue
		}
		if _, err := exec.LookPath(name); err != nil {
			return nil, fmt.Errorf("palette launcher %q not found in PATH", name)
		}
		return newLauncher(name), nil
	}
	return nil, fmt.Errorf("unknown palette launcher: %q (expected: auto, %s)", name, strings.Join(launchers, ", "))
}

func newLauncher(name string) *Launcher {
	return &Launcher{
		command: name,
		indexed: name == "rofi" || name == "fuzzel",
		markup:  name == "rofi",
		exec:    runCommand,
	}
}

// Name returns the launcher's program name.
func (l *Launcher) Name() string { return l.command }

// Show displays items and returns the picked one.
func (l *Launcher) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}

	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = l.formatItem(item)
	}

	out, err := l.exec(l.command, l.args(prompt), strings.Join(lines, "\n"))
	selection := strings.TrimSpace(out)
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		return Item{}, err
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}

	item, err := l.parseSelection(selection, items)
	if err != nil {
		return Item{}, err
	}
	if item.IsHeader {
		return Item{}, ErrCancelled
	}
	return item, nil
}

func (l *Launcher) args(prompt string) []string {
	switch l.command {
	case "rofi":
		// -format i prints the row index, which survives markup and duplicate labels.
		return []string{"-dmenu", "-i", "-p", prompt, "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
	case "fuzzel":
		return []string{"--dmenu", "--prompt", prompt + " ", "--index"}
	case "wofi":
		return []string{"--dmenu", "--prompt", prompt}
	default:
		return []string{"-i", "-p", prompt}
	}
}

func (l *Launcher) formatItem(item Item) string {
	label := sanitize(item.Label)
	if !l.markup {
		return label
	}

	label = html.EscapeString(label)
	var attrs []string
	if item.IsHeader {
		label = "<b>" + label + "</b>"
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Icon != "" {
		attrs = append(attrs, "icon", sanitize(item.Icon))
	}
	if len(attrs) == 0 {
		return label
	}
	// Rofi row properties: one NUL, then \x1f-separated key/value pairs.
	return label + "\x00" + strings.Join(attrs, "\x1f")
}

func (l *Launcher) parseSelection(selection string, items []Item) (Item, error) {
	if l.indexed {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for _, item := range items {
		if sanitize(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitize(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\x00", " ", "\x1f", " ", "\r", " ", "\n", " ").Replace(s))
}

func runCommand(name string, args []string, stdin string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil && !isCancelExit(err) {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return string(out), fmt.Errorf("%s failed: %s: %w", name, msg, err)
		}
		return string(out), fmt.Errorf("%s failed: %w", name, err)
	}
	return string(out), err
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// 1 is "no selection", 130 is Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
