package modules

import (
	"fmt"
	"sync"

	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/platform"
)

// MuxClient is the narrow interface the mux module drives. The wire protocol
// and the multiplexer itself live outside this layer; the GUI process plugs
// its real client in, tests and headless runs use the loopback.
type MuxClient interface {
	ListWindows() ([]MuxWindow, error)
	SpawnTab(windowID int64, cwd string) (int64, error)
	SplitPane(paneID int64, direction string) (int64, error)
	ActivatePane(paneID int64) error
	RenameTab(tabID int64, title string) error
}

// MuxWindow describes one multiplexer window.
type MuxWindow struct {
	ID   int64    `json:"id"`
	Tabs []MuxTab `json:"tabs"`
}

// MuxTab describes one tab and its panes.
type MuxTab struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Panes  []int64 `json:"panes"`
	Active bool    `json:"active"`
}

// Mux exposes pane/tab/window operations to scripts.
type Mux struct {
	client MuxClient
}

// NewMux creates the mux module over the given client.
func NewMux(client MuxClient) *Mux {
	return &Mux{client: client}
}

func (m *Mux) Name() string             { return "mux" }
func (m *Mux) Platforms() platform.Mask { return platform.Any }

func (m *Mux) Register(b *capability.Binder) error {
	fns := map[string]capability.Func{
		"list_windows":  m.listWindows,
		"spawn_tab":     m.spawnTab,
		"split_pane":    m.splitPane,
		"activate_pane": m.activatePane,
		"rename_tab":    m.renameTab,
	}
	for name, fn := range fns {
		if err := b.Func(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mux) listWindows(args []interface{}) (interface{}, error) {
	windows, err := m.client.ListWindows()
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(windows))
	for i, w := range windows {
		tabs := make([]interface{}, len(w.Tabs))
		for j, tab := range w.Tabs {
			tabs[j] = map[string]interface{}{
				"id":     tab.ID,
				"title":  tab.Title,
				"panes":  tab.Panes,
				"active": tab.Active,
			}
		}
		out[i] = map[string]interface{}{"id": w.ID, "tabs": tabs}
	}
	return out, nil
}

func (m *Mux) spawnTab(args []interface{}) (interface{}, error) {
	windowID, err := argInt(args, 0, "window_id")
	if err != nil {
		return nil, err
	}
	cwd, err := optString(args, 1, "")
	if err != nil {
		return nil, err
	}
	return m.client.SpawnTab(windowID, cwd)
}

func (m *Mux) splitPane(args []interface{}) (interface{}, error) {
	paneID, err := argInt(args, 0, "pane_id")
	if err != nil {
		return nil, err
	}
	direction, err := optString(args, 1, "right")
	if err != nil {
		return nil, err
	}
	switch direction {
	case "left", "right", "up", "down":
	default:
		return nil, fmt.Errorf("invalid split direction %q", direction)
	}
	return m.client.SplitPane(paneID, direction)
}

func (m *Mux) activatePane(args []interface{}) (interface{}, error) {
	paneID, err := argInt(args, 0, "pane_id")
	if err != nil {
		return nil, err
	}
	return nil, m.client.ActivatePane(paneID)
}

func (m *Mux) renameTab(args []interface{}) (interface{}, error) {
	tabID, err := argInt(args, 0, "tab_id")
	if err != nil {
		return nil, err
	}
	title, err := argString(args, 1, "title")
	if err != nil {
		return nil, err
	}
	return nil, m.client.RenameTab(tabID, title)
}

// LoopbackMux is an in-memory MuxClient used when no multiplexer process is
// attached. State starts with one window holding one tab and one pane, which
// is what a fresh GUI process sees.
type LoopbackMux struct {
	mu      sync.Mutex
	windows []MuxWindow
	nextID  int64
}

// NewLoopbackMux creates a loopback client.
func NewLoopbackMux() *LoopbackMux {
	return &LoopbackMux{
		windows: []MuxWindow{{
			ID: 1,
			Tabs: []MuxTab{{
				ID: 2, Title: "default", Panes: []int64{3}, Active: true,
			}},
		}},
		nextID: 4,
	}
}

// ListWindows returns a snapshot of the in-memory layout.
func (l *LoopbackMux) ListWindows() ([]MuxWindow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]MuxWindow, len(l.windows))
	copy(out, l.windows)
	return out, nil
}

// SpawnTab appends a tab with one pane to the given window.
func (l *LoopbackMux) SpawnTab(windowID int64, cwd string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.windows {
		if l.windows[i].ID != windowID {
			continue
		}
		tabID := l.allocate()
		paneID := l.allocate()
		l.windows[i].Tabs = append(l.windows[i].Tabs, MuxTab{
			ID: tabID, Title: cwd, Panes: []int64{paneID},
		})
		return tabID, nil
	}
	return 0, fmt.Errorf("no window %d", windowID)
}

// SplitPane adds a sibling pane next to the given pane.
func (l *LoopbackMux) SplitPane(paneID int64, direction string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.windows {
		for j := range l.windows[i].Tabs {
			for _, p := range l.windows[i].Tabs[j].Panes {
				if p == paneID {
					id := l.allocate()
					l.windows[i].Tabs[j].Panes = append(l.windows[i].Tabs[j].Panes, id)
					return id, nil
				}
			}
		}
	}
	return 0, fmt.Errorf("no pane %d", paneID)
}

// ActivatePane marks the tab containing the pane active.
func (l *LoopbackMux) ActivatePane(paneID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.windows {
		for j := range l.windows[i].Tabs {
			for _, p := range l.windows[i].Tabs[j].Panes {
				if p == paneID {
					for k := range l.windows[i].Tabs {
						l.windows[i].Tabs[k].Active = k == j
					}
					return nil
				}
			}
		}
	}
	return fmt.Errorf("no pane %d", paneID)
}

// RenameTab sets a tab's title.
func (l *LoopbackMux) RenameTab(tabID int64, title string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.windows {
		for j := range l.windows[i].Tabs {
			if l.windows[i].Tabs[j].ID == tabID {
				l.windows[i].Tabs[j].Title = title
				return nil
			}
		}
	}
	return fmt.Errorf("no tab %d", tabID)
}

func (l *LoopbackMux) allocate() int64 {
	id := l.nextID
	l.nextID++
	return id
}
