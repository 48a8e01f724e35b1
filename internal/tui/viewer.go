package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/astny1/PRODIGY-CS-04/internal/logfile"
)

var (
	markerStartStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	markerEndStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Bold(true)
	specialTokStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// logChangedMsg is sent when fsnotify reports the log file grew.
type logChangedMsg struct{}

// watcherClosedMsg is sent when the watcher channel is closed.
type watcherClosedMsg struct{}

// viewerModel displays the keystroke log in a scrollable viewport, with
// optional live follow of the file.
type viewerModel struct {
	path    string
	follow  bool
	watcher *fsnotify.Watcher

	vp     viewport.Model
	width  int
	height int
	ready  bool
	lines  int
}

func newViewer(path string, follow bool, watcher *fsnotify.Watcher) viewerModel {
	return viewerModel{path: path, follow: follow, watcher: watcher}
}

// waitForWrite blocks on the watcher until the log file is appended to.
func waitForWrite(w *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		for ev := range w.Events {
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				return logChangedMsg{}
			}
		}
		return watcherClosedMsg{}
	}
}

func (m viewerModel) Init() tea.Cmd {
	if m.follow && m.watcher != nil {
		return waitForWrite(m.watcher)
	}
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "g":
			m.vp.GotoTop()
			return m, nil
		case "G":
			m.vp.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd

	case logChangedMsg:
		m.reload()
		m.vp.GotoBottom()
		return m, waitForWrite(m.watcher)

	case watcherClosedMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vp := viewport.New(m.width, m.height-2)
		m.vp = vp
		m.ready = true
		m.reload()
		m.vp.GotoBottom()
		return m, nil
	}
	return m, nil
}

// reload re-reads the log and re-renders the viewport content.
func (m *viewerModel) reload() {
	lines, err := logfile.ReadLines(m.path)
	if err != nil {
		m.vp.SetContent(errStyle.Render("  cannot read log: " + err.Error()))
		return
	}
	m.lines = len(lines)
	if len(lines) == 0 {
		m.vp.SetContent(dimStyle.Render("  (log is empty)"))
		return
	}

	var sb strings.Builder
	for _, line := range lines {
		switch {
		case logfile.IsStartMarker(line):
			sb.WriteString(markerStartStyle.Render("  "+line) + "\n")
		case logfile.IsEndMarker(line):
			sb.WriteString(markerEndStyle.Render("  "+line) + "\n")
		case strings.HasPrefix(line, "["):
			sb.WriteString(specialTokStyle.Render("  "+line) + "\n")
		default:
			sb.WriteString("  " + line + "\n")
		}
	}
	m.vp.SetContent(sb.String())
}

func (m viewerModel) View() string {
	if !m.ready {
		return "Loading…"
	}

	mode := ""
	if m.follow {
		mode = "  (following)"
	}
	title := titleStyle.Width(m.width).Render(fmt.Sprintf("  keylog  %s — %d lines%s", filepath.Base(m.path), m.lines, mode))

	hint := "  ↑/↓ scroll  g/G top/bottom  q quit"
	pct := fmt.Sprintf("%3.0f%%", m.vp.ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, m.vp.View(), statusBar)
}

// RunViewer starts the log viewer. With follow set, an fsnotify watcher on
// the log's directory live-reloads the view as the recorder appends.
func RunViewer(path string, follow bool) error {
	var watcher *fsnotify.Watcher
	if follow {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("starting log watcher: %w", err)
		}
		defer w.Close()
		// Watch the directory: the file may not exist yet, and writers that
		// recreate it keep working.
		if err := w.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("watching log directory: %w", err)
		}
		watcher = w
	}

	p := tea.NewProgram(newViewer(path, follow, watcher), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
