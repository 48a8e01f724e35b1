// Package tui provides the Bubble Tea screens: the consent-first recorder
// and the keystroke log viewer.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astny1/PRODIGY-CS-04/internal/capture"
	"github.com/astny1/PRODIGY-CS-04/internal/key"
	"github.com/astny1/PRODIGY-CS-04/internal/session"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// tickMsg drives the periodic refresh while a session is recording,
// so global-mode token counts and forced stops show up without input.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// RecorderOptions wires the recorder screen to the capture engine.
type RecorderOptions struct {
	Controller *session.Controller
	Focus      *capture.FocusScoped
	Global     *capture.GlobalHook
	Mode       session.Mode
	LogPath    string
}

// recorderModel is the Bubble Tea model for the recording screen. Its event
// loop doubles as the focus-scoped event source: while a session is active
// in in-app mode, key messages are fed to the FocusScoped backend.
type recorderModel struct {
	ctrl    *session.Controller
	focus   *capture.FocusScoped
	global  *capture.GlobalHook
	logPath string

	consent      bool
	mode         session.Mode
	failNotified bool
	hookNotified bool
	status       []string
	width        int
	height       int
	ready        bool
}

func newRecorder(opts RecorderOptions) recorderModel {
	m := recorderModel{
		ctrl:    opts.Controller,
		focus:   opts.Focus,
		global:  opts.Global,
		mode:    opts.Mode,
		logPath: opts.LogPath,
	}
	m.pushStatus("Consent is required before logging can start.")
	m.pushStatus("In-app mode records only while this window is focused.")
	return m
}

func (m *recorderModel) pushStatus(line string) {
	m.status = append(m.status, time.Now().Format("15:04:05")+"  "+line)
	if len(m.status) > 200 {
		m.status = m.status[len(m.status)-200:]
	}
}

func (m recorderModel) Init() tea.Cmd { return tick() }

func (m recorderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		// Surface a forced stop (log write failure) promptly.
		if !m.failNotified && m.ctrl.State() == session.Stopped {
			if err := m.ctrl.Err(); err != nil {
				m.pushStatus(errStyle.Render("Session force-stopped: " + err.Error()))
				m.failNotified = true
			}
		}
		// A dead global listener leaves the session formally active but
		// capturing nothing; tell the user instead of staying silent.
		if !m.hookNotified && m.global != nil {
			if err := m.global.Err(); err != nil {
				m.pushStatus(errStyle.Render("Global listener failed: " + err.Error()))
				m.pushStatus("Keys are no longer being captured; press ctrl+s to stop.")
				m.hookNotified = true
			}
		}
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil
	}
	return m, nil
}

func (m recorderModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	recording := m.ctrl.State() == session.Active

	// Control keys are reserved in every state and never recorded.
	switch msg.String() {
	case "ctrl+c":
		if recording {
			m.stopSession()
		}
		return m, tea.Quit
	case "ctrl+s":
		if recording {
			m.stopSession()
			return m, nil
		}
	}

	if recording {
		if m.mode == session.ModeInApp {
			// The terminal delivers keys only while this window has focus;
			// this loop is the focus-scoped notification source.
			for _, ev := range focusEvents(msg) {
				m.focus.Feed(ev)
			}
		}
		return m, nil
	}

	// Idle controls.
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "c":
		m.consent = !m.consent
		if m.consent {
			m.pushStatus("Consent granted. Press s or enter to start.")
		} else {
			m.pushStatus("Consent withdrawn.")
		}
	case "g":
		if m.mode == session.ModeGlobal {
			m.mode = session.ModeInApp
		} else {
			m.mode = session.ModeGlobal
		}
		m.pushStatus("Capture mode set to " + m.mode.String() + ".")
	case "s", "enter":
		m.startSession()
	}
	return m, nil
}

func (m *recorderModel) startSession() {
	if err := m.ctrl.RequestStart(m.consent, m.mode); err != nil {
		m.pushStatus(errStyle.Render(err.Error()))
		return
	}
	m.failNotified = false
	m.hookNotified = false
	switch m.mode {
	case session.ModeGlobal:
		m.pushStatus("Global logging started. Keys from other applications will be recorded.")
	default:
		m.pushStatus("Logging started. Keep this window focused and type. ctrl+s stops.")
	}
}

func (m *recorderModel) stopSession() {
	if err := m.ctrl.RequestStop(); err != nil {
		m.pushStatus(errStyle.Render("Stop reported: " + err.Error()))
	}
	m.pushStatus(fmt.Sprintf("Logging stopped. %d keys recorded to %s.", m.ctrl.TokenCount(), m.logPath))
}

func (m recorderModel) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  keylog — consent-first key input logger")

	var sb strings.Builder
	sb.WriteString("\n")

	check := "[ ]"
	if m.consent {
		check = checkedStyle.Render("[x]")
	}
	sb.WriteString("  " + check + " I understand this records the keys I type and consent to logging.\n\n")

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-10s", label)) + "  " + value + "\n")
	}
	st := m.ctrl.State()
	stateText := idleStyle.Render(st.String())
	if st == session.Active {
		stateText = activeStyle.Render(st.String())
	}
	row("State:", stateText)
	row("Mode:", m.mode.String())
	row("Log file:", m.logPath)
	row("Keys:", fmt.Sprintf("%d", m.ctrl.TokenCount()))
	sb.WriteString("\n")

	// Status pane fills the remaining rows.
	paneHeight := m.height - lipgloss.Height(title) - lipgloss.Height(sb.String()) - 1
	if paneHeight < 1 {
		paneHeight = 1
	}
	lines := m.status
	if len(lines) > paneHeight {
		lines = lines[len(lines)-paneHeight:]
	}
	for _, l := range lines {
		sb.WriteString(dimStyle.Render("  "+l) + "\n")
	}
	for i := len(lines); i < paneHeight; i++ {
		sb.WriteString("\n")
	}

	hint := "  c consent  g mode  s start  q quit"
	if st == session.Active {
		hint = "  recording — ctrl+s stop  ctrl+c stop & quit"
	}
	statusBar := statusBarStyle.Width(m.width).Render(hintStyle.Render(hint))

	return lipgloss.JoinVertical(lipgloss.Left, title, sb.String(), statusBar)
}

// focusEvents translates one Bubble Tea key message into raw key events.
// A paste can carry several runes; each becomes its own event.
func focusEvents(msg tea.KeyMsg) []key.Event {
	now := time.Now()
	if msg.Type == tea.KeyRunes {
		evs := make([]key.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			evs = append(evs, key.Event{Identifier: string(r), Time: now})
		}
		return evs
	}
	return []key.Event{{Identifier: msg.String(), Time: now}}
}

// RunRecorder starts the recording screen and blocks until it exits. The
// controller is stopped on every exit path so the log always gets its end
// delimiter.
func RunRecorder(opts RecorderOptions) error {
	p := tea.NewProgram(newRecorder(opts), tea.WithAltScreen())
	_, err := p.Run()
	if stopErr := opts.Controller.RequestStop(); stopErr != nil && err == nil {
		err = stopErr
	}
	return err
}
