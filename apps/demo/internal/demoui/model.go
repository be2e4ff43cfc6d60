// Package demoui is the demo application's single-screen terminal UI.
package demoui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/slush-dev/minisdk"
)

// The button tracks ButtonEvent with {"screen": ScreenName} on every press.
const (
	ButtonEvent = "button_clicked"
	ScreenName  = "Main"
)

const (
	refreshEvery = 250 * time.Millisecond
	maxLogLines  = 12
)

// Tracker is the SDK surface the screen uses.
type Tracker interface {
	TrackEvent(name string, payload map[string]any) *minisdk.Op
}

// Poster receives lifecycle transitions derived from terminal focus.
type Poster interface {
	Post(minisdk.LifecycleEvent)
}

// MessageSource provides the SDK log lines to display.
type MessageSource interface {
	Messages() []string
}

type model struct {
	tracker   Tracker
	lifecycle Poster
	messages  MessageSource

	width   int
	height  int
	presses int
	lines   []string
}

type refreshMsg struct{}

type trackedMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("33")).
			Width(20).
			Align(lipgloss.Center).
			Padding(1, 0)

	logStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newModel(tracker Tracker, lifecycle Poster, messages MessageSource) model {
	return model{
		tracker:   tracker,
		lifecycle: lifecycle,
		messages:  messages,
	}
}

func (m model) Init() tea.Cmd {
	return refresh()
}

func refresh() tea.Cmd {
	return tea.Tick(refreshEvery, func(time.Time) tea.Msg { return refreshMsg{} })
}

// waitTracked resolves once op has been delivered so the log pane updates
// right after a press.
func waitTracked(op *minisdk.Op) tea.Cmd {
	return func() tea.Msg {
		<-op.Done()
		return trackedMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter", " ":
			m.presses++
			op := m.tracker.TrackEvent(ButtonEvent, map[string]any{"screen": ScreenName})
			return m, waitTracked(op)
		}

	case tea.FocusMsg:
		m.lifecycle.Post(minisdk.Foregrounded)
		return m, nil

	case tea.BlurMsg:
		m.lifecycle.Post(minisdk.Backgrounded)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		m.lines = m.messages.Messages()
		return m, refresh()

	case trackedMsg:
		m.lines = m.messages.Messages()
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	title := titleStyle.Render(" MiniSDK Demo ")
	button := buttonStyle.Render("Test Button")
	help := helpStyle.Render("enter/space: press button | focus/blur: lifecycle | q: quit")

	lines := m.lines
	if len(lines) > maxLogLines {
		lines = lines[len(lines)-maxLogLines:]
	}
	body := "no events yet"
	if len(lines) > 0 {
		body = strings.Join(lines, "\n")
	}
	logWidth := m.width - 4
	if logWidth < 40 {
		logWidth = 40
	}
	logPane := logStyle.Width(logWidth).Render(body)

	screen := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		button,
		helpStyle.Render(fmt.Sprintf("pressed %d time(s)", m.presses)),
	)
	if m.width > 0 {
		screen = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, screen)
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s", screen, logPane, help)
}

// Run shows the screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, tracker Tracker, lifecycle Poster, messages MessageSource) error {
	p := tea.NewProgram(
		newModel(tracker, lifecycle, messages),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
