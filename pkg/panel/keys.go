package panel

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gwillem/armpanel/pkg/robot"
)

const (
	fineStep   = 1
	coarseStep = 10
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	CoarseLeft  key.Binding
	CoarseRight key.Binding
	Circle      key.Binding
	Square      key.Binding
	Triangle    key.Binding
	Reset       key.Binding
	Continue    key.Binding
	Cancel      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev servo")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next servo")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "-1°")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "+1°")),
		CoarseLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("⇧←", "-10°")),
		CoarseRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("⇧→", "+10°")),
		Circle:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "pick circle")),
		Square:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "pick square")),
		Triangle:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "pick triangle")),
		Reset:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Continue:    key.NewBinding(key.WithKeys("enter", "y"), key.WithHelp("enter/y", "continue")),
		Cancel:      key.NewBinding(key.WithKeys("esc", "n"), key.WithHelp("esc/n", "cancel")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Circle, k.Square, k.Triangle, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.CoarseLeft, k.CoarseRight},
		{k.Circle, k.Square, k.Triangle},
		{k.Reset, k.Continue, k.Cancel},
		{k.Help, k.Quit},
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.Close()
		return tea.Quit
	}

	// The dialog captures input until it is answered.
	if m.confirming {
		switch {
		case key.Matches(msg, m.keys.Continue):
			return m.ConfirmReset()
		case key.Matches(msg, m.keys.Cancel):
			m.CancelReset()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.positions)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Left):
		return m.nudge(-fineStep)
	case key.Matches(msg, m.keys.Right):
		return m.nudge(fineStep)
	case key.Matches(msg, m.keys.CoarseLeft):
		return m.nudge(-coarseStep)
	case key.Matches(msg, m.keys.CoarseRight):
		return m.nudge(coarseStep)
	case key.Matches(msg, m.keys.Circle):
		return m.Pick(robot.Circle)
	case key.Matches(msg, m.keys.Square):
		return m.Pick(robot.Square)
	case key.Matches(msg, m.keys.Triangle):
		return m.Pick(robot.Triangle)
	case key.Matches(msg, m.keys.Reset):
		m.RequestReset()
	}
	return nil
}

// nudge moves the selected slider by delta degrees. Nothing is sent when
// the slider is already at its limit.
func (m *Model) nudge(delta int) tea.Cmd {
	current := m.positions[m.selected]
	next := m.limits.Step(current, delta)
	if next == current {
		return nil
	}
	return m.SetServo(m.selected, next)
}
