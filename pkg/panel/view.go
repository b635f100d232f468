package panel

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwillem/armpanel/pkg/robot"
)

const (
	sliderWidth  = 36
	chartHeight  = 8
	borderSize   = 2
	minChartSize = 40
)

// Servo colors, one per slider, repeating for larger rigs.
var servoColors = []string{
	"196", // red
	"208", // orange
	"226", // yellow
	"46",  // green
	"51",  // cyan
	"201", // magenta
}

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	nominalStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	transitionalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	buttonStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	activeButtonStyle = buttonStyle.BorderForeground(lipgloss.Color("33")).Background(lipgloss.Color("25")).Foreground(lipgloss.Color("153"))
	dialogStyle       = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("9")).Padding(1, 2)
)

func statusStyle(status string) lipgloss.Style {
	switch Classify(status) {
	case ClassNominal:
		return nominalStyle
	case ClassError:
		return errorStyle
	default:
		return transitionalStyle
	}
}

func servoName(index int) string {
	return fmt.Sprintf("servo%d", index+1)
}

func newHistoryChart(servos int) *streamlinechart.Model {
	chart := streamlinechart.New(80, chartHeight,
		streamlinechart.WithYRange(robot.MinAngle, robot.MaxAngle),
	)
	for i := 0; i < servos; i++ {
		color := servoColors[i%len(servoColors)]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(servoName(i), runes.ThinLineStyle, style)
	}
	return &chart
}

// recordPositions appends the slider values to the history chart.
func (m *Model) recordPositions() {
	for i, pos := range m.positions {
		m.chart.PushDataSet(servoName(i), float64(pos))
	}
	m.chart.DrawAll()
}

func (m *Model) resizeChart() {
	w := m.width - borderSize - 2
	if w < minChartSize {
		w = minChartSize
	}
	m.chart.Resize(w, chartHeight)
}

func (m *Model) View() string {
	if m.quitting {
		return "Control panel closed.\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n\n")

	sb.WriteString(m.renderStatus())
	sb.WriteString("\n")
	sb.WriteString(m.renderServos())
	sb.WriteString("\n")
	sb.WriteString(m.renderPackages())
	sb.WriteString("\n")

	sb.WriteString(sectionStyle.Render("Servo History"))
	sb.WriteString("\n")
	sb.WriteString(boxStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	if m.confirming {
		sb.WriteString(m.renderDialog())
		sb.WriteString("\n")
	}

	sb.WriteString(m.help.View(m.keys))
	sb.WriteString("\n")

	return sb.String()
}

func (m *Model) renderStatus() string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("System Status"))
	sb.WriteString("\n")

	status := statusStyle(m.status).Render(m.status)
	if m.busy {
		status = m.spinner.View() + " " + status
	}

	body := status
	if m.notification != "" {
		body += "\n\n" + dimStyle.Render("Latest Action") + "\n" + m.notification
	}
	sb.WriteString(boxStyle.Render(body))
	return sb.String()
}

func (m *Model) renderServos() string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("Servo Controls"))
	sb.WriteString("\n")

	rows := make([]string, 0, len(m.positions))
	for i, pos := range m.positions {
		cursor := "  "
		if i == m.selected {
			cursor = "▸ "
		}

		filled := int(m.limits.Fraction(pos) * sliderWidth)
		color := servoColors[i%len(servoColors)]
		barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		if m.busy {
			barStyle = dimStyle
		}
		bar := barStyle.Render(strings.Repeat("━", filled)) +
			dimStyle.Render(strings.Repeat("─", sliderWidth-filled))

		rows = append(rows, fmt.Sprintf("%sServo %d  %s %3d°", cursor, i+1, bar, pos))
	}
	sb.WriteString(boxStyle.Render(strings.Join(rows, "\n")))
	return sb.String()
}

func (m *Model) renderPackages() string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("Package Controls"))
	sb.WriteString("\n")

	buttons := make([]string, 0, len(robot.AllShapes()))
	for _, shape := range robot.AllShapes() {
		style := buttonStyle
		switch {
		case m.active == string(shape):
			style = activeButtonStyle
		case m.busy:
			style = style.Foreground(lipgloss.Color("241"))
		}
		buttons = append(buttons, style.Render(shape.Label()))
	}

	resetStyle := buttonStyle.BorderForeground(lipgloss.Color("9"))
	if m.active == MarkerReset {
		resetStyle = activeButtonStyle
	}
	buttons = append(buttons, resetStyle.Render("Reset to Initial Position"))

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	return sb.String()
}

func (m *Model) renderDialog() string {
	body := errorStyle.Render("Reset to Initial Position?") + "\n\n" +
		"All servos will return to the factory pose.\n\n"
	if m.busy {
		body += m.spinner.View() + " " + transitionalStyle.Render(m.status)
	} else {
		body += buttonStyle.Render("Continue") + " " + buttonStyle.Render("Cancel") + "\n" +
			dimStyle.Render("enter/y continue • esc/n cancel")
	}
	return dialogStyle.Render(body)
}
