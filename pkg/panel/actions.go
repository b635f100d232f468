package panel

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gwillem/armpanel/pkg/robot"
)

type servoResultMsg struct {
	seq   int
	index int
	angle int
	err   error
}

type pickResultMsg struct {
	seq   int
	shape robot.Shape
	err   error
}

type pickSettledMsg struct {
	seq int
}

type resetResultMsg struct {
	seq int
	err error
}

func errorNotification(err error) string {
	return "Error: " + err.Error()
}

// begin marks a command as in flight and returns its sequence number.
func (m *Model) begin(marker string) int {
	m.seq++
	m.busy = true
	m.active = marker
	return m.seq
}

func (m *Model) finish() {
	m.busy = false
	m.active = ""
}

// SetServo moves slider index to angle and sends the command. The slider
// takes the new value immediately and keeps it even if the command fails.
// Returns nil when the input is rejected.
func (m *Model) SetServo(index, angle int) tea.Cmd {
	if m.closed || m.busy || m.confirming {
		return nil
	}
	if index < 0 || index >= len(m.positions) {
		return nil
	}

	angle = m.limits.Clamp(angle)
	m.positions[index] = angle
	m.recordPositions()
	seq := m.begin(MarkerServo)

	m.logger.Info("servo command", "servo", index, "angle", angle)

	ctx, cmds := m.ctx, m.cmds
	return func() tea.Msg {
		_, err := cmds.SetServoPosition(ctx, index, angle)
		return servoResultMsg{seq: seq, index: index, angle: angle, err: err}
	}
}

func (m *Model) handleServoResult(msg servoResultMsg) {
	if m.closed {
		return
	}
	m.finish()

	if msg.err != nil {
		// The slider keeps the optimistic value; the arm may not match it.
		m.logger.Warn("servo command failed", "servo", msg.index, "angle", msg.angle, "error", msg.err)
		m.notification = errorNotification(msg.err)
		return
	}
	m.notification = fmt.Sprintf("Servo %d moved to position %d°", msg.index+1, msg.angle)
}

// Pick starts the pick sequence for shape. Returns nil when the input is
// rejected.
func (m *Model) Pick(shape robot.Shape) tea.Cmd {
	if m.closed || m.busy || m.confirming {
		return nil
	}

	seq := m.begin(string(shape))
	m.status = fmt.Sprintf("Picking %s package...", shape)

	m.logger.Info("pick command", "shape", shape)

	ctx, cmds := m.ctx, m.cmds
	return func() tea.Msg {
		_, err := cmds.PickPackage(ctx, shape)
		return pickResultMsg{seq: seq, shape: shape, err: err}
	}
}

func (m *Model) handlePickResult(msg pickResultMsg) tea.Cmd {
	if m.closed {
		return nil
	}

	if msg.err != nil {
		m.logger.Warn("pick command failed", "shape", msg.shape, "error", msg.err)
		m.finish()
		m.status = StatusError
		m.notification = errorNotification(msg.err)
		return nil
	}

	// The button stays highlighted and input stays blocked until the
	// settle callback fires.
	m.notification = fmt.Sprintf("Picking %s package", msg.shape)
	return m.scheduleSettle(msg.seq)
}

// scheduleSettle returns a callback that fires pickSettledMsg after the
// settle delay, or nothing if the panel is closed first.
func (m *Model) scheduleSettle(seq int) tea.Cmd {
	ctx, delay := m.ctx, m.settle
	return func() tea.Msg {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
			return pickSettledMsg{seq: seq}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) handlePickSettled(msg pickSettledMsg) {
	if m.closed || msg.seq != m.seq {
		return
	}
	m.finish()
	m.status = StatusIdle
}

// RequestReset opens the confirmation dialog. No command is sent.
func (m *Model) RequestReset() {
	if m.closed || m.busy {
		return
	}
	m.confirming = true
}

// CancelReset closes the confirmation dialog without sending anything.
func (m *Model) CancelReset() {
	if m.busy {
		return
	}
	m.confirming = false
}

// ConfirmReset sends the reset command. The dialog stays open until the
// command resolves. Returns nil unless the dialog is open and idle.
func (m *Model) ConfirmReset() tea.Cmd {
	if m.closed || m.busy || !m.confirming {
		return nil
	}

	seq := m.begin(MarkerReset)
	m.status = "Resetting to initial position..."

	m.logger.Info("reset command")

	ctx, cmds := m.ctx, m.cmds
	return func() tea.Msg {
		_, err := cmds.SetInitialPosition(ctx)
		return resetResultMsg{seq: seq, err: err}
	}
}

func (m *Model) handleResetResult(msg resetResultMsg) {
	if m.closed {
		return
	}
	m.finish()
	m.confirming = false

	if msg.err != nil {
		m.logger.Warn("reset command failed", "error", msg.err)
		m.status = StatusError
		m.notification = errorNotification(msg.err)
		return
	}

	m.positions = m.initial.Clone()
	m.recordPositions()
	m.status = StatusIdle
	m.notification = "Robot returned to initial position"
}
