// Package panel implements the arm control panel: servo sliders, package
// pick buttons and a guarded reset, rendered as a Bubble Tea program.
//
// All state lives in Model and is only touched from Update. Commands run
// on Bubble Tea's goroutines and report back as messages. A single busy
// flag keeps at most one command in flight; input arriving while busy is
// dropped, not queued.
package panel

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gwillem/armpanel/pkg/client"
	"github.com/gwillem/armpanel/pkg/robot"
)

// Commander issues robot commands. *client.Client implements it.
type Commander interface {
	SetServoPosition(ctx context.Context, index, angle int) (*client.Response, error)
	PickPackage(ctx context.Context, shape robot.Shape) (*client.Response, error)
	SetInitialPosition(ctx context.Context) (*client.Response, error)
}

var _ Commander = (*client.Client)(nil)

// Markers for commands that are not a pick.
const (
	MarkerServo = "servo"
	MarkerReset = "reset"
)

// Options configures a Model.
type Options struct {
	// Initial is the pose shown at mount and restored by reset. Its length
	// fixes the number of sliders. Defaults to the factory pose.
	Initial robot.Positions

	// PickSettle is how long a successful pick stays highlighted.
	PickSettle time.Duration

	Logger *slog.Logger

	// Title is shown in the header.
	Title string
}

// Model is the panel state.
type Model struct {
	cmds    Commander
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *slog.Logger
	limits  robot.Limits
	initial robot.Positions
	settle  time.Duration
	title   string

	positions    robot.Positions
	status       string
	notification string
	active       string // shape name, MarkerServo or MarkerReset while a command runs
	busy         bool
	confirming   bool
	selected     int
	seq          int // bumped on every command; settle callbacks carry it
	closed       bool

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	chart    *streamlinechart.Model
	width    int
	height   int
	quitting bool
}

// New mounts a panel that sends commands through cmds.
func New(cmds Commander, opts Options) *Model {
	if len(opts.Initial) == 0 {
		opts.Initial = robot.InitialPositions()
	}
	if opts.PickSettle <= 0 {
		opts.PickSettle = robot.DefaultPickSettle
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Title == "" {
		opts.Title = "Robot Arm Control Panel"
	}

	ctx, cancel := context.WithCancel(context.Background())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = transitionalStyle

	m := &Model{
		cmds:      cmds,
		ctx:       ctx,
		cancel:    cancel,
		logger:    opts.Logger,
		limits:    robot.FullRange(),
		initial:   opts.Initial.Clone(),
		settle:    opts.PickSettle,
		title:     opts.Title,
		positions: opts.Initial.Clone(),
		status:    StatusIdle,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		chart:     newHistoryChart(len(opts.Initial)),
	}
	m.recordPositions()
	return m
}

// Close unmounts the panel. A pending settle callback and any in-flight
// request are cancelled, and later results are ignored.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.cancel()
}

// Positions returns a copy of the servo angles shown on the sliders.
func (m *Model) Positions() robot.Positions {
	return m.positions.Clone()
}

// Status returns the system status text.
func (m *Model) Status() string {
	return m.status
}

// Notification returns the latest action message.
func (m *Model) Notification() string {
	return m.notification
}

// Active returns the marker of the command in flight, or "" when none.
func (m *Model) Active() string {
	return m.active
}

// Busy reports whether a command is in flight.
func (m *Model) Busy() bool {
	return m.busy
}

// ConfirmPending reports whether the reset confirmation dialog is open.
func (m *Model) ConfirmPending() bool {
	return m.confirming
}

// Selected returns the index of the focused slider.
func (m *Model) Selected() int {
	return m.selected
}

// Closed reports whether the panel has been unmounted.
func (m *Model) Closed() bool {
	return m.closed
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case servoResultMsg:
		m.handleServoResult(msg)
		return m, nil

	case pickResultMsg:
		return m, m.handlePickResult(msg)

	case pickSettledMsg:
		m.handlePickSettled(msg)
		return m, nil

	case resetResultMsg:
		m.handleResetResult(msg)
		return m, nil
	}

	return m, nil
}
