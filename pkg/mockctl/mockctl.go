// Package mockctl serves an in-memory robot controller with the same HTTP
// API as the arm's controller. It is used for development without the rig
// and as the backend of integration tests.
package mockctl

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/gwillem/armpanel/pkg/robot"
)

// Options configures a Controller.
type Options struct {
	Initial   robot.Positions // pose at startup and after reset; defaults to the factory pose
	MoveDelay time.Duration   // simulated duration of a single command
	Logger    *slog.Logger
}

type fault struct {
	status  int
	message string
}

// Controller is a mock robot controller.
type Controller struct {
	initial   robot.Positions
	moveDelay time.Duration
	logger    *slog.Logger

	mu        sync.Mutex
	positions robot.Positions
	conveyor  bool
	picks     []robot.Shape
	requests  map[string]int
	faults    map[string]fault
}

// New creates a controller holding the initial pose.
func New(opts Options) *Controller {
	if len(opts.Initial) == 0 {
		opts.Initial = robot.InitialPositions()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		initial:   opts.Initial.Clone(),
		moveDelay: opts.MoveDelay,
		logger:    opts.Logger,
		positions: opts.Initial.Clone(),
		requests:  make(map[string]int),
		faults:    make(map[string]fault),
	}
}

// Positions returns the current servo angles.
func (c *Controller) Positions() robot.Positions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positions.Clone()
}

// ConveyorRunning reports the conveyor state.
func (c *Controller) ConveyorRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conveyor
}

// Picks returns the shapes picked so far, oldest first.
func (c *Controller) Picks() []robot.Shape {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]robot.Shape(nil), c.picks...)
}

// Requests returns how many command requests reached endpoint
// ("servo", "pick-package", ...). An empty endpoint counts all of them.
func (c *Controller) Requests(endpoint string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if endpoint != "" {
		return c.requests[endpoint]
	}
	total := 0
	for _, n := range c.requests {
		total += n
	}
	return total
}

// FailNext makes the next request to endpoint fail with status and message.
func (c *Controller) FailNext(endpoint string, status int, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faults[endpoint] = fault{status: status, message: message}
}

// Handler returns the HTTP handler serving the controller API under /api.
func (c *Controller) Handler() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/servo", c.command("servo", c.handleServo)).Methods("POST")
	api.HandleFunc("/initial-position", c.command("initial-position", c.handleInitialPosition)).Methods("POST")
	api.HandleFunc("/pick-package", c.command("pick-package", c.handlePickPackage)).Methods("POST")
	api.HandleFunc("/conveyor", c.command("conveyor", c.handleConveyor)).Methods("POST")
	api.HandleFunc("/status", c.handleStatus).Methods("GET")

	router.Use(corsMiddleware)
	router.Use(c.loggingMiddleware)

	return router
}

type servoBody struct {
	ServoID  *int `json:"servo_id"`
	Position *int `json:"position"`
}

type pickBody struct {
	Shape string `json:"shape"`
}

type conveyorBody struct {
	Running *bool `json:"running"`
}

// command counts the request, applies any injected fault and simulates the
// move duration before running h.
func (c *Controller) command(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.requests[endpoint]++
		f, failing := c.faults[endpoint]
		delete(c.faults, endpoint)
		c.mu.Unlock()

		if failing {
			writeError(w, f.status, f.message)
			return
		}

		if c.moveDelay > 0 {
			select {
			case <-time.After(c.moveDelay):
			case <-r.Context().Done():
				// The move is abandoned and state is left untouched.
				writeError(w, http.StatusServiceUnavailable, "Request cancelled")
				return
			}
		}

		h(w, r)
	}
}

func (c *Controller) handleServo(w http.ResponseWriter, r *http.Request) {
	var body servoBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if body.ServoID == nil || body.Position == nil {
		writeError(w, http.StatusBadRequest, "Missing servo_id or position")
		return
	}

	id, pos := *body.ServoID, *body.Position

	c.mu.Lock()
	defer c.mu.Unlock()

	if id < 0 || id >= len(c.positions) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid servo_id %d", id))
		return
	}
	if pos < robot.MinAngle || pos > robot.MaxAngle {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Angle %d out of range", pos))
		return
	}

	c.positions[id] = pos
	writeSuccess(w, fmt.Sprintf("Servo %d moved to %d°", id, pos))
}

func (c *Controller) handleInitialPosition(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.positions = c.initial.Clone()
	c.mu.Unlock()

	writeSuccess(w, "Robot returned to initial position")
}

func (c *Controller) handlePickPackage(w http.ResponseWriter, r *http.Request) {
	var body pickBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if body.Shape == "" {
		writeError(w, http.StatusBadRequest, "Shape not specified")
		return
	}

	shape, err := robot.ParseShape(body.Shape)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shape specified")
		return
	}

	c.mu.Lock()
	c.picks = append(c.picks, shape)
	c.mu.Unlock()

	writeSuccess(w, fmt.Sprintf("Successfully picked and placed %s package", shape))
}

func (c *Controller) handleConveyor(w http.ResponseWriter, r *http.Request) {
	var body conveyorBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if body.Running == nil {
		writeError(w, http.StatusBadRequest, "Missing running")
		return
	}

	c.mu.Lock()
	c.conveyor = *body.Running
	c.mu.Unlock()

	if *body.Running {
		writeSuccess(w, "Conveyor started.")
	} else {
		writeSuccess(w, "Conveyor stopped.")
	}
}

func (c *Controller) handleStatus(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	resp := map[string]any{
		"status":           "success",
		"servo_positions":  c.positions.Clone(),
		"conveyor_running": c.conveyor,
	}
	c.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}
