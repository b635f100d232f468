package mockctl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gwillem/armpanel/pkg/robot"
)

func post(t *testing.T, h http.Handler, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, resp
}

func TestServo(t *testing.T) {
	c := New(Options{})
	h := c.Handler()

	tests := []struct {
		name    string
		body    string
		code    int
		message string
	}{
		{"valid", `{"servo_id":0,"position":45}`, http.StatusOK, "Servo 0 moved to 45°"},
		{"missing position", `{"servo_id":0}`, http.StatusBadRequest, "Missing servo_id or position"},
		{"missing id", `{"position":10}`, http.StatusBadRequest, "Missing servo_id or position"},
		{"bad id", `{"servo_id":9,"position":10}`, http.StatusBadRequest, "Invalid servo_id 9"},
		{"bad angle", `{"servo_id":1,"position":181}`, http.StatusBadRequest, "Angle 181 out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := post(t, h, "/api/servo", tt.body)
			if code != tt.code {
				t.Errorf("status = %d, want %d", code, tt.code)
			}
			if resp["message"] != tt.message {
				t.Errorf("message = %v, want %q", resp["message"], tt.message)
			}
		})
	}

	if got := c.Positions()[0]; got != 45 {
		t.Errorf("servo 0 = %d, want 45", got)
	}
	if got := c.Requests("servo"); got != len(tests) {
		t.Errorf("Requests(servo) = %d, want %d", got, len(tests))
	}
}

func TestInitialPosition(t *testing.T) {
	c := New(Options{})
	h := c.Handler()

	post(t, h, "/api/servo", `{"servo_id":2,"position":10}`)
	code, resp := post(t, h, "/api/initial-position", `{}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp["message"] != "Robot returned to initial position" {
		t.Errorf("message = %v", resp["message"])
	}
	if !c.Positions().Equal(robot.InitialPositions()) {
		t.Errorf("positions = %v, want %v", c.Positions(), robot.InitialPositions())
	}
}

func TestPickPackage(t *testing.T) {
	c := New(Options{})
	h := c.Handler()

	tests := []struct {
		body    string
		code    int
		message string
	}{
		{`{"shape":"triangle"}`, http.StatusOK, "Successfully picked and placed triangle package"},
		{`{}`, http.StatusBadRequest, "Shape not specified"},
		{`{"shape":"hexagon"}`, http.StatusBadRequest, "Invalid shape specified"},
	}

	for _, tt := range tests {
		code, resp := post(t, h, "/api/pick-package", tt.body)
		if code != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.body, code, tt.code)
		}
		if resp["message"] != tt.message {
			t.Errorf("%s: message = %v, want %q", tt.body, resp["message"], tt.message)
		}
	}

	picks := c.Picks()
	if len(picks) != 1 || picks[0] != robot.Triangle {
		t.Errorf("Picks() = %v, want [triangle]", picks)
	}
}

func TestConveyor(t *testing.T) {
	c := New(Options{})
	h := c.Handler()

	code, resp := post(t, h, "/api/conveyor", `{"running":true}`)
	if code != http.StatusOK || resp["message"] != "Conveyor started." {
		t.Errorf("start: %d %v", code, resp["message"])
	}
	if !c.ConveyorRunning() {
		t.Error("conveyor should be running")
	}

	code, _ = post(t, h, "/api/conveyor", `{}`)
	if code != http.StatusBadRequest {
		t.Errorf("missing running: status = %d, want 400", code)
	}
	if !c.ConveyorRunning() {
		t.Error("rejected request must not change the conveyor")
	}
}

func TestFailNext(t *testing.T) {
	c := New(Options{})
	h := c.Handler()

	c.FailNext("pick-package", http.StatusInternalServerError, "gripper jammed")

	code, resp := post(t, h, "/api/pick-package", `{"shape":"circle"}`)
	if code != http.StatusInternalServerError || resp["message"] != "gripper jammed" {
		t.Errorf("injected fault: %d %v", code, resp["message"])
	}

	code, _ = post(t, h, "/api/pick-package", `{"shape":"circle"}`)
	if code != http.StatusOK {
		t.Errorf("fault should apply once, second status = %d", code)
	}
	if len(c.Picks()) != 1 {
		t.Errorf("Picks() = %v, want one pick", c.Picks())
	}
}

func TestCancelledMove(t *testing.T) {
	c := New(Options{MoveDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/servo", strings.NewReader(`{"servo_id":0,"position":45}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	if resp["status"] != "error" || resp["message"] != "Request cancelled" {
		t.Errorf("response = %v", resp)
	}
	if got := c.Positions()[0]; got != 90 {
		t.Errorf("servo 0 = %d, want 90 after cancelled move", got)
	}
}

func TestStatus(t *testing.T) {
	c := New(Options{Initial: robot.Positions{10, 20, 30}})
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	var resp struct {
		Status          string `json:"status"`
		ServoPositions  []int  `json:"servo_positions"`
		ConveyorRunning bool   `json:"conveyor_running"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "success" || len(resp.ServoPositions) != 3 || resp.ServoPositions[2] != 30 {
		t.Errorf("unexpected status response: %+v", resp)
	}
	if c.Requests("") != 0 {
		t.Errorf("status must not count as a command, got %d", c.Requests(""))
	}
}
