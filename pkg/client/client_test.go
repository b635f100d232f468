package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gwillem/armpanel/pkg/mockctl"
	"github.com/gwillem/armpanel/pkg/robot"
)

func newMock(t *testing.T) (*mockctl.Controller, *Client) {
	t.Helper()
	ctl := mockctl.New(mockctl.Options{})
	srv := httptest.NewServer(ctl.Handler())
	t.Cleanup(srv.Close)
	return ctl, New(srv.URL + "/api/")
}

func TestSetServoPosition(t *testing.T) {
	ctl, c := newMock(t)

	resp, err := c.SetServoPosition(context.Background(), 3, 45)
	if err != nil {
		t.Fatalf("SetServoPosition returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if resp.Message != "Servo 3 moved to 45°" {
		t.Errorf("Message = %q", resp.Message)
	}
	if got := ctl.Positions()[3]; got != 45 {
		t.Errorf("servo 3 = %d, want 45", got)
	}
}

func TestPickPackage(t *testing.T) {
	ctl, c := newMock(t)

	for _, shape := range robot.AllShapes() {
		if _, err := c.PickPackage(context.Background(), shape); err != nil {
			t.Errorf("PickPackage(%s) returned error: %v", shape, err)
		}
	}
	if got := len(ctl.Picks()); got != 3 {
		t.Errorf("controller saw %d picks, want 3", got)
	}
}

func TestSetConveyorState(t *testing.T) {
	ctl, c := newMock(t)

	if _, err := c.SetConveyorState(context.Background(), true); err != nil {
		t.Fatalf("SetConveyorState returned error: %v", err)
	}
	if !ctl.ConveyorRunning() {
		t.Error("conveyor should be running")
	}
}

func TestSetInitialPosition(t *testing.T) {
	ctl, c := newMock(t)

	if _, err := c.SetServoPosition(context.Background(), 0, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SetInitialPosition(context.Background()); err != nil {
		t.Fatalf("SetInitialPosition returned error: %v", err)
	}
	if !ctl.Positions().Equal(robot.InitialPositions()) {
		t.Errorf("positions = %v, want initial pose", ctl.Positions())
	}
}

func TestRequestBodies(t *testing.T) {
	type captured struct {
		path string
		body map[string]any
	}
	var (
		mu  sync.Mutex
		got []captured
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(data, &body); err != nil {
			t.Errorf("body %q is not JSON: %v", data, err)
		}
		mu.Lock()
		got = append(got, captured{path: r.URL.Path, body: body})
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL + "/api")
	ctx := context.Background()
	calls := []func() error{
		func() error { _, err := c.SetServoPosition(ctx, 1, 200); return err },
		func() error { _, err := c.SetConveyorState(ctx, false); return err },
		func() error { _, err := c.PickPackage(ctx, robot.Square); return err },
		func() error { _, err := c.SetInitialPosition(ctx); return err },
	}
	for i, call := range calls {
		if err := call(); err != nil {
			t.Fatalf("call %d returned error: %v", i, err)
		}
	}

	mu.Lock()
	defer mu.Unlock()

	if len(got) != 4 {
		t.Fatalf("server saw %d requests, want 4", len(got))
	}

	// No range check on the client: 200 is sent as given.
	if got[0].path != "/api/servo" || got[0].body["servo_id"] != float64(1) || got[0].body["position"] != float64(200) {
		t.Errorf("servo request = %+v", got[0])
	}
	if got[1].path != "/api/conveyor" || got[1].body["running"] != false {
		t.Errorf("conveyor request = %+v", got[1])
	}
	if got[2].path != "/api/pick-package" || got[2].body["shape"] != "square" {
		t.Errorf("pick request = %+v", got[2])
	}
	if got[3].path != "/api/initial-position" || len(got[3].body) != 0 {
		t.Errorf("initial-position request = %+v", got[3])
	}
}

func TestCommandFailure(t *testing.T) {
	ctl, c := newMock(t)
	ctl.FailNext("pick-package", http.StatusInternalServerError, "gripper jammed")

	_, err := c.PickPackage(context.Background(), robot.Circle)
	if err == nil {
		t.Fatal("PickPackage should fail")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error %T is not a CommandError", err)
	}
	if cmdErr.Op != EndpointPickPackage {
		t.Errorf("Op = %q, want %q", cmdErr.Op, EndpointPickPackage)
	}
	if cmdErr.Message != "gripper jammed" {
		t.Errorf("Message = %q, want controller message", cmdErr.Message)
	}
	if cmdErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", cmdErr.StatusCode)
	}

	// One attempt only.
	if got := ctl.Requests("pick-package"); got != 1 {
		t.Errorf("controller saw %d requests, want 1", got)
	}
}

func TestReplyHandling(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantErr     string
		wantMessage string
	}{
		{name: "no content", status: http.StatusNoContent},
		{name: "empty 200", status: http.StatusOK},
		{name: "text 200", status: http.StatusOK, contentType: "text/plain", body: "OK"},
		{
			name:        "envelope 200",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"status":"success","message":"Successfully picked and placed circle package"}`,
			wantMessage: "Successfully picked and placed circle package",
		},
		{
			name:        "envelope 500",
			status:      http.StatusInternalServerError,
			contentType: "application/json",
			body:        `{"status":"error","message":"gripper jammed"}`,
			wantErr:     "gripper jammed",
		},
		{
			name:        "html 502",
			status:      http.StatusBadGateway,
			contentType: "text/html",
			body:        "<html>bad gateway</html>",
			wantErr:     "unexpected status code: 502",
		},
		{
			name:        "json without message 400",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"status":"error"}`,
			wantErr:     "unexpected status code: 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			resp, err := New(srv.URL+"/api").PickPackage(context.Background(), robot.Circle)

			if tt.wantErr != "" {
				var cmdErr *CommandError
				if !errors.As(err, &cmdErr) {
					t.Fatalf("error = %v (%T), want CommandError", err, err)
				}
				if cmdErr.Error() != tt.wantErr {
					t.Errorf("Error() = %q, want %q", cmdErr.Error(), tt.wantErr)
				}
				if cmdErr.StatusCode != tt.status {
					t.Errorf("StatusCode = %d, want %d", cmdErr.StatusCode, tt.status)
				}
				return
			}

			if err != nil {
				t.Fatalf("PickPackage returned error: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.status)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", resp.Message, tt.wantMessage)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url + "/api").SetInitialPosition(context.Background())
	if err == nil {
		t.Fatal("SetInitialPosition should fail against a closed server")
	}
	if !IsCommandError(err) {
		t.Errorf("error %T is not a CommandError", err)
	}
}

func TestBaseURLTrimmed(t *testing.T) {
	c := New("http://arm:3000/api/")
	if c.BaseURL() != "http://arm:3000/api" {
		t.Errorf("BaseURL = %q", c.BaseURL())
	}
}
