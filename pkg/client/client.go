// Package client issues robot commands to the arm controller over HTTP.
//
// Every method maps to exactly one POST request. Nothing is retried, cached
// or queued, and angles are sent as given.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/calvinmclean/babyapi"

	"github.com/gwillem/armpanel/pkg/robot"
)

// Controller endpoints, relative to the base address.
const (
	EndpointServo           = "servo"
	EndpointConveyor        = "conveyor"
	EndpointPickPackage     = "pick-package"
	EndpointInitialPosition = "initial-position"
)

// ServoRequest is the body of a servo command.
type ServoRequest struct {
	ServoID  int `json:"servo_id"`
	Position int `json:"position"`
}

// ConveyorRequest is the body of a conveyor command.
type ConveyorRequest struct {
	Running bool `json:"running"`
}

// PickRequest is the body of a pick command.
type PickRequest struct {
	Shape robot.Shape `json:"shape"`
}

// Response is a successful controller reply. Status and Message are filled
// when the controller answers with its usual JSON envelope.
type Response struct {
	StatusCode int
	Status     string
	Message    string
}

type envelope struct {
	// NilResource supplies Render and Bind for babyapi.Resource
	*babyapi.NilResource
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (envelope) GetID() string {
	return ""
}

// Client sends commands to one robot controller.
type Client struct {
	baseURL string
	client  *babyapi.Client[*envelope]
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger logs every command at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the controller API rooted at baseURL,
// e.g. "http://192.168.43.94:3000/api".
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	c := &Client{
		baseURL: baseURL,
		client:  babyapi.NewClient[*envelope](baseURL, ""),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the controller address the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetServoPosition moves servo index to angle degrees. The caller is
// responsible for keeping angle within [0, 180].
func (c *Client) SetServoPosition(ctx context.Context, index, angle int) (*Response, error) {
	return c.post(ctx, EndpointServo, ServoRequest{ServoID: index, Position: angle})
}

// SetConveyorState starts or stops the conveyor belt.
func (c *Client) SetConveyorState(ctx context.Context, running bool) (*Response, error) {
	return c.post(ctx, EndpointConveyor, ConveyorRequest{Running: running})
}

// PickPackage runs the pick sequence for a package of the given shape.
func (c *Client) PickPackage(ctx context.Context, shape robot.Shape) (*Response, error) {
	return c.post(ctx, EndpointPickPackage, PickRequest{Shape: shape})
}

// SetInitialPosition returns every servo to the factory pose.
func (c *Client) SetInitialPosition(ctx context.Context) (*Response, error) {
	return c.post(ctx, EndpointInitialPosition, struct{}{})
}

func (c *Client) post(ctx context.Context, endpoint string, body any) (*Response, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, &CommandError{Op: endpoint, Message: fmt.Sprintf("encode body: %v", err), Err: err}
	}

	url := c.baseURL + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, &CommandError{Op: endpoint, Message: fmt.Sprintf("create request: %v", err), Err: err}
	}
	req.Header.Add("Content-Type", "application/json")

	c.logger.Debug("sending command", "endpoint", endpoint, "url", url, "body", string(bodyBytes))

	// A nil target keeps babyapi from decoding the body: replies without
	// JSON are still judged by status code alone.
	resp, err := c.client.MakeGenericRequest(req, nil)
	if err != nil {
		c.logger.Debug("command failed", "endpoint", endpoint, "error", err)
		return nil, &CommandError{Op: endpoint, Message: err.Error(), Err: err}
	}
	resp.Response.Body.Close()
	env := decodeEnvelope(resp.Body)

	code := resp.Response.StatusCode
	if code < 200 || code > 299 {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("unexpected status code: %d", code)
		}
		c.logger.Debug("command rejected", "endpoint", endpoint, "status", code, "message", msg)
		return nil, &CommandError{Op: endpoint, StatusCode: code, Message: msg}
	}

	c.logger.Debug("command done", "endpoint", endpoint, "status", code, "message", env.Message)
	return &Response{
		StatusCode: code,
		Status:     env.Status,
		Message:    env.Message,
	}, nil
}

func decodeEnvelope(body string) envelope {
	var env envelope
	if body == "" {
		return env
	}
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return envelope{}
	}
	return env
}
