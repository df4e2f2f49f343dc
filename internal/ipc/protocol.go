// Package ipc is the line-delimited JSON protocol between the CLI and a
// running daemon.
package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/gridmgr/internal/geom"
	"github.com/1broseidon/gridmgr/internal/tiling"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandGetViewports CommandType = "GET_VIEWPORTS"
	CommandRun          CommandType = "RUN"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	PID           int    `json:"pid"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Bindings      int    `json:"bindings"`
	ActionsRun    int    `json:"actions_run"`
	LastAction    string `json:"last_action,omitempty"`
	LastError     string `json:"last_error,omitempty"`
}

// ViewportInfo is one usable monitor area.
type ViewportInfo struct {
	Index  int  `json:"index"`
	Active bool `json:"active"`
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Width  int  `json:"width"`
	Height int  `json:"height"`
}

// Rect returns the viewport's rectangle.
func (v ViewportInfo) Rect() geom.Rect {
	return geom.Rect{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
}

// ViewportsData represents the data returned by GET_VIEWPORTS
type ViewportsData struct {
	Viewports []ViewportInfo `json:"viewports"`
}

// RunPayload is the payload for RUN.
type RunPayload struct {
	Action tiling.ActionKind `json:"action"`
	Target string            `json:"target"`
}

// RunData reports what a RUN did.
type RunData struct {
	WindowID  uint32 `json:"window_id"`
	Title     string `json:"title,omitempty"`
	Changed   bool   `json:"changed"`
	Maximized bool   `json:"maximized,omitempty"`
	State     string `json:"state,omitempty"`
	Target    string `json:"target,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
