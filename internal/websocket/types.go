package websocket

import "time"

// EventType represents the type of WebSocket event
type EventType string

const (
	// EventTypeExtraction is broadcast after each processing request.
	EventTypeExtraction EventType = "extraction"
	// EventTypeRequestLog is broadcast for every API request.
	EventTypeRequestLog EventType = "request_log"
	// EventTypeConnection represents connection events
	EventTypeConnection EventType = "connection"
)

// Event represents a WebSocket event sent to clients
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// ExtractionEvent summarizes one extraction pass. It carries counts only,
// never the matched text.
type ExtractionEvent struct {
	RequestID    string         `json:"request_id"`
	Filename     string         `json:"filename"`
	Mode         string         `json:"mode"`
	EntityCount  int            `json:"entity_count"`
	ByType       map[string]int `json:"by_type"`
	ProcessingMS float64        `json:"processing_ms"`
}

// RequestLogEvent represents a request logging event
type RequestLogEvent struct {
	RequestID  string        `json:"request_id"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	StatusCode int           `json:"status_code"`
	ClientIP   string        `json:"client_ip"`
	Duration   time.Duration `json:"duration"`
}

// ConnectionEvent represents WebSocket connection events
type ConnectionEvent struct {
	Action   string `json:"action"` // "connected", "disconnected"
	ClientID string `json:"client_id"`
	ClientIP string `json:"client_ip"`
}
