package model

// WebSocket message types
const (
	WSMessageTypeProgress     = "progress"
	WSMessageTypeComplete     = "complete"
	WSMessageTypeError        = "error"
	WSMessageTypeNotification = "notification"
	WSMessageTypePing         = "ping"
	WSMessageTypePong         = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// WSProgressMessage is a per-document progress update
type WSProgressMessage struct {
	Type       string         `json:"type"`
	DocumentID string         `json:"documentId"`
	Progress   float64        `json:"progress"`
	Status     DocumentStatus `json:"status"`
	Stage      string         `json:"stage,omitempty"`
	ETASeconds int            `json:"etaSeconds"`
}

// WSCompleteMessage announces a document reaching its terminal state
type WSCompleteMessage struct {
	Type       string `json:"type"`
	DocumentID string `json:"documentId"`
	Result     any    `json:"result"`
}

// WSErrorMessage reports a processing error for a document
type WSErrorMessage struct {
	Type       string  `json:"type"`
	DocumentID string  `json:"documentId"`
	Error      WSError `json:"error"`
}

// WSError represents error details
type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WSNotificationMessage is a short human-readable status event
type WSNotificationMessage struct {
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}
