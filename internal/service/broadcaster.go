package service

// Notifier pushes session events to connected clients (avoids import cycle
// with the websocket transport)
type Notifier interface {
	NotifySession(sessionID string, msgType string, payload interface{})
}
