package events

import "context"

// Publisher pushes interview progress events to whoever is watching a
// session (the websocket relay subscribes to the matching channel).
// Publishing is best-effort; a lost event never fails the operation.
type Publisher interface {
	PublishSessionStatus(ctx context.Context, sessionID string, payload any)
}

// StatusChannel is the pub/sub channel carrying a session's progress events.
func StatusChannel(sessionID string) string {
	return "session:" + sessionID + ":status"
}
