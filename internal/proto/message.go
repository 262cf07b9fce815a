package proto

import "time"

// Frame type discriminators. Frames are flat JSON objects; Envelope peeks
// at the type before the concrete shape is decoded.
const (
	InboundTypeUserJoin   = "user-join"
	InboundTypeJoinTeam   = "join-team"
	InboundTypeChat       = "chat-message"
	InboundTypeGetHistory = "get-history"

	OutboundTypeSystem       = "system-message"
	OutboundTypeAuthResponse = "auth-response"
	OutboundTypeChat         = "chat-message"
	OutboundTypeHistory      = "chat-history"
)

// Envelope decodes just enough of an inbound frame to dispatch on type.
type Envelope struct {
	Type string `json:"type"`
}

// UserJoin introduces the client. Username is optional.
type UserJoin struct {
	Username string `json:"username,omitempty"`
}

// JoinTeam requests access to a team channel with a shared secret.
type JoinTeam struct {
	TeamCode  string `json:"teamCode"`
	AuthorKey string `json:"authorKey"`
}

// ChatInbound posts a message to the global channel or the sender's team
// channel.
type ChatInbound struct {
	Text    string `json:"text"`
	Channel string `json:"channel"`
}

// GetHistory requests a channel's history buffer.
type GetHistory struct {
	Channel string `json:"channel"`
}

// SystemMessage is a relay-generated notice, private or broadcast.
type SystemMessage struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// AuthResponse reports the outcome of a join-team attempt. Kept alongside
// SystemMessage for compatibility with clients built against the simpler
// auth flow.
type AuthResponse struct {
	Type      string `json:"type"`
	Success   bool   `json:"success"`
	Code      string `json:"code,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ChatMessage is a delivered chat record.
type ChatMessage struct {
	Type      string `json:"type"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Channel   string `json:"channel"`
}

// ChatHistory delivers a channel's buffer, oldest first.
type ChatHistory struct {
	Type     string        `json:"type"`
	Messages []ChatMessage `json:"messages"`
}

// FormatTime renders timestamps the way every outbound frame carries them.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
