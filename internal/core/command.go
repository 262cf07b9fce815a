package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandUserJoin introduces the client with a display name.
	CommandUserJoin CommandKind = iota
	// CommandJoinTeam authenticates the client into a team channel.
	CommandJoinTeam
	// CommandSendMessage posts a chat message to a channel.
	CommandSendMessage
	// CommandGetHistory requests a channel's history buffer.
	CommandGetHistory
)

// Command represents an action requested by a client. Only the fields
// relevant to the kind are populated.
type Command struct {
	Kind      CommandKind
	Username  string
	TeamCode  string
	AuthorKey string
	Text      string
	Channel   string
}
