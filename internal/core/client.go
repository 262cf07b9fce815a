package core

// Client is the hub's handle to one connected transport peer. Identity and
// join state live in the Registry; the client only carries the channels the
// transport pumps.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
	}
}
