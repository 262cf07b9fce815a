package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type envelope struct {
	client *Client
	cmd    *Command
}

// Hub routes client commands, drives the per-session join state machine,
// and fans records out to channel members. All shared maps are owned by the
// Run loop; transports talk to the hub only through channels.
type Hub struct {
	registry *Registry
	members  *Membership
	history  *History
	gate     *Gate

	register   chan *Client
	unregister chan *Client
	inbox      chan envelope

	clients map[string]*Client
	now     func() time.Time
	log     *zerolog.Logger
}

// NewHub constructs a hub over the given stores. A nil logger disables
// logging; a nil clock defaults to time.Now.
func NewHub(registry *Registry, members *Membership, history *History, gate *Gate, logger *zerolog.Logger, now func() time.Time) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if now == nil {
		now = time.Now
	}
	return &Hub{
		registry:   registry,
		members:    members,
		history:    history,
		gate:       gate,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan envelope),
		clients:    make(map[string]*Client),
		now:        now,
		log:        logger,
	}
}

// RegisterClient hands a new connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient tells the hub the connection closed. Safe to call once
// per connection; the hub tolerates commands that raced past the close.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run processes registrations, disconnects, and commands until ctx is
// cancelled. Commands are serialized, so no handler ever observes another
// handler's partial update.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.handleRegister(ctx, c)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case env := <-h.inbox:
			h.dispatch(env.client, env.cmd)
		}
	}
}

func (h *Hub) handleRegister(ctx context.Context, c *Client) {
	if err := h.registry.Register(c.ID); err != nil {
		h.log.Error().Err(err).Str("client_id", c.ID).Msg("register client")
		return
	}
	h.clients[c.ID] = c
	h.log.Debug().Str("client_id", c.ID).Int("clients", len(h.clients)).Msg("client connected")

	go h.pump(ctx, c)
}

// pump funnels one client's commands into the shared inbox.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.inbox <- envelope{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h *Hub) handleDisconnect(c *Client) {
	delete(h.clients, c.ID)

	sess, err := h.registry.Remove(c.ID)
	if err != nil {
		// Cleanup already ran for this connection.
		return
	}
	h.log.Debug().Str("client_id", c.ID).Str("user", sess.Name).Msg("client disconnected")

	if !sess.Joined {
		return
	}
	if sess.Team != "" {
		h.members.Leave(sess.Team, c.ID)
		h.systemNotice(sess.Team, fmt.Sprintf("[%s] left the team channel.", sess.Name))
	}
	h.systemNotice(GlobalChannel, fmt.Sprintf("[%s] left the chat.", sess.Name))
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	sess, err := h.registry.Lookup(c.ID)
	if err != nil {
		// The close beat a final in-flight command; nothing to serve.
		return
	}

	switch cmd.Kind {
	case CommandUserJoin:
		h.handleUserJoin(c, sess, cmd)
	case CommandJoinTeam:
		h.handleJoinTeam(c, sess, cmd)
	case CommandSendMessage:
		h.handleSendMessage(c, sess, cmd)
	case CommandGetHistory:
		h.handleGetHistory(c, sess, cmd)
	default:
		h.send(c, h.errorEvent(ErrCodeUnknownType, "unknown command"))
	}
}

func (h *Hub) handleUserJoin(c *Client, sess Session, cmd *Command) {
	already := sess.Joined

	sess, err := h.registry.MarkJoined(c.ID, cmd.Username)
	if err != nil {
		return
	}
	if already {
		// Identity update only; no duplicate broadcast.
		h.log.Debug().Str("client_id", c.ID).Str("user", sess.Name).Msg("display name updated")
		return
	}

	h.log.Info().Str("client_id", c.ID).Str("user", sess.Name).Msg("user joined")
	h.systemNotice(GlobalChannel, fmt.Sprintf("[%s] joined the chat.", sess.Name))
}

func (h *Hub) handleJoinTeam(c *Client, sess Session, cmd *Command) {
	if !sess.Joined {
		h.send(c, h.errorEvent(ErrCodeNotJoined, "join the chat before joining a team"))
		return
	}

	if err := h.gate.Authenticate(cmd.TeamCode, cmd.AuthorKey); err != nil {
		// The reason stays in the logs; clients get the same generic failure.
		h.log.Warn().Err(err).Str("client_id", c.ID).Str("team", cmd.TeamCode).Msg("team auth failed")
		h.send(c, &Event{
			Kind:  EventAuthResponse,
			At:    h.now(),
			Error: coreError(ErrCodeAuthFailed, "team authentication failed"),
		})
		return
	}

	if sess.Team != "" && sess.Team != cmd.TeamCode {
		h.send(c, h.errorEvent(ErrCodeBadRequest, "already in a team"))
		return
	}

	if _, err := h.registry.SetTeam(c.ID, cmd.TeamCode); err != nil {
		return
	}
	h.members.Join(cmd.TeamCode, c.ID)
	h.log.Info().Str("client_id", c.ID).Str("user", sess.Name).Str("team", cmd.TeamCode).Msg("joined team channel")

	h.send(c, &Event{Kind: EventAuthResponse, Success: true, At: h.now()})
	h.send(c, &Event{Kind: EventSystem, Record: Record{
		Channel:   cmd.TeamCode,
		Author:    SystemAuthor,
		Text:      "Joined team channel.",
		CreatedAt: h.now(),
		Kind:      KindSystem,
	}})
	h.send(c, &Event{Kind: EventHistory, Records: h.history.Get(cmd.TeamCode)})
}

func (h *Hub) handleSendMessage(c *Client, sess Session, cmd *Command) {
	if !sess.Joined {
		h.send(c, h.errorEvent(ErrCodeNotJoined, "join the chat before sending messages"))
		return
	}
	if cmd.Channel != GlobalChannel && sess.Team != cmd.Channel {
		h.send(c, h.errorEvent(ErrCodeNoTeam, "not a member of that team channel"))
		return
	}

	rec := Record{
		Channel:   cmd.Channel,
		Author:    sess.Name,
		Text:      cmd.Text,
		CreatedAt: h.now(),
		Kind:      KindChat,
	}
	h.history.Append(rec)
	h.fanout(cmd.Channel, &Event{Kind: EventChat, Record: rec})
}

func (h *Hub) handleGetHistory(c *Client, sess Session, cmd *Command) {
	if !sess.Joined {
		h.send(c, h.errorEvent(ErrCodeNotJoined, "join the chat before requesting history"))
		return
	}
	if cmd.Channel != GlobalChannel && sess.Team != cmd.Channel {
		h.send(c, h.errorEvent(ErrCodeNoTeam, "not a member of that team channel"))
		return
	}

	h.send(c, &Event{Kind: EventHistory, Records: h.history.Get(cmd.Channel)})
}

// systemNotice appends a system record to the channel's history and fans it
// out to current members.
func (h *Hub) systemNotice(channel, text string) {
	rec := Record{
		Channel:   channel,
		Author:    SystemAuthor,
		Text:      text,
		CreatedAt: h.now(),
		Kind:      KindSystem,
	}
	h.history.Append(rec)
	h.fanout(channel, &Event{Kind: EventSystem, Record: rec})
}

// fanout delivers an event to every current member of the channel. The
// sender is not excluded. Membership IDs are resolved to live clients at
// send time; stale IDs are skipped.
func (h *Hub) fanout(channel string, ev *Event) {
	if channel == GlobalChannel {
		for id, c := range h.clients {
			sess, err := h.registry.Lookup(id)
			if err != nil || !sess.Joined {
				continue
			}
			h.send(c, ev)
		}
		return
	}

	for _, id := range h.members.Members(channel) {
		c, ok := h.clients[id]
		if !ok {
			continue
		}
		h.send(c, ev)
	}
}

func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
		h.log.Warn().Str("client_id", c.ID).Msg("dropping event for slow consumer")
	}
}

func (h *Hub) errorEvent(code, msg string) *Event {
	return &Event{Kind: EventError, At: h.now(), Error: coreError(code, msg)}
}
