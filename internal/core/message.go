package core

import "time"

// GlobalChannel is the channel every joined client participates in.
const GlobalChannel = "global"

// SystemAuthor is the author name used for relay-generated notices.
const SystemAuthor = "System"

// DefaultName is assigned when a client joins without a username.
const DefaultName = "AnonymousSnake"

// Kind distinguishes user chat from relay-generated notices.
type Kind string

const (
	KindChat   Kind = "chat"
	KindSystem Kind = "system"
)

// Record is the domain model for one accepted chat or system message.
// Records are immutable once constructed.
type Record struct {
	Channel   string
	Author    string
	Text      string
	CreatedAt time.Time
	Kind      Kind
}
