package core

import "crypto/subtle"

// Credentials is the static table of valid team secrets, teamID -> authorKey.
// It is injected from configuration and never mutated.
type Credentials map[string]string

// Gate validates team join requests against the credential table. It is a
// pure function of its inputs and the table.
type Gate struct {
	creds Credentials
}

// NewGate constructs an authentication gate over the given table.
func NewGate(creds Credentials) *Gate {
	return &Gate{creds: creds}
}

// Authenticate checks team/key against the table. The returned errors
// (ErrUnknownTeam, ErrWrongKey) are for diagnostics only; callers must
// surface the same generic failure to clients for both.
func (g *Gate) Authenticate(team, key string) error {
	want, ok := g.creds[team]
	if !ok {
		return ErrUnknownTeam
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(want)) != 1 {
		return ErrWrongKey
	}
	return nil
}
