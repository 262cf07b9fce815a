package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("c1"))

	sess, err := r.Lookup("c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", sess.ConnID)
	assert.False(t, sess.Joined)
	assert.Empty(t, sess.Name)
	assert.Empty(t, sess.Team)
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("c1"))
	assert.ErrorIs(t, r.Register("c1"), ErrDuplicateRegistration)
}

func TestRegistryLookupUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("ghost")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistryMarkJoined(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("c1"))

	sess, err := r.MarkJoined("c1", "alice")
	require.NoError(t, err)
	assert.True(t, sess.Joined)
	assert.Equal(t, "alice", sess.Name)

	// Second call only updates the name.
	sess, err = r.MarkJoined("c1", "alicia")
	require.NoError(t, err)
	assert.True(t, sess.Joined)
	assert.Equal(t, "alicia", sess.Name)
}

func TestRegistryMarkJoinedDefaultName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("c1"))

	sess, err := r.MarkJoined("c1", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultName, sess.Name)
}

func TestRegistrySetTeamFirstWriteWins(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("c1"))

	sess, err := r.SetTeam("c1", "REKT")
	require.NoError(t, err)
	assert.Equal(t, "REKT", sess.Team)

	sess, err = r.SetTeam("c1", "HISS")
	require.NoError(t, err)
	assert.Equal(t, "REKT", sess.Team, "team affiliation is immutable once set")
}

func TestRegistryRemoveReturnsLastState(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("c1"))
	_, err := r.MarkJoined("c1", "alice")
	require.NoError(t, err)
	_, err = r.SetTeam("c1", "REKT")
	require.NoError(t, err)

	sess, err := r.Remove("c1")
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Name)
	assert.Equal(t, "REKT", sess.Team)
	assert.True(t, sess.Joined)

	_, err = r.Remove("c1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = r.Lookup("c1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
