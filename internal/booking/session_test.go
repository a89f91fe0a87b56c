package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextControlState(t *testing.T) {
	tests := []struct {
		from  ControlState
		event ControlEvent
		want  ControlState
	}{
		{ControlUnlocked, EventClubFixed, ControlLocked},
		{ControlLocked, EventClubFixed, ControlLocked},
		{ControlLocked, EventClubReleased, ControlUnlocked},
		{ControlUnlocked, EventClubReleased, ControlUnlocked},
		{ControlLocked, EventUserEdit, ControlLocked},
		{ControlUnlocked, EventUserEdit, ControlUnlocked},
		{"", EventUserEdit, ControlUnlocked},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NextControlState(tt.from, tt.event), "%s + %d", tt.from, tt.event)
	}
}

func TestSessionClubLock(t *testing.T) {
	s := NewSession("s1", now)
	require.False(t, s.Locked())

	require.NoError(t, s.ChooseClub("a@club"))
	assert.Equal(t, "a@club", s.EffectiveClub())

	s.Region, s.Locality = "Córdoba", "Villa Maria"
	s.FixClub("b@club")
	assert.True(t, s.Locked())
	assert.Equal(t, "b@club", s.EffectiveClub())
	assert.Empty(t, s.Region)
	assert.Empty(t, s.Locality)

	require.ErrorIs(t, s.ChooseClub("c@club"), ErrClubLocked)
	assert.Equal(t, "b@club", s.EffectiveClub())
	assert.True(t, s.Locked())

	s.ReleaseClub()
	assert.False(t, s.Locked())
	require.NoError(t, s.ChooseClub("c@club"))
	assert.Equal(t, "c@club", s.EffectiveClub())
}

func TestInputError(t *testing.T) {
	ie := NewInputError()
	require.NoError(t, ie.OrNil())

	ie.Add("date", "provide date")
	err := ie.OrNil()
	require.Error(t, err)

	got := IsInputError(err)
	require.NotNil(t, got)
	assert.Equal(t, map[string][]string{"date": {"provide date"}}, got.Fields())
	assert.Nil(t, IsInputError(ErrNoSelection))
}
