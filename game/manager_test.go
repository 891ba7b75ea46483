package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateRoom(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "naruto")

	assert.Len(t, f.roomID, 6)
	assert.Equal(t, f.roomID, strings.ToUpper(f.roomID))

	state := f.snapshot(t)
	assert.Equal(t, PhaseLobby, state.GameState)
	require.Len(t, state.Players, 1)
	assert.True(t, state.Players[0].IsHost)
	assert.Equal(t, "naruto", state.Players[0].Name)
	assert.Equal(t, DefaultSettings(), state.Settings)
}

func TestJoinRoom(t *testing.T) {
	t.Parallel()

	t.Run("unknown code", func(t *testing.T) {
		f := newFixture(t, "host")
		assert.ErrorIs(t, f.manager.JoinRoom("NOSUCH", "p2", "guest"), ErrRoomNotFound)
	})

	t.Run("full room rejects the join", func(t *testing.T) {
		f := newFixture(t, "host")
		require.NoError(t, f.manager.UpdateSettings(f.roomID, f.hostID, SettingsPatch{MaxPlayers: intp(2)}))
		require.NoError(t, f.manager.JoinRoom(f.roomID, "p2", "second"))
		assert.ErrorIs(t, f.manager.JoinRoom(f.roomID, "p3", "third"), ErrRoomFull)
	})

	t.Run("mid-game joiner is a full participant", func(t *testing.T) {
		f := newFixture(t, "host", "guest")
		f.classifier.On("Predict", mock.Anything, mock.Anything).Return(aiResult("submarine"), nil)
		f.startRound(t)
		drawer := f.drawerID(t)
		require.NoError(t, f.manager.AddStroke(f.roomID, drawer, Stroke{{1}, {1}}))
		require.NoError(t, f.manager.EndDrawing(f.roomID, drawer))

		require.NoError(t, f.manager.JoinRoom(f.roomID, "late", "latecomer"))

		// The original guesser answering no longer ends the phase: the
		// latecomer counts toward the everyone-has-guessed check.
		for _, id := range f.guesserIDs(t) {
			require.NoError(t, f.manager.SubmitGuess(f.roomID, id, "wrong"))
		}
		assert.Equal(t, PhaseGuessing, f.snapshot(t).GameState)

		require.NoError(t, f.manager.SubmitGuess(f.roomID, "late", "wrong too"))
		assert.Equal(t, PhaseResults, f.snapshot(t).GameState)
	})
}

func TestLeaveRoom(t *testing.T) {
	t.Parallel()

	t.Run("unknown player", func(t *testing.T) {
		f := newFixture(t, "host")
		assert.ErrorIs(t, f.manager.LeaveRoom(f.roomID, "ghost"), ErrPlayerNotFound)
	})

	t.Run("host role moves to the longest-present player", func(t *testing.T) {
		f := newFixture(t, "host", "second", "third")
		require.NoError(t, f.manager.LeaveRoom(f.roomID, f.hostID))

		state := f.snapshot(t)
		require.Len(t, state.Players, 2)
		assert.Equal(t, "second", state.Players[0].Name)
		assert.True(t, state.Players[0].IsHost)
		assert.False(t, state.Players[1].IsHost)

		// The new host holds the host-only operations.
		assert.NoError(t, f.manager.StartGame(f.roomID, "player-second"))
	})

	t.Run("last player leaving destroys the room", func(t *testing.T) {
		f := newFixture(t, "host")
		require.NoError(t, f.manager.LeaveRoom(f.roomID, f.hostID))

		_, err := f.manager.Snapshot(f.roomID)
		assert.ErrorIs(t, err, ErrRoomNotFound)
		assert.ErrorIs(t, f.manager.JoinRoom(f.roomID, "p2", "late"), ErrRoomNotFound)
	})
}

func TestRoomIDByPlayer(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "host", "guest")

	id, ok := f.manager.RoomIDByPlayer("player-guest")
	require.True(t, ok)
	assert.Equal(t, f.roomID, id)

	_, ok = f.manager.RoomIDByPlayer("nobody")
	assert.False(t, ok)
}

func TestUpdateSettings(t *testing.T) {
	t.Parallel()

	t.Run("host only", func(t *testing.T) {
		f := newFixture(t, "host", "guest")
		err := f.manager.UpdateSettings(f.roomID, "player-guest", SettingsPatch{MaxRounds: intp(3)})
		assert.ErrorIs(t, err, ErrNotHost)
	})

	t.Run("values are clamped per key", func(t *testing.T) {
		f := newFixture(t, "host")
		require.NoError(t, f.manager.UpdateSettings(f.roomID, f.hostID, SettingsPatch{
			DrawingTimeSeconds:  intp(5),      // below floor
			GuessingTimeSeconds: intp(100000), // above ceiling
			AITopN:              intp(0),
			ActiveCategoryCount: intp(1000), // larger than the catalog
			MaxRounds:           intp(3),
		}))

		s := f.snapshot(t).Settings
		assert.Equal(t, 10, s.DrawingTimeSeconds)
		assert.Equal(t, 300, s.GuessingTimeSeconds)
		assert.Equal(t, 1, s.AITopN)
		assert.Equal(t, len(testCategories), s.ActiveCategoryCount)
		assert.Equal(t, 3, s.MaxRounds)
	})

	t.Run("nil fields leave the current value untouched", func(t *testing.T) {
		f := newFixture(t, "host")
		require.NoError(t, f.manager.UpdateSettings(f.roomID, f.hostID, SettingsPatch{MaxRounds: intp(3)}))

		s := f.snapshot(t).Settings
		want := DefaultSettings()
		want.MaxRounds = 3
		assert.Equal(t, want, s)
	})

	t.Run("unknown scoring mode is ignored", func(t *testing.T) {
		f := newFixture(t, "host")
		bogus := ScoringMode("everyone")
		require.NoError(t, f.manager.UpdateSettings(f.roomID, f.hostID, SettingsPatch{ScoringMode: &bogus}))
		assert.Equal(t, ScoreDrawerOnly, f.snapshot(t).Settings.ScoringMode)
	})
}
