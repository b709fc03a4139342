package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/picklescore/internal/game"
	"github.com/robalobadob/picklescore/internal/schedule"
	"github.com/robalobadob/picklescore/internal/session"
)

func newSession(id string, players game.Players, mode game.Mode) *session.Session {
	return session.New(id, game.Settings{
		Players:          players,
		FirstServingTeam: game.Team1,
		WinScore:         11,
		Mode:             mode,
	}, session.Options{Scheduler: schedule.NewManual()})
}

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession("a", game.Players{BottomRight: "P", TopLeft: "Q"}, game.Singles)
	require.NoError(t, st.Save(ctx, s))

	got, err := st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, st.Delete(ctx, "a"))
	_, err = st.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Delete(ctx, "a"), ErrNotFound)
}

func TestDeleteClosesSession(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession("a", game.Players{BottomRight: "P", TopLeft: "Q"}, game.Singles)
	require.NoError(t, st.Save(ctx, s))
	ch, _ := s.Subscribe()

	require.NoError(t, st.Delete(ctx, "a"))
	for range ch {
	}
	out, _, err := s.PointWonBy(game.Team1)
	require.NoError(t, err)
	assert.Equal(t, game.OutcomeIgnored, out)
}

func TestLastPlayers(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	_, _, ok := st.LastPlayers(ctx)
	assert.False(t, ok)

	first := game.Players{BottomRight: "A", BottomLeft: "B", TopLeft: "C", TopRight: "D"}
	second := game.Players{BottomRight: "E", TopLeft: "F"}
	require.NoError(t, st.Save(ctx, newSession("1", first, game.Doubles)))
	require.NoError(t, st.Save(ctx, newSession("2", second, game.Singles)))

	p, mode, ok := st.LastPlayers(ctx)
	require.True(t, ok)
	assert.Equal(t, second, p)
	assert.Equal(t, game.Singles, mode)
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	players := game.Players{BottomRight: "P", TopLeft: "Q"}
	keep := newSession("keep", players, game.Singles)
	drop := newSession("drop", players, game.Singles)
	require.NoError(t, st.Save(ctx, keep))
	require.NoError(t, st.Save(ctx, drop))
	ch, _ := drop.Subscribe()

	ids := st.Prune(ctx, func(s *session.Session) bool { return s.ID == "drop" })
	assert.Equal(t, []string{"drop"}, ids)

	_, err := st.Get(ctx, "drop")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(ctx, "keep")
	assert.NoError(t, err)

	for range ch {
	}
	_, _, ok := st.LastPlayers(ctx)
	assert.True(t, ok, "pruning keeps the last-used players")
}
