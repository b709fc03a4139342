package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/picklescore/internal/game"
	"github.com/robalobadob/picklescore/internal/kv"
)

func finished(winner game.Team, score game.Score) game.FinishedGame {
	return game.FinishedGame{
		Settings: game.Settings{
			Players:          game.Players{BottomRight: "A", BottomLeft: "B", TopLeft: "C", TopRight: "D"},
			FirstServingTeam: game.Team1,
			WinScore:         11,
			Mode:             game.Doubles,
		},
		FinalScore: score,
		Winner:     winner,
	}
}

func TestEmptyHistory(t *testing.T) {
	s := NewStore(kv.NewMemory())
	items, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}

func TestAppendNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory())
	s.now = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) }

	first, err := s.Append(ctx, finished(game.Team1, game.Score{11, 4}))
	require.NoError(t, err)
	second, err := s.Append(ctx, finished(game.Team2, game.Score{9, 11}))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "2026-10-17T09:30:00Z", first.Date)

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second, items[0])
	assert.Equal(t, first, items[1])
	assert.Equal(t, game.Score{9, 11}, items[0].FinalScore)
}

func TestCorruptHistoryStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Put(ctx, Key, []byte("{not json")))
	s := NewStore(store)

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = s.Append(ctx, finished(game.Team1, game.Score{11, 0}))
	require.NoError(t, err)
	items, _ = s.List(ctx)
	assert.Len(t, items, 1)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory())
	_, _ = s.Append(ctx, finished(game.Team1, game.Score{11, 0}))
	require.NoError(t, s.Clear(ctx))
	items, _ := s.List(ctx)
	assert.Empty(t, items)
}

func TestTeamLabels(t *testing.T) {
	it := Item{Settings: finished(game.Team1, game.Score{}).Settings}
	t1, t2 := it.TeamLabels()
	assert.Equal(t, "A & B", t1)
	assert.Equal(t, "C & D", t2)

	it.Settings.Mode = game.Singles
	t1, t2 = it.TeamLabels()
	assert.Equal(t, "A", t1)
	assert.Equal(t, "C", t2)
}
