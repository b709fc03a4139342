package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/picklescore/internal/announce"
	"github.com/robalobadob/picklescore/internal/game"
	"github.com/robalobadob/picklescore/internal/history"
	"github.com/robalobadob/picklescore/internal/kv"
	"github.com/robalobadob/picklescore/internal/schedule"
	"github.com/robalobadob/picklescore/internal/sse"
)

var settings = game.Settings{
	Players:          game.Players{BottomRight: "A", BottomLeft: "B", TopLeft: "C", TopRight: "D"},
	FirstServingTeam: game.Team1,
	WinScore:         11,
	Mode:             game.Doubles,
}

type failingRecorder struct{ calls int }

func (f *failingRecorder) Append(context.Context, game.FinishedGame) (history.Item, error) {
	f.calls++
	return history.Item{}, errors.New("disk full")
}

func drain(ch <-chan sse.Message) []sse.Message {
	var out []sse.Message
	for {
		select {
		case m := <-ch:
			out = append(out, m)
		default:
			return out
		}
	}
}

func events(msgs []sse.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Event
	}
	return out
}

func TestSessionRecordsFinishedGame(t *testing.T) {
	clock := schedule.NewManual()
	hist := history.NewStore(kv.NewMemory())
	s := New("g1", settings, Options{Scheduler: clock, Recorder: hist})

	for i := 0; i < 11; i++ {
		_, _, err := s.PointWonBy(game.Team1)
		require.NoError(t, err)
	}
	items, err := hist.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items, "nothing is recorded before the reveal")

	clock.Advance(game.DefaultWinRevealDelay)
	items, err = hist.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, game.Team1, items[0].Winner)
	assert.Equal(t, game.Score{11, 0}, items[0].FinalScore)
	assert.Equal(t, settings, items[0].Settings)
}

func TestSessionPublishesAnnouncements(t *testing.T) {
	clock := schedule.NewManual()
	s := New("g2", settings, Options{Scheduler: clock})
	ch, cancel := s.Subscribe()
	defer cancel()

	out, view, err := s.PointWonBy(game.Team2)
	require.NoError(t, err)
	assert.Equal(t, game.OutcomeSideOut, out)
	assert.True(t, view.Transitioning)

	clock.Advance(game.DefaultSideOutDelay)
	msgs := drain(ch)
	assert.Equal(t, []string{"side-out", "state", "score", "state"}, events(msgs))

	var a announce.Announcement
	require.NoError(t, json.Unmarshal([]byte(msgs[2].Data), &a))
	assert.Equal(t, "zero zero one", a.Text)

	var v game.View
	require.NoError(t, json.Unmarshal([]byte(msgs[3].Data), &v))
	assert.False(t, v.Transitioning)
	assert.Equal(t, "C", v.Server.PlayerName)
}

func TestSessionAnnounceServe(t *testing.T) {
	s := New("g3", settings, Options{Scheduler: schedule.NewManual()})
	a, ok := s.AnnounceServe()
	require.True(t, ok)
	assert.Equal(t, announce.KindServe, a.Kind)
	assert.Equal(t, "zero zero two. A to serve from the right.", a.Text)
}

func TestSessionUndo(t *testing.T) {
	s := New("g4", settings, Options{Scheduler: schedule.NewManual()})
	ok, _ := s.Undo()
	assert.False(t, ok)

	_, _, _ = s.PointWonBy(game.Team1)
	ok, v := s.Undo()
	assert.True(t, ok)
	assert.Equal(t, game.Score{0, 0}, v.Score)
}

func TestSessionSurvivesRecorderFailure(t *testing.T) {
	clock := schedule.NewManual()
	rec := &failingRecorder{}
	s := New("g5", settings, Options{Scheduler: clock, Recorder: rec})
	for i := 0; i < 11; i++ {
		_, _, _ = s.PointWonBy(game.Team1)
	}
	clock.Advance(game.DefaultWinRevealDelay + game.DefaultWinnerAnnounceDelay)
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, game.PhaseFinished, s.View().Phase)
}

func TestSessionCloseCancelsTimersAndWatchers(t *testing.T) {
	clock := schedule.NewManual()
	s := New("g6", settings, Options{Scheduler: clock})
	ch, _ := s.Subscribe()

	_, _, _ = s.PointWonBy(game.Team2)
	s.Close()
	assert.Equal(t, 0, clock.Pending())

	drain(ch)
	_, open := <-ch
	assert.False(t, open)

	out, _, err := s.PointWonBy(game.Team1)
	assert.NoError(t, err)
	assert.Equal(t, game.OutcomeIgnored, out)
}

func TestSessionInvalidTeam(t *testing.T) {
	s := New("g7", settings, Options{Scheduler: schedule.NewManual()})
	_, _, err := s.PointWonBy(5)
	assert.ErrorIs(t, err, game.ErrInvalidTeam)
}

func TestRallyIsNotSlowedByStalledWatchers(t *testing.T) {
	s := New("g8", settings, Options{Scheduler: schedule.NewManual()})
	for i := 0; i < 5; i++ {
		_, cancel := s.Subscribe()
		defer cancel()
	}
	// Fill every watcher's buffer.
	for i := 0; i < 10; i++ {
		_, _, err := s.PointWonBy(game.Team1)
		require.NoError(t, err)
		_, _ = s.Undo()
	}

	start := time.Now()
	out, _, err := s.PointWonBy(game.Team1)
	require.NoError(t, err)
	assert.Equal(t, game.OutcomeScored, out)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestSessionExpiry(t *testing.T) {
	const idle, grace = time.Hour, 10 * time.Minute
	clock := schedule.NewManual()
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	now := start
	s := New("g9", settings, Options{Scheduler: clock, Now: func() time.Time { return now }})

	assert.False(t, s.Expired(now.Add(30*time.Minute), idle, grace))
	assert.True(t, s.Expired(now.Add(idle), idle, grace))

	now = start.Add(50 * time.Minute)
	_, _, _ = s.PointWonBy(game.Team1)
	assert.False(t, s.Expired(start.Add(idle), idle, grace), "input resets the idle clock")

	for i := 0; i < 10; i++ {
		_, _, _ = s.PointWonBy(game.Team1)
	}
	clock.Advance(game.DefaultWinRevealDelay)
	require.Equal(t, game.PhaseFinished, s.View().Phase)
	assert.False(t, s.Expired(now.Add(grace-time.Second), idle, grace))
	assert.True(t, s.Expired(now.Add(grace), idle, grace), "finished games go after the grace period")
}
