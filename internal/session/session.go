// internal/session/session.go
//
// A Session is one live game as the server sees it.
// Responsibilities:
//   - Own exactly one game.Machine and serialise every call into it
//     (handlers and timer callbacks share one mutex).
//   - Render the machine's facts to text and push them to SSE watchers.
//   - Hand the finished-game record to the history recorder, best effort.
//
// Resetting a game is Close: pending timers are cancelled and watchers are
// disconnected. Nothing carries over into the next Session.

package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/picklescore/internal/announce"
	"github.com/robalobadob/picklescore/internal/game"
	"github.com/robalobadob/picklescore/internal/history"
	"github.com/robalobadob/picklescore/internal/schedule"
	"github.com/robalobadob/picklescore/internal/sse"
)

// Recorder persists finished games. *history.Store satisfies it.
type Recorder interface {
	Append(ctx context.Context, fg game.FinishedGame) (history.Item, error)
}

// Options configures a Session.
type Options struct {
	Scheduler           schedule.Scheduler // defaults to schedule.Real
	Recorder            Recorder           // nil skips persistence
	SideOutDelay        time.Duration
	WinRevealDelay      time.Duration
	WinnerAnnounceDelay time.Duration
	Now                 func() time.Time // defaults to time.Now
}

// recordTimeout bounds the history write made from a timer callback.
const recordTimeout = 5 * time.Second

// Session wraps one game.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	machine  *game.Machine
	narrator *announce.Narrator
	hub      *sse.Hub
	recorder Recorder
	logger   zerolog.Logger
	now      func() time.Time

	lastActive time.Time // last scorekeeper input
	finishedAt time.Time // winner revealed; zero while playing
}

// New starts a game for already-validated settings.
func New(id string, settings game.Settings, opts Options) *Session {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Session{
		ID:        id,
		CreatedAt: now().UTC(),
		hub:       sse.NewHub(),
		recorder:  opts.Recorder,
		logger:    log.With().Str("gameId", id).Logger(),
		now:       now,
	}
	s.lastActive = s.CreatedAt
	s.narrator = announce.NewNarrator(announce.SinkFunc(s.publish), s.logger)

	sched := opts.Scheduler
	if sched == nil {
		sched = schedule.Real{}
	}

	// game.New emits the opening score call; hold the lock like every other
	// entry into the machine.
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine = game.New(settings, game.Options{
		Scheduler:           schedule.Locked(sched, &s.mu),
		Listener:            game.Listeners{s.narrator, finishHook{s: s}},
		SideOutDelay:        opts.SideOutDelay,
		WinRevealDelay:      opts.WinRevealDelay,
		WinnerAnnounceDelay: opts.WinnerAnnounceDelay,
	})
	s.logger.Info().Str("mode", string(settings.Mode)).Int("winScore", settings.WinScore).Msg("game started")
	return s
}

// PointWonBy records a rally and returns the resulting view.
func (s *Session) PointWonBy(team game.Team) (game.Outcome, game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.machine.PointWonBy(team)
	if err != nil {
		return out, s.machine.View(), err
	}
	s.lastActive = s.now()
	s.logger.Debug().Int("team", int(team)).Str("outcome", string(out)).Msg("rally")
	if out == game.OutcomeWin {
		s.publishView() // the winning rally makes no call of its own
	}
	return out, s.machine.View(), nil
}

// Undo reverts the last rally if allowed.
func (s *Session) Undo() (bool, game.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.now()
	ok := s.machine.Undo()
	if ok {
		s.logger.Debug().Msg("undo")
		s.publishView()
	}
	return ok, s.machine.View()
}

// AnnounceServe calls the score and the server. ok is false once the game
// is won.
func (s *Session) AnnounceServe() (announce.Announcement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.now()
	if !s.machine.AnnounceServe() {
		return announce.Announcement{}, false
	}
	return s.narrator.Last()
}

// View returns the current state.
func (s *Session) View() game.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.View()
}

// Settings returns the settings the game started with.
func (s *Session) Settings() game.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Settings()
}

// Expired reports whether the game may be dropped: a finished game once
// grace has passed since the reveal or the last input, any other game once
// idle has passed without input.
func (s *Session) Expired(now time.Time, idle, grace time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := s.lastActive
	if s.machine.Phase() == game.PhaseFinished {
		if s.finishedAt.After(last) {
			last = s.finishedAt
		}
		return now.Sub(last) >= grace
	}
	return now.Sub(last) >= idle
}

// Subscribe attaches an SSE watcher.
func (s *Session) Subscribe() (<-chan sse.Message, func()) { return s.hub.Subscribe() }

// Close cancels pending timers and disconnects watchers.
func (s *Session) Close() {
	s.mu.Lock()
	s.machine.Close()
	s.mu.Unlock()
	s.hub.Close()
	s.logger.Info().Msg("game closed")
}

// publish forwards a rendered announcement to watchers. Called with s.mu held.
func (s *Session) publish(a announce.Announcement) {
	raw, err := json.Marshal(a)
	if err != nil {
		s.logger.Warn().Err(err).Msg("encode announcement")
		return
	}
	s.hub.Publish(sse.Message{Event: string(a.Kind), Data: string(raw)})
	s.publishView()
}

// publishView pushes the full state so watchers can redraw. Called with s.mu
// held.
func (s *Session) publishView() {
	if s.machine == nil {
		return // opening call, emitted from inside game.New
	}
	raw, err := json.Marshal(s.machine.View())
	if err != nil {
		s.logger.Warn().Err(err).Msg("encode view")
		return
	}
	s.hub.Publish(sse.Message{Event: "state", Data: string(raw)})
}

// finishHook persists the finished-game record. It runs inside a timer
// callback, so s.mu is already held.
type finishHook struct {
	game.NopListener
	s *Session
}

func (h finishHook) OnGameFinished(fg game.FinishedGame) {
	s := h.s
	s.finishedAt = s.now()
	s.logger.Info().
		Int("winner", int(fg.Winner)).
		Ints("finalScore", fg.FinalScore[:]).
		Msg("game finished")
	if s.recorder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if it, err := s.recorder.Append(ctx, fg); err != nil {
			s.logger.Warn().Err(err).Msg("record finished game")
		} else {
			s.logger.Info().Str("historyId", it.ID).Msg("finished game recorded")
		}
	}
	if raw, err := json.Marshal(fg); err == nil {
		s.hub.Publish(sse.Message{Event: string(announce.KindFinished), Data: string(raw)})
	}
	s.publishView()
}
