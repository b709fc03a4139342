// internal/game/engine.go
//
// Serve-rotation and scoring state machine for a single pickleball game.
// Responsibilities:
//   - Apply rally results: points for the serving team, second-server and
//     side-out transitions for the receiving team.
//   - Enforce the doubles first-serve-of-game exception.
//   - Detect wins (target score and two-point margin) and reveal them after a
//     presentation delay.
//   - Keep a pre-mutation snapshot of every change so Undo can walk back one
//     rally at a time, including out of a finished game.
//
// Notes:
//   - A Machine is not safe for concurrent use. Callers drive it from one
//     logical actor and give it a Scheduler whose callbacks are serialised
//     with their own calls (see schedule.Locked).
//   - Calls that arrive while a side-out or win is being presented are
//     absorbed as no-ops; only an invalid team is reported as an error.

package game

import (
	"errors"
	"time"

	"github.com/robalobadob/picklescore/internal/schedule"
)

// Presentation delays used when Options leaves them zero.
const (
	DefaultSideOutDelay        = 2500 * time.Millisecond
	DefaultWinRevealDelay      = 2500 * time.Millisecond
	DefaultWinnerAnnounceDelay = 500 * time.Millisecond
)

// ErrInvalidTeam is returned by PointWonBy for a team other than 1 or 2.
var ErrInvalidTeam = errors.New("invalid team")

// Options carries a Machine's collaborators.
type Options struct {
	Scheduler           schedule.Scheduler // defaults to schedule.Real
	Listener            Listener           // defaults to NopListener
	SideOutDelay        time.Duration
	WinRevealDelay      time.Duration
	WinnerAnnounceDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Scheduler == nil {
		o.Scheduler = schedule.Real{}
	}
	if o.Listener == nil {
		o.Listener = NopListener{}
	}
	if o.SideOutDelay <= 0 {
		o.SideOutDelay = DefaultSideOutDelay
	}
	if o.WinRevealDelay <= 0 {
		o.WinRevealDelay = DefaultWinRevealDelay
	}
	if o.WinnerAnnounceDelay <= 0 {
		o.WinnerAnnounceDelay = DefaultWinnerAnnounceDelay
	}
	return o
}

// Machine owns the state of one game.
type Machine struct {
	settings Settings
	opts     Options

	players      Players
	score        Score
	server       ServerState
	firstServe   bool
	winner       *Team
	winnerRecord *WinnerRecord
	isFinishing  bool

	transitioning bool
	history       history

	// gen invalidates callbacks scheduled before an Undo or Close.
	gen           int
	sideOutTimer  schedule.Timer
	revealTimer   schedule.Timer
	announceTimer schedule.Timer

	finishedReported bool
	closed           bool
}

// New starts a game. settings must already have passed setup validation.
// Doubles opens on server number 2 (the starting team gets only one server
// before its first side-out); singles opens on 1.
func New(settings Settings, opts Options) *Machine {
	m := &Machine{
		settings:   settings,
		opts:       opts.withDefaults(),
		players:    settings.Players,
		firstServe: settings.Mode == Doubles,
	}
	number := 1
	if settings.Mode == Doubles {
		number = 2
	}
	m.server = ServerState{
		Team:       settings.FirstServingTeam,
		PlayerName: sideOutServer(settings.Players, settings.FirstServingTeam),
		Number:     number,
	}
	m.emitScore()
	return m
}

// PointWonBy records a rally won by team.
//
// Serving team wins: it scores, and in doubles its two players swap sides.
// Receiving team wins: a fault. Singles always sides out; doubles passes the
// serve to the second server unless this is already the second server or the
// opening serve of the game.
func (m *Machine) PointWonBy(team Team) (Outcome, error) {
	if !team.Valid() {
		return OutcomeIgnored, ErrInvalidTeam
	}
	if m.closed || m.winner != nil || m.isFinishing || m.transitioning {
		return OutcomeIgnored, nil
	}

	m.history.push(m.snapshot())

	if team == m.server.Team {
		m.score[team.index()]++
		if m.settings.Mode == Doubles {
			m.players = swapTeam(m.players, team)
		}
		if w, ok := CheckWinner(m.score, m.settings.WinScore); ok {
			m.beginWin(w)
			return OutcomeWin, nil
		}
		m.emitScore()
		return OutcomeScored, nil
	}

	switch {
	case m.settings.Mode == Singles:
		m.sideOut()
		return OutcomeSideOut, nil
	case m.firstServe:
		m.firstServe = false
		m.sideOut()
		return OutcomeSideOut, nil
	case m.server.Number == 1:
		m.server.PlayerName = teammate(m.players, m.server.Team, m.server.PlayerName)
		m.server.Number = 2
		m.emitScore()
		return OutcomeSecondServer, nil
	default:
		m.sideOut()
		return OutcomeSideOut, nil
	}
}

// Undo restores the state from before the most recent PointWonBy. It reports
// false when there is nothing to undo or a presentation window blocks it.
func (m *Machine) Undo() bool {
	if !m.undoAllowed() {
		return false
	}
	s, ok := m.history.pop()
	if !ok {
		return false
	}
	m.players = s.players
	m.score = s.score
	m.server = s.server
	m.firstServe = s.firstServe
	m.winner = s.winner
	m.winnerRecord = s.winnerRecord
	m.isFinishing = s.isFinishing

	m.gen++
	stop(&m.revealTimer)
	stop(&m.announceTimer)
	return true
}

func (m *Machine) undoAllowed() bool {
	if m.closed || m.transitioning {
		return false
	}
	// The win is being revealed; undo opens up once the winner is visible.
	if m.isFinishing && m.winner == nil {
		return false
	}
	return true
}

// AnnounceServe asks the listener to call the score and the server. It does
// not change state and may be repeated. It reports false once a winner is
// visible or if the server cannot be placed on the court.
func (m *Machine) AnnounceServe() bool {
	if m.closed || m.winner != nil {
		return false
	}
	side, ok := ServingSide(m.settings.Mode, m.players, m.server, m.score)
	if !ok {
		return false
	}
	serving, receiving := m.score.ServingOrder(m.server.Team)
	m.opts.Listener.OnServeAnnounceRequested(serving, receiving, m.server.Number, m.server.PlayerName, side, m.settings.Mode)
	return true
}

// Close cancels every pending timer. The Machine ignores all further input.
func (m *Machine) Close() {
	m.closed = true
	m.gen++
	stop(&m.sideOutTimer)
	stop(&m.revealTimer)
	stop(&m.announceTimer)
}

// Phase derives the timed state from canonical fields.
func (m *Machine) Phase() Phase {
	switch {
	case m.winner != nil:
		return PhaseFinished
	case m.isFinishing:
		return PhaseWinPending
	case m.transitioning:
		return PhaseSideOutPending
	default:
		return PhasePlaying
	}
}

// Settings returns the settings the game was started with.
func (m *Machine) Settings() Settings { return m.settings }

// View builds the readable snapshot.
func (m *Machine) View() View {
	mode := m.settings.Mode
	v := View{
		Mode:          mode,
		WinScore:      m.settings.WinScore,
		Players:       m.players,
		Score:         m.score,
		Server:        m.server,
		Court:         CourtPositions(mode, m.players, m.server, m.score),
		Display:       ScoreDisplay(mode, m.score, m.server),
		Phase:         m.Phase(),
		Transitioning: m.transitioning,
		Winner:        m.winner,
		WinnerRecord:  m.winnerRecord,
		CanUndo:       m.history.size() > 0 && m.undoAllowed(),
	}
	if pos, ok := ServerPosition(mode, m.players, m.server, m.score); ok {
		v.ServerPosition = pos
	}
	if side, ok := ServingSide(mode, m.players, m.server, m.score); ok {
		v.ServerSide = side
	}
	return v
}

func (m *Machine) snapshot() snapshot {
	return snapshot{
		players:      m.players,
		score:        m.score,
		server:       m.server,
		firstServe:   m.firstServe,
		winner:       m.winner,
		winnerRecord: m.winnerRecord,
		isFinishing:  m.isFinishing,
	}
}

func (m *Machine) emitScore() {
	serving, receiving := m.score.ServingOrder(m.server.Team)
	m.opts.Listener.OnScoreChanged(serving, receiving, m.server.Number, m.settings.Mode)
}

// sideOut hands the serve to the other team. The new server is whoever
// stands in that team's serving slot now, which after earlier swaps need not
// be the player set up there.
func (m *Machine) sideOut() {
	next := m.server.Team.Other()
	m.server = ServerState{
		Team:       next,
		PlayerName: sideOutServer(m.players, next),
		Number:     1,
	}
	m.transitioning = true
	m.opts.Listener.OnSideOut()

	gen := m.gen
	m.sideOutTimer = m.opts.Scheduler.AfterFunc(m.opts.SideOutDelay, func() {
		if m.stale(gen) {
			return
		}
		m.sideOutTimer = nil
		m.transitioning = false
		m.emitScore()
	})
}

// beginWin blocks further rallies and captures the winners as they stand
// right now. The record is part of the state the next snapshot copies, so
// undoing the winning rally drops it too.
func (m *Machine) beginWin(w Team) {
	m.isFinishing = true
	m.winnerRecord = &WinnerRecord{
		Team:    w,
		Score:   m.score,
		Players: winningPlayers(m.players, w),
	}

	gen := m.gen
	m.revealTimer = m.opts.Scheduler.AfterFunc(m.opts.WinRevealDelay, func() {
		if m.stale(gen) {
			return
		}
		m.revealTimer = nil
		m.revealWinner(gen)
	})
}

func (m *Machine) revealWinner(gen int) {
	rec := m.winnerRecord
	t := rec.Team
	m.winner = &t

	if !m.finishedReported {
		m.finishedReported = true
		m.opts.Listener.OnGameFinished(FinishedGame{
			Settings:   m.settings,
			FinalScore: rec.Score,
			Winner:     t,
		})
	}

	m.announceTimer = m.opts.Scheduler.AfterFunc(m.opts.WinnerAnnounceDelay, func() {
		if m.stale(gen) {
			return
		}
		m.announceTimer = nil
		ordered := [2]int{rec.Score.Of(t), rec.Score.Of(t.Other())}
		m.opts.Listener.OnWinner(rec.Players, ordered)
	})
}

func (m *Machine) stale(gen int) bool { return m.closed || gen != m.gen }

func stop(t *schedule.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
