// internal/announce/narrator.go
//
// Narrator turns game facts into Announcements.
// Responsibilities:
//   - Implement game.Listener by composing the referee call for each fact.
//   - Log every call at debug level and hand it to a Sink (the SSE hub).
//   - Remember the latest call so a serve request can be answered directly.

package announce

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/picklescore/internal/game"
)

// Kind classifies an announcement for the transport.
type Kind string

const (
	KindScore    Kind = "score"
	KindSideOut  Kind = "side-out"
	KindWinner   Kind = "winner"
	KindServe    Kind = "serve"
	KindFinished Kind = "finished"
)

// Announcement is one rendered call.
type Announcement struct {
	Kind Kind      `json:"kind"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Sink receives rendered announcements.
type Sink interface {
	Announce(Announcement)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Announcement)

func (f SinkFunc) Announce(a Announcement) { f(a) }

// Narrator is a game.Listener that renders every fact to text, logs it and
// passes it to a Sink. Finished-game records are not its business and are
// ignored here.
type Narrator struct {
	sink   Sink
	logger zerolog.Logger
	now    func() time.Time
	last   *Announcement
}

var _ game.Listener = (*Narrator)(nil)

// NewNarrator builds a Narrator. A nil sink only logs.
func NewNarrator(sink Sink, logger zerolog.Logger) *Narrator {
	return &Narrator{sink: sink, logger: logger, now: time.Now}
}

// Last returns the most recent announcement, if any.
func (n *Narrator) Last() (Announcement, bool) {
	if n.last == nil {
		return Announcement{}, false
	}
	return *n.last, true
}

func (n *Narrator) emit(kind Kind, text string) {
	a := Announcement{Kind: kind, Text: text, At: n.now().UTC()}
	n.last = &a
	n.logger.Debug().Str("kind", string(kind)).Str("text", text).Msg("announce")
	if n.sink != nil {
		n.sink.Announce(a)
	}
}

func (n *Narrator) OnScoreChanged(serving, receiving, number int, mode game.Mode) {
	n.emit(KindScore, ScoreText(serving, receiving, number, mode))
}

func (n *Narrator) OnSideOut() { n.emit(KindSideOut, SideOutText) }

func (n *Narrator) OnWinner(players []string, score [2]int) {
	n.emit(KindWinner, WinnerText(players, score))
}

func (n *Narrator) OnServeAnnounceRequested(serving, receiving, number int, name string, side game.Side, mode game.Mode) {
	n.emit(KindServe, ServeText(serving, receiving, number, name, side, mode))
}

func (n *Narrator) OnGameFinished(game.FinishedGame) {}
