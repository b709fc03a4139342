// internal/game/events.go
//
// Facts a Machine reports to the outside world.
// Responsibilities:
//   - The Listener interface (score calls, side-out, winner, serve call,
//     finished-game record).
//   - NopListener for callers that only need some facts, and Listeners for
//     fan-out to several.

package game

// Listener receives the facts a Machine emits. Implementations render them
// (speech, text, logs); the engine does not care how.
//
// Calls are made synchronously from inside Machine methods and timer
// callbacks, so a Listener must not call back into the Machine.
type Listener interface {
	// OnScoreChanged follows every score- or server-affecting change other
	// than a side-out or a win.
	OnScoreChanged(servingScore, receivingScore, serverNumber int, mode Mode)
	// OnSideOut fires once when the side-out window opens.
	OnSideOut()
	// OnWinner fires once the win has been revealed. finalScore is ordered
	// winner first.
	OnWinner(winningPlayers []string, finalScore [2]int)
	// OnServeAnnounceRequested answers an explicit request to call the score
	// and the server.
	OnServeAnnounceRequested(servingScore, receivingScore, serverNumber int, serverName string, side Side, mode Mode)
	// OnGameFinished hands the host the record to persist. It fires at most
	// once per Machine, when the winner becomes visible.
	OnGameFinished(FinishedGame)
}

// NopListener ignores everything.
type NopListener struct{}

func (NopListener) OnScoreChanged(int, int, int, Mode) {}
func (NopListener) OnSideOut() {}
func (NopListener) OnWinner([]string, [2]int) {}
func (NopListener) OnServeAnnounceRequested(int, int, int, string, Side, Mode) {}
func (NopListener) OnGameFinished(FinishedGame) {}

// Listeners fans every fact out to each member in order.
type Listeners []Listener

func (ls Listeners) OnScoreChanged(s, r, n int, mode Mode) {
	for _, l := range ls {
		l.OnScoreChanged(s, r, n, mode)
	}
}

func (ls Listeners) OnSideOut() {
	for _, l := range ls {
		l.OnSideOut()
	}
}

func (ls Listeners) OnWinner(players []string, score [2]int) {
	for _, l := range ls {
		l.OnWinner(players, score)
	}
}

func (ls Listeners) OnServeAnnounceRequested(s, r, n int, name string, side Side, mode Mode) {
	for _, l := range ls {
		l.OnServeAnnounceRequested(s, r, n, name, side, mode)
	}
}

func (ls Listeners) OnGameFinished(fg FinishedGame) {
	for _, l := range ls {
		l.OnGameFinished(fg)
	}
}
