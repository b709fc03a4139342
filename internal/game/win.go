// internal/game/win.go
//
// Win detection.
// Responsibilities:
//   - Decide whether a score ends the game (target reached, two-point lead).
//   - List the players credited with a win.

package game

// MinMargin is the lead a team needs over its opponent to win.
const MinMargin = 2

// CheckWinner reports the team that has reached winScore with a lead of at
// least MinMargin. Scores only ever move by one point, so at most one team can
// satisfy both conditions.
func CheckWinner(score Score, winScore int) (Team, bool) {
	for _, t := range []Team{Team1, Team2} {
		if score.Of(t) >= winScore && score.Of(t)-score.Of(t.Other()) >= MinMargin {
			return t, true
		}
	}
	return 0, false
}

// winningPlayers lists the names currently occupying team t's half of the
// court. Empty slots (singles) are skipped.
func winningPlayers(players Players, t Team) []string {
	var out []string
	for _, pos := range TeamPositions(t) {
		if name := players.At(pos); name != "" {
			out = append(out, name)
		}
	}
	return out
}
