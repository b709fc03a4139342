// internal/setup/setup.go
//
// Validation of new-game settings before a game.Machine is built.
// The engine trusts its input; everything it relies on is checked here:
//   - a known mode, a first serving team of 1 or 2, a target of 9 or 11;
//   - every player the mode uses has a non-empty name, and no two share one.
//
// Names are trimmed. Slots the mode does not use (the left-hand slots in
// singles) are cleared so they cannot leak into winner lists.

package setup

import (
	"fmt"
	"strings"

	"github.com/robalobadob/picklescore/internal/game"
)

// WinScores lists the accepted target scores.
var WinScores = []int{9, 11}

// ValidationError reports why settings were rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// UsedPositions returns the slots a mode puts players in.
func UsedPositions(mode game.Mode) []game.Position {
	if mode == game.Singles {
		return []game.Position{game.BottomRight, game.TopLeft}
	}
	return []game.Position{game.TopLeft, game.TopRight, game.BottomLeft, game.BottomRight}
}

// Validate normalises s and checks it. It returns the cleaned settings.
func Validate(s game.Settings) (game.Settings, error) {
	if !s.Mode.Valid() {
		return s, &ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", s.Mode)}
	}
	if !s.FirstServingTeam.Valid() {
		return s, &ValidationError{Field: "firstServingTeam", Reason: "first serving team must be 1 or 2"}
	}
	if !validWinScore(s.WinScore) {
		return s, &ValidationError{Field: "winScore", Reason: "win score must be 9 or 11"}
	}

	used := UsedPositions(s.Mode)
	clean := game.Players{}
	seen := make(map[string]struct{}, len(used))
	for _, pos := range used {
		name := strings.TrimSpace(s.Players.At(pos))
		if _, dup := seen[name]; name == "" || dup {
			return s, &ValidationError{
				Field:  "players",
				Reason: fmt.Sprintf("Each player must have a unique, non-empty name. (%d required)", len(used)),
			}
		}
		seen[name] = struct{}{}
		clean = with(clean, pos, name)
	}
	s.Players = clean
	return s, nil
}

func validWinScore(n int) bool {
	for _, w := range WinScores {
		if n == w {
			return true
		}
	}
	return false
}

func with(p game.Players, pos game.Position, name string) game.Players {
	switch pos {
	case game.TopLeft:
		p.TopLeft = name
	case game.TopRight:
		p.TopRight = name
	case game.BottomLeft:
		p.BottomLeft = name
	case game.BottomRight:
		p.BottomRight = name
	}
	return p
}

// DefaultPlayers are offered when no previous game seeded the form.
func DefaultPlayers(mode game.Mode) game.Players {
	if mode == game.Singles {
		return game.Players{BottomRight: "Player 1", TopLeft: "Player 2"}
	}
	return game.Players{
		TopLeft:     "Player 3",
		TopRight:    "Player 4",
		BottomLeft:  "Player 2",
		BottomRight: "Player 1",
	}
}
