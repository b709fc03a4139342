// internal/game/types.go
//
// Core type definitions for the pickleball scoring engine.
// Defines:
//   - Team, Position, Mode, Side: the small enums the rules are written in.
//   - Players: who stands where on the court.
//   - Settings: everything needed to start a game.
//   - Score, ServerState, WinnerRecord: the live state of one game.
//   - View: the read-only snapshot handed to the presentation layer.

package game

import "strconv"

// Team identifies one side of the net. Team 1 plays the bottom half of the
// court, team 2 the top half.
type Team int

const (
	Team1 Team = 1
	Team2 Team = 2
)

// Valid reports whether t is 1 or 2.
func (t Team) Valid() bool { return t == Team1 || t == Team2 }

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == Team1 {
		return Team2
	}
	return Team1
}

func (t Team) index() int { return int(t) - 1 }

// Position is one of the four service courts.
type Position string

const (
	TopLeft     Position = "topLeft"
	TopRight    Position = "topRight"
	BottomLeft  Position = "bottomLeft"
	BottomRight Position = "bottomRight"
)

// AllPositions lists the court positions in rendering order.
var AllPositions = []Position{TopLeft, TopRight, BottomLeft, BottomRight}

// Mode selects singles or doubles rules.
type Mode string

const (
	Singles Mode = "singles"
	Doubles Mode = "doubles"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == Singles || m == Doubles }

// Side is the half of the service court the server serves from.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Players maps each court position to a player name.
// In singles only BottomRight (team 1) and TopLeft (team 2) are used.
type Players struct {
	TopLeft     string `json:"topLeft"`
	TopRight    string `json:"topRight"`
	BottomLeft  string `json:"bottomLeft"`
	BottomRight string `json:"bottomRight"`
}

// At returns the name standing at pos.
func (p Players) At(pos Position) string {
	switch pos {
	case TopLeft:
		return p.TopLeft
	case TopRight:
		return p.TopRight
	case BottomLeft:
		return p.BottomLeft
	case BottomRight:
		return p.BottomRight
	}
	return ""
}

// Find returns the position occupied by name.
func (p Players) Find(name string) (Position, bool) {
	for _, pos := range AllPositions {
		if p.At(pos) == name {
			return pos, true
		}
	}
	return "", false
}

// Settings is the input to New: one per game.
type Settings struct {
	Players          Players `json:"players"`
	FirstServingTeam Team    `json:"firstServingTeam"`
	WinScore         int     `json:"winScore"` // 9 or 11
	Mode             Mode    `json:"mode"`
}

// Score holds points for team 1 and team 2, in that order.
type Score [2]int

// Of returns the points of team t.
func (s Score) Of(t Team) int { return s[t.index()] }

// ServingOrder returns (serving team's points, receiving team's points).
func (s Score) ServingOrder(serving Team) (int, int) {
	return s.Of(serving), s.Of(serving.Other())
}

// ServerState identifies who holds serve.
type ServerState struct {
	Team       Team   `json:"team"`
	PlayerName string `json:"playerName"`
	// Number is 1 or 2: first or second server of the team in doubles.
	// Singles always carries 1.
	Number int `json:"serverNumber"`
}

// WinnerRecord is captured the moment the win condition is met.
type WinnerRecord struct {
	Team    Team     `json:"team"`
	Score   Score    `json:"score"`
	Players []string `json:"players"`
}

// Phase is the coarse, timer-driven state of a game.
type Phase string

const (
	PhasePlaying        Phase = "playing"
	PhaseSideOutPending Phase = "side_out_pending"
	PhaseWinPending     Phase = "win_pending"
	PhaseFinished       Phase = "finished"
)

// Outcome reports what a call to PointWonBy did.
type Outcome string

const (
	OutcomeIgnored      Outcome = "ignored"
	OutcomeScored       Outcome = "scored"
	OutcomeSecondServer Outcome = "second_server"
	OutcomeSideOut      Outcome = "side_out"
	OutcomeWin          Outcome = "win"
)

// View is the readable snapshot of a game. All derived fields are computed
// from canonical state when the view is built.
type View struct {
	Mode           Mode                `json:"mode"`
	WinScore       int                 `json:"winScore"`
	Players        Players             `json:"players"`
	Score          Score               `json:"score"`
	Server         ServerState         `json:"serverState"`
	ServerPosition Position            `json:"serverPosition,omitempty"`
	ServerSide     Side                `json:"serverSide,omitempty"`
	Court          map[Position]string `json:"court"`
	Display        string              `json:"display"`
	Phase          Phase               `json:"phase"`
	Transitioning  bool                `json:"transitioning"`
	Winner         *Team               `json:"winner"`
	WinnerRecord   *WinnerRecord       `json:"winnerRecord"`
	CanUndo        bool                `json:"canUndo"`
}

// FinishedGame is what the host persists once a winner is revealed.
type FinishedGame struct {
	Settings   Settings `json:"settings"`
	FinalScore Score    `json:"finalScore"`
	Winner     Team     `json:"winner"`
}

// ScoreDisplay renders the conventional score call: serving team first,
// then receiving team, then (doubles only) the server number.
func ScoreDisplay(mode Mode, score Score, server ServerState) string {
	serving, receiving := score.ServingOrder(server.Team)
	out := strconv.Itoa(serving) + "-" + strconv.Itoa(receiving)
	if mode == Doubles {
		out += "-" + strconv.Itoa(server.Number)
	}
	return out
}
