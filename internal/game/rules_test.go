package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckWinner(t *testing.T) {
	cases := []struct {
		score    Score
		winScore int
		want     Team
		ok       bool
	}{
		{Score{11, 9}, 11, Team1, true},
		{Score{11, 10}, 11, 0, false},
		{Score{12, 10}, 11, Team1, true},
		{Score{10, 12}, 11, Team2, true},
		{Score{10, 0}, 11, 0, false},
		{Score{9, 7}, 9, Team1, true},
		{Score{9, 8}, 9, 0, false},
		{Score{0, 0}, 11, 0, false},
	}
	for _, c := range cases {
		got, ok := CheckWinner(c.score, c.winScore)
		assert.Equal(t, c.ok, ok, "%v to %d", c.score, c.winScore)
		assert.Equal(t, c.want, got, "%v to %d", c.score, c.winScore)
	}
}

func TestDiagonalIsInvolution(t *testing.T) {
	for _, pos := range AllPositions {
		assert.Equal(t, pos, Diagonal(Diagonal(pos)))
		assert.NotEqual(t, pos, Diagonal(pos))
	}
	assert.Equal(t, TopLeft, Diagonal(BottomRight))
	assert.Equal(t, TopRight, Diagonal(BottomLeft))
}

func TestServerPositionSingles(t *testing.T) {
	p := Players{BottomRight: "Sam", TopLeft: "Kim"}
	cases := []struct {
		team  Team
		score Score
		want  Position
	}{
		{Team1, Score{0, 5}, BottomRight},
		{Team1, Score{1, 5}, BottomLeft},
		{Team1, Score{2, 5}, BottomRight},
		{Team2, Score{3, 0}, TopLeft},
		{Team2, Score{3, 1}, TopRight},
	}
	for _, c := range cases {
		got, ok := ServerPosition(Singles, p, ServerState{Team: c.team, Number: 1}, c.score)
		assert.True(t, ok)
		assert.Equal(t, c.want, got, "team %d score %v", c.team, c.score)
	}
}

func TestServerPositionDoublesUnknownName(t *testing.T) {
	_, ok := ServerPosition(Doubles, doublesPlayers, ServerState{Team: Team1, PlayerName: "Z"}, Score{})
	assert.False(t, ok)
	_, ok = ServingSide(Doubles, doublesPlayers, ServerState{Team: Team1, PlayerName: "Z"}, Score{})
	assert.False(t, ok)
}

func TestSwapAndTeammate(t *testing.T) {
	p := swapTeam(doublesPlayers, Team2)
	assert.Equal(t, "D", p.TopLeft)
	assert.Equal(t, "C", p.TopRight)
	assert.Equal(t, "A", p.BottomRight)

	assert.Equal(t, "C", teammate(p, Team2, "D"))
	assert.Equal(t, "B", teammate(p, Team1, "A"))
	assert.Equal(t, "D", sideOutServer(p, Team2))
}

func TestScoreDisplay(t *testing.T) {
	server := ServerState{Team: Team2, Number: 1}
	assert.Equal(t, "4-7-1", ScoreDisplay(Doubles, Score{7, 4}, server))
	assert.Equal(t, "4-7", ScoreDisplay(Singles, Score{7, 4}, server))
}

func TestHistoryIsLIFO(t *testing.T) {
	var h history
	_, ok := h.pop()
	assert.False(t, ok)

	h.push(snapshot{score: Score{1, 0}})
	h.push(snapshot{score: Score{2, 0}})
	assert.Equal(t, 2, h.size())

	s, ok := h.pop()
	assert.True(t, ok)
	assert.Equal(t, Score{2, 0}, s.score)
	s, _ = h.pop()
	assert.Equal(t, Score{1, 0}, s.score)
	assert.Equal(t, 0, h.size())
}
