package setup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/picklescore/internal/game"
)

func doubles() game.Settings {
	return game.Settings{
		Players:          game.Players{BottomRight: " A ", BottomLeft: "B", TopLeft: "C", TopRight: "D"},
		FirstServingTeam: game.Team1,
		WinScore:         11,
		Mode:             game.Doubles,
	}
}

func TestValidateTrimsNames(t *testing.T) {
	s, err := Validate(doubles())
	require.NoError(t, err)
	assert.Equal(t, "A", s.Players.BottomRight)
}

func TestValidateSinglesClearsUnusedSlots(t *testing.T) {
	in := doubles()
	in.Mode = game.Singles
	s, err := Validate(in)
	require.NoError(t, err)
	assert.Equal(t, game.Players{BottomRight: "A", TopLeft: "C"}, s.Players)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*game.Settings){
		"mode":          func(s *game.Settings) { s.Mode = "triples" },
		"team":          func(s *game.Settings) { s.FirstServingTeam = 3 },
		"win score":     func(s *game.Settings) { s.WinScore = 15 },
		"empty name":    func(s *game.Settings) { s.Players.TopRight = "  " },
		"duplicate":     func(s *game.Settings) { s.Players.TopRight = "A" },
		"trimmed dupes": func(s *game.Settings) { s.Players.TopRight = "B  " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := doubles()
			mutate(&s)
			_, err := Validate(s)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
		})
	}
}

func TestValidateMessageCountsPlayers(t *testing.T) {
	s := doubles()
	s.Mode = game.Singles
	s.Players.TopLeft = ""
	_, err := Validate(s)
	require.Error(t, err)
	assert.Equal(t, "Each player must have a unique, non-empty name. (2 required)", err.Error())
}

func TestSinglesIgnoresUnusedDuplicates(t *testing.T) {
	s := doubles()
	s.Mode = game.Singles
	s.Players.BottomLeft = "C"
	_, err := Validate(s)
	assert.NoError(t, err)
}
