// internal/announce/compose.go
//
// Turns game facts into the sentences a referee would call out.
//
// Numbers up to twenty are spelled out so speech synthesisers read "zero"
// rather than "oh" or "nought"; anything larger falls back to digits.

package announce

import (
	"strconv"
	"strings"

	"github.com/robalobadob/picklescore/internal/game"
)

var numberWords = [...]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen", "twenty",
}

// NumberWord spells n for speech.
func NumberWord(n int) string {
	if n >= 0 && n < len(numberWords) {
		return numberWords[n]
	}
	return strconv.Itoa(n)
}

// SideOutText is the call made when serve passes to the other team.
const SideOutText = "Side out"

// ScoreText is the score call: serving, receiving and, in doubles, the
// server number.
func ScoreText(serving, receiving, serverNumber int, mode game.Mode) string {
	nums := []int{serving, receiving}
	if mode == game.Doubles {
		nums = append(nums, serverNumber)
	}
	words := make([]string, len(nums))
	for i, n := range nums {
		words[i] = NumberWord(n)
	}
	return strings.Join(words, " ")
}

// ServeText adds who serves and from where to the score call.
func ServeText(serving, receiving, serverNumber int, serverName string, side game.Side, mode game.Mode) string {
	return ScoreText(serving, receiving, serverNumber, mode) + ". " + serverName + " to serve from the " + string(side) + "."
}

// WinnerText congratulates the winners. score is ordered winner first.
func WinnerText(players []string, score [2]int) string {
	return strings.Join(players, " and ") + " win the game, " +
		NumberWord(score[0]) + " to " + NumberWord(score[1]) + "."
}
