// internal/game/rotation.go
//
// Court position rules. Everything here is a pure function of canonical
// state; nothing is cached on the Machine.
//
// Doubles: the live Players mapping is ground truth. A player's position is
// whichever slot holds their name, and the serving team's two players swap
// slots each time that team scores.
//
// Singles: the two players never move in the mapping. The server stands on
// the right when their own score is even and on the left when it is odd;
// the receiver stands diagonally opposite.

package game

// ServingSlot is the slot a team's first server occupies after a side-out.
func ServingSlot(t Team) Position {
	if t == Team1 {
		return BottomRight
	}
	return TopLeft
}

// TeamPositions returns the two slots on team t's half, serving slot first.
func TeamPositions(t Team) [2]Position {
	if t == Team1 {
		return [2]Position{BottomRight, BottomLeft}
	}
	return [2]Position{TopLeft, TopRight}
}

// Diagonal returns the slot across the net on the diagonal.
func Diagonal(pos Position) Position {
	switch pos {
	case BottomRight:
		return TopLeft
	case TopLeft:
		return BottomRight
	case BottomLeft:
		return TopRight
	case TopRight:
		return BottomLeft
	}
	return ""
}

// SideOf reports whether pos is the server's right- or left-hand court.
// Both halves are seen from the player's own baseline, so TopLeft is on the
// right for team 2.
func SideOf(pos Position) Side {
	if pos == BottomRight || pos == TopLeft {
		return SideRight
	}
	return SideLeft
}

// swapTeam exchanges the two players on team t's half.
func swapTeam(p Players, t Team) Players {
	if t == Team1 {
		p.BottomLeft, p.BottomRight = p.BottomRight, p.BottomLeft
	} else {
		p.TopLeft, p.TopRight = p.TopRight, p.TopLeft
	}
	return p
}

// teammate returns the other player on team t, looked up from the live
// mapping rather than the setup.
func teammate(p Players, t Team, name string) string {
	for _, pos := range TeamPositions(t) {
		if other := p.At(pos); other != name {
			return other
		}
	}
	return ""
}

// sideOutServer is whoever currently stands in team t's serving slot.
func sideOutServer(p Players, t Team) string {
	return p.At(ServingSlot(t))
}

// singlesServerPosition applies the even-right / odd-left rule to the
// server's own score.
func singlesServerPosition(t Team, own int) Position {
	even := own%2 == 0
	switch {
	case t == Team1 && even:
		return BottomRight
	case t == Team1:
		return BottomLeft
	case even:
		return TopLeft
	default:
		return TopRight
	}
}

// ServerPosition returns where the current server stands.
func ServerPosition(mode Mode, players Players, server ServerState, score Score) (Position, bool) {
	if mode == Singles {
		return singlesServerPosition(server.Team, score.Of(server.Team)), true
	}
	return players.Find(server.PlayerName)
}

// ServingSide returns the side the server serves from. In singles it follows
// the server's score parity directly.
func ServingSide(mode Mode, players Players, server ServerState, score Score) (Side, bool) {
	if mode == Singles {
		if score.Of(server.Team)%2 == 0 {
			return SideRight, true
		}
		return SideLeft, true
	}
	pos, ok := players.Find(server.PlayerName)
	if !ok {
		return "", false
	}
	return SideOf(pos), true
}

// CourtPositions returns the name to draw at each occupied slot.
func CourtPositions(mode Mode, players Players, server ServerState, score Score) map[Position]string {
	out := make(map[Position]string, 4)
	if mode == Doubles {
		for _, pos := range AllPositions {
			out[pos] = players.At(pos)
		}
		return out
	}
	serverPos, _ := ServerPosition(mode, players, server, score)
	receiverPos := Diagonal(serverPos)
	team1, team2 := players.BottomRight, players.TopLeft
	if server.Team == Team1 {
		out[serverPos], out[receiverPos] = team1, team2
	} else {
		out[serverPos], out[receiverPos] = team2, team1
	}
	return out
}
