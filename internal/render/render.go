// Package render draws boards and scores as plain text.
package render

import (
	"fmt"
	"io"
	"strings"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

const (
	SymbolEmpty = '.'
	SymbolShip  = 'S'
	SymbolHit   = 'x'
	SymbolMiss  = 'o'

	boardGap = "        "
)

// Symbol is the character drawn for a cell as seen by the viewer.
func Symbol(board *mb.Board, x, y int, reveal bool) rune {
	switch board.VisibleCell(x, y, reveal) {
	case mb.CellOccupied:
		return SymbolShip
	case mb.CellHit:
		return SymbolHit
	case mb.CellMiss:
		return SymbolMiss
	default:
		return SymbolEmpty
	}
}

// Board returns the rows of a single board, header first.
func Board(board *mb.Board, reveal bool) []string {
	rows := make([]string, 0, board.Size()+1)

	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < board.Size(); x++ {
		sb.WriteRune(rune('A' + x))
		sb.WriteString("  ")
	}
	rows = append(rows, sb.String())

	for y := 0; y < board.Size(); y++ {
		sb.Reset()
		fmt.Fprintf(&sb, "%2d ", y+1)
		for x := 0; x < board.Size(); x++ {
			sb.WriteRune(Symbol(board, x, y, reveal))
			sb.WriteString("  ")
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// Boards writes the player's board next to the computer's. The player
// always sees their own ships; computer ships only show when revealed.
func Boards(w io.Writer, player, computer *mb.Board, reveal bool) error {
	left := Board(player, true)
	right := Board(computer, reveal)
	width := len(left[0])

	if _, err := fmt.Fprintf(w, "%-*s%sComputer's Board:\n", width, "Your Board:", boardGap); err != nil {
		return err
	}
	for i := range left {
		if _, err := fmt.Fprintf(w, "%-*s%s%s\n", width, left[i], boardGap, strings.TrimRight(right[i], " ")); err != nil {
			return err
		}
	}
	return nil
}

func Scoreboard(w io.Writer, score mb.Scoreboard) error {
	_, err := fmt.Fprintf(w,
		"\n=== Scoreboard ===\nPlayer Moves:   %d   Ships Destroyed: %d\nComputer Moves: %d   Ships Destroyed: %d\n==================\n\n",
		score.PlayerMoves, score.PlayerShipsDestroyed, score.ComputerMoves, score.ComputerShipsDestroyed,
	)
	return err
}

// Summary is printed once the game is over.
func Summary(w io.Writer, winner mb.Side, score mb.Scoreboard) error {
	var headline string
	switch winner {
	case mb.SidePlayer:
		headline = "Congratulations! You won!"
	case mb.SideComputer:
		headline = "The computer won. Better luck next time."
	default:
		headline = "Game abandoned."
	}

	_, err := fmt.Fprintf(w,
		"\n%s\n\n=== Game Over ===\nYour moves: %d\nComputer's moves: %d\nShips you destroyed: %d\nShips the computer destroyed: %d\n",
		headline, score.PlayerMoves, score.ComputerMoves, score.PlayerShipsDestroyed, score.ComputerShipsDestroyed,
	)
	return err
}
