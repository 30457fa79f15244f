package battleship

import (
	"fmt"
	"strconv"
	"strings"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// Boards are labelled with letters for columns, so they cannot be
// wider than the alphabet.
const MaxBoardSize = 26

// ParseCoordinate converts "A5" (column letter, 1-based row) into
// zero-based coordinates, e.g. "A5" -> {X: 0, Y: 4}.
func ParseCoordinate(input string, size int) (Coordinates, error) {
	s := strings.ToUpper(strings.TrimSpace(input))
	if len(s) < 2 {
		return Coordinates{}, cerr.ErrCoordinateMalformed(input)
	}

	col := s[0]
	if col < 'A' || col > 'Z' {
		return Coordinates{}, cerr.ErrCoordinateMalformed(input)
	}

	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return Coordinates{}, cerr.ErrCoordinateMalformed(input)
	}

	x, y := int(col-'A'), row-1
	if x >= size || y < 0 || y >= size {
		return Coordinates{}, cerr.ErrXorYOutOfGridBound(x, y)
	}
	return NewCoordinates(x, y), nil
}

func (c Coordinates) String() string {
	if c.X < 0 || c.X >= MaxBoardSize {
		return fmt.Sprintf("(%d,%d)", c.X, c.Y)
	}
	return fmt.Sprintf("%c%d", 'A'+rune(c.X), c.Y+1)
}

func ParseOrientation(input string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "h", "horizontal":
		return Horizontal, nil
	case "v", "vertical":
		return Vertical, nil
	default:
		return Horizontal, cerr.ErrOrientationInvalid(input)
	}
}
