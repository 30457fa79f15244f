package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type Ship struct {
	name        string
	length      int
	hits        int
	coordinates []Coordinates
}

func NewShip(name string, length int) (*Ship, error) {
	if length <= 0 {
		return nil, cerr.ErrShipLengthInvalid(name, length)
	}

	return &Ship{
		name:   name,
		length: length,
	}, nil
}

// Called once by the board at placement. The board guarantees
// len(coords) == length.
func (sh *Ship) assignCoordinates(coords []Coordinates) {
	sh.coordinates = append(make([]Coordinates, 0, len(coords)), coords...)
}

func (sh *Ship) Occupies(x, y int) bool {
	for _, c := range sh.coordinates {
		if c.X == x && c.Y == y {
			return true
		}
	}
	return false
}

func (sh *Ship) registerHit() {
	sh.hits++
}

func (sh *Ship) IsSunk() bool {
	return sh.hits >= sh.length
}

func (sh *Ship) Name() string {
	return sh.name
}

func (sh *Ship) Length() int {
	return sh.length
}

func (sh *Ship) Hits() int {
	return sh.hits
}

// Returns a copy of the occupied coordinates in placement order.
func (sh *Ship) Coordinates() []Coordinates {
	return append([]Coordinates(nil), sh.coordinates...)
}
