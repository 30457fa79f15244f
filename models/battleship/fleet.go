package battleship

import (
	"math/rand"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const maxPlacementAttempts = 10000

type ShipSpec struct {
	Name   string `json:"name" yaml:"name"`
	Length int    `json:"length" yaml:"length"`
}

func StandardFleet() []ShipSpec {
	return []ShipSpec{
		{Name: "Carrier", Length: 5},
		{Name: "Battleship", Length: 4},
		{Name: "Cruiser", Length: 3},
		{Name: "Submarine", Length: 3},
		{Name: "Destroyer", Length: 2},
	}
}

func FleetCells(fleet []ShipSpec) int {
	var total int
	for _, spec := range fleet {
		total += spec.Length
	}
	return total
}

// PlaceFleetRandomly draws random origins and orientations until every
// ship of the fleet fits. The board is left with whatever was placed
// when an error is returned.
func PlaceFleetRandomly(board *Board, fleet []ShipSpec, rng *rand.Rand) error {
	size := board.Size()

	for _, spec := range fleet {
		if spec.Length <= 0 {
			return cerr.ErrShipLengthInvalid(spec.Name, spec.Length)
		}

		placed := false
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			x, y := rng.Intn(size), rng.Intn(size)
			orientation := Orientation(rng.Intn(2))

			if !board.IsValidPlacement(spec.Length, x, y, orientation) {
				continue
			}
			if _, err := board.PlaceShip(spec.Name, spec.Length, x, y, orientation); err != nil {
				return err
			}
			placed = true
			break
		}

		if !placed {
			return cerr.ErrFleetPlacementExhausted(spec.Name, maxPlacementAttempts)
		}
	}
	return nil
}
