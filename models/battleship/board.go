package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const DefaultBoardSize = 10

// ShipID is the index of a ship in the board's ship list.
// It stays valid for the lifetime of the board.
type ShipID int

const NoShip ShipID = -1

type AttackOutcome uint8

const (
	AttackMiss AttackOutcome = iota
	AttackHit
	AttackAlreadyAttacked
)

func (o AttackOutcome) String() string {
	switch o {
	case AttackMiss:
		return "miss"
	case AttackHit:
		return "hit"
	case AttackAlreadyAttacked:
		return "already attacked"
	default:
		return "unknown"
	}
}

// ShipID and Sunk are only meaningful when Outcome is AttackHit.
type AttackResult struct {
	Outcome AttackOutcome
	ShipID  ShipID
	Sunk    bool
}

func (r AttackResult) IsHit() bool {
	return r.Outcome == AttackHit
}

// Board is exclusively owned by one side. Every Occupied or Hit cell
// belongs to exactly one ship and ships never overlap.
type Board struct {
	size  int
	grid  Grid
	ships []*Ship
}

func NewBoard(size int) *Board {
	return &Board{
		size:  size,
		grid:  NewGrid(size),
		ships: make([]*Ship, 0, 5),
	}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.size && y >= 0 && y < b.size
}

func (b *Board) IsValidPlacement(length, x, y int, orientation Orientation) bool {
	if length <= 0 {
		return false
	}

	dx, dy := orientation.step()
	for i := 0; i < length; i++ {
		nx, ny := x+dx*i, y+dy*i
		if !b.InBounds(nx, ny) {
			return false
		}
		if b.grid[ny][nx] != CellEmpty {
			return false
		}
	}
	return true
}

func (b *Board) PlaceShip(name string, length, x, y int, orientation Orientation) (ShipID, error) {
	ship, err := NewShip(name, length)
	if err != nil {
		return NoShip, err
	}

	if !b.IsValidPlacement(length, x, y, orientation) {
		return NoShip, cerr.ErrPlacementInvalid(name, length, x, y)
	}

	dx, dy := orientation.step()
	coords := make([]Coordinates, length)
	for i := 0; i < length; i++ {
		nx, ny := x+dx*i, y+dy*i
		b.grid[ny][nx] = CellOccupied
		coords[i] = NewCoordinates(nx, ny)
	}
	ship.assignCoordinates(coords)

	b.ships = append(b.ships, ship)
	return ShipID(len(b.ships) - 1), nil
}

// Out of bound coordinates are rejected with ErrOutOfBounds and leave
// the grid untouched. Attacking a Hit or Miss cell is a no-op that
// reports AttackAlreadyAttacked.
func (b *Board) ReceiveAttack(x, y int) (AttackResult, error) {
	if !b.InBounds(x, y) {
		return AttackResult{ShipID: NoShip}, cerr.ErrXorYOutOfGridBound(x, y)
	}

	switch b.grid[y][x] {
	case CellHit, CellMiss:
		return AttackResult{Outcome: AttackAlreadyAttacked, ShipID: NoShip}, nil

	case CellEmpty:
		b.grid[y][x] = CellMiss
		return AttackResult{Outcome: AttackMiss, ShipID: NoShip}, nil
	}

	b.grid[y][x] = CellHit
	for i, ship := range b.ships {
		if ship.Occupies(x, y) {
			ship.registerHit()
			return AttackResult{Outcome: AttackHit, ShipID: ShipID(i), Sunk: ship.IsSunk()}, nil
		}
	}

	// Unreachable: every occupied cell belongs to a placed ship
	return AttackResult{Outcome: AttackHit, ShipID: NoShip}, nil
}

// Vacuously true for a board without ships.
func (b *Board) AllSunk() bool {
	for _, ship := range b.ships {
		if !ship.IsSunk() {
			return false
		}
	}
	return true
}

func (b *Board) IsAlreadyAttacked(x, y int) bool {
	if !b.InBounds(x, y) {
		return false
	}
	state := b.grid[y][x]
	return state == CellHit || state == CellMiss
}

func (b *Board) Cell(x, y int) CellState {
	return b.grid[y][x]
}

// Occupied cells are reported as Empty unless reveal is set, which is
// how the opponent's board is shown until a ship gets hit.
func (b *Board) VisibleCell(x, y int, reveal bool) CellState {
	state := b.grid[y][x]
	if state == CellOccupied && !reveal {
		return CellEmpty
	}
	return state
}

func (b *Board) Ship(id ShipID) (*Ship, error) {
	if id < 0 || int(id) >= len(b.ships) {
		return nil, cerr.ErrShipNotExists(int(id))
	}
	return b.ships[id], nil
}

func (b *Board) Ships() []*Ship {
	return append([]*Ship(nil), b.ships...)
}

func (b *Board) SunkCount() int {
	var n int
	for _, ship := range b.ships {
		if ship.IsSunk() {
			n++
		}
	}
	return n
}
