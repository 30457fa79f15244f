package battleship

import (
	"math/rand"
	"time"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type SearchMode uint8

const (
	// No live target; random parity search.
	ModeHunt SearchMode = iota
	// Pursuing a located ship through the pending queue.
	ModeTarget
)

func (m SearchMode) String() string {
	if m == ModeTarget {
		return "target"
	}
	return "hunt"
}

type searchAxis uint8

const (
	axisNone searchAxis = iota
	axisRow
	axisColumn
)

// TargetBoard is the read-only view of the opponent board the
// adversary needs to choose coordinates.
type TargetBoard interface {
	Size() int
	IsAlreadyAttacked(x, y int) bool
}

// AdversarySearch picks the computer's next shot. The pending queue is
// FIFO: the oldest candidate is tried first, except that axis
// extensions jump to the head of the queue once an axis is locked.
type AdversarySearch struct {
	mode    SearchMode
	axis    searchAxis
	hits    []Coordinates
	pending []Coordinates
	rng     *rand.Rand
}

// A nil rng falls back to a time seeded source.
func NewAdversarySearch(rng *rand.Rand) *AdversarySearch {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &AdversarySearch{
		mode: ModeHunt,
		rng:  rng,
	}
}

func (a *AdversarySearch) Mode() SearchMode {
	return a.mode
}

func (a *AdversarySearch) PendingTargets() []Coordinates {
	return append([]Coordinates(nil), a.pending...)
}

func (a *AdversarySearch) ConfirmedHits() []Coordinates {
	return append([]Coordinates(nil), a.hits...)
}

func (a *AdversarySearch) Reset() {
	a.mode = ModeHunt
	a.axis = axisNone
	a.hits = a.hits[:0]
	a.pending = a.pending[:0]
}

// NextCoordinate never returns a position that is out of bound or already
// attacked. ErrNoCandidates means the caller kept asking after the board
// was exhausted.
func (a *AdversarySearch) NextCoordinate(board TargetBoard) (Coordinates, error) {
	if a.mode == ModeTarget {
		for len(a.pending) > 0 {
			next := a.pending[0]
			a.pending = a.pending[1:]

			if isOpen(board, next) {
				return next, nil
			}
		}

		// Queue ran dry before the ship sank
		a.Reset()
	}

	return a.hunt(board)
}

func (a *AdversarySearch) hunt(board TargetBoard) (Coordinates, error) {
	size := board.Size()
	candidates := make([]Coordinates, 0, size*size/2+1)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x+y)%2 == 0 && !board.IsAlreadyAttacked(x, y) {
				candidates = append(candidates, NewCoordinates(x, y))
			}
		}
	}

	// Only odd parity cells left, which can still hold length 1 ships
	if len(candidates) == 0 {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				if !board.IsAlreadyAttacked(x, y) {
					candidates = append(candidates, NewCoordinates(x, y))
				}
			}
		}
	}

	if len(candidates) == 0 {
		return Coordinates{}, cerr.ErrNoCandidates
	}
	return candidates[a.rng.Intn(len(candidates))], nil
}

// ObserveResult must be called after every shot produced by
// NextCoordinate, with the board that shot was fired at.
func (a *AdversarySearch) ObserveResult(board TargetBoard, c Coordinates, result AttackResult) {
	if result.Outcome != AttackHit {
		return
	}

	if result.Sunk {
		a.Reset()
		return
	}

	if a.mode == ModeHunt || len(a.hits) == 0 {
		a.Reset()
		a.mode = ModeTarget
		a.hits = append(a.hits, c)
		for _, n := range c.neighbours() {
			a.enqueue(board, n)
		}
		return
	}

	a.hits = append(a.hits, c)
	first := a.hits[0]

	if a.axis == axisNone {
		switch {
		case c.Y == first.Y:
			a.axis = axisRow
		case c.X == first.X:
			a.axis = axisColumn
		default:
			// A neighbouring ship; nothing to infer yet
			for _, n := range c.neighbours() {
				a.enqueue(board, n)
			}
			return
		}
	}

	if !a.onAxis(c) {
		return
	}
	a.lockAxis(board)
}

// Keeps only on-axis candidates and puts the cells one step beyond each
// end of the confirmed span at the head of the queue.
func (a *AdversarySearch) lockAxis(board TargetBoard) {
	remaining := make([]Coordinates, 0, len(a.pending))
	for _, c := range a.pending {
		if a.onAxis(c) {
			remaining = append(remaining, c)
		}
	}

	lo, hi := a.span()
	a.pending = a.pending[:0]
	a.enqueue(board, lo)
	a.enqueue(board, hi)
	for _, c := range remaining {
		a.enqueue(board, c)
	}
}

func (a *AdversarySearch) onAxis(c Coordinates) bool {
	first := a.hits[0]
	switch a.axis {
	case axisRow:
		return c.Y == first.Y
	case axisColumn:
		return c.X == first.X
	default:
		return true
	}
}

// Returns the cells just before and just after the confirmed hits on
// the locked axis.
func (a *AdversarySearch) span() (Coordinates, Coordinates) {
	first := a.hits[0]
	lo, hi := first, first

	for _, h := range a.hits {
		if !a.onAxis(h) {
			continue
		}
		if a.axis == axisRow {
			lo.X = min(lo.X, h.X)
			hi.X = max(hi.X, h.X)
		} else {
			lo.Y = min(lo.Y, h.Y)
			hi.Y = max(hi.Y, h.Y)
		}
	}

	if a.axis == axisRow {
		return NewCoordinates(lo.X-1, lo.Y), NewCoordinates(hi.X+1, hi.Y)
	}
	return NewCoordinates(lo.X, lo.Y-1), NewCoordinates(hi.X, hi.Y+1)
}

func (a *AdversarySearch) enqueue(board TargetBoard, c Coordinates) {
	if !isOpen(board, c) {
		return
	}
	for _, p := range a.pending {
		if p == c {
			return
		}
	}
	a.pending = append(a.pending, c)
}

func isOpen(board TargetBoard, c Coordinates) bool {
	size := board.Size()
	if c.X < 0 || c.X >= size || c.Y < 0 || c.Y >= size {
		return false
	}
	return !board.IsAlreadyAttacked(c.X, c.Y)
}
