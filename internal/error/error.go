package error

import (
	"errors"
	"fmt"
)

const (
	ConstErrAttackFailed    = "attack operation failed"
	ConstErrPlacementFailed = "ship placement failed"
)

var (
	ErrOutOfBounds         = errors.New("coordinate is out of grid bound")
	ErrInvalidPlacement    = errors.New("ship placement is out of bound or overlaps another ship")
	ErrInvalidShipLength   = errors.New("ship length must be positive")
	ErrShipNotFound        = errors.New("ship does not exist on this board")
	ErrAlreadyAttacked     = errors.New("position already attacked")
	ErrNoCandidates        = errors.New("no unattacked position left on the board")
	ErrMalformedCoordinate = errors.New("malformed coordinate")
	ErrInvalidOrientation  = errors.New("orientation must be H or V")
	ErrPlacementExhausted  = errors.New("failed to place fleet randomly")
	ErrGameNotInProgress   = errors.New("game is not in progress")
	ErrNotPlayerTurn       = errors.New("it is not the player's turn")
	ErrFleetAlreadyPlaced  = errors.New("the whole fleet is already placed")
	ErrGameNotFound        = errors.New("game does not exist")
	ErrSessionNotFound     = errors.New("session does not exist")
	ErrInvalidBoardSize    = errors.New("board size out of range")
)

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrGameNotFound, gameUuid)
}

func ErrGameIsNil(gameUuid string) error {
	return fmt.Errorf("game with this uuid is nil, uuid: %s", gameUuid)
}

func ErrSessionNotExists(sessionId string) error {
	return fmt.Errorf("%w, id: %s", ErrSessionNotFound, sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrXorYOutOfGridBound(x, y int) error {
	return fmt.Errorf("%w\tx: %d\ty: %d", ErrOutOfBounds, x, y)
}

func ErrAttackPositionAlreadyFilled(x, y int) error {
	return fmt.Errorf("%w\tx: %d\ty: %d", ErrAlreadyAttacked, x, y)
}

func ErrPlacementInvalid(name string, length, x, y int) error {
	return fmt.Errorf("%w\tship: %s\tlength: %d\tx: %d\ty: %d", ErrInvalidPlacement, name, length, x, y)
}

func ErrShipLengthInvalid(name string, length int) error {
	return fmt.Errorf("%w\tship: %s\tlength: %d", ErrInvalidShipLength, name, length)
}

func ErrShipNotExists(id int) error {
	return fmt.Errorf("%w\tid: %d", ErrShipNotFound, id)
}

func ErrCoordinateMalformed(input string) error {
	return fmt.Errorf("%w: %q", ErrMalformedCoordinate, input)
}

func ErrOrientationInvalid(input string) error {
	return fmt.Errorf("%w: %q", ErrInvalidOrientation, input)
}

func ErrFleetPlacementExhausted(name string, attempts int) error {
	return fmt.Errorf("%w: ship %s not placed after %d attempts", ErrPlacementExhausted, name, attempts)
}

func ErrBoardSizeInvalid(size int) error {
	return fmt.Errorf("%w: %d", ErrInvalidBoardSize, size)
}
