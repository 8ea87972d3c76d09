package game

import "errors"

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidRace        = errors.New("invalid race")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrMoveRejected       = errors.New("move rejected")
	ErrInsufficientPoints = errors.New("insufficient stat points")
	ErrInvalidAllocation  = errors.New("invalid stat allocation")
	ErrEmailTaken         = errors.New("email already in use")
)
