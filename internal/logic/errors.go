package logic

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrRunFull       = errors.New("run already has 15 games")
	ErrRunCompleted  = errors.New("run is completed")
	ErrDuplicateGame = errors.New("game number already logged")
	ErrInvalidGame   = errors.New("game number out of range")
	ErrAlreadyMember = errors.New("already a league member")
)
