package database

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyJoined = errors.New("player already joined event")
	ErrNotJoined     = errors.New("player has not joined event")
)
