package game

import "errors"

var (
	ErrRoomNotFound  = errors.New("room-not-found")
	ErrRoomFull      = errors.New("room-full")
	ErrInvalidName   = errors.New("invalid-name")
	ErrOffensiveName = errors.New("offensive-name")
	ErrWrongPassword = errors.New("wrong-password")
)
