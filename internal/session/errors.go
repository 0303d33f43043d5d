package session

import "errors"

var (
	// ErrRoomNotFound is returned for any operation against an unknown room id.
	ErrRoomNotFound = errors.New("room not found")

	// ErrNotCreator is returned when a non-creator asks to delete a room.
	ErrNotCreator = errors.New("only the creator can delete the room")
)
