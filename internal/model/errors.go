package model

import (
	"errors"
	"fmt"
)

// Classification failures. All of them are per-file: a scan reports the
// error and moves on to the next replay.
var (
	ErrCorruptedPlayerData      = errors.New("corrupted player data: missing identity code")
	ErrEmptyCharData            = errors.New("empty character data")
	ErrIncorrectPlayerCount     = errors.New("incorrect player count")
	ErrGameDoesNotContainPlayer = errors.New("game does not contain player")
	ErrMissingTimestamp         = errors.New("replay metadata has no start time")
)

// CorruptedCharDataError is returned for a character id outside the character domain.
type CorruptedCharDataError struct {
	ID int
}

func (e *CorruptedCharDataError) Error() string {
	return fmt.Sprintf("corrupted character data: id %d", e.ID)
}

// CorruptedStageDataError is returned for a reserved or unknown stage id.
type CorruptedStageDataError struct {
	ID int
}

func (e *CorruptedStageDataError) Error() string {
	return fmt.Sprintf("corrupted stage data: id %d", e.ID)
}

// DecodeError wraps a replay decoder failure.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
