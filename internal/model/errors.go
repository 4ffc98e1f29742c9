package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Store errors
	ErrStoreNotEmpty                = errors.New("store already contains generations")
	ErrGenerationsDirectoryNotFound = errors.New("generations directory not found")
	ErrGenerationNotFound           = errors.New("generation not found")
	ErrNoGenerations                = errors.New("no generations found")
	ErrInvalidGenerationName        = errors.New("invalid generation directory name")
	ErrIO                           = errors.New("storage io error")

	// Generation errors
	ErrDirectoryNotFound = errors.New("generation directory not found")
	ErrRecordParse       = errors.New("malformed player stats record")
	ErrMetadataParse     = errors.New("malformed metadata file")

	// Player errors
	ErrPlayerNotFound   = errors.New("player not found")
	ErrInvalidPlayerID  = errors.New("invalid player id")
	ErrOverflow         = errors.New("counter overflow")
	ErrUnknownStatField = errors.New("unknown stat field")

	// Identity errors
	ErrIdentityUnavailable = errors.New("identity lookup failed")
	ErrIdentityDecode      = errors.New("identity texture decode failed")
	ErrProfileNotFound     = errors.New("profile not cached")
)

// GenerationNotFoundError is returned when switching to an ordinal that
// has never been created
type GenerationNotFoundError struct {
	N uint64
}

func (e *GenerationNotFoundError) Error() string {
	return fmt.Sprintf("generation %d does not exist", e.N)
}

// Is lets errors.Is match ErrGenerationNotFound
func (e *GenerationNotFoundError) Is(target error) bool {
	return target == ErrGenerationNotFound
}

// RecordParseError names the record file that failed to parse
type RecordParseError struct {
	File string
	Err  error
}

func (e *RecordParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *RecordParseError) Unwrap() []error {
	return []error{ErrRecordParse, e.Err}
}
