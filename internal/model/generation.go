package model

import (
	"fmt"
	"strconv"
	"strings"
)

// GenerationDirPrefix is the fixed prefix of every generation directory
const GenerationDirPrefix = "world"

// DeathRecord names the player and cause that ended a generation
type DeathRecord struct {
	Killer     PlayerID `json:"killer"`
	SourceName string   `json:"sourceName"` // free-text cause
	SourceType string   `json:"sourceType"` // cause category
}

// Metadata is the uptime file kept per generation and per store
type Metadata struct {
	Uptime uint64 `json:"uptime"`
}

// GenerationDirName formats the directory name for an ordinal
func GenerationDirName(n uint64) string {
	return GenerationDirPrefix + strconv.FormatUint(n, 10)
}

// ParseGenerationDirName recovers the ordinal from a directory name.
// Only the exact form produced by GenerationDirName is accepted.
func ParseGenerationDirName(name string) (uint64, error) {
	suffix, ok := strings.CutPrefix(name, GenerationDirPrefix)
	if !ok || suffix == "" || suffix[0] == '0' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGenerationName, name)
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidGenerationName, name)
		}
	}
	n, err := strconv.ParseUint(suffix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGenerationName, name)
	}
	return n, nil
}
