package model

import (
	"fmt"
	"strings"
)

// PlayerID is the opaque per-player identifier used as the record key
type PlayerID string

// PlayerStats is one player's record within a single generation.
// Counters are lifetime-cumulative for the generation and never decrease.
type PlayerStats struct {
	DisplayName      string `json:"displayName"`
	SkinURL          string `json:"skinUrl"`
	TimeInWater      uint64 `json:"timeInWater"`
	TimeInNether     uint64 `json:"timeInNether"`
	DamageTaken      uint64 `json:"damageTaken"`
	MobsKilled       uint64 `json:"mobsKilled"`
	FoodEaten        uint64 `json:"foodEaten"`
	ExperienceGained uint64 `json:"experienceGained"`
}

// PlayerSnapshot pairs a record with its id for read-only listings
type PlayerSnapshot struct {
	ID PlayerID `json:"id"`
	PlayerStats
}

// reservedIDs collide with generation metadata file names
var reservedIDs = map[PlayerID]bool{
	"global": true,
	"killed": true,
}

// Validate rejects ids that cannot be used as a record file name
func (id PlayerID) Validate() error {
	if id == "" || id == "." || id == ".." || reservedIDs[id] || strings.ContainsAny(string(id), `/\`+"\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidPlayerID, string(id))
	}
	return nil
}
