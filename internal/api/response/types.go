package response

import (
	"time"

	"github.com/mcoot/hardercore-api/internal/model"
	"github.com/mcoot/hardercore-api/internal/saver"
)

// PlayerStats represents one player's record in API responses
type PlayerStats struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	SkinURL          string `json:"skinUrl"`
	TimeInWater      uint64 `json:"timeInWater"`
	TimeInNether     uint64 `json:"timeInNether"`
	DamageTaken      uint64 `json:"damageTaken"`
	MobsKilled       uint64 `json:"mobsKilled"`
	FoodEaten        uint64 `json:"foodEaten"`
	ExperienceGained uint64 `json:"experienceGained"`
}

// PlayerStatsFromModel converts a model.PlayerStats
func PlayerStatsFromModel(id model.PlayerID, s model.PlayerStats) PlayerStats {
	return PlayerStats{
		ID:               string(id),
		DisplayName:      s.DisplayName,
		SkinURL:          s.SkinURL,
		TimeInWater:      s.TimeInWater,
		TimeInNether:     s.TimeInNether,
		DamageTaken:      s.DamageTaken,
		MobsKilled:       s.MobsKilled,
		FoodEaten:        s.FoodEaten,
		ExperienceGained: s.ExperienceGained,
	}
}

// StatsList is the response for listing every player in the current world
type StatsList struct {
	World   uint64        `json:"world"`
	Players []PlayerStats `json:"players"`
}

// StatsListFromModel converts a generation snapshot
func StatsListFromModel(world uint64, snapshot []model.PlayerSnapshot) StatsList {
	players := make([]PlayerStats, len(snapshot))
	for i, p := range snapshot {
		players[i] = PlayerStatsFromModel(p.ID, p.PlayerStats)
	}
	return StatsList{World: world, Players: players}
}

// StatsUpdate is the response after applying a stats update
type StatsUpdate struct {
	Player PlayerStats `json:"player"`
	// World is the active world after the update
	World      uint64 `json:"world"`
	WorldEnded bool   `json:"worldEnded"`
}

// DeathRecord represents how a world ended
type DeathRecord struct {
	Killer     string `json:"killer"`
	SourceName string `json:"sourceName"`
	SourceType string `json:"sourceType"`
}

// DeathRecordFromModel converts model.DeathRecord
func DeathRecordFromModel(d model.DeathRecord) DeathRecord {
	return DeathRecord{
		Killer:     string(d.Killer),
		SourceName: d.SourceName,
		SourceType: d.SourceType,
	}
}

// World describes the active world
type World struct {
	World uint64       `json:"world"`
	Count uint64       `json:"count"`
	Death *DeathRecord `json:"death,omitempty"`
}

// Uptime reports cumulative server uptime in seconds
type Uptime struct {
	World uint64 `json:"world"`
	Total uint64 `json:"total"`
}

// DatabasePath reports where the store lives on disk
type DatabasePath struct {
	Path string `json:"path"`
}

// Health is the response for the health endpoint
type Health struct {
	Status    string     `json:"status"`
	World     uint64     `json:"world"`
	LastSaved *time.Time `json:"lastSaved,omitempty"`
	LastError string     `json:"lastError,omitempty"`
	Saves     int        `json:"saves"`
	Failures  int        `json:"failures"`
}

// Health statuses
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// HealthFromStatus converts a saver status
func HealthFromStatus(world uint64, s saver.Status) Health {
	h := Health{
		Status:   HealthOK,
		World:    world,
		Saves:    s.Saves,
		Failures: s.Failures,
	}
	if !s.LastSaved.IsZero() {
		t := s.LastSaved
		h.LastSaved = &t
	}
	if s.LastError != nil {
		h.Status = HealthDegraded
		h.LastError = s.LastError.Error()
	}
	return h
}
