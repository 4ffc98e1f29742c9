package request

import "github.com/mcoot/hardercore-api/internal/model"

// SwitchWorldRequest is the request body for switching the active world
type SwitchWorldRequest struct {
	World *uint64 `json:"world"`
}

// KillRequest describes the death that ends the current world
type KillRequest struct {
	Killer     string `json:"killer"`
	SourceName string `json:"sourceName"`
	SourceType string `json:"sourceType"`
}

// ToModel converts the request into a death record
func (k KillRequest) ToModel() model.DeathRecord {
	return model.DeathRecord{
		Killer:     model.PlayerID(k.Killer),
		SourceName: k.SourceName,
		SourceType: k.SourceType,
	}
}

// UptimeRequest is the request body reporting the active world's uptime
type UptimeRequest struct {
	Uptime *uint64 `json:"uptime"`
}

// StatsRequest is the request body for updating a player's stats.
// Every counter is optional and is added to the current value.
type StatsRequest struct {
	TimeInWater      *uint64      `json:"timeInWater,omitempty"`
	TimeInNether     *uint64      `json:"timeInNether,omitempty"`
	DamageTaken      *uint64      `json:"damageTaken,omitempty"`
	MobsKilled       *uint64      `json:"mobsKilled,omitempty"`
	FoodEaten        *uint64      `json:"foodEaten,omitempty"`
	ExperienceGained *uint64      `json:"experienceGained,omitempty"`
	KillInfo         *KillRequest `json:"killInfo,omitempty"`
}

// Deltas returns one delta per counter present in the request
func (s StatsRequest) Deltas() []model.StatDelta {
	fields := []struct {
		field model.StatField
		value *uint64
	}{
		{model.StatTimeInWater, s.TimeInWater},
		{model.StatTimeInNether, s.TimeInNether},
		{model.StatDamageTaken, s.DamageTaken},
		{model.StatMobsKilled, s.MobsKilled},
		{model.StatFoodEaten, s.FoodEaten},
		{model.StatExperienceGained, s.ExperienceGained},
	}

	var deltas []model.StatDelta
	for _, f := range fields {
		if f.value != nil {
			deltas = append(deltas, model.StatDelta{Field: f.field, Amount: *f.value})
		}
	}
	return deltas
}
