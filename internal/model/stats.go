package model

import (
	"fmt"
	"math"
)

// StatField selects one of the tracked counters
type StatField int

const (
	StatTimeInWater StatField = iota
	StatTimeInNether
	StatDamageTaken
	StatMobsKilled
	StatFoodEaten
	StatExperienceGained
)

// StatFields lists every counter in wire order
var StatFields = []StatField{
	StatTimeInWater,
	StatTimeInNether,
	StatDamageTaken,
	StatMobsKilled,
	StatFoodEaten,
	StatExperienceGained,
}

var statFieldNames = map[StatField]string{
	StatTimeInWater:      "timeInWater",
	StatTimeInNether:     "timeInNether",
	StatDamageTaken:      "damageTaken",
	StatMobsKilled:       "mobsKilled",
	StatFoodEaten:        "foodEaten",
	StatExperienceGained: "experienceGained",
}

// String returns the JSON field name of the counter
func (f StatField) String() string {
	if name, ok := statFieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("StatField(%d)", int(f))
}

// ParseStatField maps a JSON field name back to its StatField
func ParseStatField(name string) (StatField, error) {
	for f, n := range statFieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatField, name)
}

// StatDelta is an increment to a single counter
type StatDelta struct {
	Field  StatField
	Amount uint64
}

// counter returns a pointer to the named counter, or nil for an unknown field
func (s *PlayerStats) counter(f StatField) *uint64 {
	switch f {
	case StatTimeInWater:
		return &s.TimeInWater
	case StatTimeInNether:
		return &s.TimeInNether
	case StatDamageTaken:
		return &s.DamageTaken
	case StatMobsKilled:
		return &s.MobsKilled
	case StatFoodEaten:
		return &s.FoodEaten
	case StatExperienceGained:
		return &s.ExperienceGained
	}
	return nil
}

// Get returns the current value of a counter
func (s *PlayerStats) Get(f StatField) (uint64, error) {
	c := s.counter(f)
	if c == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownStatField, f)
	}
	return *c, nil
}

// Add increments a counter. The counter is left unchanged on overflow.
func (s *PlayerStats) Add(f StatField, amount uint64) error {
	c := s.counter(f)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrUnknownStatField, f)
	}
	sum, err := CheckedAdd(*c, amount)
	if err != nil {
		return fmt.Errorf("%s: %w", f, err)
	}
	*c = sum
	return nil
}

// AddAll applies every delta or none of them
func (s *PlayerStats) AddAll(deltas []StatDelta) error {
	next := *s
	for _, d := range deltas {
		if err := next.Add(d.Field, d.Amount); err != nil {
			return err
		}
	}
	*s = next
	return nil
}

// CheckedAdd returns a+b or ErrOverflow
func CheckedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return a, ErrOverflow
	}
	return a + b, nil
}
