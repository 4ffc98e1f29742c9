package storage

import (
	"context"

	"github.com/mcoot/hardercore-api/internal/model"
)

// ProfileStore holds resolved identity profiles keyed by player id
type ProfileStore interface {
	// GetProfile returns model.ErrProfileNotFound if the id has not been stored
	GetProfile(ctx context.Context, id model.PlayerID) (*model.Profile, error)
	SaveProfile(ctx context.Context, id model.PlayerID, profile *model.Profile) error
	// CountProfiles reports how many profiles are cached
	CountProfiles(ctx context.Context) (int, error)
}
