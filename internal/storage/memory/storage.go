package memory

import (
	"context"
	"sync"

	"github.com/mcoot/hardercore-api/internal/model"
	"github.com/mcoot/hardercore-api/internal/storage"
)

// Storage is an in-memory profile store. Entries live for the process lifetime.
type Storage struct {
	mu       sync.RWMutex
	profiles map[model.PlayerID]model.Profile
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		profiles: make(map[model.PlayerID]model.Profile),
	}
}

// Ensure Storage implements the interface
var _ storage.ProfileStore = (*Storage)(nil)

func (s *Storage) GetProfile(ctx context.Context, id model.PlayerID) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return cloneProfile(profile), nil
}

func (s *Storage) SaveProfile(ctx context.Context, id model.PlayerID, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[id] = *cloneProfile(*profile)
	return nil
}

func (s *Storage) CountProfiles(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles), nil
}

// cloneProfile copies the property slice so callers never share backing arrays
func cloneProfile(p model.Profile) *model.Profile {
	props := make([]model.ProfileProperty, len(p.Properties))
	copy(props, p.Properties)
	p.Properties = props
	return &p
}
