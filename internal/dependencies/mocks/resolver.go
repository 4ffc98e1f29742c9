package mocks

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/mcoot/hardercore-api/internal/model"
)

// MockResolver is an in-process stand-in for the identity service.
// Unknown ids resolve to a profile named after the id.
type MockResolver struct {
	// Gate, when non-nil, blocks every Resolve until it is closed
	Gate chan struct{}

	mu       sync.Mutex
	profiles map[model.PlayerID]*model.Profile
	err      error
	calls    map[model.PlayerID]int
}

// NewMockResolver creates an empty MockResolver
func NewMockResolver() *MockResolver {
	return &MockResolver{
		profiles: make(map[model.PlayerID]*model.Profile),
		calls:    make(map[model.PlayerID]int),
	}
}

// Add registers a profile with the given display name and skin URL
func (r *MockResolver) Add(id model.PlayerID, name, skinURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[id] = NewProfile(string(id), name, skinURL)
}

// AddProfile registers a profile verbatim
func (r *MockResolver) AddProfile(id model.PlayerID, p *model.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[id] = p
}

// SetErr makes every subsequent Resolve fail with err; nil clears it
func (r *MockResolver) SetErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Resolve records the call and returns the registered profile
func (r *MockResolver) Resolve(ctx context.Context, id model.PlayerID) (*model.Profile, error) {
	r.mu.Lock()
	r.calls[id]++
	gate := r.Gate
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", model.ErrIdentityUnavailable, ctx.Err())
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if p, ok := r.profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	return NewProfile(string(id), string(id), "http://textures.example/skin/"+string(id)), nil
}

// Calls returns the total number of Resolve calls
func (r *MockResolver) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, n := range r.calls {
		total += n
	}
	return total
}

// CallsFor returns the number of Resolve calls for id
func (r *MockResolver) CallsFor(id model.PlayerID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[id]
}

// NewProfile builds a profile whose textures property decodes to skinURL
func NewProfile(id, name, skinURL string) *model.Profile {
	return &model.Profile{
		ID:   id,
		Name: name,
		Properties: []model.ProfileProperty{{
			Name:  "textures",
			Value: TexturesValue(skinURL),
		}},
	}
}

// TexturesValue encodes a textures property value pointing at skinURL
func TexturesValue(skinURL string) string {
	payload := fmt.Sprintf(`{"textures":{"SKIN":{"url":%q}}}`, skinURL)
	return base64.StdEncoding.EncodeToString([]byte(payload))
}
