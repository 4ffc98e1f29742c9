package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/mcoot/hardercore-api/internal/model"
	"github.com/mcoot/hardercore-api/internal/storage"
)

// Cache memoizes profile lookups. At most one lookup per id is in flight at a
// time; concurrent callers for the same id share its result. Failed lookups are
// not remembered.
type Cache struct {
	resolver Resolver
	store    storage.ProfileStore
	logger   *slog.Logger

	group singleflight.Group
}

// NewCache creates a cache in front of resolver, keeping profiles in store
func NewCache(resolver Resolver, store storage.ProfileStore, logger *slog.Logger) *Cache {
	return &Cache{
		resolver: resolver,
		store:    store,
		logger:   logger,
	}
}

// Ensure Cache implements Resolver
var _ Resolver = (*Cache)(nil)

// Resolve returns the cached profile for id, looking it up on a miss
func (c *Cache) Resolve(ctx context.Context, id model.PlayerID) (*model.Profile, error) {
	profile, err := c.cached(ctx, id)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, model.ErrProfileNotFound) {
		return nil, err
	}

	// The shared lookup must outlive any single caller's cancellation
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(string(id), func() (any, error) {
		return c.fetch(fetchCtx, id)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Profile), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", model.ErrIdentityUnavailable, ctx.Err())
	}
}

// Len reports how many profiles are cached
func (c *Cache) Len(ctx context.Context) (int, error) {
	return c.store.CountProfiles(ctx)
}

func (c *Cache) cached(ctx context.Context, id model.PlayerID) (*model.Profile, error) {
	profile, err := c.store.GetProfile(ctx, id)
	if err != nil && !errors.Is(err, model.ErrProfileNotFound) {
		return nil, fmt.Errorf("%w: read profile cache: %w", model.ErrIdentityUnavailable, err)
	}
	return profile, err
}

func (c *Cache) fetch(ctx context.Context, id model.PlayerID) (*model.Profile, error) {
	// A lookup for id may have completed between the miss and joining the group
	if profile, err := c.cached(ctx, id); err == nil {
		return profile, nil
	}

	profile, err := c.resolver.Resolve(ctx, id)
	if err != nil {
		c.logger.Warn("identity lookup failed",
			slog.String("player_id", string(id)),
			slog.Any("error", err),
		)
		return nil, err
	}

	if err := c.store.SaveProfile(ctx, id, profile); err != nil {
		return nil, fmt.Errorf("%w: write profile cache: %w", model.ErrIdentityUnavailable, err)
	}

	c.logger.Info("identity resolved",
		slog.String("player_id", string(id)),
		slog.String("name", profile.Name),
	)
	return profile, nil
}
