package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/hardercore-api/internal/model"
	"github.com/mcoot/hardercore-api/internal/storage"
)

// noExpiry scores index entries for profiles stored without a TTL
const noExpiry = float64(math.MaxInt64)

// Storage is a Redis-backed profile store, shared across restarts and replicas.
// Profile ids are indexed in a sorted set scored by expiry time, so expired
// profiles can be pruned from the count.
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keys
	now    func() time.Time
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	opts.DialTimeout = dialTimeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   newKeys(cfg.KeyPrefix),
		now:    time.Now,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.ProfileStore = (*Storage)(nil)

func (s *Storage) GetProfile(ctx context.Context, id model.PlayerID) (*model.Profile, error) {
	data, err := s.client.Get(ctx, s.keys.profile(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode cached profile %s: %w", id, err)
	}
	return &profile, nil
}

func (s *Storage) SaveProfile(ctx context.Context, id model.PlayerID, profile *model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	expiry := noExpiry
	if s.cfg.ProfileTTL > 0 {
		expiry = float64(s.now().Add(s.cfg.ProfileTTL).UnixMilli())
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.profile(id), data, s.cfg.ProfileTTL)
	pipe.ZAdd(ctx, s.keys.profileIndex(), redis.Z{Score: expiry, Member: string(id)})
	_, err = pipe.Exec(ctx)
	return err
}

// CountProfiles drops index entries whose profile has expired, then counts the rest
func (s *Storage) CountProfiles(ctx context.Context) (int, error) {
	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, s.keys.profileIndex(), "-inf", strconv.FormatInt(s.now().UnixMilli(), 10))
	card := pipe.ZCard(ctx, s.keys.profileIndex())
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(card.Val()), nil
}
