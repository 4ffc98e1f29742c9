package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/hardercore-api/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestSaveAndGetProfile() {
	sig := "sig"
	profile := &model.Profile{
		ID:         "069a79f444e94726a5befca90e38aaf5",
		Name:       "Notch",
		Properties: []model.ProfileProperty{{Name: "textures", Value: "e30=", Signature: &sig}},
	}

	err := s.storage.SaveProfile(s.ctx, "069a79f444e94726a5befca90e38aaf5", profile)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetProfile(s.ctx, "069a79f444e94726a5befca90e38aaf5")
	s.Require().NoError(err)
	s.Equal(profile, retrieved)
}

func (s *StorageSuite) TestGetProfileNotFound() {
	_, err := s.storage.GetProfile(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestGetProfileCorruptValue() {
	s.Require().NoError(s.mini.Set(s.storage.keys.profile("abc"), "not json"))

	_, err := s.storage.GetProfile(s.ctx, "abc")
	s.Error(err)
	s.NotErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestProfileNoTTLByDefault() {
	_ = s.storage.SaveProfile(s.ctx, "abc", &model.Profile{ID: "abc", Name: "Steve"})

	ttl := s.mini.TTL(s.storage.keys.profile("abc"))
	s.Equal(time.Duration(0), ttl, "Profile should not have TTL")
}

func (s *StorageSuite) TestProfileTTLWhenConfigured() {
	cfg := DefaultConfig()
	cfg.ProfileTTL = time.Hour
	st := NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}), cfg)
	defer func() { _ = st.Close() }()

	_ = st.SaveProfile(s.ctx, "abc", &model.Profile{ID: "abc"})

	ttl := s.mini.TTL(s.storage.keys.profile("abc"))
	s.True(ttl > 0, "Profile should have TTL")
}

func (s *StorageSuite) TestCountProfilesSkipsExpired() {
	cfg := DefaultConfig()
	cfg.ProfileTTL = time.Hour
	st := NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}), cfg)
	defer func() { _ = st.Close() }()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	s.Require().NoError(st.SaveProfile(s.ctx, "old", &model.Profile{ID: "old"}))
	now = now.Add(30 * time.Minute)
	s.mini.FastForward(30 * time.Minute)
	s.Require().NoError(st.SaveProfile(s.ctx, "new", &model.Profile{ID: "new"}))

	n, err := st.CountProfiles(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)

	now = now.Add(45 * time.Minute)
	s.mini.FastForward(45 * time.Minute)

	_, err = st.GetProfile(s.ctx, "old")
	s.ErrorIs(err, model.ErrProfileNotFound)
	n, err = st.CountProfiles(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *StorageSuite) TestCountProfiles() {
	_ = s.storage.SaveProfile(s.ctx, "a", &model.Profile{ID: "a"})
	_ = s.storage.SaveProfile(s.ctx, "b", &model.Profile{ID: "b"})
	_ = s.storage.SaveProfile(s.ctx, "a", &model.Profile{ID: "a", Name: "again"})

	n, err := s.storage.CountProfiles(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
	s.True(s.mini.Exists("hcstats:idx:profile-expiry"))
}

func (s *StorageSuite) TestKeyPrefixSeparatesServers() {
	cfg := DefaultConfig()
	cfg.KeyPrefix = "staging"
	other := NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}), cfg)
	defer func() { _ = other.Close() }()

	s.Require().NoError(other.SaveProfile(s.ctx, "abc", &model.Profile{ID: "abc", Name: "Steve"}))

	s.True(s.mini.Exists("staging:profile:abc"))
	_, err := s.storage.GetProfile(s.ctx, "abc")
	s.ErrorIs(err, model.ErrProfileNotFound)

	n, err := s.storage.CountProfiles(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *StorageSuite) TestNewRejectsBadURL() {
	cfg := DefaultConfig()
	cfg.URL = "not a url"
	_, err := New(cfg)
	s.Error(err)
}

func (s *StorageSuite) TestNewConnects() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()
	st, err := New(cfg)
	s.Require().NoError(err)
	s.NoError(st.Close())
}
