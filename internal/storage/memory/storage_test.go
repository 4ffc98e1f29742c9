package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/hardercore-api/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetProfile() {
	profile := &model.Profile{
		ID:         "abc",
		Name:       "Steve",
		Properties: []model.ProfileProperty{{Name: "textures", Value: "e30="}},
	}

	err := s.storage.SaveProfile(s.ctx, "abc", profile)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetProfile(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal(profile, retrieved)
}

func (s *StorageSuite) TestGetProfileNotFound() {
	_, err := s.storage.GetProfile(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestReturnedProfileIsACopy() {
	_ = s.storage.SaveProfile(s.ctx, "abc", &model.Profile{
		ID:         "abc",
		Name:       "Steve",
		Properties: []model.ProfileProperty{{Name: "textures", Value: "v1"}},
	})

	first, _ := s.storage.GetProfile(s.ctx, "abc")
	first.Name = "Alex"
	first.Properties[0].Value = "tampered"

	second, err := s.storage.GetProfile(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal("Steve", second.Name)
	s.Equal("v1", second.Properties[0].Value)
}

func (s *StorageSuite) TestCountProfiles() {
	_ = s.storage.SaveProfile(s.ctx, "a", &model.Profile{ID: "a"})
	_ = s.storage.SaveProfile(s.ctx, "b", &model.Profile{ID: "b"})
	_ = s.storage.SaveProfile(s.ctx, "a", &model.Profile{ID: "a", Name: "again"})

	n, err := s.storage.CountProfiles(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}
