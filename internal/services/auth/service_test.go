package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/hardercore-api/internal/dependencies/mocks"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	svc, err := New(s.clock, Config{Token: "s3cret", Cost: bcrypt.MinCost})
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceSuite) TestValidateAcceptsToken() {
	s.True(s.service.Enabled())
	s.NoError(s.service.Validate("s3cret"))
}

func (s *ServiceSuite) TestValidateRejectsWrongToken() {
	s.ErrorIs(s.service.Validate("guess"), ErrInvalidCredentials)
}

func (s *ServiceSuite) TestValidateRejectsMissingToken() {
	s.ErrorIs(s.service.Validate(""), ErrMissingCredentials)
}

func (s *ServiceSuite) TestValidateMemoizesSuccess() {
	s.Require().NoError(s.service.Validate("s3cret"))
	s.Len(s.service.verified, 1)

	s.NoError(s.service.Validate("s3cret"))
	s.Len(s.service.verified, 1)
}

func (s *ServiceSuite) TestValidateDoesNotMemoizeFailure() {
	_ = s.service.Validate("guess")
	s.Empty(s.service.verified)
}

func (s *ServiceSuite) TestCleanExpired() {
	s.Require().NoError(s.service.Validate("s3cret"))

	s.clock.Advance(DefaultConfig().MemoDuration - time.Second)
	s.service.CleanExpired()
	s.Len(s.service.verified, 1)

	s.clock.Advance(time.Second)
	s.service.CleanExpired()
	s.Empty(s.service.verified)

	// Still valid after the memo expires
	s.NoError(s.service.Validate("s3cret"))
}

func (s *ServiceSuite) TestTokenHashConfig() {
	hash, err := HashToken("hashed", bcrypt.MinCost)
	s.Require().NoError(err)

	svc, err := New(s.clock, Config{TokenHash: hash, Token: "ignored"})
	s.Require().NoError(err)

	s.NoError(svc.Validate("hashed"))
	s.ErrorIs(svc.Validate("ignored"), ErrInvalidCredentials)
}

func (s *ServiceSuite) TestInvalidTokenHash() {
	_, err := New(s.clock, Config{TokenHash: "not-a-bcrypt-hash"})
	s.ErrorIs(err, ErrInvalidTokenHash)
}

func (s *ServiceSuite) TestDisabledAcceptsEverything() {
	svc, err := New(s.clock, Config{})
	s.Require().NoError(err)

	s.False(svc.Enabled())
	s.NoError(svc.Validate(""))
	s.NoError(svc.Validate("anything"))
}
