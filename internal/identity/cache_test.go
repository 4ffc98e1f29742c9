package identity_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/hardercore-api/internal/api/apierr"
	"github.com/mcoot/hardercore-api/internal/dependencies/mocks"
	"github.com/mcoot/hardercore-api/internal/identity"
	"github.com/mcoot/hardercore-api/internal/model"
	"github.com/mcoot/hardercore-api/internal/storage/memory"
	"github.com/mcoot/hardercore-api/internal/testutil"
)

type CacheSuite struct {
	suite.Suite
	resolver *mocks.MockResolver
	storage  *memory.Storage
	cache    *identity.Cache
	ctx      context.Context
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.resolver = mocks.NewMockResolver()
	s.storage = memory.New()
	s.cache = identity.NewCache(s.resolver, s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *CacheSuite) TestResolveMissFetchesAndStores() {
	s.resolver.Add("abc", "Steve", "http://skins/steve")

	profile, err := s.cache.Resolve(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal("Steve", profile.Name)

	stored, err := s.storage.GetProfile(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal("Steve", stored.Name)
}

func (s *CacheSuite) TestResolveHitSkipsLookup() {
	_, err := s.cache.Resolve(s.ctx, "abc")
	s.Require().NoError(err)
	_, err = s.cache.Resolve(s.ctx, "abc")
	s.Require().NoError(err)

	s.Equal(1, s.resolver.CallsFor("abc"))
}

func (s *CacheSuite) TestConcurrentCallersShareOneLookup() {
	s.resolver.Gate = make(chan struct{})

	const callers = 50
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.cache.Resolve(s.ctx, "abc")
			errs <- err
		}()
	}

	// Let the callers pile up behind the in-flight lookup
	s.Eventually(func() bool { return s.resolver.CallsFor("abc") == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(s.resolver.Gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	s.Equal(1, s.resolver.CallsFor("abc"))
}

func (s *CacheSuite) TestDistinctIDsResolveIndependently() {
	_, _ = s.cache.Resolve(s.ctx, "a")
	_, _ = s.cache.Resolve(s.ctx, "b")

	s.Equal(1, s.resolver.CallsFor("a"))
	s.Equal(1, s.resolver.CallsFor("b"))

	n, err := s.cache.Len(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *CacheSuite) TestFailureIsNotCached() {
	s.resolver.SetErr(model.ErrIdentityUnavailable)

	_, err := s.cache.Resolve(s.ctx, "abc")
	s.ErrorIs(err, model.ErrIdentityUnavailable)

	_, err = s.storage.GetProfile(s.ctx, "abc")
	s.ErrorIs(err, model.ErrProfileNotFound)

	s.resolver.SetErr(nil)
	profile, err := s.cache.Resolve(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal("abc", profile.Name)
	s.Equal(2, s.resolver.CallsFor("abc"))
}

func (s *CacheSuite) TestCancelledCallerDoesNotFailOthers() {
	s.resolver.Gate = make(chan struct{})

	ctx, cancel := context.WithCancel(s.ctx)
	cancelledErr := make(chan error, 1)
	go func() {
		_, err := s.cache.Resolve(ctx, "abc")
		cancelledErr <- err
	}()
	s.Eventually(func() bool { return s.resolver.CallsFor("abc") == 1 }, time.Second, 5*time.Millisecond)

	patientErr := make(chan error, 1)
	go func() {
		_, err := s.cache.Resolve(s.ctx, "abc")
		patientErr <- err
	}()

	cancel()
	s.True(errors.Is(<-cancelledErr, model.ErrIdentityUnavailable))

	close(s.resolver.Gate)
	s.NoError(<-patientErr)
	s.Equal(1, s.resolver.CallsFor("abc"))
}

// unavailableStore fails every operation, like a cache backend that is down
type unavailableStore struct{}

func (unavailableStore) GetProfile(context.Context, model.PlayerID) (*model.Profile, error) {
	return nil, errors.New("connection refused")
}

func (unavailableStore) SaveProfile(context.Context, model.PlayerID, *model.Profile) error {
	return errors.New("connection refused")
}

func (unavailableStore) CountProfiles(context.Context) (int, error) {
	return 0, errors.New("connection refused")
}

func (s *CacheSuite) TestBackendFailureIsIdentityUnavailable() {
	cache := identity.NewCache(s.resolver, unavailableStore{}, testutil.NopLogger())

	_, err := cache.Resolve(s.ctx, "abc")
	s.ErrorIs(err, model.ErrIdentityUnavailable)
	s.ErrorContains(err, "connection refused")
	s.Equal(http.StatusBadGateway, apierr.Status(err))
}
