package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/hardercore-api/internal/model"
	redisstorage "github.com/mcoot/hardercore-api/internal/storage/redis"
	"github.com/mcoot/hardercore-api/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	dir string
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.dir = filepath.Join(s.T().TempDir(), "db")
	s.app = NewTestApp(s.dir)
	s.ctx = context.Background()
}

// Test: stats accumulate across a death and survive a restart
func (s *IntegrationSuite) TestGenerationLifecycle() {
	s.app.MockResolver.Add("steve", "Steve", "http://skins/steve")
	s.app.MockResolver.Add("alex", "Alex", "http://skins/alex")

	// Step 1: Both players play in generation 1
	s.Require().NoError(s.app.Store.ApplyStat(s.ctx, "steve", model.StatMobsKilled, 4))
	s.Require().NoError(s.app.Store.ApplyStat(s.ctx, "alex", model.StatFoodEaten, 2))
	s.Require().NoError(s.app.Store.AddUptime(600))

	// Step 2: Alex dies and generation 2 starts
	s.Require().NoError(s.app.Store.EndGeneration(model.DeathRecord{
		Killer:     "alex",
		SourceName: "Zombie",
		SourceType: "mob",
	}))
	s.Equal(uint64(2), s.app.Store.ActiveGeneration())
	s.Empty(s.app.Store.GetAllStats())

	// Step 3: Steve plays on; the profile is already cached
	s.Require().NoError(s.app.Store.ApplyStat(s.ctx, "steve", model.StatTimeInNether, 30))
	s.Equal(1, s.app.MockResolver.CallsFor("steve"))

	// Step 4: The saver flushes on shutdown
	s.Require().NoError(s.app.Saver.SaveNow())
	s.Equal(1, s.app.Saver.Status().Saves)

	// Step 5: A new process picks up where this one stopped
	restarted := NewTestApp(s.dir)
	s.Equal(uint64(2), restarted.Store.ActiveGeneration())
	stats, err := restarted.Store.GetStats("steve")
	s.Require().NoError(err)
	s.Equal(uint64(30), stats.TimeInNether)
	s.Zero(stats.MobsKilled)

	s.Require().NoError(restarted.Store.SwitchTo(1))
	death, ended := restarted.Store.Death()
	s.True(ended)
	s.Equal(model.PlayerID("alex"), death.Killer)
	total, active := restarted.Store.Uptime()
	s.Equal(uint64(600), total)
	s.Equal(uint64(600), active)
}

func (s *IntegrationSuite) TestAuthUsesConfiguredToken() {
	s.True(s.app.AuthService.Enabled())
	s.NoError(s.app.AuthService.Validate(TestToken))
	s.Error(s.app.AuthService.Validate("wrong"))
}

func (s *IntegrationSuite) TestNewRequiresDataDir() {
	_, err := New(Config{Logger: testutil.NopLogger()})
	s.Error(err)
}

func (s *IntegrationSuite) TestNewRejectsUnknownCache() {
	_, err := New(Config{DataDir: s.T().TempDir(), ProfileCache: "memcached"})
	s.Error(err)
}

func (s *IntegrationSuite) TestNewRedisRequiresConfig() {
	_, err := New(Config{DataDir: s.T().TempDir(), ProfileCache: ProfileCacheRedis})
	s.Error(err)
}

func (s *IntegrationSuite) TestNewWithRedisCache() {
	mr := miniredis.RunT(s.T())
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mr.Addr()

	app, err := New(Config{
		DataDir:      filepath.Join(s.T().TempDir(), "db"),
		SaveInterval: time.Second,
		ProfileCache: ProfileCacheRedis,
		RedisConfig:  &redisCfg,
	})
	s.Require().NoError(err)
	defer func() { s.NoError(app.Close()) }()

	s.Equal(uint64(1), app.Store.ActiveGeneration())
	n, err := app.IdentityCache.Len(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}
