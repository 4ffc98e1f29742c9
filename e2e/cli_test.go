package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/hardercore-api/internal/api"
	"github.com/mcoot/hardercore-api/internal/api/response"
	"github.com/mcoot/hardercore-api/internal/cli"
	"github.com/mcoot/hardercore-api/internal/dependencies/mocks"
	"github.com/mcoot/hardercore-api/internal/factory"
	"github.com/mcoot/hardercore-api/internal/identity"
	"github.com/mcoot/hardercore-api/internal/services/auth"
	"github.com/mcoot/hardercore-api/internal/testutil"
)

const adminToken = "e2e-secret"

// cliRunner executes CLI commands in-process against a server
type cliRunner struct {
	serverURL string
	tokenFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()
	return &cliRunner{
		serverURL: serverURL,
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)
	return r.exec(fullArgs)
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)
	return r.exec(fullArgs)
}

func (r *cliRunner) exec(args []string) (string, error) {
	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

// identityServer fakes the external profile lookup service
type identityServer struct {
	*httptest.Server
	requests atomic.Int64
}

func startIdentityServer(t *testing.T) *identityServer {
	t.Helper()

	s := &identityServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		id := strings.TrimPrefix(r.URL.Path, "/")
		if id == "nobody" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		profile := mocks.NewProfile(id, strings.ToUpper(id[:1])+id[1:], "http://textures.example/skin/"+id)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(profile)
	}))
	t.Cleanup(s.Close)
	return s
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.App
	url      string
	dataDir  string
	shutdown func()
}

func startTestServer(t *testing.T, identityURL, dataDir string) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	hash, err := auth.HashToken(adminToken, bcrypt.MinCost)
	require.NoError(t, err)

	app, err := factory.New(factory.Config{
		DataDir:      dataDir,
		SaveInterval: time.Hour,
		Logger:       logger,
		AuthConfig:   auth.Config{TokenHash: hash},
		IdentityConfig: identity.ClientConfig{
			BaseURL: identityURL,
			Timeout: 5 * time.Second,
		},
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Store:       app.Store,
		Saver:       app.Saver,
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := api.NewServer(router, api.DefaultServerConfig(), testutil.NopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	saverDone := make(chan struct{})
	go func() {
		defer close(saverDone)
		app.Saver.Run(ctx)
	}()
	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + listener.Addr().String()
	waitForServer(t, serverURL+"/health")

	return &testServer{
		app:     app,
		url:     serverURL,
		dataDir: dataDir,
		shutdown: func() {
			_ = server.Shutdown(context.Background())
			cancel()
			<-saverDone
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("server at %s did not become ready", url)
}

func decodeJSON[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

func TestCLIHealth(t *testing.T) {
	ids := startIdentityServer(t)
	ts := startTestServer(t, ids.URL, filepath.Join(t.TempDir(), "db"))
	defer ts.shutdown()

	runner := newCLIRunner(t, ts.url)
	output, err := runner.run("health")
	require.NoError(t, err, output)

	health := decodeJSON[response.Health](t, output)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, uint64(1), health.World)

	output, err = runner.run("health", "--strict")
	require.NoError(t, err, output)
}

func TestCLIRejectsMissingToken(t *testing.T) {
	ids := startIdentityServer(t)
	ts := startTestServer(t, ids.URL, filepath.Join(t.TempDir(), "db"))
	defer ts.shutdown()

	runner := newCLIRunner(t, ts.url)

	_, err := runner.run("world", "create")
	var apiErr *cli.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.True(t, cli.IsUnauthorized(err))
	assert.NotEmpty(t, apiErr.RequestID)

	_, err = runner.runWithToken("wrong", "world", "create")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	assert.Equal(t, uint64(1), ts.app.Store.GenerationCount())
}

func TestCLITokenFile(t *testing.T) {
	ids := startIdentityServer(t)
	ts := startTestServer(t, ids.URL, filepath.Join(t.TempDir(), "db"))
	defer ts.shutdown()

	runner := newCLIRunner(t, ts.url)
	output, err := runner.run("token", "save", adminToken)
	require.NoError(t, err, output)

	output, err = runner.run("world", "create")
	require.NoError(t, err, output)
	assert.Equal(t, uint64(2), decodeJSON[response.World](t, output).World)
}

func TestCLIFullLifecycle(t *testing.T) {
	ids := startIdentityServer(t)
	dataDir := filepath.Join(t.TempDir(), "db")
	ts := startTestServer(t, ids.URL, dataDir)

	runner := newCLIRunner(t, ts.url)
	run := func(args ...string) string {
		t.Helper()
		output, err := runner.runWithToken(adminToken, args...)
		require.NoError(t, err, "hcstats %s: %s", strings.Join(args, " "), output)
		return output
	}

	// Steve and Alex play in world 1
	update := decodeJSON[response.StatsUpdate](t, run("stats", "put", "steve", "--time-in-water", "100", "--mobs-killed", "3"))
	assert.Equal(t, "Steve", update.Player.DisplayName)
	assert.Equal(t, "http://textures.example/skin/steve", update.Player.SkinURL)
	run("stats", "put", "steve", "--time-in-water", "20")
	run("stats", "put", "alex", "--food-eaten", "7")
	run("uptime", "set", "300")

	stats := decodeJSON[response.PlayerStats](t, run("stats", "get", "steve"))
	assert.Equal(t, uint64(120), stats.TimeInWater)
	assert.Equal(t, uint64(3), stats.MobsKilled)

	list := decodeJSON[response.StatsList](t, run("stats", "list"))
	require.Len(t, list.Players, 2)
	assert.Equal(t, "alex", list.Players[0].ID)

	// One lookup per player, however many updates
	assert.Equal(t, int64(2), ids.requests.Load())

	// Alex dies and world 2 begins
	update = decodeJSON[response.StatsUpdate](t, run("stats", "put", "alex", "--damage-taken", "20", "--died", "--source-name", "Creeper", "--source-type", "explosion"))
	assert.True(t, update.WorldEnded)
	assert.Equal(t, uint64(2), update.World)

	world := decodeJSON[response.World](t, run("world", "current"))
	assert.Equal(t, uint64(2), world.World)
	assert.Equal(t, uint64(2), world.Count)

	_, err := runner.runWithToken(adminToken, "stats", "get", "steve")
	var apiErr *cli.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	// Identity failures surface as a gateway error and leave no record
	_, err = runner.runWithToken(adminToken, "stats", "put", "nobody", "--food-eaten", "1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)

	run("stats", "put", "steve", "--time-in-nether", "5")
	run("uptime", "set", "60")
	uptime := decodeJSON[response.Uptime](t, run("uptime", "get"))
	assert.Equal(t, uint64(60), uptime.World)
	assert.Equal(t, uint64(360), uptime.Total)

	path := decodeJSON[response.DatabasePath](t, run("world", "path"))
	assert.Equal(t, dataDir, path.Path)

	// Shutdown flushes world 2
	ts.shutdown()

	// A restarted server resumes on world 2 with everything intact
	ts = startTestServer(t, ids.URL, dataDir)
	defer ts.shutdown()
	runner = newCLIRunner(t, ts.url)

	stats = decodeJSON[response.PlayerStats](t, run("stats", "get", "steve"))
	assert.Equal(t, uint64(5), stats.TimeInNether)
	assert.Zero(t, stats.TimeInWater)

	world = decodeJSON[response.World](t, run("world", "switch", "1"))
	assert.Equal(t, uint64(1), world.World)
	require.NotNil(t, world.Death)
	assert.Equal(t, "alex", world.Death.Killer)
	assert.Equal(t, "Creeper", world.Death.SourceName)

	alex := decodeJSON[response.PlayerStats](t, run("stats", "get", "alex"))
	assert.Equal(t, uint64(7), alex.FoodEaten)
	assert.Equal(t, uint64(20), alex.DamageTaken)

	uptime = decodeJSON[response.Uptime](t, run("uptime", "get"))
	assert.Equal(t, uint64(300), uptime.World)
	assert.Equal(t, uint64(360), uptime.Total)

	_, err = runner.runWithToken(adminToken, "world", "switch", "9")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestCLITextOutput(t *testing.T) {
	ids := startIdentityServer(t)
	ts := startTestServer(t, ids.URL, filepath.Join(t.TempDir(), "db"))
	defer ts.shutdown()

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs([]string{"--server", ts.url, "--token", adminToken, "stats", "put", "steve", "--food-eaten", "4"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Player: Steve (steve)")
	assert.Contains(t, out.String(), fmt.Sprintf("Food eaten:        %d", 4))
}
