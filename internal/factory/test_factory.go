package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/hardercore-api/internal/dependencies/mocks"
	"github.com/mcoot/hardercore-api/internal/services/auth"
	"github.com/mcoot/hardercore-api/internal/storage/memory"
	"github.com/mcoot/hardercore-api/internal/testutil"
)

// TestToken is the bearer token accepted by a TestApp
const TestToken = "test-token"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock    *mocks.MockClock
	MockResolver *mocks.MockResolver
}

// NewTestApp creates an App rooted at dataDir with mocked dependencies.
// It panics if the store cannot be opened.
func NewTestApp(dataDir string) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockResolver := mocks.NewMockResolver()

	cfg := Config{
		DataDir:    dataDir,
		AuthConfig: auth.Config{Token: TestToken, Cost: bcrypt.MinCost},
	}

	app, err := newWithDependencies(memory.New(), mockResolver, mockClock, cfg, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:          app,
		MockClock:    mockClock,
		MockResolver: mockResolver,
	}
}
