package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/hardercore-api/internal/dependencies/clock"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidTokenHash   = errors.New("invalid token hash")
)

// Service checks the shared token that guards mutating requests.
// Only a bcrypt hash of the token is held in memory.
type Service struct {
	hash    []byte
	enabled bool
	clock   clock.Clock

	mu           sync.RWMutex
	verified     map[string]time.Time
	memoDuration time.Duration
}

// Config holds configuration for the auth service.
// TokenHash takes precedence over Token. With neither set, every request is
// accepted.
type Config struct {
	Token        string
	TokenHash    string
	Cost         int
	MemoDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		Cost:         bcrypt.DefaultCost,
		MemoDuration: 5 * time.Minute,
	}
}

// New creates a new auth Service
func New(clk clock.Clock, cfg Config) (*Service, error) {
	defaults := DefaultConfig()
	if cfg.Cost == 0 {
		cfg.Cost = defaults.Cost
	}
	if cfg.MemoDuration == 0 {
		cfg.MemoDuration = defaults.MemoDuration
	}

	s := &Service{
		clock:        clk,
		verified:     make(map[string]time.Time),
		memoDuration: cfg.MemoDuration,
	}

	switch {
	case cfg.TokenHash != "":
		if _, err := bcrypt.Cost([]byte(cfg.TokenHash)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTokenHash, err)
		}
		s.hash = []byte(cfg.TokenHash)
		s.enabled = true
	case cfg.Token != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Token), cfg.Cost)
		if err != nil {
			return nil, err
		}
		s.hash = hash
		s.enabled = true
	}

	return s, nil
}

// Enabled reports whether a token is required
func (s *Service) Enabled() bool {
	return s.enabled
}

// Validate checks token against the configured hash. Tokens that passed
// recently are accepted without repeating the bcrypt comparison.
func (s *Service) Validate(token string) error {
	if !s.enabled {
		return nil
	}
	if token == "" {
		return ErrMissingCredentials
	}

	key := memoKey(token)
	now := s.clock.Now()

	s.mu.RLock()
	expires, ok := s.verified[key]
	s.mu.RUnlock()
	if ok && now.Before(expires) {
		return nil
	}

	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(token)); err != nil {
		return ErrInvalidCredentials
	}

	s.mu.Lock()
	s.verified[key] = now.Add(s.memoDuration)
	s.mu.Unlock()
	return nil
}

// CleanExpired drops memoized tokens past their expiry
func (s *Service) CleanExpired() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, expires := range s.verified {
		if !now.Before(expires) {
			delete(s.verified, key)
		}
	}
}

// HashToken returns the bcrypt hash to configure in place of a plaintext token
func HashToken(token string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func memoKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
