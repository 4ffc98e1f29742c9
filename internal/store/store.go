package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mcoot/hardercore-api/internal/generation"
	"github.com/mcoot/hardercore-api/internal/model"
)

const (
	// GenerationsDir holds one subdirectory per generation
	GenerationsDir = "worlds"
	// MetadataFile holds store-wide uptime at the root
	MetadataFile = "global.json"
)

// Store owns the active generation and serializes every operation on it.
// Mutations take the write lock; reads share the read lock. Identity lookups
// happen before the lock is taken.
type Store struct {
	root     string
	resolver generation.Resolver
	logger   *slog.Logger

	mu     sync.RWMutex
	active *generation.Generation
	count  uint64
	uptime uint64
}

// Initialize creates a fresh store under root with generation 1 active.
// It fails with model.ErrStoreNotEmpty if root already holds generations.
func Initialize(root string, resolver generation.Resolver, logger *slog.Logger) (*Store, error) {
	gensDir := filepath.Join(root, GenerationsDir)
	if err := os.MkdirAll(gensDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", model.ErrIO, gensDir, err)
	}

	existing, err := scanGenerations(gensDir)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrStoreNotEmpty, root)
	}

	s := &Store{root: root, resolver: resolver, logger: logger}

	g, err := generation.Create(1, s.generationDir(1))
	if err != nil {
		return nil, err
	}
	if err := generation.WriteMetadata(s.metadataPath(), model.Metadata{}); err != nil {
		return nil, err
	}
	s.active = g
	s.count = 1

	logger.Info("store initialized", slog.String("root", root))
	return s, nil
}

// Open loads an existing store, activating its highest generation
func Open(root string, resolver generation.Resolver, logger *slog.Logger) (*Store, error) {
	gensDir := filepath.Join(root, GenerationsDir)
	info, err := os.Stat(gensDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrGenerationsDirectoryNotFound, gensDir)
		}
		return nil, fmt.Errorf("%w: stat %s: %v", model.ErrIO, gensDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", model.ErrGenerationsDirectoryNotFound, gensDir)
	}

	ordinals, err := scanGenerations(gensDir)
	if err != nil {
		return nil, err
	}
	if len(ordinals) == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrNoGenerations, gensDir)
	}

	var highest uint64
	for _, n := range ordinals {
		highest = max(highest, n)
	}

	s := &Store{root: root, resolver: resolver, logger: logger}

	g, err := generation.Load(highest, s.generationDir(highest))
	if err != nil {
		return nil, err
	}
	meta, err := generation.ReadMetadata(s.metadataPath())
	if err != nil {
		return nil, err
	}

	s.active = g
	s.count = highest
	s.uptime = meta.Uptime

	logger.Info("store opened",
		slog.String("root", root),
		slog.Uint64("generation", highest),
		slog.Int("players", g.Len()),
	)
	return s, nil
}

// OpenOrInitialize opens the store at root, initializing it only when it has
// never been created
func OpenOrInitialize(root string, resolver generation.Resolver, logger *slog.Logger) (*Store, error) {
	s, err := Open(root, resolver, logger)
	if errors.Is(err, model.ErrGenerationsDirectoryNotFound) {
		return Initialize(root, resolver, logger)
	}
	return s, err
}

// scanGenerations returns the ordinal of every generation directory
func scanGenerations(gensDir string) ([]uint64, error) {
	entries, err := os.ReadDir(gensDir)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrIO, gensDir, err)
	}

	var ordinals []uint64
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		n, err := model.ParseGenerationDirName(entry.Name())
		if err != nil {
			return nil, err
		}
		ordinals = append(ordinals, n)
	}
	return ordinals, nil
}

func (s *Store) generationDir(n uint64) string {
	return filepath.Join(s.root, GenerationsDir, model.GenerationDirName(n))
}

func (s *Store) metadataPath() string {
	return filepath.Join(s.root, MetadataFile)
}

// Root returns the storage root directory
func (s *Store) Root() string {
	return s.root
}

// ActiveGeneration returns the ordinal of the active generation
func (s *Store) ActiveGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Ordinal()
}

// GenerationCount returns the number of generations created so far
func (s *Store) GenerationCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Uptime returns the store-wide and active-generation uptime
func (s *Store) Uptime() (total, active uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uptime, s.active.Uptime()
}

// SwitchTo makes generation n active. The outgoing generation is not
// flushed; callers that need its in-memory changes must persist first.
func (s *Store) SwitchTo(n uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n == 0 || n > s.count {
		return &model.GenerationNotFoundError{N: n}
	}

	g, err := generation.Load(n, s.generationDir(n))
	if err != nil {
		return err
	}

	prev := s.active.Ordinal()
	s.active = g
	s.logger.Info("switched generation",
		slog.Uint64("from", prev),
		slog.Uint64("to", n),
	)
	return nil
}

// CreateNext creates a new empty generation and makes it active
func (s *Store) CreateNext() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createNextLocked()
}

func (s *Store) createNextLocked() error {
	next := s.count + 1
	g, err := generation.Create(next, s.generationDir(next))
	if err != nil {
		// count is only advanced once the directory exists
		return err
	}

	s.count = next
	s.active = g
	s.logger.Info("created generation", slog.Uint64("generation", next))
	return nil
}

// ApplyStat adds amount to one counter of id's record in the active generation
func (s *Store) ApplyStat(ctx context.Context, id model.PlayerID, field model.StatField, amount uint64) error {
	return s.ApplyStats(ctx, id, []model.StatDelta{{Field: field, Amount: amount}})
}

// ApplyStats adds every delta to id's record, creating the record on first
// touch. Either all deltas land or none do.
func (s *Store) ApplyStats(ctx context.Context, id model.PlayerID, deltas []model.StatDelta) error {
	if err := s.warmIdentity(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.ApplyDeltas(ctx, id, deltas, s.resolver)
}

// ApplyStatsAndEnd applies deltas to id's record, then ends the active
// generation with death. Both happen under one lock, so no other update can
// land in between. It returns id's record as of the ended generation. If the
// deltas fail the generation is not ended.
func (s *Store) ApplyStatsAndEnd(ctx context.Context, id model.PlayerID, deltas []model.StatDelta, death model.DeathRecord) (model.PlayerStats, error) {
	if err := s.warmIdentity(ctx, id); err != nil {
		return model.PlayerStats{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.active.ApplyDeltas(ctx, id, deltas, s.resolver); err != nil {
		return model.PlayerStats{}, err
	}
	stats, err := s.active.Get(id)
	if err != nil {
		return model.PlayerStats{}, err
	}
	if err := s.endLocked(death); err != nil {
		return model.PlayerStats{}, err
	}
	return stats, nil
}

// warmIdentity resolves id through the cache without holding the store lock,
// unless the active generation already has a record for it
func (s *Store) warmIdentity(ctx context.Context, id model.PlayerID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	s.mu.RLock()
	known := s.active.Has(id)
	s.mu.RUnlock()
	if known {
		return nil
	}

	_, err := s.resolver.Resolve(ctx, id)
	return err
}

// AddUptime adds seconds to both the active generation's and the store-wide uptime
func (s *Store) AddUptime(seconds uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, err := model.CheckedAdd(s.uptime, seconds)
	if err != nil {
		return fmt.Errorf("store uptime: %w", err)
	}
	if err := s.active.AddUptime(seconds); err != nil {
		return err
	}
	s.uptime = total
	return nil
}

// SetUptime records the active generation's uptime as reported by the game
// server. The store-wide uptime grows by however much the generation's uptime
// grew; a lower report (the game server restarted) leaves it unchanged.
func (s *Store) SetUptime(seconds uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.uptime
	if prev := s.active.Uptime(); seconds > prev {
		var err error
		if total, err = model.CheckedAdd(s.uptime, seconds-prev); err != nil {
			return fmt.Errorf("store uptime: %w", err)
		}
	}
	s.active.SetUptime(seconds)
	s.uptime = total
	return nil
}

// EndGeneration records the death that ended the active generation, flushes
// it, and starts the next one. No other operation can observe the state in
// between.
func (s *Store) EndGeneration(death model.DeathRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endLocked(death)
}

func (s *Store) endLocked(death model.DeathRecord) error {
	ended := s.active.Ordinal()
	if err := s.active.RecordDeath(death, s.generationDir(ended)); err != nil {
		return fmt.Errorf("end generation %d: %w", ended, err)
	}
	if err := s.createNextLocked(); err != nil {
		return fmt.Errorf("end generation %d: %w", ended, err)
	}

	s.logger.Info("generation ended",
		slog.Uint64("generation", ended),
		slog.String("killer", string(death.Killer)),
		slog.String("source_type", death.SourceType),
		slog.String("source_name", death.SourceName),
	)
	return nil
}

// GetStats returns id's record in the active generation. It never creates one.
func (s *Store) GetStats(id model.PlayerID) (model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Get(id)
}

// GetAllStats returns every record of the active generation ordered by id
func (s *Store) GetAllStats() []model.PlayerSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Snapshot()
}

// Death returns the active generation's death record, if it has one
func (s *Store) Death() (model.DeathRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Death()
}

// PersistActive flushes the active generation and the store-wide metadata
func (s *Store) PersistActive() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.active.Persist(s.generationDir(s.active.Ordinal())); err != nil {
		return err
	}
	return generation.WriteMetadata(s.metadataPath(), model.Metadata{Uptime: s.uptime})
}
