package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mcoot/hardercore-api/internal/model"
)

// Reserved file names inside a generation directory
const (
	MetadataFile = "global.json"
	DeathFile    = "killed.json"
)

// Resolver translates a player id into a profile
type Resolver interface {
	Resolve(ctx context.Context, id model.PlayerID) (*model.Profile, error)
}

// Generation is the stat state of one world epoch.
// It is not safe for concurrent use; the owning store serializes access.
type Generation struct {
	ordinal uint64
	records map[model.PlayerID]*model.PlayerStats
	uptime  uint64
	death   *model.DeathRecord
}

// New creates an empty in-memory generation
func New(ordinal uint64) *Generation {
	return &Generation{
		ordinal: ordinal,
		records: make(map[model.PlayerID]*model.PlayerStats),
	}
}

// Create allocates an empty generation and its directory.
// The directory must not already exist.
func Create(ordinal uint64, dir string) (*Generation, error) {
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", model.ErrIO, dir, err)
	}
	return New(ordinal), nil
}

// Load reads every record of a generation from dir. Any unreadable or
// malformed file fails the whole load.
func Load(ordinal uint64, dir string) (*Generation, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrIO, dir, err)
	}

	g := New(ordinal)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", model.ErrIO, name, err)
		}

		switch name {
		case MetadataFile:
			var meta model.Metadata
			if err := json.Unmarshal(data, &meta); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", model.ErrMetadataParse, name, err)
			}
			g.uptime = meta.Uptime
		case DeathFile:
			var death model.DeathRecord
			if err := json.Unmarshal(data, &death); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", model.ErrMetadataParse, name, err)
			}
			g.death = &death
		default:
			var stats model.PlayerStats
			if err := json.Unmarshal(data, &stats); err != nil {
				return nil, &model.RecordParseError{File: name, Err: err}
			}
			id := model.PlayerID(strings.TrimSuffix(name, ".json"))
			g.records[id] = &stats
		}
	}

	return g, nil
}

// Ordinal returns the generation's 1-based number
func (g *Generation) Ordinal() uint64 {
	return g.ordinal
}

// Len returns the number of player records
func (g *Generation) Len() int {
	return len(g.records)
}

// Has reports whether a record exists for id
func (g *Generation) Has(id model.PlayerID) bool {
	_, ok := g.records[id]
	return ok
}

// Get returns a copy of the record for id
func (g *Generation) Get(id model.PlayerID) (model.PlayerStats, error) {
	stats, ok := g.records[id]
	if !ok {
		return model.PlayerStats{}, fmt.Errorf("%w: %s", model.ErrPlayerNotFound, id)
	}
	return *stats, nil
}

// Snapshot returns copies of all records ordered by id
func (g *Generation) Snapshot() []model.PlayerSnapshot {
	out := make([]model.PlayerSnapshot, 0, len(g.records))
	for id, stats := range g.records {
		out = append(out, model.PlayerSnapshot{ID: id, PlayerStats: *stats})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Uptime returns the generation's cumulative uptime
func (g *Generation) Uptime() uint64 {
	return g.uptime
}

// SetUptime replaces the generation's uptime, returning the previous value
func (g *Generation) SetUptime(seconds uint64) uint64 {
	prev := g.uptime
	g.uptime = seconds
	return prev
}

// AddUptime increments the generation's uptime
func (g *Generation) AddUptime(seconds uint64) error {
	sum, err := model.CheckedAdd(g.uptime, seconds)
	if err != nil {
		return fmt.Errorf("uptime: %w", err)
	}
	g.uptime = sum
	return nil
}

// Death returns the death record, if the generation has ended
func (g *Generation) Death() (model.DeathRecord, bool) {
	if g.death == nil {
		return model.DeathRecord{}, false
	}
	return *g.death, true
}

// EnsureRecord returns the record for id, creating it from the resolved
// profile if this is the first touch in the generation
func (g *Generation) EnsureRecord(ctx context.Context, id model.PlayerID, r Resolver) (*model.PlayerStats, error) {
	if stats, ok := g.records[id]; ok {
		return stats, nil
	}

	stats, err := newRecord(ctx, id, r)
	if err != nil {
		return nil, err
	}
	g.records[id] = stats
	return stats, nil
}

// newRecord builds a zeroed record for id without adding it to the generation
func newRecord(ctx context.Context, id model.PlayerID, r Resolver) (*model.PlayerStats, error) {
	profile, err := r.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	skinURL, err := profile.SkinURL()
	if err != nil {
		return nil, err
	}
	return &model.PlayerStats{
		DisplayName: profile.Name,
		SkinURL:     skinURL,
	}, nil
}

// ApplyDelta adds amount to one counter of id's record
func (g *Generation) ApplyDelta(ctx context.Context, id model.PlayerID, field model.StatField, amount uint64, r Resolver) error {
	return g.ApplyDeltas(ctx, id, []model.StatDelta{{Field: field, Amount: amount}}, r)
}

// ApplyDeltas adds every delta to id's record, or none of them on overflow.
// A record for a new id is only kept once its deltas have landed. An empty
// delta list only touches the record.
func (g *Generation) ApplyDeltas(ctx context.Context, id model.PlayerID, deltas []model.StatDelta, r Resolver) error {
	stats, existing := g.records[id]
	if !existing {
		var err error
		if stats, err = newRecord(ctx, id, r); err != nil {
			return err
		}
	}

	if err := stats.AddAll(deltas); err != nil {
		return fmt.Errorf("player %s: %w", id, err)
	}
	if !existing {
		g.records[id] = stats
	}
	return nil
}

// Persist writes every record and the metadata file into dir, replacing
// whatever was there
func (g *Generation) Persist(dir string) error {
	for id, stats := range g.records {
		if err := writeJSON(filepath.Join(dir, string(id)+".json"), stats); err != nil {
			return err
		}
	}
	return writeJSON(filepath.Join(dir, MetadataFile), model.Metadata{Uptime: g.uptime})
}

// RecordDeath writes the death record, then flushes the generation. The
// death file is written on its own first so it survives a failed flush.
func (g *Generation) RecordDeath(death model.DeathRecord, dir string) error {
	if err := writeJSON(filepath.Join(dir, DeathFile), death); err != nil {
		return err
	}
	g.death = &death
	return g.Persist(dir)
}

// writeJSON pretty-prints v to path through a temp file and rename
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", model.ErrIO, filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", model.ErrIO, filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: write %s: %v", model.ErrIO, filepath.Base(path), err)
	}
	return nil
}

// WriteMetadata writes an uptime metadata file at path
func WriteMetadata(path string, meta model.Metadata) error {
	return writeJSON(path, meta)
}

// ReadMetadata reads an uptime metadata file. A missing file reads as zero.
func ReadMetadata(path string) (model.Metadata, error) {
	var meta model.Metadata
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return meta, nil
		}
		return meta, fmt.Errorf("%w: read %s: %v", model.ErrIO, filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("%w: %s: %v", model.ErrMetadataParse, filepath.Base(path), err)
	}
	return meta, nil
}
