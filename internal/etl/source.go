package etl

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// ── Source ──────────────────────────────────────────────────
// A Source extracts seed records from a file.
// Implementations live in etl/sources/, one file per format.

// SourceConfig is an opaque configuration map parsed per source type.
type SourceConfig map[string]any

// SourceSpec describes a source type.
type SourceSpec struct {
	Type      string `json:"type"`
	Label     string `json:"label"`
	Extension string `json:"extension"` // seed file extension without the dot
}

// Source is the interface every seed reader must implement.
type Source interface {
	// Spec returns metadata about this source type.
	Spec() SourceSpec

	// Discover returns the fields the source will emit.
	Discover(ctx context.Context, cfg SourceConfig) (*Schema, error)

	// Read streams records from the source into a channel.
	// The channel is closed when all records have been read or ctx is cancelled.
	// Errors are sent on the error channel (buffered size 1).
	Read(ctx context.Context, cfg SourceConfig) (<-chan Record, <-chan error)
}

// ── Source Registry ────────────────────────────────────────
// Compile-time registration via init() in each source file.

var (
	registryMu sync.RWMutex
	registry   = map[string]Source{}
)

// RegisterSource registers a source by its spec type.
// Called from init() in each source implementation file.
func RegisterSource(s Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Spec().Type] = s
}

// GetSource returns a registered source by type, or an error if not found.
func GetSource(typ string) (Source, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[typ]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %q", typ)
	}
	return s, nil
}

// SourceForFormat returns the source reading files with the given extension.
func SourceForFormat(ext string) (Source, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, s := range registry {
		if s.Spec().Extension == ext {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no source for format %q", ext)
}

// ListSources returns the specs of all registered sources, ordered by type.
func ListSources() []SourceSpec {
	registryMu.RLock()
	defer registryMu.RUnlock()
	specs := make([]SourceSpec, 0, len(registry))
	for _, s := range registry {
		specs = append(specs, s.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Type < specs[j].Type })
	return specs
}
