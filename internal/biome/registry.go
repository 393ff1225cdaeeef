package biome

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// GeneratorFunc produces a new biome definition for an unknown key. The real
// implementation calls the narrative AI service; tests inject a stub.
type GeneratorFunc func(ctx context.Context, key string) (*Definition, error)

// Registry resolves biome keys to definitions. Known keys come from the
// built-in palettes and from definitions generated earlier; unknown keys are
// handed to the generator and the result is persisted for reuse.
type Registry struct {
	mu       sync.RWMutex
	defs     map[string]*Definition
	generate GeneratorFunc
	path     string // yaml file for generated definitions, empty disables persistence
}

// NewRegistry creates a registry seeded with the legacy biomes.
func NewRegistry(generate GeneratorFunc, path string) *Registry {
	defs := make(map[string]*Definition, len(legacy))
	for key, def := range legacy {
		defs[key] = def
	}
	return &Registry{defs: defs, generate: generate, path: path}
}

// Load merges previously persisted definitions into the registry. A missing
// file is not an error.
func (r *Registry) Load() error {
	if r.path == "" {
		return nil
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read biome file: %w", err)
	}

	var stored map[string]*Definition
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to parse biome file: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for key, def := range stored {
		r.defs[key] = def
	}
	return nil
}

// Resolve returns the definition for a key, generating and persisting a new
// one when the key is unknown. If no generator is configured, unknown keys
// fall back to the legacy dungeon palette so room generation never blocks on
// the AI layer.
func (r *Registry) Resolve(ctx context.Context, key string) (*Definition, error) {
	r.mu.RLock()
	def, ok := r.defs[key]
	r.mu.RUnlock()
	if ok {
		return def, nil
	}

	if r.generate == nil {
		return Legacy(key), nil
	}

	def, err := r.generate(ctx, key)
	if err != nil {
		return Legacy(key), fmt.Errorf("biome generation for %q failed: %w", key, err)
	}
	if def.Name == "" {
		def.Name = key
	}

	r.mu.Lock()
	r.defs[key] = def
	r.mu.Unlock()

	if err := r.save(); err != nil {
		// Persistence failure degrades to in-memory only; the definition
		// is still usable for this session.
		return def, nil
	}
	return def, nil
}

// Known returns true if the key resolves without generation.
func (r *Registry) Known(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[key]
	return ok
}

// save writes the non-legacy definitions back to the yaml file.
func (r *Registry) save() error {
	if r.path == "" {
		return nil
	}

	r.mu.RLock()
	generated := make(map[string]*Definition)
	for key, def := range r.defs {
		if _, builtin := legacy[key]; !builtin {
			generated[key] = def
		}
	}
	r.mu.RUnlock()

	data, err := yaml.Marshal(generated)
	if err != nil {
		return fmt.Errorf("failed to marshal biomes: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write biome file: %w", err)
	}
	return nil
}
