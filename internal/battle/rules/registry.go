package rules

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownID is returned when a registry has no definition for an id.
var ErrUnknownID = errors.New("unknown definition id")

// Registry is a read-mostly table of definitions keyed by string id.
type Registry[T any] struct {
	kind  string
	mu    sync.RWMutex
	items map[string]T
	order []string
}

// NewRegistry creates an empty registry. kind names the definition type in errors.
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, items: make(map[string]T)}
}

// Register adds or replaces a definition.
func (r *Registry[T]) Register(id string, def T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[id]; !exists {
		r.order = append(r.order, id)
	}
	r.items[id] = def
}

// Get returns the definition for id and whether it exists.
func (r *Registry[T]) Get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.items[id]
	return def, ok
}

// Require returns the definition for id or an error wrapping ErrUnknownID.
func (r *Registry[T]) Require(id string) (T, error) {
	def, ok := r.Get(id)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %q", ErrUnknownID, r.kind, id)
	}
	return def, nil
}

// IDs returns every registered id in registration order.
func (r *Registry[T]) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of definitions.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Library bundles the four content registries the engine consumes.
type Library struct {
	Cards    *Registry[CardDefinition]
	Enemies  *Registry[EnemyDefinition]
	Statuses *Registry[StatusDefinition]
	Relics   *Registry[RelicDefinition]
}

// NewLibrary creates a library with empty registries.
func NewLibrary() *Library {
	return &Library{
		Cards:    NewRegistry[CardDefinition]("card"),
		Enemies:  NewRegistry[EnemyDefinition]("enemy"),
		Statuses: NewRegistry[StatusDefinition]("status"),
		Relics:   NewRegistry[RelicDefinition]("relic"),
	}
}

// RegisterCard adds a card definition.
func (l *Library) RegisterCard(def CardDefinition) { l.Cards.Register(def.ID, def) }

// RegisterEnemy adds an enemy definition.
func (l *Library) RegisterEnemy(def EnemyDefinition) { l.Enemies.Register(def.ID, def) }

// RegisterStatus adds a status definition.
func (l *Library) RegisterStatus(def StatusDefinition) { l.Statuses.Register(def.ID, def) }

// RegisterRelic adds a relic definition.
func (l *Library) RegisterRelic(def RelicDefinition) { l.Relics.Register(def.ID, def) }
