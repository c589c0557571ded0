// Package relics tracks the player's equipped relics and turns lifecycle
// triggers into effects.
package relics

import (
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"go.uber.org/zap"
)

// Manager holds equipped relic ids in equip order.
type Manager struct {
	lib    *rules.Library
	ids    []string
	logger *zap.Logger
}

// NewManager creates an empty manager resolving definitions from lib.
func NewManager(lib *rules.Library, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{lib: lib, logger: logger}
}

// Add equips a relic. Duplicates are ignored and reported as false.
func (m *Manager) Add(id string) bool {
	if m.Has(id) {
		return false
	}
	m.ids = append(m.ids, id)
	if _, ok := m.lib.Relics.Get(id); !ok {
		m.logger.Warn("equipped unknown relic", zap.String("relic_id", id))
	}
	return true
}

// Has reports whether id is equipped.
func (m *Manager) Has(id string) bool {
	for _, existing := range m.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// IDs returns the equipped relic ids in equip order.
func (m *Manager) IDs() []string {
	return append([]string(nil), m.ids...)
}

// Dispatch asks every equipped relic, in equip order, to react to trigger and
// returns the concatenated effects. Unknown relics and passive relics
// contribute nothing.
func (m *Manager) Dispatch(trigger rules.Trigger, snapshot rules.Snapshot) []rules.Effect {
	var effects []rules.Effect
	for _, id := range m.ids {
		def, ok := m.lib.Relics.Get(id)
		if !ok || def.OnTrigger == nil {
			continue
		}
		produced := def.OnTrigger(trigger, snapshot)
		if len(produced) == 0 {
			continue
		}
		m.logger.Debug("relic triggered",
			zap.String("relic_id", id),
			zap.Stringer("trigger", trigger.Kind),
			zap.Int("effects", len(produced)),
		)
		effects = append(effects, produced...)
	}
	return effects
}
