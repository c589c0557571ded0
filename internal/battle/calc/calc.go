// Package calc folds base damage and block values through status modifiers.
//
// Ordering: hooks are sorted by (phase, priority) and applied in that order,
// so every additive hook lands before any multiplicative one. Ties keep the
// status id order of status.Container.All. Results are clamped to >= 0.
package calc

import (
	"sort"

	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"github.com/magefree/battle-engine-go/internal/battle/status"
)

// StatusLookup resolves status definitions by id.
type StatusLookup interface {
	Get(id string) (rules.StatusDefinition, bool)
}

// Side says which fold an extra modifier joins.
type Side int

const (
	Outgoing Side = iota
	Incoming
)

// Extra is a modifier that does not come from a status, e.g. a relic
// condition. It is sorted together with the status hooks of its side.
type Extra struct {
	Side     Side
	Phase    status.ModifierPhase
	Priority int
	Modify   func(value int) int
}

type modifier struct {
	phase    status.ModifierPhase
	priority int
	modify   func(int) int
}

// Damage computes final damage from attacker to defender. The attacker's
// outgoing hooks fold first, then the defender's incoming hooks.
func Damage(base int, attacker, defender *rules.Entity, statuses StatusLookup, extra ...Extra) int {
	value := base

	outgoing := collect(attacker, statuses, func(def rules.StatusDefinition) *rules.Hook { return def.Outgoing })
	incoming := collect(defender, statuses, func(def rules.StatusDefinition) *rules.Hook { return def.Incoming })
	for _, x := range extra {
		m := modifier{phase: x.Phase, priority: x.Priority, modify: x.Modify}
		if x.Side == Outgoing {
			outgoing = append(outgoing, m)
		} else {
			incoming = append(incoming, m)
		}
	}

	value = fold(value, outgoing)
	value = fold(value, incoming)
	return max(0, value)
}

// Block computes final block gained by entity.
func Block(base int, entity *rules.Entity, statuses StatusLookup) int {
	mods := collect(entity, statuses, func(def rules.StatusDefinition) *rules.Hook { return def.Block })
	return max(0, fold(base, mods))
}

func collect(entity *rules.Entity, statuses StatusLookup, pick func(rules.StatusDefinition) *rules.Hook) []modifier {
	if entity == nil || statuses == nil {
		return nil
	}
	var mods []modifier
	for _, st := range entity.Statuses.All() {
		def, ok := statuses.Get(st.ID)
		if !ok {
			continue
		}
		hook := pick(def)
		if hook == nil || hook.Modify == nil {
			continue
		}
		stacks := st.Stacks
		modify := hook.Modify
		mods = append(mods, modifier{
			phase:    hook.Phase,
			priority: def.Priority,
			modify:   func(v int) int { return modify(v, stacks) },
		})
	}
	return mods
}

func fold(value int, mods []modifier) int {
	sort.SliceStable(mods, func(i, j int) bool {
		if mods[i].phase != mods[j].phase {
			return mods[i].phase < mods[j].phase
		}
		return mods[i].priority < mods[j].priority
	})
	for _, m := range mods {
		value = m.modify(value)
	}
	return value
}
