package content

import (
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"github.com/magefree/battle-engine-go/internal/battle/status"
)

// Status ids.
const (
	StatusStrength          = "strength"
	StatusDexterity         = "dexterity"
	StatusVulnerable        = "vulnerable"
	StatusWeak              = rules.StatusWeak
	StatusFrail             = "frail"
	StatusPoison            = "poison"
	StatusMadness           = rules.StatusMadness
	StatusSequenceResonance = rules.StatusSequenceResonance
)

// multiplierPriority sorts multiplicative debuffs after any default-priority hook.
const multiplierPriority = 100

func addStacks(value, stacks int) int { return value + stacks }

func statusDefinitions() []rules.StatusDefinition {
	return []rules.StatusDefinition{
		{
			ID:       StatusStrength,
			Name:     "Strength",
			Icon:     "💪",
			Positive: true,
			Decay:    status.NoDecay,
			Outgoing: &rules.Hook{Phase: status.PhaseAdd, Modify: addStacks},
		},
		{
			ID:       StatusDexterity,
			Name:     "Dexterity",
			Icon:     "🏃",
			Positive: true,
			Decay:    status.NoDecay,
			Block:    &rules.Hook{Phase: status.PhaseAdd, Modify: addStacks},
		},
		{
			ID:       StatusVulnerable,
			Name:     "Vulnerable",
			Icon:     "💔",
			Decay:    status.DecayAtTurnEnd(1),
			Priority: multiplierPriority,
			Incoming: &rules.Hook{Phase: status.PhaseMultiply, Modify: func(v, _ int) int {
				return status.Scale(v, 3, 2)
			}},
		},
		{
			ID:       StatusWeak,
			Name:     "Weak",
			Icon:     "😵",
			Decay:    status.DecayAtTurnEnd(1),
			Priority: multiplierPriority,
			Outgoing: &rules.Hook{Phase: status.PhaseMultiply, Modify: func(v, _ int) int {
				return status.Scale(v, 3, 4)
			}},
		},
		{
			ID:       StatusFrail,
			Name:     "Frail",
			Icon:     "🦴",
			Decay:    status.DecayAtTurnEnd(1),
			Priority: multiplierPriority,
			Block: &rules.Hook{Phase: status.PhaseMultiply, Modify: func(v, _ int) int {
				return status.Scale(v, 3, 4)
			}},
		},
		{
			ID:    StatusPoison,
			Name:  "Poison",
			Icon:  "☠️",
			Decay: status.DecayAtTurnEnd(1),
			OnTurnEnd: func(owner rules.Target, stacks int, _ rules.Snapshot) []rules.Effect {
				if stacks <= 0 {
					return nil
				}
				return []rules.Effect{rules.DealDamage(owner, owner, stacks)}
			},
		},
		{
			// Madness never decays on its own; the engine lowers it by one at
			// the end of each player turn and checks its thresholds.
			ID:    StatusMadness,
			Name:  "Madness",
			Icon:  "🌀",
			Decay: status.NoDecay,
		},
		{
			// Grants block equal to its stacks after each resolved foresight.
			ID:       StatusSequenceResonance,
			Name:     "Sequence Resonance",
			Icon:     "🔔",
			Positive: true,
			Decay:    status.NoDecay,
		},
	}
}
