package content

import "github.com/magefree/battle-engine-go/internal/battle/rules"

// Relic ids.
const (
	RelicBurningBlood = "burning_blood"
	RelicVajra        = "vajra"
	RelicLantern      = "lantern"
	RelicThirdEye     = "third_eye"
	RelicBrokenWatch  = rules.RelicBrokenWatch
	RelicSanityAnchor = rules.RelicSanityAnchor
	RelicAbyssalEye   = "abyssal_eye"
	RelicProphetNotes = rules.RelicProphetNotes
	RelicMadnessMask  = rules.RelicMadnessMask
)

func onBattleStart(effects ...rules.Effect) func(rules.Trigger, rules.Snapshot) []rules.Effect {
	return func(trigger rules.Trigger, _ rules.Snapshot) []rules.Effect {
		if trigger.Kind != rules.TriggerBattleStart {
			return nil
		}
		return append([]rules.Effect(nil), effects...)
	}
}

func relicDefinitions() []rules.RelicDefinition {
	return []rules.RelicDefinition{
		{
			ID:          RelicBurningBlood,
			Name:        "Burning Blood",
			Description: "At the end of a won battle, heal 6 HP.",
			Rarity:      rules.RarityStarter,
			Icon:        "🩸",
			OnTrigger: func(trigger rules.Trigger, _ rules.Snapshot) []rules.Effect {
				if trigger.Kind != rules.TriggerBattleEnd || !trigger.Won {
					return nil
				}
				return []rules.Effect{rules.Heal(rules.Player(), 6)}
			},
		},
		{
			ID:          RelicVajra,
			Name:        "Vajra",
			Description: "At the start of each battle, gain 1 Strength.",
			Rarity:      rules.RarityCommon,
			Icon:        "🔱",
			OnTrigger:   onBattleStart(rules.ApplyStatus(rules.Player(), StatusStrength, 1)),
		},
		{
			ID:          RelicLantern,
			Name:        "Lantern",
			Description: "At the start of each battle, gain 1 energy.",
			Rarity:      rules.RarityCommon,
			Icon:        "🏮",
			OnTrigger:   onBattleStart(rules.GainEnergy(1)),
		},
		{
			ID:          RelicThirdEye,
			Name:        "Third Eye",
			Description: "At the start of each battle, Foresight 2.",
			Rarity:      rules.RarityCommon,
			Icon:        "👁️",
			OnTrigger:   onBattleStart(rules.Foresight(2)),
		},
		{
			ID:          RelicBrokenWatch,
			Name:        "Broken Watch",
			Description: "The first Foresight each turn reveals 1 extra card.",
			Rarity:      rules.RarityCommon,
			Icon:        "⏱️",
		},
		{
			ID:          RelicSanityAnchor,
			Name:        "Sanity Anchor",
			Description: "Every Madness threshold is raised by 3.",
			Rarity:      rules.RarityUncommon,
			Icon:        "⚓",
		},
		{
			ID:          RelicAbyssalEye,
			Name:        "Abyssal Eye",
			Description: "At the start of each battle, Foresight 3 and gain 1 Madness.",
			Rarity:      rules.RarityUncommon,
			Icon:        "🔮",
			OnTrigger: onBattleStart(
				rules.Foresight(3),
				rules.ApplyStatus(rules.Player(), StatusMadness, 1),
			),
		},
		{
			ID:          RelicProphetNotes,
			Name:        "Prophet's Notes",
			Description: "The first intent rewrite each battle grants no Madness.",
			Rarity:      rules.RarityUncommon,
			Icon:        "📜",
		},
		{
			ID:          RelicMadnessMask,
			Name:        "Madness Mask",
			Description: "While Madness is 6 or more, your attacks deal 50% more damage.",
			Rarity:      rules.RarityRare,
			Icon:        "🎭",
		},
	}
}
