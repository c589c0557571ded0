package content

import (
	"fmt"

	"github.com/magefree/battle-engine-go/internal/battle/rules"
)

func attack(id, name string, cost, damage int, upgraded string) rules.CardDefinition {
	return rules.CardDefinition{
		ID:         id,
		Name:       name,
		Type:       rules.CardAttack,
		Rarity:     rules.RarityStarter,
		Cost:       cost,
		RulesText:  fmt.Sprintf("Deal %d damage.", damage),
		UpgradedID: upgraded,
		Targeting:  rules.TargetingSingleEnemy,
		Play: func(_ rules.Snapshot, target int) []rules.Effect {
			return []rules.Effect{
				rules.DealDamage(rules.Player(), rules.Enemy(rules.TargetOr(target, 0)), damage),
			}
		},
	}
}

func defend(id, name string, block int, upgraded string) rules.CardDefinition {
	return rules.CardDefinition{
		ID:         id,
		Name:       name,
		Type:       rules.CardSkill,
		Rarity:     rules.RarityStarter,
		Cost:       1,
		RulesText:  fmt.Sprintf("Gain %d block.", block),
		UpgradedID: upgraded,
		Play: func(rules.Snapshot, int) []rules.Effect {
			return []rules.Effect{rules.GainBlock(rules.Player(), block)}
		},
	}
}

func bash(id, name string, damage, vulnerable int, upgraded string) rules.CardDefinition {
	return rules.CardDefinition{
		ID:         id,
		Name:       name,
		Type:       rules.CardAttack,
		Rarity:     rules.RarityStarter,
		Cost:       2,
		RulesText:  fmt.Sprintf("Deal %d damage. Apply %d Vulnerable.", damage, vulnerable),
		UpgradedID: upgraded,
		Targeting:  rules.TargetingSingleEnemy,
		Play: func(_ rules.Snapshot, target int) []rules.Effect {
			enemy := rules.Enemy(rules.TargetOr(target, 0))
			return []rules.Effect{
				rules.DealDamage(rules.Player(), enemy, damage),
				rules.ApplyStatus(enemy, StatusVulnerable, vulnerable),
			}
		},
	}
}

func spiritSight(id, name string, foresight int, upgraded string) rules.CardDefinition {
	return rules.CardDefinition{
		ID:         id,
		Name:       name,
		Type:       rules.CardSkill,
		Rarity:     rules.RarityCommon,
		Cost:       0,
		RulesText:  fmt.Sprintf("Foresight %d. Gain 1 Madness.", foresight),
		UpgradedID: upgraded,
		Play: func(rules.Snapshot, int) []rules.Effect {
			return []rules.Effect{
				rules.Foresight(foresight),
				rules.ApplyStatus(rules.Player(), StatusMadness, 1),
			}
		},
	}
}

func truthWhisper(id, name string, damage, foresight int, upgraded string) rules.CardDefinition {
	return rules.CardDefinition{
		ID:         id,
		Name:       name,
		Type:       rules.CardAttack,
		Rarity:     rules.RarityCommon,
		Cost:       1,
		RulesText:  fmt.Sprintf("Deal %d damage. Foresight %d. Gain 1 Madness.", damage, foresight),
		UpgradedID: upgraded,
		Targeting:  rules.TargetingSingleEnemy,
		Play: func(_ rules.Snapshot, target int) []rules.Effect {
			return []rules.Effect{
				rules.DealDamage(rules.Player(), rules.Enemy(rules.TargetOr(target, 0)), damage),
				rules.Foresight(foresight),
				rules.ApplyStatus(rules.Player(), StatusMadness, 1),
			}
		},
	}
}

func meditation(id, name string, block, clear int, upgraded string) rules.CardDefinition {
	return rules.CardDefinition{
		ID:         id,
		Name:       name,
		Type:       rules.CardSkill,
		Rarity:     rules.RarityCommon,
		Cost:       1,
		RulesText:  fmt.Sprintf("Gain %d block. Remove %d Madness.", block, clear),
		UpgradedID: upgraded,
		Play: func(rules.Snapshot, int) []rules.Effect {
			return []rules.Effect{
				rules.GainBlock(rules.Player(), block),
				rules.ClearMadness(clear),
			}
		},
	}
}

func sanityBurn(id, name string, strength int, upgraded string) rules.CardDefinition {
	return rules.CardDefinition{
		ID:         id,
		Name:       name,
		Type:       rules.CardSkill,
		Rarity:     rules.RarityUncommon,
		Cost:       1,
		RulesText:  fmt.Sprintf("Gain %d Strength. Gain 3 Madness.", strength),
		UpgradedID: upgraded,
		Play: func(rules.Snapshot, int) []rules.Effect {
			return []rules.Effect{
				rules.ApplyStatus(rules.Player(), StatusStrength, strength),
				rules.ApplyStatus(rules.Player(), StatusMadness, 3),
			}
		},
	}
}

func fateRewrite() rules.CardDefinition {
	return rules.CardDefinition{
		ID:         CardFateRewrite,
		Name:       "Fate Rewrite",
		Type:       rules.CardSkill,
		Rarity:     rules.RarityUncommon,
		Cost:       1,
		RulesText:  "Rewrite an enemy's intent into Defend 10. Gain 2 Madness.",
		UpgradedID: CardFateRewrite + "+",
		Targeting:  rules.TargetingSingleEnemy,
		Play: func(_ rules.Snapshot, target int) []rules.Effect {
			return []rules.Effect{
				rules.RewriteIntent(rules.TargetOr(target, 0), rules.DefendIntent(10)),
				rules.ApplyStatus(rules.Player(), StatusMadness, 2),
			}
		},
	}
}

func fateRewritePlus() rules.CardDefinition {
	return rules.CardDefinition{
		ID:        CardFateRewrite + "+",
		Name:      "Fate Rewrite+",
		Type:      rules.CardSkill,
		Rarity:    rules.RarityUncommon,
		Cost:      1,
		RulesText: "Rewrite every enemy's intent into Defend 10. Gain 2 Madness.",
		Play: func(snapshot rules.Snapshot, _ int) []rules.Effect {
			var effects []rules.Effect
			for i := range snapshot.Enemies {
				if snapshot.Enemies[i].IsAlive() {
					effects = append(effects, rules.RewriteIntent(i, rules.DefendIntent(10)))
				}
			}
			return append(effects, rules.ApplyStatus(rules.Player(), StatusMadness, 2))
		},
	}
}

func timeShard(id, name string, rewind int, upgraded string) rules.CardDefinition {
	return rules.CardDefinition{
		ID:         id,
		Name:       name,
		Type:       rules.CardSkill,
		Rarity:     rules.RarityCommon,
		Cost:       1,
		RulesText:  fmt.Sprintf("Rewind %d. Draw 1 card. Gain 1 Madness.", rewind),
		UpgradedID: upgraded,
		Play: func(rules.Snapshot, int) []rules.Effect {
			return []rules.Effect{
				rules.Rewind(rewind),
				rules.DrawCards(1),
				rules.ApplyStatus(rules.Player(), StatusMadness, 1),
			}
		},
	}
}

func fateEcho() rules.CardDefinition {
	return rules.CardDefinition{
		ID:        CardFateEcho,
		Name:      "Fate Echo",
		Type:      rules.CardAttack,
		Rarity:    rules.RarityRare,
		Cost:      1,
		RulesText: "Deal 4 damage for every Foresight resolved this turn.",
		Targeting: rules.TargetingSingleEnemy,
		Play: func(_ rules.Snapshot, target int) []rules.Effect {
			return []rules.Effect{
				rules.DealDamagePerForesight(rules.Player(), rules.Enemy(rules.TargetOr(target, 0)), 4),
			}
		},
	}
}

func sequenceResonance() rules.CardDefinition {
	return rules.CardDefinition{
		ID:        CardSequenceResonance,
		Name:      "Sequence Resonance",
		Type:      rules.CardPower,
		Rarity:    rules.RarityUncommon,
		Cost:      1,
		RulesText: "Whenever you resolve a Foresight, gain 2 block.",
		Play: func(rules.Snapshot, int) []rules.Effect {
			return []rules.Effect{rules.ApplyStatus(rules.Player(), StatusSequenceResonance, 2)}
		},
	}
}

// Card ids.
const (
	CardStrike            = "strike"
	CardDefend            = "defend"
	CardBash              = "bash"
	CardSpiritSight       = "spirit_sight"
	CardTruthWhisper      = "truth_whisper"
	CardMeditation        = "meditation"
	CardSanityBurn        = "sanity_burn"
	CardFateRewrite       = "fate_rewrite"
	CardTimeShard         = "time_shard"
	CardFateEcho          = "fate_echo"
	CardSequenceResonance = "sequence_resonance"
)

func cardDefinitions() []rules.CardDefinition {
	return []rules.CardDefinition{
		attack(CardStrike, "Strike", 1, 6, CardStrike+"+"),
		attack(CardStrike+"+", "Strike+", 1, 9, ""),
		defend(CardDefend, "Defend", 5, CardDefend+"+"),
		defend(CardDefend+"+", "Defend+", 8, ""),
		bash(CardBash, "Bash", 8, 2, CardBash+"+"),
		bash(CardBash+"+", "Bash+", 10, 3, ""),
		spiritSight(CardSpiritSight, "Spirit Sight", 2, CardSpiritSight+"+"),
		spiritSight(CardSpiritSight+"+", "Spirit Sight+", 3, ""),
		truthWhisper(CardTruthWhisper, "Truth Whisper", 5, 1, CardTruthWhisper+"+"),
		truthWhisper(CardTruthWhisper+"+", "Truth Whisper+", 7, 2, ""),
		meditation(CardMeditation, "Meditation", 4, 2, CardMeditation+"+"),
		meditation(CardMeditation+"+", "Meditation+", 6, 3, ""),
		sanityBurn(CardSanityBurn, "Sanity Burn", 2, CardSanityBurn+"+"),
		sanityBurn(CardSanityBurn+"+", "Sanity Burn+", 3, ""),
		fateRewrite(),
		fateRewritePlus(),
		timeShard(CardTimeShard, "Time Shard", 1, CardTimeShard+"+"),
		timeShard(CardTimeShard+"+", "Time Shard+", 2, ""),
		fateEcho(),
		sequenceResonance(),
	}
}

// StarterDeck returns the ten-card starting deck with stable instance ids.
func StarterDeck() []rules.Card {
	var deck []rules.Card
	add := func(cardID string, n int) {
		for i := 1; i <= n; i++ {
			deck = append(deck, rules.Card{ID: fmt.Sprintf("%s_%d", cardID, i), CardID: cardID})
		}
	}
	add(CardStrike, 5)
	add(CardDefend, 4)
	add(CardBash, 1)
	return deck
}

// Deck builds card instances from definition ids, numbering repeats.
func Deck(cardIDs ...string) []rules.Card {
	counts := make(map[string]int)
	deck := make([]rules.Card, 0, len(cardIDs))
	for _, id := range cardIDs {
		counts[id]++
		deck = append(deck, rules.Card{ID: fmt.Sprintf("%s_%d", id, counts[id]), CardID: id})
	}
	return deck
}
