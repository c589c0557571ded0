package content

import (
	"fmt"

	"github.com/magefree/battle-engine-go/internal/battle/rng"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
)

// Enemy ids.
const (
	EnemyJawWorm       = "jaw_worm"
	EnemyCultist       = "cultist"
	EnemyLouse         = "louse"
	EnemyAcidSlime     = "acid_slime"
	EnemyShadowStalker = "shadow_stalker"
	EnemyToxicColossus = "toxic_colossus"
	EnemyChronoWatcher = "chrono_watcher"
	EnemyCipher        = "cipher"
)

func strike(self, damage int, icon, label string) rules.EnemyMove {
	return rules.EnemyMove{
		Intent:  rules.Intent{Icon: icon, Text: fmt.Sprintf("%s %d", label, damage), PreviewDamage: damage},
		Effects: []rules.Effect{rules.DealDamage(rules.Enemy(self), rules.Player(), damage)},
	}
}

func buffStrength(self, stacks int, label string) rules.EnemyMove {
	return rules.EnemyMove{
		Intent:  rules.Intent{Icon: "💪", Text: fmt.Sprintf("%s: Strength +%d", label, stacks)},
		Effects: []rules.Effect{rules.ApplyStatus(rules.Enemy(self), StatusStrength, stacks)},
	}
}

func jawWorm() rules.EnemyDefinition {
	return rules.EnemyDefinition{
		ID: EnemyJawWorm, Name: "Jaw Worm", HPMin: 40, HPMax: 44,
		ChooseMove: func(self int, snap rules.Snapshot, r *rng.SeededRNG) rules.EnemyMove {
			roll := r.NextInt(100)
			if snap.Turn == 1 {
				if roll < 75 {
					return strike(self, 11, "⚔️", "Chomp")
				}
				return buffStrength(self, 3, "Bellow")
			}
			switch {
			case roll < 45:
				return strike(self, 11, "⚔️", "Chomp")
			case roll < 75:
				return buffStrength(self, 3, "Bellow")
			default:
				return strike(self, 7, "⚔️", "Thrash")
			}
		},
	}
}

func cultist() rules.EnemyDefinition {
	return rules.EnemyDefinition{
		ID: EnemyCultist, Name: "Cultist", HPMin: 48, HPMax: 54,
		ChooseMove: func(self int, snap rules.Snapshot, _ *rng.SeededRNG) rules.EnemyMove {
			if snap.Turn == 1 {
				return buffStrength(self, 3, "Incantation")
			}
			return strike(self, 6, "⚔️", "Dark Strike")
		},
	}
}

func louse() rules.EnemyDefinition {
	return rules.EnemyDefinition{
		ID: EnemyLouse, Name: "Louse", HPMin: 10, HPMax: 15,
		ChooseMove: func(self int, _ rules.Snapshot, r *rng.SeededRNG) rules.EnemyMove {
			if r.NextInt(100) < 75 {
				return strike(self, 6, "⚔️", "Bite")
			}
			return buffStrength(self, 3, "Grow")
		},
	}
}

func acidSlime() rules.EnemyDefinition {
	return rules.EnemyDefinition{
		ID: EnemyAcidSlime, Name: "Acid Slime", HPMin: 28, HPMax: 32,
		ChooseMove: func(self int, _ rules.Snapshot, r *rng.SeededRNG) rules.EnemyMove {
			if r.NextInt(100) < 70 {
				return strike(self, 10, "⚔️", "Corrosive Spit")
			}
			return rules.EnemyMove{
				Intent: rules.Intent{Icon: "⚔️🌀", Text: "Lick 7 + Weak 1", PreviewDamage: 7},
				Effects: []rules.Effect{
					rules.DealDamage(rules.Enemy(self), rules.Player(), 7),
					rules.ApplyStatus(rules.Player(), StatusWeak, 1),
				},
			}
		},
	}
}

func shadowStalker() rules.EnemyDefinition {
	return rules.EnemyDefinition{
		ID: EnemyShadowStalker, Name: "Shadow Stalker", HPMin: 32, HPMax: 36,
		ChooseMove: func(self int, snap rules.Snapshot, r *rng.SeededRNG) rules.EnemyMove {
			if snap.Turn == 1 {
				return rules.EnemyMove{
					Intent:  rules.Intent{Icon: "🌀", Text: "Disrupt: Weak 2"},
					Effects: []rules.Effect{rules.ApplyStatus(rules.Player(), StatusWeak, 2)},
				}
			}
			if r.NextInt(100) < 55 {
				return strike(self, 10, "⚔️", "Assassinate")
			}
			return rules.EnemyMove{
				Intent:  rules.Intent{Icon: "🛡️", Text: "Vanish: Block 12"},
				Effects: []rules.Effect{rules.GainBlock(rules.Enemy(self), 12)},
			}
		},
	}
}

// toxicColossus cycles every four turns and grows stronger each cycle.
func toxicColossus() rules.EnemyDefinition {
	return rules.EnemyDefinition{
		ID: EnemyToxicColossus, Name: "Toxic Colossus", HPMin: 95, HPMax: 105,
		ChooseMove: func(self int, snap rules.Snapshot, _ *rng.SeededRNG) rules.EnemyMove {
			me := rules.Enemy(self)
			switch (snap.Turn - 1) % 4 {
			case 0:
				return rules.EnemyMove{
					Intent: rules.Intent{Icon: "☠️", Text: "Toxic Fog: Poison 3 + Block 8 + Strength +1"},
					Effects: []rules.Effect{
						rules.ApplyStatus(me, StatusStrength, 1),
						rules.GainBlock(me, 8),
						rules.ApplyStatus(rules.Player(), StatusPoison, 3),
					},
				}
			case 1:
				return strike(self, 14, "⚔️", "Trample")
			case 2:
				return rules.EnemyMove{
					Intent: rules.Intent{Icon: "⚔️🌀", Text: "Corroding Blow 8 + Weak 2", PreviewDamage: 8},
					Effects: []rules.Effect{
						rules.DealDamage(me, rules.Player(), 8),
						rules.ApplyStatus(rules.Player(), StatusWeak, 2),
					},
				}
			default:
				return rules.EnemyMove{
					Intent: rules.Intent{Icon: "⚔️⚔️", Text: "Flurry 6x2 + Frail 1", PreviewDamage: 12},
					Effects: []rules.Effect{
						rules.DealDamage(me, rules.Player(), 6),
						rules.DealDamage(me, rules.Player(), 6),
						rules.ApplyStatus(rules.Player(), StatusFrail, 1),
					},
				}
			}
		},
	}
}

func chronoWatcher() rules.EnemyDefinition {
	return rules.EnemyDefinition{
		ID: EnemyChronoWatcher, Name: "Chrono Watcher", HPMin: 110, HPMax: 120,
		ChooseMove: func(self int, snap rules.Snapshot, _ *rng.SeededRNG) rules.EnemyMove {
			me := rules.Enemy(self)
			switch (snap.Turn - 1) % 3 {
			case 0:
				return rules.EnemyMove{
					Intent: rules.Intent{Icon: "⏳", Text: "Time Mark: Poison 2 + Frail 1 + Strength +1"},
					Effects: []rules.Effect{
						rules.ApplyStatus(me, StatusStrength, 1),
						rules.ApplyStatus(rules.Player(), StatusPoison, 2),
						rules.ApplyStatus(rules.Player(), StatusFrail, 1),
					},
				}
			case 1:
				return strike(self, 20, "⚔️", "Time Collapse")
			default:
				return rules.EnemyMove{
					Intent: rules.Intent{Icon: "⚔️⚔️", Text: "Echo Strikes 8x2", PreviewDamage: 16},
					Effects: []rules.Effect{
						rules.DealDamage(me, rules.Player(), 8),
						rules.DealDamage(me, rules.Player(), 8),
					},
				}
			}
		},
	}
}

// Cipher intent labels.
const (
	CipherForesightCounter = "Foresight Counter"
	CipherFateDeprivation  = "Fate Deprivation"
	CipherFateRewrite      = "Fate Rewrite"
	CipherTimeRewind       = "Time Rewind"
)

// cipher picks a phase by remaining HP (>60%, >30%, rest) and cycles
// through three moves per phase by turn number.
func cipher() rules.EnemyDefinition {
	return rules.EnemyDefinition{
		ID: EnemyCipher, Name: "Cipher", HPMin: 180, HPMax: 190,
		ChooseMove: func(self int, snap rules.Snapshot, _ *rng.SeededRNG) rules.EnemyMove {
			me := rules.Enemy(self)
			hpPercent := 100
			if self >= 0 && self < len(snap.Enemies) && snap.Enemies[self].MaxHP > 0 {
				hpPercent = snap.Enemies[self].CurrentHP * 100 / snap.Enemies[self].MaxHP
			}
			cycle := (snap.Turn - 1) % 3

			switch {
			case hpPercent > 60:
				switch cycle {
				case 0:
					return strike(self, 12, "⚔️", "Cipher Strike")
				case 1:
					return rules.EnemyMove{
						Intent: rules.Intent{Icon: "🛡️", Text: "Encrypt: Block 12 + Strength +2"},
						Effects: []rules.Effect{
							rules.GainBlock(me, 12),
							rules.ApplyStatus(me, StatusStrength, 2),
						},
					}
				default:
					return rules.EnemyMove{
						Intent: rules.Intent{Icon: "👁️", Text: CipherForesightCounter + " 8: next turn Foresight -1", PreviewDamage: 8},
						Effects: []rules.Effect{
							rules.DealDamage(me, rules.Player(), 8),
							rules.ForesightPenaltyNextTurn(1),
						},
					}
				}
			case hpPercent > 30:
				switch cycle {
				case 0:
					return strike(self, 14, "⚔️", "Broken Sequence")
				case 1:
					return rules.EnemyMove{
						Intent: rules.Intent{Icon: "🌀", Text: CipherFateDeprivation + ": discard 2 + Madness 2"},
						Effects: []rules.Effect{
							rules.DiscardRandomHand(2),
							rules.ApplyStatus(rules.Player(), StatusMadness, 2),
						},
					}
				default:
					return rules.EnemyMove{
						Intent: rules.Intent{Icon: "⚔️⚔️", Text: "Split Cipher 7x2", PreviewDamage: 14},
						Effects: []rules.Effect{
							rules.DealDamage(me, rules.Player(), 7),
							rules.DealDamage(me, rules.Player(), 7),
						},
					}
				}
			default:
				switch cycle {
				case 0:
					return strike(self, 18, "⚔️", "Desperate Strike")
				case 1:
					return rules.EnemyMove{
						Intent: rules.Intent{Icon: "📜", Text: CipherFateRewrite + " 6: next first card costs +1", PreviewDamage: 6},
						Effects: []rules.Effect{
							rules.DealDamage(me, rules.Player(), 6),
							rules.FirstCardCostIncreaseNextTurn(1),
						},
					}
				default:
					return rules.EnemyMove{
						Intent: rules.Intent{Icon: "⏪", Text: CipherTimeRewind + ": heal 15"},
						Effects: []rules.Effect{
							rules.EnemyHeal(self, 15),
						},
					}
				}
			}
		},
	}
}

func enemyDefinitions() []rules.EnemyDefinition {
	return []rules.EnemyDefinition{
		jawWorm(),
		cultist(),
		louse(),
		acidSlime(),
		shadowStalker(),
		toxicColossus(),
		chronoWatcher(),
		cipher(),
	}
}

// SpawnEnemy creates the enemy entity for slot, rolling its HP inside the
// definition's range with r.
func SpawnEnemy(lib *rules.Library, enemyID string, slot int, r *rng.SeededRNG) (rules.Entity, error) {
	def, err := lib.Enemies.Require(enemyID)
	if err != nil {
		return rules.Entity{}, fmt.Errorf("failed to spawn enemy: %w", err)
	}
	hp := def.HPMin
	if def.HPMax > def.HPMin {
		hp += r.NextInt(def.HPMax - def.HPMin + 1)
	}
	return rules.NewEnemyEntity(fmt.Sprintf("e%d", slot), def.Name, hp, def.ID), nil
}
