package engine

import "github.com/magefree/battle-engine-go/internal/battle/rules"

// Stats accumulates per-battle numbers for battle reports.
type Stats struct {
	Turns         int `json:"turns"`
	CardsPlayed   int `json:"cards_played"`
	AttacksPlayed int `json:"attacks_played"`
	SkillsPlayed  int `json:"skills_played"`
	PowersPlayed  int `json:"powers_played"`
	CardsDrawn    int `json:"cards_drawn"`
	DamageDealt   int `json:"damage_dealt"`
	DamageTaken   int `json:"damage_taken"`
	BlockGained   int `json:"block_gained"`
	EnemiesKilled int `json:"enemies_killed"`
}

func (s *Stats) recordPlay(t rules.CardType) {
	s.CardsPlayed++
	switch t {
	case rules.CardAttack:
		s.AttacksPlayed++
	case rules.CardSkill:
		s.SkillsPlayed++
	case rules.CardPower:
		s.PowersPlayed++
	}
}
