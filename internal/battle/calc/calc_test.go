package calc_test

import (
	"testing"

	"github.com/magefree/battle-engine-go/internal/battle/calc"
	"github.com/magefree/battle-engine-go/internal/battle/content"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"github.com/magefree/battle-engine-go/internal/battle/status"
)

func TestDamageAddsBeforeMultiplying(t *testing.T) {
	lib := content.NewLibrary()
	attacker := rules.NewEntity("a", "A", 10)
	defender := rules.NewEntity("d", "D", 10)
	attacker.Statuses.Apply(content.StatusStrength, 2)
	attacker.Statuses.Apply(content.StatusWeak, 1)

	// (3 + 2) * 0.75 = 3.75, floored.
	if got := calc.Damage(3, &attacker, &defender, lib.Statuses); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestDamageVulnerableDefender(t *testing.T) {
	lib := content.NewLibrary()
	attacker := rules.NewEntity("a", "A", 10)
	defender := rules.NewEntity("d", "D", 10)
	defender.Statuses.Apply(content.StatusVulnerable, 2)

	if got := calc.Damage(6, &attacker, &defender, lib.Statuses); got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
}

func TestDamageOutgoingFoldsBeforeIncoming(t *testing.T) {
	lib := content.NewLibrary()
	attacker := rules.NewEntity("a", "A", 10)
	defender := rules.NewEntity("d", "D", 10)
	attacker.Statuses.Apply(content.StatusStrength, 1)
	defender.Statuses.Apply(content.StatusVulnerable, 1)

	// (5 + 1) * 1.5
	if got := calc.Damage(5, &attacker, &defender, lib.Statuses); got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
}

func TestDamageClampsAtZero(t *testing.T) {
	lib := content.NewLibrary()
	attacker := rules.NewEntity("a", "A", 10)
	defender := rules.NewEntity("d", "D", 10)
	shrink := calc.Extra{Side: calc.Outgoing, Phase: status.PhaseAdd, Modify: func(v int) int { return v - 50 }}

	if got := calc.Damage(6, &attacker, &defender, lib.Statuses, shrink); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestDamageExtraSortsWithStatuses(t *testing.T) {
	lib := content.NewLibrary()
	attacker := rules.NewEntity("a", "A", 10)
	defender := rules.NewEntity("d", "D", 10)
	attacker.Statuses.Apply(content.StatusStrength, 2)
	mask := calc.Extra{
		Side:     calc.Outgoing,
		Phase:    status.PhaseMultiply,
		Priority: 200,
		Modify:   func(v int) int { return status.Scale(v, 3, 2) },
	}

	// The multiplier is passed first but still lands after strength.
	if got := calc.Damage(6, &attacker, &defender, lib.Statuses, mask); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}

func TestDamageIncomingExtra(t *testing.T) {
	lib := content.NewLibrary()
	attacker := rules.NewEntity("a", "A", 10)
	defender := rules.NewEntity("d", "D", 10)
	tier := calc.Extra{
		Side:     calc.Incoming,
		Phase:    status.PhaseMultiply,
		Priority: 200,
		Modify:   func(v int) int { return status.Scale(v, 3, 2) },
	}

	if got := calc.Damage(10, &attacker, &defender, lib.Statuses, tier); got != 15 {
		t.Fatalf("expected 15, got %d", got)
	}
}

func TestDamageNilAttacker(t *testing.T) {
	lib := content.NewLibrary()
	defender := rules.NewEntity("d", "D", 10)
	defender.Statuses.Apply(content.StatusVulnerable, 1)

	if got := calc.Damage(4, nil, &defender, lib.Statuses); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
}

func TestBlockModifiers(t *testing.T) {
	lib := content.NewLibrary()
	e := rules.NewEntity("p", "P", 10)

	if got := calc.Block(5, &e, lib.Statuses); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}

	e.Statuses.Apply(content.StatusDexterity, 1)
	e.Statuses.Apply(content.StatusFrail, 1)
	// (5 + 1) * 0.75 = 4.5, floored.
	if got := calc.Block(5, &e, lib.Statuses); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}

	e.Statuses.Set(content.StatusDexterity, 0)
	e.Statuses.Apply(content.StatusStrength, 5)
	if got := calc.Block(8, &e, lib.Statuses); got != 6 {
		t.Fatalf("strength must not affect block: expected 6, got %d", got)
	}
}

func TestUnknownStatusIgnored(t *testing.T) {
	lib := content.NewLibrary()
	attacker := rules.NewEntity("a", "A", 10)
	defender := rules.NewEntity("d", "D", 10)
	attacker.Statuses.Apply("mystery", 4)

	if got := calc.Damage(7, &attacker, &defender, lib.Statuses); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}
