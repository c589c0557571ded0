package status

import "fmt"

// ModifierPhase orders status hooks. Every additive hook runs before any
// multiplicative one; priority only breaks ties inside a phase.
type ModifierPhase int

const (
	PhaseAdd ModifierPhase = iota
	PhaseMultiply
)

var phaseNames = map[ModifierPhase]string{
	PhaseAdd:      "add",
	PhaseMultiply: "multiply",
}

func (p ModifierPhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("ModifierPhase(%d)", int(p))
}

// DecayKind selects how a status loses stacks on its own.
type DecayKind int

const (
	DecayNone DecayKind = iota
	DecayTurnEnd
)

// Decay describes automatic stack loss.
type Decay struct {
	Kind   DecayKind
	Amount int
}

// NoDecay is the decay rule of persistent statuses.
var NoDecay = Decay{Kind: DecayNone}

// DecayAtTurnEnd removes amount stacks at the owner's turn end.
func DecayAtTurnEnd(amount int) Decay {
	return Decay{Kind: DecayTurnEnd, Amount: amount}
}

// Scale multiplies value by num/den and floors toward zero.
// Status multipliers (x0.75, x1.5) use it instead of floating point.
func Scale(value, num, den int) int {
	if den == 0 {
		return value
	}
	return value * num / den
}
