package engine

import "github.com/betexcr/pokemon-sub007/internal/game"

// turnAction is one side's resolved action for the current turn.
type turnAction struct {
	side     *game.BattleSide
	choice   game.ChoiceRecord
	priority int
}

// orderActions returns the two actions in execution order. Switches always
// run before moves; moves order by priority, then effective speed, with ties
// going to slot 1.
func orderActions(a, b turnAction) []turnAction {
	rank := func(t turnAction) int {
		if t.choice.Action == game.ActionSwitch {
			return 1
		}
		return 0
	}
	if rank(a) != rank(b) {
		if rank(a) > rank(b) {
			return []turnAction{a, b}
		}
		return []turnAction{b, a}
	}
	if a.priority != b.priority {
		if a.priority > b.priority {
			return []turnAction{a, b}
		}
		return []turnAction{b, a}
	}
	sa, sb := 0, 0
	if p := a.side.Active(); p != nil {
		sa = EffectiveSpeed(p)
	}
	if p := b.side.Active(); p != nil {
		sb = EffectiveSpeed(p)
	}
	if sa == sb {
		if a.side.Slot <= b.side.Slot {
			return []turnAction{a, b}
		}
		return []turnAction{b, a}
	}
	if sa > sb {
		return []turnAction{a, b}
	}
	return []turnAction{b, a}
}
