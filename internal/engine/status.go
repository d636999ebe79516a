package engine

import (
	"fmt"

	"github.com/betexcr/pokemon-sub007/internal/game"
)

// MoveCheck reports whether a Pokémon can act this turn and, when it cannot,
// the reason shown in the battle log.
type MoveCheck struct {
	CanUse bool
	Reason string
}

const (
	sleepWakeChance  = 25
	frozenThawChance = 20
	fullParaChance   = 25
	sleepMaxTurns    = 3
)

// CanUseMove rolls the pre-move status checks. A successful wake or thaw
// clears the status and still allows the move this turn.
func CanUseMove(p *game.BattlePokemon, rng *RNG) MoveCheck {
	if p.Flinched {
		p.Flinched = false
		return MoveCheck{CanUse: false, Reason: "flinched"}
	}
	switch p.Status {
	case game.StatusAsleep:
		if p.StatusTurns >= sleepMaxTurns || rng.Chance(sleepWakeChance) {
			p.Status = game.StatusNone
			p.StatusTurns = 0
			return MoveCheck{CanUse: true}
		}
		return MoveCheck{CanUse: false, Reason: "fast asleep"}
	case game.StatusFrozen:
		if rng.Chance(frozenThawChance) {
			p.Status = game.StatusNone
			p.StatusTurns = 0
			return MoveCheck{CanUse: true}
		}
		return MoveCheck{CanUse: false, Reason: "frozen solid"}
	case game.StatusParalyzed:
		if rng.Chance(fullParaChance) {
			return MoveCheck{CanUse: false, Reason: "fully paralyzed"}
		}
	}
	return MoveCheck{CanUse: true}
}

// ApplyStatusEffect sets a status on a target that has none. It reports
// whether the status was applied.
func ApplyStatusEffect(p *game.BattlePokemon, status game.StatusCondition) bool {
	if status == game.StatusNone || p.Status != game.StatusNone || p.Fainted {
		return false
	}
	p.Status = status
	p.StatusTurns = 0
	return true
}

// ProcessEndOfTurnStatus applies residual damage and status counters for one
// Pokémon and returns the log entries it produced. HP never drops below zero
// and residual ticks always deal at least one point.
func ProcessEndOfTurnStatus(p *game.BattlePokemon, name string) []game.LogEntry {
	if p.Fainted || p.Status == game.StatusNone {
		return nil
	}
	var entries []game.LogEntry
	p.StatusTurns++
	switch p.Status {
	case game.StatusPoisoned:
		entries = append(entries, residualDamage(p, name, p.MaxHP/8, "poison"))
	case game.StatusBurned:
		entries = append(entries, residualDamage(p, name, p.MaxHP/16, "burn"))
	case game.StatusAsleep:
		if p.StatusTurns >= sleepMaxTurns {
			p.Status = game.StatusNone
			p.StatusTurns = 0
			entries = append(entries, game.LogEntry{
				Type:    game.LogStatusEffect,
				Message: fmt.Sprintf("%s woke up!", name),
				Pokemon: name,
			})
		}
	}
	return entries
}

func residualDamage(p *game.BattlePokemon, name string, amount int, source string) game.LogEntry {
	if amount < 1 {
		amount = 1
	}
	if amount > p.CurrentHP {
		amount = p.CurrentHP
	}
	p.CurrentHP -= amount
	if p.CurrentHP <= 0 {
		p.CurrentHP = 0
		p.Fainted = true
	}
	return game.LogEntry{
		Type:    game.LogStatusDamage,
		Message: fmt.Sprintf("%s is hurt by %s!", name, source),
		Pokemon: name,
		Damage:  amount,
		Status:  source,
	}
}
