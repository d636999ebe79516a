package engine

import "github.com/betexcr/pokemon-sub007/internal/game"

// CalculateStat derives a non-HP stat from a base value and level using the
// standard formula with a fixed 31 IV and no EVs.
func CalculateStat(base, level int) int {
	v := ((2*base+31)*level)/100 + 5
	if v < 1 {
		return 1
	}
	return v
}

// CalculateHP derives max hit points from a base HP value and level.
func CalculateHP(base, level int) int {
	v := ((2*base+31)*level)/100 + level + 10
	if v < 1 {
		return 1
	}
	return v
}

// ApplyStatStage scales a stat by its stage modifier. Stages are clamped to
// the -6..+6 range; positive stages multiply by (2+s)/2, negative divide.
func ApplyStatStage(base, stage int) int {
	if stage > 6 {
		stage = 6
	}
	if stage < -6 {
		stage = -6
	}
	var v int
	if stage >= 0 {
		v = base * (2 + stage) / 2
	} else {
		v = base * 2 / (2 - stage)
	}
	if v < 1 {
		return 1
	}
	return v
}

// ApplyAccuracyStage scales a percent accuracy by the attacker's accuracy
// stage net of the defender's evasion stage. Accuracy stages use thirds
// instead of the halves used for the other stats.
func ApplyAccuracyStage(percent, accuracyStage, evasionStage int) int {
	s := accuracyStage - evasionStage
	if s > 6 {
		s = 6
	}
	if s < -6 {
		s = -6
	}
	var v int
	if s >= 0 {
		v = percent * (3 + s) / 3
	} else {
		v = percent * 3 / (3 - s)
	}
	if v < 1 {
		return 1
	}
	return v
}

// AdjustStage moves the named stage by delta, clamped to -6..+6, and returns
// the movement actually applied. Zero means the stage was already pinned.
func AdjustStage(p *game.BattlePokemon, stat game.StatName, delta int) int {
	ptr := stagePtr(p, stat)
	if ptr == nil {
		return 0
	}
	v := *ptr + delta
	if v > 6 {
		v = 6
	}
	if v < -6 {
		v = -6
	}
	applied := v - *ptr
	*ptr = v
	return applied
}

func stagePtr(p *game.BattlePokemon, stat game.StatName) *int {
	switch stat {
	case game.StatAttack:
		return &p.AttackStage
	case game.StatDefense:
		return &p.DefenseStage
	case game.StatSpAttack:
		return &p.SpAttackStage
	case game.StatSpDefense:
		return &p.SpDefenseStage
	case game.StatSpeed:
		return &p.SpeedStage
	case game.StatAccuracy:
		return &p.AccuracyStage
	case game.StatEvasion:
		return &p.EvasionStage
	}
	return nil
}

// EffectiveSpeed returns stage-modified speed, halved while paralyzed.
func EffectiveSpeed(p *game.BattlePokemon) int {
	v := ApplyStatStage(p.Speed, p.SpeedStage)
	if p.Status == game.StatusParalyzed {
		v /= 2
	}
	if v < 1 {
		return 1
	}
	return v
}

// effectiveAttack picks the stage-modified offensive stat for a move
// category. Burn halves physical attack.
func effectiveAttack(p *game.BattlePokemon, cat game.MoveCategory) int {
	if cat == game.CategorySpecial {
		return ApplyStatStage(p.SpAttack, p.SpAttackStage)
	}
	v := ApplyStatStage(p.Attack, p.AttackStage)
	if p.Status == game.StatusBurned {
		v /= 2
	}
	if v < 1 {
		return 1
	}
	return v
}

// effectiveDefense picks the stage-modified defensive stat for a move category.
func effectiveDefense(p *game.BattlePokemon, cat game.MoveCategory) int {
	if cat == game.CategorySpecial {
		return ApplyStatStage(p.SpDefense, p.SpDefenseStage)
	}
	return ApplyStatStage(p.Defense, p.DefenseStage)
}
