package engine

import "github.com/betexcr/pokemon-sub007/internal/game"

// DamageResult carries everything a single damaging move produced, including
// the secondary effects rolled alongside the damage.
type DamageResult struct {
	Damage        int
	Effectiveness float64
	Critical      bool
	InflictStatus game.StatusCondition
	Flinch        bool
}

const (
	critChance     = 6 // percent, low crit stage
	highCritChance = 12
	critMultiplier = 1.5
	stabMultiplier = 1.5
)

// CalculateDamageDetailed runs the damage formula for one move use. Status
// moves and immune matchups deal zero damage; secondary status and flinch are
// rolled here so the whole move resolves against one random stream position.
func CalculateDamageDetailed(attacker, defender *game.BattlePokemon, attackerTypes, defenderTypes []game.PokemonType, move game.MoveData, rng *RNG) DamageResult {
	res := DamageResult{Effectiveness: GetTypeEffectiveness(move.Type, defenderTypes)}

	if move.Category != game.CategoryStatus && move.Power > 0 {
		if res.Effectiveness > 0 {
			chance := critChance
			if move.HighCrit {
				chance = highCritChance
			}
			res.Critical = rng.Chance(chance)

			atk := effectiveAttack(attacker, move.Category)
			def := effectiveDefense(defender, move.Category)
			base := ((2*attacker.Level/5+2)*move.Power*atk/def)/50 + 2

			stab := 1.0
			for _, t := range attackerTypes {
				if t == move.Type {
					stab = stabMultiplier
					break
				}
			}
			randFactor := 0.85 + rng.Float64()*0.15
			dmg := float64(base) * res.Effectiveness * stab * randFactor
			if res.Critical {
				dmg *= critMultiplier
			}
			res.Damage = int(dmg)
			if res.Damage < 1 {
				res.Damage = 1
			}
		}
	}

	// Secondary effects only land when the move connects.
	if res.Effectiveness > 0 || move.Category == game.CategoryStatus {
		if move.Inflicts != game.StatusNone && rng.Chance(move.StatusChance) {
			res.InflictStatus = move.Inflicts
		}
		if move.FlinchChance > 0 && rng.Chance(move.FlinchChance) {
			res.Flinch = true
		}
	}
	return res
}
