package engine

import (
	"fmt"

	"github.com/betexcr/pokemon-sub007/internal/game"
)

// turnContext accumulates log entries while a single turn resolves.
type turnContext struct {
	b       *game.Battle
	catalog *game.Catalog
	rng     *RNG
	entries []game.LogEntry
	seq     int
}

func (tc *turnContext) log(e game.LogEntry) {
	e.Turn = tc.b.Turn
	e.Seq = tc.seq
	tc.seq++
	tc.entries = append(tc.entries, e)
}

func (tc *turnContext) speciesName(p *game.BattlePokemon) string {
	if s, ok := tc.catalog.Species(p.SpeciesRef); ok {
		return s.Name
	}
	return p.SpeciesRef
}

func (tc *turnContext) speciesTypes(p *game.BattlePokemon) []game.PokemonType {
	if s, ok := tc.catalog.Species(p.SpeciesRef); ok {
		return s.Types
	}
	return nil
}

// ResolveTurn advances a battle by one turn given both sides' honored
// choices. It mutates the battle in place (combatants, turn counter, phase,
// winner, version, RNG cursor) and returns the log entries the turn produced.
// The caller owns persistence; the function itself performs no I/O and is
// safe to re-run on a fresh copy of the same state.
func ResolveTurn(b *game.Battle, choices map[string]game.ChoiceRecord, catalog *game.Catalog) []game.LogEntry {
	if len(b.Sides) != 2 {
		return nil
	}
	tc := &turnContext{
		b:       b,
		catalog: catalog,
		rng:     NewRNG(b.RNGSeed, b.RNGCursor),
	}
	tc.log(game.LogEntry{Type: game.LogTurnStart, Message: fmt.Sprintf("Turn %d begins!", b.Turn)})

	actions := make([]turnAction, 0, 2)
	for i := range b.Sides {
		side := &b.Sides[i]
		ch, ok := choices[side.PlayerUID]
		if !ok {
			ch = game.ChoiceRecord{Action: game.ActionPass, PlayerUID: side.PlayerUID}
		}
		actions = append(actions, turnAction{side: side, choice: ch, priority: tc.movePriority(side, ch)})
	}

	ordered := orderActions(actions[0], actions[1])
	for _, act := range ordered {
		if b.Phase == game.PhaseComplete {
			break
		}
		tc.execute(act)
	}

	if b.Phase != game.PhaseComplete {
		tc.endOfTurn()
	}
	tc.checkVictory()

	if b.Phase != game.PhaseComplete {
		for i := range b.Sides {
			if p := b.Sides[i].Active(); p != nil {
				p.Flinched = false
			}
		}
		b.Turn++
	}
	b.Version++
	b.RNGCursor = tc.rng.Cursor()
	return tc.entries
}

func (tc *turnContext) movePriority(side *game.BattleSide, ch game.ChoiceRecord) int {
	if ch.Action != game.ActionMove {
		return 0
	}
	p := side.Active()
	if p == nil || ch.Payload < 0 || ch.Payload >= len(p.MoveIDs) {
		return 0
	}
	if m, ok := tc.catalog.Move(p.MoveIDs[ch.Payload].MoveID); ok {
		return m.Priority
	}
	return 0
}

func (tc *turnContext) execute(act turnAction) {
	attacker := act.side.Active()
	if attacker == nil || attacker.Fainted {
		return
	}
	switch act.choice.Action {
	case game.ActionSwitch:
		tc.executeSwitch(act.side, act.choice.Payload)
	case game.ActionMove:
		tc.executeMove(act.side, act.choice.Payload)
	case game.ActionItem:
		tc.executeItem(act.side)
	case game.ActionPass, game.ActionNone:
		// idle side; nothing happens
	}
}

// executeSwitch swaps the active Pokémon. Stat stages and flinch reset on the
// way out.
func (tc *turnContext) executeSwitch(side *game.BattleSide, target int) {
	if target < 0 || target >= len(side.Team) || target == side.ActiveIndex {
		return
	}
	if side.Team[target].Fainted {
		return
	}
	if out := side.Active(); out != nil {
		out.ResetStages()
		out.Flinched = false
	}
	side.ActiveIndex = target
	in := side.Active()
	tc.log(game.LogEntry{
		Type:    game.LogPokemonSentOut,
		Message: fmt.Sprintf("%s sent out %s!", side.PlayerName, tc.speciesName(in)),
		Pokemon: tc.speciesName(in),
	})
}

// executeItem restores a quarter of the active Pokémon's max HP.
func (tc *turnContext) executeItem(side *game.BattleSide) {
	p := side.Active()
	if p == nil || p.Fainted || p.CurrentHP >= p.MaxHP {
		return
	}
	heal := p.MaxHP / 4
	if heal < 1 {
		heal = 1
	}
	if p.CurrentHP+heal > p.MaxHP {
		heal = p.MaxHP - p.CurrentHP
	}
	p.CurrentHP += heal
	tc.log(game.LogEntry{
		Type:    game.LogHealing,
		Message: fmt.Sprintf("%s restored %d HP!", tc.speciesName(p), heal),
		Pokemon: tc.speciesName(p),
		Damage:  heal,
	})
}

func (tc *turnContext) executeMove(side *game.BattleSide, slot int) {
	attacker := side.Active()
	opponent := tc.b.OpponentOf(side.PlayerUID)
	defender := opponent.Active()
	if defender == nil {
		return
	}
	if slot < 0 || slot >= len(attacker.MoveIDs) {
		return
	}
	ms := &attacker.MoveIDs[slot]
	move, ok := tc.catalog.Move(ms.MoveID)
	if !ok || ms.PP <= 0 {
		return
	}

	check := CanUseMove(attacker, tc.rng)
	if !check.CanUse {
		tc.log(game.LogEntry{
			Type:    game.LogStatusEffect,
			Message: fmt.Sprintf("%s is %s!", tc.speciesName(attacker), check.Reason),
			Pokemon: tc.speciesName(attacker),
			Status:  check.Reason,
		})
		return
	}

	ms.PP--
	tc.log(game.LogEntry{
		Type:    game.LogMoveUsed,
		Message: fmt.Sprintf("%s used %s!", tc.speciesName(attacker), move.Name),
		Pokemon: tc.speciesName(attacker),
		Move:    move.Name,
	})

	if move.Accuracy != nil && !tc.rng.Chance(ApplyAccuracyStage(*move.Accuracy, attacker.AccuracyStage, defender.EvasionStage)) {
		tc.log(game.LogEntry{
			Type:    game.LogStatusEffect,
			Message: fmt.Sprintf("%s's attack missed!", tc.speciesName(attacker)),
			Pokemon: tc.speciesName(attacker),
		})
		return
	}

	res := CalculateDamageDetailed(attacker, defender, tc.speciesTypes(attacker), tc.speciesTypes(defender), move, tc.rng)

	if move.Category != game.CategoryStatus {
		if res.Effectiveness == 0 {
			tc.log(game.LogEntry{
				Type:    game.LogDamageDealt,
				Message: fmt.Sprintf("It doesn't affect %s...", tc.speciesName(defender)),
				Pokemon: tc.speciesName(defender),
				Move:    move.Name,
			})
			return
		}
		dmg := res.Damage
		if dmg > defender.CurrentHP {
			dmg = defender.CurrentHP
		}
		defender.CurrentHP -= dmg
		msg := fmt.Sprintf("%s took %d damage!", tc.speciesName(defender), dmg)
		if res.Critical {
			msg = "A critical hit! " + msg
		}
		tc.log(game.LogEntry{
			Type:          game.LogDamageDealt,
			Message:       msg,
			Pokemon:       tc.speciesName(defender),
			Move:          move.Name,
			Damage:        dmg,
			Effectiveness: res.Effectiveness,
		})
		if defender.CurrentHP <= 0 {
			defender.CurrentHP = 0
			defender.Fainted = true
			tc.log(game.LogEntry{
				Type:    game.LogPokemonFainted,
				Message: fmt.Sprintf("%s fainted!", tc.speciesName(defender)),
				Pokemon: tc.speciesName(defender),
			})
			tc.autoSendOut(opponent)
			return
		}
	}

	if res.InflictStatus != game.StatusNone && ApplyStatusEffect(defender, res.InflictStatus) {
		tc.log(game.LogEntry{
			Type:    game.LogStatusApplied,
			Message: fmt.Sprintf("%s was %s!", tc.speciesName(defender), string(res.InflictStatus)),
			Pokemon: tc.speciesName(defender),
			Status:  string(res.InflictStatus),
		})
	}
	if res.Flinch {
		defender.Flinched = true
	}

	for _, sc := range move.StatChanges {
		target := defender
		if sc.Self {
			target = attacker
		}
		if target.Fainted {
			continue
		}
		tc.applyStatChange(target, sc)
	}

	if move.HealFraction > 0 && attacker.CurrentHP < attacker.MaxHP {
		heal := attacker.MaxHP / move.HealFraction
		if heal < 1 {
			heal = 1
		}
		if attacker.CurrentHP+heal > attacker.MaxHP {
			heal = attacker.MaxHP - attacker.CurrentHP
		}
		attacker.CurrentHP += heal
		tc.log(game.LogEntry{
			Type:    game.LogHealing,
			Message: fmt.Sprintf("%s restored %d HP!", tc.speciesName(attacker), heal),
			Pokemon: tc.speciesName(attacker),
			Damage:  heal,
		})
	}
}

var statLabels = map[game.StatName]string{
	game.StatAttack:    "Attack",
	game.StatDefense:   "Defense",
	game.StatSpAttack:  "Sp. Atk",
	game.StatSpDefense: "Sp. Def",
	game.StatSpeed:     "Speed",
	game.StatAccuracy:  "accuracy",
	game.StatEvasion:   "evasiveness",
}

// applyStatChange shifts a stat stage and logs the outcome, including the
// pinned case where the stage is already at its limit.
func (tc *turnContext) applyStatChange(p *game.BattlePokemon, sc game.StatChange) {
	moved := AdjustStage(p, sc.Stat, sc.Stages)
	name := tc.speciesName(p)
	label := statLabels[sc.Stat]
	var msg string
	switch {
	case moved == 0 && sc.Stages > 0:
		msg = fmt.Sprintf("%s's %s won't go any higher!", name, label)
	case moved == 0:
		msg = fmt.Sprintf("%s's %s won't go any lower!", name, label)
	case moved >= 2:
		msg = fmt.Sprintf("%s's %s rose sharply!", name, label)
	case moved > 0:
		msg = fmt.Sprintf("%s's %s rose!", name, label)
	case moved <= -2:
		msg = fmt.Sprintf("%s's %s fell harshly!", name, label)
	default:
		msg = fmt.Sprintf("%s's %s fell!", name, label)
	}
	tc.log(game.LogEntry{
		Type:    game.LogStatChange,
		Message: msg,
		Pokemon: name,
		Status:  string(sc.Stat),
	})
}

// autoSendOut promotes the next healthy bench Pokémon after a faint.
func (tc *turnContext) autoSendOut(side *game.BattleSide) {
	next := side.NextHealthyIndex()
	if next < 0 {
		return
	}
	side.ActiveIndex = next
	in := side.Active()
	tc.log(game.LogEntry{
		Type:    game.LogPokemonSentOut,
		Message: fmt.Sprintf("%s sent out %s!", side.PlayerName, tc.speciesName(in)),
		Pokemon: tc.speciesName(in),
	})
}

// endOfTurn applies residual status to both actives, slot 1 first.
func (tc *turnContext) endOfTurn() {
	for i := range tc.b.Sides {
		side := &tc.b.Sides[i]
		p := side.Active()
		if p == nil || p.Fainted {
			continue
		}
		for _, e := range ProcessEndOfTurnStatus(p, tc.speciesName(p)) {
			tc.log(e)
		}
		if p.Fainted {
			tc.log(game.LogEntry{
				Type:    game.LogPokemonFainted,
				Message: fmt.Sprintf("%s fainted!", tc.speciesName(p)),
				Pokemon: tc.speciesName(p),
			})
			tc.autoSendOut(side)
		}
	}
}

// checkVictory completes the battle when a side has no healthy Pokémon left.
func (tc *turnContext) checkVictory() {
	if tc.b.Phase == game.PhaseComplete {
		return
	}
	s1, s2 := &tc.b.Sides[0], &tc.b.Sides[1]
	out1, out2 := s1.AllFainted(), s2.AllFainted()
	if !out1 && !out2 {
		return
	}
	tc.b.Phase = game.PhaseComplete
	tc.b.EndedReason = game.EndedKnockout
	switch {
	case out1 && out2:
		tc.log(game.LogEntry{Type: game.LogBattleEnd, Message: "The battle ended in a draw!"})
	case out1:
		tc.b.Winner = s2.PlayerUID
		tc.log(game.LogEntry{Type: game.LogBattleEnd, Message: fmt.Sprintf("%s won the battle!", s2.PlayerName)})
	default:
		tc.b.Winner = s1.PlayerUID
		tc.log(game.LogEntry{Type: game.LogBattleEnd, Message: fmt.Sprintf("%s won the battle!", s1.PlayerName)})
	}
}
