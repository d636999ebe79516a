package service

import (
	"errors"
	"time"

	"github.com/betexcr/pokemon-sub007/internal/constants"
	"github.com/betexcr/pokemon-sub007/internal/game"
	"github.com/betexcr/pokemon-sub007/internal/logging"
	"github.com/betexcr/pokemon-sub007/internal/storage"
)

// TimeoutPolicy selects what happens to a player who never committed a
// choice before the deadline.
type TimeoutPolicy string

const (
	// PolicyPass substitutes an idle no-op choice and resolves the turn.
	PolicyPass TimeoutPolicy = "pass"
	// PolicyForfeit ends the battle with the idle player losing.
	PolicyForfeit TimeoutPolicy = "forfeit"
)

// HandleTimedOutBattle force-resolves a single battle whose deadline elapsed.
// Behavior:
//   - neither player committed: the battle ends with no winner
//   - exactly one player committed: the idle side passes or forfeits per policy
//   - both committed (resolution raced the sweep): resolve normally
//
// All outcomes commit through the version CAS, so a battle that resolved
// between the scan and this call is left untouched.
func HandleTimedOutBattle(repo BattleRepo, catalog *game.Catalog, b *game.Battle, turnTimeout time.Duration, policy TimeoutPolicy) error {
	if b.Phase != game.PhaseChoosing {
		return nil
	}
	choices, err := repo.GetChoicesForTurn(b.ID, b.Turn)
	if err != nil {
		return err
	}
	honored := honoredChoices(choices, b.Version)

	var idle []string
	for i := range b.Sides {
		if _, ok := honored[b.Sides[i].PlayerUID]; !ok {
			idle = append(idle, b.Sides[i].PlayerUID)
		}
	}

	switch len(idle) {
	case 2:
		return endForInactivity(repo, b)
	case 1:
		logging.Info("force-resolving timed out battle", logging.Fields{
			constants.LogFieldBattleUID: b.BattleUID,
			constants.LogFieldPlayerUID: idle[0],
			constants.LogFieldTurn:      b.Turn,
		})
		if policy == PolicyForfeit {
			return timeoutForfeit(repo, b, idle[0])
		}
		_, _, err := SubmitChoice(repo, catalog, b.BattleUID, idle[0], game.ActionPass, 0, b.Version, turnTimeout)
		return err
	default:
		// both choices are in; the sweep raced normal resolution
		_, err := resolveCurrentTurn(repo, catalog, b.BattleUID, turnTimeout)
		return err
	}
}

// endForInactivity completes a battle in which neither player acted.
func endForInactivity(repo BattleRepo, b *game.Battle) error {
	expected := b.Version
	b.Phase = game.PhaseComplete
	b.EndedReason = game.EndedInactivity
	b.Winner = ""
	b.Version++
	entry := game.LogEntry{
		Turn:    b.Turn,
		Type:    game.LogBattleEnd,
		Message: "The battle ended due to inactivity.",
	}
	err := repo.UpdateBattleCAS(b, expected, []game.LogEntry{entry})
	if errors.Is(err, storage.ErrVersionConflict) {
		return nil
	}
	return err
}

// timeoutForfeit completes a battle with the idle player losing.
func timeoutForfeit(repo BattleRepo, b *game.Battle, idleUID string) error {
	expected := b.Version
	opp := b.OpponentOf(idleUID)
	b.Phase = game.PhaseComplete
	b.EndedReason = game.EndedTimeout
	if opp != nil {
		b.Winner = opp.PlayerUID
	}
	b.Version++
	side := b.SideByUID(idleUID)
	entry := game.LogEntry{
		Turn:    b.Turn,
		Type:    game.LogBattleEnd,
		Message: side.PlayerName + " ran out of time!",
	}
	if err := repo.UpdateBattleCAS(b, expected, []game.LogEntry{entry}); err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			return nil
		}
		return err
	}
	if serr := repo.UpdateStatsOnBattleEnd(b); serr != nil {
		logging.Error("failed to update profile stats", serr, logging.Fields{
			constants.LogFieldBattleUID: b.BattleUID,
		})
	}
	return nil
}
