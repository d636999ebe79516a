package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/betexcr/pokemon-sub007/internal/constants"
	"github.com/betexcr/pokemon-sub007/internal/dedupe"
	"github.com/betexcr/pokemon-sub007/internal/engine"
	"github.com/betexcr/pokemon-sub007/internal/game"
	"github.com/betexcr/pokemon-sub007/internal/logging"
	"github.com/betexcr/pokemon-sub007/internal/storage"
)

// BattleRepo is the minimal repository interface required by choice intake
// and turn resolution.
type BattleRepo interface {
	GetBattleByUID(uid string) (*game.Battle, error)
	UpsertChoice(c *game.ChoiceRecord) error
	GetChoicesForTurn(battleID uint, turn int) ([]game.ChoiceRecord, error)
	UpdateBattleCAS(b *game.Battle, expectedVersion int64, entries []game.LogEntry) error
	UpdateStatsOnBattleEnd(b *game.Battle) error
}

var (
	ErrBattleNotFound    = errors.New("battle not found")
	ErrPlayerNotInBattle = errors.New("player not in battle")
	ErrInvalidChoice     = errors.New("invalid choice")
)

// SubmitChoice stores a player's choice for the current turn and resolves the
// turn once both players committed. A stale clientVersion or a battle no
// longer in the choosing phase is not an error: the submission is silently
// dropped and the caller receives the current battle to resync from.
// Returns the battle and whether this call resolved the turn.
func SubmitChoice(repo BattleRepo, catalog *game.Catalog, battleUID, playerUID string, action game.ActionType, payload int, clientVersion int64, turnTimeout time.Duration) (*game.Battle, bool, error) {
	b, err := repo.GetBattleByUID(battleUID)
	if err != nil || b == nil {
		return nil, false, ErrBattleNotFound
	}
	side := b.SideByUID(playerUID)
	if side == nil {
		return nil, false, ErrPlayerNotInBattle
	}
	if b.Phase != game.PhaseChoosing || clientVersion != b.Version {
		logging.Info("dropping stale choice", logging.Fields{
			constants.LogFieldBattleUID: b.BattleUID,
			constants.LogFieldPlayerUID: playerUID,
			constants.LogFieldVersion:   clientVersion,
		})
		return b, false, nil
	}
	if err := validateChoice(side, action, payload); err != nil {
		return nil, false, err
	}

	if action == game.ActionForfeit {
		if err := completeForfeit(repo, b, playerUID); err != nil {
			return nil, false, err
		}
		return b, true, nil
	}

	if err := repo.UpsertChoice(&game.ChoiceRecord{
		BattleID:      b.ID,
		Turn:          b.Turn,
		PlayerUID:     playerUID,
		Action:        action,
		Payload:       payload,
		ClientVersion: clientVersion,
		CommittedAt:   time.Now(),
	}); err != nil {
		return nil, false, err
	}

	choices, err := repo.GetChoicesForTurn(b.ID, b.Turn)
	if err != nil {
		return nil, false, err
	}
	honored := honoredChoices(choices, b.Version)
	if len(honored) < len(b.Sides) {
		return b, false, nil
	}

	key := fmt.Sprintf("%s/%d", b.BattleUID, b.Turn)
	v, err, _ := dedupe.ResolveGroup.Do(key, func() (interface{}, error) {
		return resolveCurrentTurn(repo, catalog, battleUID, turnTimeout)
	})
	if err != nil {
		return nil, false, err
	}
	out := v.(*resolveOutcome)
	return out.battle, out.resolved, nil
}

type resolveOutcome struct {
	battle   *game.Battle
	resolved bool
}

// resolveCurrentTurn re-reads the battle, runs the engine on it and commits
// through the version CAS. A losing concurrent attempt observes the version
// conflict and exits as a no-op, so redundant invocations are harmless.
func resolveCurrentTurn(repo BattleRepo, catalog *game.Catalog, battleUID string, turnTimeout time.Duration) (*resolveOutcome, error) {
	b, err := repo.GetBattleByUID(battleUID)
	if err != nil || b == nil {
		return nil, ErrBattleNotFound
	}
	if b.Phase != game.PhaseChoosing {
		return &resolveOutcome{battle: b}, nil
	}
	choices, err := repo.GetChoicesForTurn(b.ID, b.Turn)
	if err != nil {
		return nil, err
	}
	honored := honoredChoices(choices, b.Version)
	if len(honored) < len(b.Sides) {
		return &resolveOutcome{battle: b}, nil
	}

	expected := b.Version
	entries := engine.ResolveTurn(b, honored, catalog)
	if b.Phase == game.PhaseChoosing {
		b.DeadlineAt = time.Now().Add(turnTimeout)
	}

	if err := repo.UpdateBattleCAS(b, expected, entries); err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			logging.Info("turn already resolved elsewhere", logging.Fields{
				constants.LogFieldBattleUID: b.BattleUID,
				constants.LogFieldVersion:   expected,
			})
			current, gerr := repo.GetBattleByUID(battleUID)
			if gerr != nil {
				return nil, gerr
			}
			return &resolveOutcome{battle: current}, nil
		}
		return nil, err
	}
	if b.Phase == game.PhaseComplete {
		if serr := repo.UpdateStatsOnBattleEnd(b); serr != nil {
			logging.Error("failed to update profile stats", serr, logging.Fields{
				constants.LogFieldBattleUID: b.BattleUID,
			})
		}
	}
	return &resolveOutcome{battle: b, resolved: true}, nil
}

// honoredChoices keeps only records committed against the current version,
// keyed by player.
func honoredChoices(choices []game.ChoiceRecord, version int64) map[string]game.ChoiceRecord {
	m := make(map[string]game.ChoiceRecord, len(choices))
	for _, c := range choices {
		if c.ClientVersion == version {
			m[c.PlayerUID] = c
		}
	}
	return m
}

func validateChoice(side *game.BattleSide, action game.ActionType, payload int) error {
	switch action {
	case game.ActionMove:
		p := side.Active()
		if p == nil || payload < 0 || payload >= len(p.MoveIDs) {
			return ErrInvalidChoice
		}
		if p.MoveIDs[payload].PP <= 0 {
			return ErrInvalidChoice
		}
	case game.ActionSwitch:
		if payload < 0 || payload >= len(side.Team) || payload == side.ActiveIndex {
			return ErrInvalidChoice
		}
		if side.Team[payload].Fainted {
			return ErrInvalidChoice
		}
	case game.ActionItem, game.ActionForfeit, game.ActionPass:
		// no payload validation
	default:
		return ErrInvalidChoice
	}
	return nil
}

// completeForfeit ends the battle immediately with the opponent as winner.
func completeForfeit(repo BattleRepo, b *game.Battle, playerUID string) error {
	expected := b.Version
	opp := b.OpponentOf(playerUID)
	b.Phase = game.PhaseComplete
	b.EndedReason = game.EndedForfeit
	if opp != nil {
		b.Winner = opp.PlayerUID
	}
	b.Version++
	side := b.SideByUID(playerUID)
	entry := game.LogEntry{
		Turn:    b.Turn,
		Type:    game.LogBattleEnd,
		Message: fmt.Sprintf("%s forfeited the battle!", side.PlayerName),
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
