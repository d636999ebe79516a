package service

import (
	"errors"
	"time"

	"github.com/betexcr/pokemon-sub007/internal/constants"
	"github.com/betexcr/pokemon-sub007/internal/dedupe"
	"github.com/betexcr/pokemon-sub007/internal/game"
	"github.com/betexcr/pokemon-sub007/internal/logging"
)

// MatchRepo is the minimal repository interface required by the matchmaker.
type MatchRepo interface {
	StartRepo
	GetQueueEntries(region string) ([]game.QueueEntry, error)
	DequeuePlayer(region, playerUID string) error
}

// PairWaiting pairs the two earliest-joined players in a region queue and
// starts a battle for them. Fewer than two waiting players is a no-op.
// Preferences on queue entries are recorded only; pairing is strictly FIFO.
// Returns the created battle, or nil when no pair was formed.
//
// Passes for the same region are serialized so that a concurrent pass from
// the scheduler and the join handler can never read the same queue snapshot
// and pair the same players twice.
func PairWaiting(repo MatchRepo, catalog *game.Catalog, region string, turnTimeout time.Duration) (*game.Battle, error) {
	defer dedupe.PairLock(region)()

	entries, err := repo.GetQueueEntries(region)
	if err != nil {
		return nil, err
	}
	if len(entries) < 2 {
		return nil, nil
	}
	first, second := entries[0], entries[1]

	b, err := StartBattle(repo, catalog, region, first.PlayerUID, second.PlayerUID, turnTimeout)
	if err != nil {
		// A broken roster drops only the offending player; the opponent keeps
		// waiting for the next pass.
		if errors.Is(err, ErrRosterMissing) || errors.Is(err, ErrRosterInvalid) {
			dropped := dropUnmatchable(repo, catalog, region, first, second)
			logging.Warn("dropped unmatchable queue entry", logging.Fields{
				constants.LogFieldRegion:    region,
				constants.LogFieldPlayerUID: dropped,
				constants.LogFieldReason:    err.Error(),
			})
			return nil, nil
		}
		return nil, err
	}

	if err := repo.DequeuePlayer(region, first.PlayerUID); err != nil {
		return b, err
	}
	if err := repo.DequeuePlayer(region, second.PlayerUID); err != nil {
		return b, err
	}
	logging.Info("paired players into battle", logging.Fields{
		constants.LogFieldBattleUID: b.BattleUID,
		constants.LogFieldRegion:    region,
	})
	return b, nil
}

// dropUnmatchable removes whichever of the two players cannot field a valid
// team and returns that player's UID.
func dropUnmatchable(repo MatchRepo, catalog *game.Catalog, region string, first, second game.QueueEntry) string {
	for _, e := range []game.QueueEntry{first, second} {
		if !hasValidRoster(repo, catalog, e.PlayerUID) {
			_ = repo.DequeuePlayer(region, e.PlayerUID)
			return e.PlayerUID
		}
	}
	// Neither roster is individually broken; drop the earliest to unblock.
	_ = repo.DequeuePlayer(region, first.PlayerUID)
	return first.PlayerUID
}

func hasValidRoster(repo StartRepo, catalog *game.Catalog, playerUID string) bool {
	u, err := repo.GetUserByUID(playerUID)
	if err != nil {
		return false
	}
	_, err = buildTeam(catalog, u.Team)
	return err == nil
}
