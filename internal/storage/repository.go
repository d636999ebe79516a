package storage

import (
	"errors"
	"time"

	"github.com/betexcr/pokemon-sub007/internal/game"
)

// ErrVersionConflict is returned by UpdateBattleCAS when the stored battle
// version no longer matches the expected one. Callers treat it as "someone
// else already resolved this turn" and back off.
var ErrVersionConflict = errors.New("battle version conflict")

type Repository interface {
	// Matchmaking queue
	EnqueuePlayer(e *game.QueueEntry) error
	DequeuePlayer(region, playerUID string) error
	// GetQueueEntries returns the region queue ordered by join time, earliest
	// first.
	GetQueueEntries(region string) ([]game.QueueEntry, error)
	IsPlayerQueued(region, playerUID string) (bool, error)

	// Battles
	CreateBattle(b *game.Battle) error
	GetBattleByUID(uid string) (*game.Battle, error)
	// UpdateBattleCAS persists battle meta, combatant state and the given log
	// entries in one transaction, but only when the stored version still
	// equals expectedVersion. Returns ErrVersionConflict otherwise.
	UpdateBattleCAS(b *game.Battle, expectedVersion int64, entries []game.LogEntry) error
	// FindTimedOutBattles returns battles still in the choosing phase whose
	// deadline is at or before the provided time.
	FindTimedOutBattles(now time.Time) ([]game.Battle, error)
	FindActiveBattleForPlayer(playerUID string) (*game.Battle, error)

	// Choices
	UpsertChoice(c *game.ChoiceRecord) error
	GetChoicesForTurn(battleID uint, turn int) ([]game.ChoiceRecord, error)

	// Battle log
	AppendLogEntries(entries []game.LogEntry) error
	GetLogEntries(battleID uint, sinceTurn int) ([]game.LogEntry, error)

	// Player profiles
	GetUserByUID(playerUID string) (*game.User, error)
	UpsertUser(playerUID, displayName string) error
	SaveTeam(playerUID string, slots []game.SavedTeamSlot) error
	UpdateStatsOnBattleEnd(b *game.Battle) error
}
