package storage

import (
	"time"

	"github.com/betexcr/pokemon-sub007/internal/game"
	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) EnqueuePlayer(e *game.QueueEntry) error {
	return r.db.Create(e).Error
}

func (r *sqliteRepository) DequeuePlayer(region, playerUID string) error {
	return r.db.Where("region = ? AND player_uid = ?", region, playerUID).
		Delete(&game.QueueEntry{}).Error
}

func (r *sqliteRepository) GetQueueEntries(region string) ([]game.QueueEntry, error) {
	var entries []game.QueueEntry
	err := r.db.Where("region = ?", region).Order("joined_at asc").Find(&entries).Error
	return entries, err
}

func (r *sqliteRepository) IsPlayerQueued(region, playerUID string) (bool, error) {
	var count int64
	err := r.db.Model(&game.QueueEntry{}).
		Where("region = ? AND player_uid = ?", region, playerUID).Count(&count).Error
	return count > 0, err
}

func (r *sqliteRepository) CreateBattle(b *game.Battle) error {
	return r.db.Create(b).Error
}

func (r *sqliteRepository) GetBattleByUID(uid string) (*game.Battle, error) {
	var b game.Battle
	err := r.db.Preload("Sides.Team.MoveIDs").
		Where("battle_uid = ?", uid).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBattleCAS bumps the version column conditionally before saving the
// full document. The conditional update is the concurrency guard: when a
// concurrent resolver already advanced the battle, zero rows match and the
// transaction rolls back without touching state.
func (r *sqliteRepository) UpdateBattleCAS(b *game.Battle, expectedVersion int64, entries []game.LogEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&game.Battle{}).
			Where("id = ? AND version = ?", b.ID, expectedVersion).
			Update("version", b.Version)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVersionConflict
		}
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(b).Error; err != nil {
			return err
		}
		for i := range entries {
			entries[i].BattleID = b.ID
		}
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sqliteRepository) FindTimedOutBattles(now time.Time) ([]game.Battle, error) {
	var battles []game.Battle
	err := r.db.Preload("Sides.Team.MoveIDs").
		Where("phase = ? AND deadline_at <= ?", game.PhaseChoosing, now).
		Find(&battles).Error
	return battles, err
}

func (r *sqliteRepository) FindActiveBattleForPlayer(playerUID string) (*game.Battle, error) {
	var side game.BattleSide
	err := r.db.Joins("JOIN battles ON battles.id = battle_sides.battle_id").
		Where("battle_sides.player_uid = ? AND battles.phase != ?", playerUID, game.PhaseComplete).
		First(&side).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	var b game.Battle
	if err := r.db.Preload("Sides.Team.MoveIDs").First(&b, side.BattleID).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *sqliteRepository) UpsertChoice(c *game.ChoiceRecord) error {
	var existing game.ChoiceRecord
	err := r.db.Where("battle_id = ? AND turn = ? AND player_uid = ?",
		c.BattleID, c.Turn, c.PlayerUID).First(&existing).Error
	if err == nil {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
		return r.db.Save(c).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.Create(c).Error
}

func (r *sqliteRepository) GetChoicesForTurn(battleID uint, turn int) ([]game.ChoiceRecord, error) {
	var choices []game.ChoiceRecord
	err := r.db.Where("battle_id = ? AND turn = ?", battleID, turn).Find(&choices).Error
	return choices, err
}

func (r *sqliteRepository) AppendLogEntries(entries []game.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.Create(&entries).Error
}

func (r *sqliteRepository) GetLogEntries(battleID uint, sinceTurn int) ([]game.LogEntry, error) {
	var entries []game.LogEntry
	err := r.db.Where("battle_id = ? AND turn >= ?", battleID, sinceTurn).
		Order("turn asc").Order("seq asc").Find(&entries).Error
	return entries, err
}

func (r *sqliteRepository) GetUserByUID(playerUID string) (*game.User, error) {
	var u game.User
	if err := r.db.Preload("Team").Where("player_uid = ?", playerUID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) UpsertUser(playerUID, displayName string) error {
	var u game.User
	if err := r.db.Where("player_uid = ?", playerUID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			u = game.User{PlayerUID: playerUID, Rating: 1000}
		} else {
			return err
		}
	}
	if displayName != "" {
		u.DisplayName = displayName
	}
	return r.db.Save(&u).Error
}

func (r *sqliteRepository) SaveTeam(playerUID string, slots []game.SavedTeamSlot) error {
	u, err := r.GetUserByUID(playerUID)
	if err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", u.ID).Delete(&game.SavedTeamSlot{}).Error; err != nil {
			return err
		}
		for i := range slots {
			slots[i].ID = 0
			slots[i].UserID = u.ID
			slots[i].SlotIndex = i
		}
		if len(slots) == 0 {
			return nil
		}
		return tx.Create(&slots).Error
	})
}

func (r *sqliteRepository) UpdateStatsOnBattleEnd(b *game.Battle) error {
	if len(b.Sides) != 2 {
		return nil
	}
	upsert := func(uid, name string, wins, losses int) error {
		var u game.User
		if err := r.db.Where("player_uid = ?", uid).First(&u).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				u = game.User{PlayerUID: uid, DisplayName: name, Rating: 1000}
			} else {
				return err
			}
		}
		u.GamesPlayed++
		u.Wins += wins
		u.Losses += losses
		return r.db.Save(&u).Error
	}
	for i := range b.Sides {
		s := &b.Sides[i]
		wins, losses := 0, 0
		if b.Winner != "" {
			if b.Winner == s.PlayerUID {
				wins = 1
			} else {
				losses = 1
			}
		}
		if err := upsert(s.PlayerUID, s.PlayerName, wins, losses); err != nil {
			return err
		}
	}
	return nil
}
