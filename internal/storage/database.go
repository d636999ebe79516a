package storage

import (
	"github.com/betexcr/pokemon-sub007/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the SQLite database and keeps the schema updated via
// AutoMigrate. The species and move catalogs are config-only and have no
// tables here.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(
		&game.Battle{},
		&game.BattleSide{},
		&game.BattlePokemon{},
		&game.MoveSlot{},
		&game.QueueEntry{},
		&game.ChoiceRecord{},
		&game.LogEntry{},
		&game.User{},
		&game.SavedTeamSlot{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}
