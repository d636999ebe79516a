package api

import (
	"time"

	"github.com/betexcr/pokemon-sub007/internal/game"
	"github.com/betexcr/pokemon-sub007/internal/storage"
)

// BattleHandler groups all battle-related HTTP handlers.
type BattleHandler struct {
	repo        storage.Repository
	catalog     *game.Catalog
	turnTimeout time.Duration
}

// NewBattleHandler creates a new BattleHandler with the given repository,
// catalog and configured per-turn deadline. Timeout policy lives with the
// sweeper, not here; the HTTP surface never forces a resolution.
func NewBattleHandler(repo storage.Repository, catalog *game.Catalog, turnTimeout time.Duration) *BattleHandler {
	return &BattleHandler{repo: repo, catalog: catalog, turnTimeout: turnTimeout}
}
