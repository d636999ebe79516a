package api

import (
	"net/http"
	"regexp"
	"time"

	"github.com/betexcr/pokemon-sub007/internal/constants"
	"github.com/betexcr/pokemon-sub007/internal/game"
	"github.com/betexcr/pokemon-sub007/internal/logging"
	"github.com/betexcr/pokemon-sub007/internal/service"
	"github.com/gin-gonic/gin"
)

var regionRegex = regexp.MustCompile("^[a-z0-9-]{1,32}$")

type joinQueueRequest struct {
	Format    string `json:"format"`
	MinRating int    `json:"min_rating"`
}

// JoinQueue places the session player in a regional matchmaking queue and
// immediately runs a pairing pass for that region.
func (h *BattleHandler) JoinQueue(c *gin.Context) {
	region := c.Param("region")
	if !regionRegex.MatchString(region) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	uid := sessionPlayerUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	var req joinQueueRequest
	// body is optional; preferences default to zero values
	_ = c.ShouldBindJSON(&req)

	queued, err := h.repo.IsPlayerQueued(region, uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedJoinQueue})
		return
	}
	if queued {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrAlreadyQueued})
		return
	}
	active, err := h.repo.FindActiveBattleForPlayer(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedJoinQueue})
		return
	}
	if active != nil {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrAlreadyInBattle})
		return
	}

	if err := h.repo.EnqueuePlayer(&game.QueueEntry{
		Region:        region,
		PlayerUID:     uid,
		JoinedAt:      time.Now(),
		PrefFormat:    req.Format,
		PrefMinRating: req.MinRating,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedJoinQueue})
		return
	}

	b, err := service.PairWaiting(h.repo, h.catalog, region, h.turnTimeout)
	if err != nil {
		logging.Error("pairing pass after queue join failed", err, logging.Fields{
			constants.LogFieldRegion: region,
		})
	}
	if b != nil && b.HasParticipant(uid) {
		c.JSON(http.StatusOK, gin.H{"queued": false, "battle_uid": b.BattleUID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"queued": true})
}

// LeaveQueue removes the session player from a regional queue.
func (h *BattleHandler) LeaveQueue(c *gin.Context) {
	region := c.Param("region")
	if !regionRegex.MatchString(region) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	uid := sessionPlayerUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	if err := h.repo.DequeuePlayer(region, uid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLeaveQueue})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "left"})
}
