package api

import (
	"net/http"
	"time"

	"github.com/betexcr/pokemon-sub007/internal/constants"
	"github.com/betexcr/pokemon-sub007/internal/game"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const sessionTTL = 30 * 24 * time.Hour

type sessionRequest struct {
	PlayerUID   string `json:"player_uid"`
	DisplayName string `json:"display_name"`
}

// CreateSession issues a signed bearer token for a (possibly new) player.
// Returning players pass their existing UID to keep their profile.
func (h *BattleHandler) CreateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DisplayName == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	uid := req.PlayerUID
	if uid == "" {
		uid = uuid.NewString()
	}
	if err := h.repo.UpsertUser(uid, req.DisplayName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchMe})
		return
	}
	token, err := createSessionToken(uid, req.DisplayName, sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "player_uid": uid})
}

// GetMe returns the session player's profile, stats and saved team.
func (h *BattleHandler) GetMe(c *gin.Context) {
	uid := sessionPlayerUID(c)
	u, err := h.repo.GetUserByUID(uid)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrFailedFetchMe})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchMe})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchMe})
		return
	}
	c.JSON(http.StatusOK, out)
}

type teamSlotRequest struct {
	SpeciesRef string   `json:"species_ref"`
	Level      int      `json:"level"`
	MoveIDs    []string `json:"move_ids"`
}

// SaveTeam validates and replaces the session player's saved roster.
func (h *BattleHandler) SaveTeam(c *gin.Context) {
	uid := sessionPlayerUID(c)
	var req []teamSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if len(req) == 0 || len(req) > 6 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrTeamInvalid})
		return
	}
	slots := make([]game.SavedTeamSlot, 0, len(req))
	for _, s := range req {
		if _, ok := h.catalog.Species(s.SpeciesRef); !ok {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrTeamInvalid})
			return
		}
		if s.Level < 1 || s.Level > 100 {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrTeamInvalid})
			return
		}
		if len(s.MoveIDs) == 0 || len(s.MoveIDs) > 4 {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrTeamInvalid})
			return
		}
		for _, id := range s.MoveIDs {
			if _, ok := h.catalog.Move(id); !ok {
				c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrTeamInvalid})
				return
			}
		}
		slots = append(slots, game.SavedTeamSlot{
			SpeciesRef: s.SpeciesRef,
			Level:      s.Level,
			MoveIDs:    game.StringList(s.MoveIDs),
		})
	}
	if err := h.repo.SaveTeam(uid, slots); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSaveTeam})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "saved"})
}
