package api

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/betexcr/pokemon-sub007/internal/constants"
	"github.com/betexcr/pokemon-sub007/internal/game"
	"github.com/betexcr/pokemon-sub007/internal/service"
	"github.com/gin-gonic/gin"
)

var battleUIDRegex = regexp.MustCompile("^[a-f0-9-]{36}$")

// maskedPokemon is the opponent-side view: enough for the client to render
// the field without leaking movesets or exact stats.
type maskedPokemon struct {
	SpeciesRef string             `json:"species_ref"`
	Level      int                `json:"level"`
	Types      []game.PokemonType `json:"types"`
	MaxHP      int                `json:"max_hp"`
	CurrentHP  int                `json:"current_hp"`
	Status     string             `json:"status"`
	Fainted    bool               `json:"fainted"`
}

type battleView struct {
	BattleUID   string     `json:"battle_uid"`
	Format      string     `json:"format"`
	RuleSet     string     `json:"rule_set"`
	Region      string     `json:"region"`
	Phase       game.Phase `json:"phase"`
	Turn        int        `json:"turn"`
	Version     int64      `json:"version"`
	DeadlineAt  time.Time  `json:"deadline_at"`
	Winner      string     `json:"winner"`
	EndedReason string     `json:"ended_reason"`

	You      interface{} `json:"you"`
	Opponent interface{} `json:"opponent"`
}

func (h *BattleHandler) loadBattleForSession(c *gin.Context) (*game.Battle, string, bool) {
	uid := c.Param("battleID")
	if !battleUIDRegex.MatchString(uid) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return nil, "", false
	}
	b, err := h.repo.GetBattleByUID(uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return nil, "", false
	}
	player := sessionPlayerUID(c)
	if !b.HasParticipant(player) {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotAParticipant})
		return nil, "", false
	}
	return b, player, true
}

// GetBattle returns the battle document with the opponent's side masked.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	b, player, ok := h.loadBattleForSession(c)
	if !ok {
		return
	}

	you, err := MarshalIntoSnakeTimestamps(b.SideByUID(player))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBattle})
		return
	}
	opp := b.OpponentOf(player)
	masked := make([]maskedPokemon, 0, len(opp.Team))
	for i := range opp.Team {
		p := &opp.Team[i]
		mp := maskedPokemon{
			SpeciesRef: p.SpeciesRef,
			Level:      p.Level,
			MaxHP:      p.MaxHP,
			CurrentHP:  p.CurrentHP,
			Status:     string(p.Status),
			Fainted:    p.Fainted,
		}
		if s, ok := h.catalog.Species(p.SpeciesRef); ok {
			mp.Types = s.Types
		}
		masked = append(masked, mp)
	}

	c.JSON(http.StatusOK, battleView{
		BattleUID:   b.BattleUID,
		Format:      b.Format,
		RuleSet:     b.RuleSet,
		Region:      b.Region,
		Phase:       b.Phase,
		Turn:        b.Turn,
		Version:     b.Version,
		DeadlineAt:  b.DeadlineAt,
		Winner:      b.Winner,
		EndedReason: string(b.EndedReason),
		You:         you,
		Opponent: gin.H{
			"player_uid":   opp.PlayerUID,
			"player_name":  opp.PlayerName,
			"active_index": opp.ActiveIndex,
			"team":         masked,
		},
	})
}

type choiceRequest struct {
	Action        string `json:"action"`
	Payload       int    `json:"payload"`
	ClientVersion int64  `json:"client_version"`
}

// SubmitChoice stores the session player's choice for the current turn. A
// stale client_version is accepted with 202 and no effect; the client is
// expected to refetch the battle and resubmit against the new version.
func (h *BattleHandler) SubmitChoice(c *gin.Context) {
	b, player, ok := h.loadBattleForSession(c)
	if !ok {
		return
	}
	var req choiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	b2, resolved, err := service.SubmitChoice(h.repo, h.catalog, b.BattleUID, player,
		game.ActionType(req.Action), req.Payload, req.ClientVersion, h.turnTimeout)
	if err != nil {
		switch err {
		case service.ErrBattleNotFound:
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		case service.ErrPlayerNotInBattle:
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotAParticipant})
		case service.ErrInvalidChoice:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreChoice})
		}
		return
	}

	if resolved {
		c.JSON(http.StatusOK, gin.H{
			constants.JSONKeyMessage: "Turn resolved",
			"turn":                   b2.Turn,
			"version":                b2.Version,
			"phase":                  b2.Phase,
		})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		constants.JSONKeyMessage: "Choice stored",
		"version":                b2.Version,
	})
}

// GetBattleLog returns ordered log entries, optionally from a turn onwards.
func (h *BattleHandler) GetBattleLog(c *gin.Context) {
	b, _, ok := h.loadBattleForSession(c)
	if !ok {
		return
	}
	sinceTurn := 0
	if s := c.Query("since_turn"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
		sinceTurn = v
	}
	entries, err := h.repo.GetLogEntries(b.ID, sinceTurn)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLog})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(entries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLog})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": out})
}
