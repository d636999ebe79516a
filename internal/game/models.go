package game

import (
	"time"

	"gorm.io/gorm"
)

// Phase is a string alias for the battle lifecycle phase. Using a dedicated
// type instead of plain string makes code safer and self-documenting.
type Phase string

const (
	PhaseChoosing Phase = "choosing"
	PhaseComplete Phase = "complete"
)

// ActionType represents a player's chosen action for a turn.
type ActionType string

const (
	ActionNone    ActionType = ""
	ActionMove    ActionType = "move"
	ActionSwitch  ActionType = "switch"
	ActionItem    ActionType = "item"
	ActionForfeit ActionType = "forfeit"
	// ActionPass is substituted by the timeout handler for a player who
	// never committed a choice before the deadline.
	ActionPass ActionType = "pass"
)

// StatusCondition is a persistent (non-volatile) status on a battle Pokémon.
type StatusCondition string

const (
	StatusNone      StatusCondition = ""
	StatusParalyzed StatusCondition = "paralyzed"
	StatusBurned    StatusCondition = "burned"
	StatusPoisoned  StatusCondition = "poisoned"
	StatusAsleep    StatusCondition = "asleep"
	StatusFrozen    StatusCondition = "frozen"
)

// EndedReason records why a battle reached the complete phase.
type EndedReason string

const (
	EndedKnockout   EndedReason = "knockout"
	EndedForfeit    EndedReason = "forfeit"
	EndedTimeout    EndedReason = "timeout"
	EndedInactivity EndedReason = "inactivity"
)

// Battle is the authoritative battle document. Version increments on every
// meta mutation; clients echo it back so stale submissions can be detected.
type Battle struct {
	gorm.Model
	BattleUID   string      `json:"battle_uid" gorm:"uniqueIndex"`
	Format      string      `json:"format"`
	RuleSet     string      `json:"rule_set"`
	Region      string      `json:"region"`
	Phase       Phase       `json:"phase" gorm:"index"`
	Turn        int         `json:"turn"`
	Version     int64       `json:"version"`
	DeadlineAt  time.Time   `json:"deadline_at" gorm:"index"`
	Winner      string      `json:"winner"`
	EndedReason EndedReason `json:"ended_reason"`
	// RNGSeed/RNGCursor carry the deterministic random stream across turns so
	// a battle can be replayed from its log.
	RNGSeed   uint32       `json:"-"`
	RNGCursor uint32       `json:"-"`
	Sides     []BattleSide `json:"sides"`
}

func (Battle) TableName() string { return "battles" }

// SideByUID returns the side owned by the given player, or nil.
func (b *Battle) SideByUID(uid string) *BattleSide {
	for i := range b.Sides {
		if b.Sides[i].PlayerUID == uid {
			return &b.Sides[i]
		}
	}
	return nil
}

// OpponentOf returns the side not owned by the given player, or nil.
func (b *Battle) OpponentOf(uid string) *BattleSide {
	for i := range b.Sides {
		if b.Sides[i].PlayerUID != uid {
			return &b.Sides[i]
		}
	}
	return nil
}

// HasParticipant reports whether the player belongs to this battle.
func (b *Battle) HasParticipant(uid string) bool { return b.SideByUID(uid) != nil }

// BattleSide is one player's half of a battle: identity, team and which team
// slot is currently on the field.
type BattleSide struct {
	gorm.Model
	BattleID    uint            `json:"-"`
	Slot        int             `json:"slot"` // 1 or 2; slot 1 wins speed ties
	PlayerUID   string          `json:"player_uid" gorm:"index"`
	PlayerName  string          `json:"player_name"`
	ActiveIndex int             `json:"active_index"`
	Team        []BattlePokemon `json:"team"`
}

func (BattleSide) TableName() string { return "battle_sides" }

// Active returns the Pokémon currently on the field for this side.
func (s *BattleSide) Active() *BattlePokemon {
	if s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Team) {
		return nil
	}
	return &s.Team[s.ActiveIndex]
}

// AllFainted reports whether the side has no healthy Pokémon left.
func (s *BattleSide) AllFainted() bool {
	for i := range s.Team {
		if !s.Team[i].Fainted {
			return false
		}
	}
	return true
}

// NextHealthyIndex returns the first non-fainted team index other than the
// active one, or -1 when the bench is empty.
func (s *BattleSide) NextHealthyIndex() int {
	for i := range s.Team {
		if i != s.ActiveIndex && !s.Team[i].Fainted {
			return i
		}
	}
	return -1
}

// BattlePokemon is the mutable in-battle state of one team member. Species
// identity and derived stats are frozen at battle start from the catalog.
type BattlePokemon struct {
	gorm.Model
	SideID     uint   `json:"-"`
	TeamIndex  int    `json:"team_index"`
	SpeciesRef string `json:"species_ref"`
	Level      int    `json:"level"`

	MaxHP     int `json:"max_hp"`
	CurrentHP int `json:"current_hp"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	SpAttack  int `json:"sp_attack"`
	SpDefense int `json:"sp_defense"`
	Speed     int `json:"speed"`

	// Stat stages range -6..+6 and reset on switch-out.
	AttackStage    int `json:"attack_stage"`
	DefenseStage   int `json:"defense_stage"`
	SpAttackStage  int `json:"sp_attack_stage"`
	SpDefenseStage int `json:"sp_defense_stage"`
	SpeedStage     int `json:"speed_stage"`
	AccuracyStage  int `json:"accuracy_stage"`
	EvasionStage   int `json:"evasion_stage"`

	Status      StatusCondition `json:"status"`
	StatusTurns int             `json:"status_turns"`
	Flinched    bool            `json:"flinched"`
	Fainted     bool            `json:"fainted"`

	MoveIDs []MoveSlot `json:"moves"`
}

func (BattlePokemon) TableName() string { return "battle_pokemon" }

// ResetStages clears every stat stage, as happens on switch-out.
func (p *BattlePokemon) ResetStages() {
	p.AttackStage, p.DefenseStage = 0, 0
	p.SpAttackStage, p.SpDefenseStage = 0, 0
	p.SpeedStage = 0
	p.AccuracyStage, p.EvasionStage = 0, 0
}

// MoveSlot tracks remaining PP for one of a Pokémon's up to four moves.
type MoveSlot struct {
	gorm.Model
	BattlePokemonID uint   `json:"-"`
	SlotIndex       int    `json:"slot_index"`
	MoveID          string `json:"move_id"`
	PP              int    `json:"pp"`
}

func (MoveSlot) TableName() string { return "battle_pokemon_moves" }

// QueueEntry is a player waiting in a regional matchmaking queue. Entries are
// paired strictly FIFO by JoinedAt; preferences are recorded but do not
// influence pairing.
type QueueEntry struct {
	gorm.Model
	Region        string    `json:"region" gorm:"uniqueIndex:idx_queue_region_player"`
	PlayerUID     string    `json:"player_uid" gorm:"uniqueIndex:idx_queue_region_player"`
	JoinedAt      time.Time `json:"joined_at" gorm:"index"`
	PrefFormat    string    `json:"pref_format"`
	PrefMinRating int       `json:"pref_min_rating"`
}

func (QueueEntry) TableName() string { return "lobby_queue" }

// ChoiceRecord is one player's committed action for a specific turn. The
// record is only honored when ClientVersion equals the battle version it was
// written against; stale records are ignored by the resolver.
type ChoiceRecord struct {
	gorm.Model
	BattleID      uint       `json:"-" gorm:"uniqueIndex:idx_choice_battle_turn_player"`
	Turn          int        `json:"turn" gorm:"uniqueIndex:idx_choice_battle_turn_player"`
	PlayerUID     string     `json:"player_uid" gorm:"uniqueIndex:idx_choice_battle_turn_player"`
	Action        ActionType `json:"action"`
	Payload       int        `json:"payload"` // move slot, switch target or item ref
	ClientVersion int64      `json:"client_version"`
	CommittedAt   time.Time  `json:"committed_at"`
}

func (ChoiceRecord) TableName() string { return "battle_choices" }

// LogEntryType labels a battle log event.
type LogEntryType string

const (
	LogBattleStart    LogEntryType = "battle_start"
	LogBattleEnd      LogEntryType = "battle_end"
	LogTurnStart      LogEntryType = "turn_start"
	LogMoveUsed       LogEntryType = "move_used"
	LogDamageDealt    LogEntryType = "damage_dealt"
	LogStatusApplied  LogEntryType = "status_applied"
	LogStatChange     LogEntryType = "stat_change"
	LogStatusDamage   LogEntryType = "status_damage"
	LogStatusEffect   LogEntryType = "status_effect"
	LogPokemonFainted LogEntryType = "pokemon_fainted"
	LogPokemonSentOut LogEntryType = "pokemon_sent_out"
	LogHealing        LogEntryType = "healing"
)

// LogEntry is an append-only battle log row, ordered by (turn, seq).
type LogEntry struct {
	gorm.Model
	BattleID      uint         `json:"-" gorm:"index:idx_log_battle_turn"`
	Turn          int          `json:"turn" gorm:"index:idx_log_battle_turn"`
	Seq           int          `json:"seq"`
	Type          LogEntryType `json:"type"`
	Message       string       `json:"message"`
	Pokemon       string       `json:"pokemon,omitempty"`
	Move          string       `json:"move,omitempty"`
	Damage        int          `json:"damage,omitempty"`
	Effectiveness float64      `json:"effectiveness,omitempty"`
	Status        string       `json:"status,omitempty"`
}

func (LogEntry) TableName() string { return "battle_log" }

// User stores unique player identity, aggregate stats and rating.
type User struct {
	gorm.Model
	PlayerUID   string `json:"player_uid" gorm:"uniqueIndex"`
	DisplayName string `json:"display_name"`
	Rating      int    `json:"rating"`
	GamesPlayed int    `json:"games_played"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Team        []SavedTeamSlot
}

func (User) TableName() string { return "player_profiles" }

// SavedTeamSlot is one roster position of a player's saved team (up to six).
type SavedTeamSlot struct {
	gorm.Model
	UserID     uint   `json:"-"`
	SlotIndex  int    `json:"slot_index"`
	SpeciesRef string `json:"species_ref"`
	Level      int    `json:"level"`
	// MoveIDs is a comma-free JSON array column; at most four entries.
	MoveIDs StringList `json:"move_ids" gorm:"type:text;serializer:json"`
}

func (SavedTeamSlot) TableName() string { return "saved_teams" }

// StringList is a JSON-serialized string slice column.
type StringList []string
