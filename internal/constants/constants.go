package constants

// Centralized constants for headers, env keys and routes.
const (
	// Environment variable keys
	EnvSessionSecret = "SESSION_SECRET"
	EnvConfigPath    = "POKEBATTLE_CONFIG"
	EnvDatabasePath  = "POKEBATTLE_DB"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"

	// Authorization prefix
	BearerPrefix = "Bearer "
)

// Routes used by the backend router
const (
	RouteAPIPrefix    = "/api"
	RouteVersion      = "/version"
	RouteLobbyQueue   = "/lobby/:region/queue"
	RouteBattleByID   = "/battles/:battleID"
	RouteBattleChoice = "/battles/:battleID/choices"
	RouteBattleLog    = "/battles/:battleID/log"
	RouteProfileMe    = "/players/me"
	RouteProfileTeam  = "/players/me/team"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest    = "Invalid request"
	ErrInvalidBattleID   = "Invalid battle ID"
	ErrBattleNotFound    = "Battle not found"
	ErrNotAParticipant   = "Player not part of this battle"
	ErrAlreadyQueued     = "Player already queued in this region"
	ErrAlreadyInBattle   = "Player already in an active battle"
	ErrFailedJoinQueue   = "Failed to join queue"
	ErrFailedLeaveQueue  = "Failed to leave queue"
	ErrFailedFetchBattle = "Failed to fetch battle"
	ErrFailedFetchLog    = "Failed to fetch battle log"
	ErrFailedStoreChoice = "Failed to store choice"
	ErrFailedFetchMe     = "Failed to fetch profile"
	ErrFailedSaveTeam    = "Failed to save team"
	ErrTeamInvalid       = "Team failed validation"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldBattleUID = "battle_uid"
	LogFieldPlayerUID = "player_uid"
	LogFieldRegion    = "region"
	LogFieldTurn      = "turn"
	LogFieldVersion   = "version"
	LogFieldAddr      = "addr"
	LogFieldReason    = "reason"
)
