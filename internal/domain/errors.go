package domain

import "errors"

// Rejections returned synchronously by session commands
var (
	ErrNotInSession     = errors.New("player is not an active participant of this session")
	ErrAlreadyQueued    = errors.New("player is already queued")
	ErrNotQueued        = errors.New("player is not queued")
	ErrAlreadySubbedOut = errors.New("player has already subbed out")
	ErrSubLimitReached  = errors.New("player has reached the sub limit")
	ErrNotCaptain       = errors.New("only a captain can perform this action")
	ErrIncompleteRoster = errors.New("teams do not account for every player")
	ErrCooldownActive   = errors.New("ping is on cooldown")
	ErrScoreAtBound     = errors.New("score is already at its bound")
	ErrTerminalState    = errors.New("session has ended")
	ErrWrongAudience    = errors.New("player lacks access to this variant")
)

// Team and roster errors
var (
	ErrSessionFull      = errors.New("session is full")
	ErrTeamFull         = errors.New("team is full")
	ErrAlreadyOnTeam    = errors.New("player is already on a team")
	ErrNoSuchTeam       = errors.New("team does not exist")
	ErrTeamsNotFormed   = errors.New("teams have not been formed yet")
	ErrMatchInProgress  = errors.New("match play has already started")
	ErrMatchNotStarted  = errors.New("match play has not started")
	ErrNoOpenSlot       = errors.New("no open slot to sub into")
	ErrScoreNotTracked  = errors.New("this variant does not track score")
	ErrInvalidDelta     = errors.New("score can only change by one")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNoReplacement    = errors.New("no other player can take over as captain")
)

// Construction and internal errors
var (
	ErrUnknownVariant   = errors.New("unknown variant")
	ErrInvalidConfig    = errors.New("invalid game config")
	ErrClockUnavailable = errors.New("clock unavailable")
	ErrRandUnavailable  = errors.New("random source unavailable")
	ErrInvariant        = errors.New("session invariant violated")
	ErrUnknownCommand   = errors.New("unknown command")
)

var reasonCodes = []struct {
	err  error
	code string
}{
	{ErrNotInSession, "NOT_IN_SESSION"},
	{ErrAlreadyQueued, "ALREADY_QUEUED"},
	{ErrNotQueued, "NOT_QUEUED"},
	{ErrAlreadySubbedOut, "ALREADY_SUBBED_OUT"},
	{ErrSubLimitReached, "SUB_LIMIT_REACHED"},
	{ErrNotCaptain, "NOT_CAPTAIN"},
	{ErrIncompleteRoster, "INCOMPLETE_ROSTER"},
	{ErrCooldownActive, "COOLDOWN_ACTIVE"},
	{ErrScoreAtBound, "SCORE_AT_BOUND"},
	{ErrTerminalState, "TERMINAL_STATE"},
	{ErrWrongAudience, "WRONG_AUDIENCE"},
	{ErrSessionFull, "SESSION_FULL"},
	{ErrTeamFull, "TEAM_FULL"},
	{ErrAlreadyOnTeam, "ALREADY_ON_TEAM"},
	{ErrNoSuchTeam, "NO_SUCH_TEAM"},
	{ErrTeamsNotFormed, "TEAMS_NOT_FORMED"},
	{ErrMatchInProgress, "MATCH_IN_PROGRESS"},
	{ErrMatchNotStarted, "MATCH_NOT_STARTED"},
	{ErrNoOpenSlot, "NO_OPEN_SLOT"},
	{ErrScoreNotTracked, "SCORE_NOT_TRACKED"},
	{ErrInvalidDelta, "INVALID_DELTA"},
	{ErrNotEnoughPlayers, "NOT_ENOUGH_PLAYERS"},
	{ErrNoReplacement, "NO_REPLACEMENT"},
	{ErrUnknownVariant, "UNKNOWN_VARIANT"},
	{ErrInvalidConfig, "INVALID_CONFIG"},
	{ErrClockUnavailable, "CLOCK_UNAVAILABLE"},
	{ErrRandUnavailable, "RAND_UNAVAILABLE"},
	{ErrInvariant, "INTERNAL"},
	{ErrUnknownCommand, "UNKNOWN_COMMAND"},
}

// ReasonCode returns the stable code sent to clients for err.
// Errors outside the taxonomy map to "INTERNAL".
func ReasonCode(err error) string {
	for _, rc := range reasonCodes {
		if errors.Is(err, rc.err) {
			return rc.code
		}
	}
	return "INTERNAL"
}
