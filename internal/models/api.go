package models

// Machine-readable error codes returned to clients alongside HTTP status.
const (
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeTokenInvalid      = "TOKEN_INVALID"
	ErrCodeTokenExpired      = "TOKEN_EXPIRED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeMapNotFound       = "MAP_NOT_FOUND"
	ErrCodeMapLocked         = "MAP_LOCKED"
	ErrCodeEncounterNotFound = "ENCOUNTER_NOT_FOUND"
	ErrCodeTrainerNotFound   = "TRAINER_NOT_FOUND"
	ErrCodeEmptyTeam         = "EMPTY_OPPONENT_TEAM"
	ErrCodeNoPartyMember     = "NO_ACTIVE_PARTY_MEMBER"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Details carries structured context for specific errors, e.g. the
	// unlock requirement when a map is locked.
	Details interface{} `json:"details,omitempty"`
}
