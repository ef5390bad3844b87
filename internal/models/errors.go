package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound = errors.New("resource not found") // General not found

	// Map & Progression Errors
	ErrMapNotFound = errors.New("map not found")
	ErrMapLocked   = errors.New("map is locked")

	// Encounter Errors
	ErrEncounterNotFound = errors.New("no active encounter found")

	// Battle Errors
	ErrTrainerNotFound      = errors.New("trainer not found")
	ErrEmptyOpponentTeam    = errors.New("opponent team is empty")
	ErrNoActivePartyMember  = errors.New("no active party member")
	ErrSpeciesNotFound      = errors.New("species not found")
	ErrPlayerNotFound       = errors.New("player progress not found")

	// Auth Errors (token verification happens in middleware, issuance is external)
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenExpired   = errors.New("token has expired")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrInvalidInput   = errors.New("invalid input data")
)
