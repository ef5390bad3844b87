package handler

import (
	"creature-server/internal/service"

	"github.com/google/uuid"
)

// --- Request Structs ---

type battleAttackRequest struct {
	Move     string                   `json:"move"`
	Opponent service.OpponentSnapshot `json:"opponent" binding:"required"`
}

type battleResolveRequest struct {
	// TrainerID selects a scripted trainer with authored rewards. When
	// absent the opponents list drives ad hoc reward calculation.
	TrainerID *uuid.UUID                   `json:"trainerId,omitempty"`
	Opponents []service.OpponentTeamMember `json:"opponents,omitempty"`
}
