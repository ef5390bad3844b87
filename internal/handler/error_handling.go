package handler

import (
	"errors"
	"net/http"

	"creature-server/internal/models"
	"creature-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp models.ErrorResponse

	var lockedErr *service.MapLockedError

	switch {
	case errors.As(err, &lockedErr):
		statusCode = http.StatusForbidden
		errResp = models.ErrorResponse{
			Code:    models.ErrCodeMapLocked,
			Message: "Map is locked",
			Details: lockedErr.Status,
		}
	case errors.Is(err, models.ErrMapLocked):
		statusCode = http.StatusForbidden
		errResp = models.ErrorResponse{Code: models.ErrCodeMapLocked, Message: "Map is locked"}
	case errors.Is(err, models.ErrMapNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeMapNotFound, Message: "Map not found"}
	case errors.Is(err, models.ErrEncounterNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeEncounterNotFound, Message: "No active encounter with this id"}
	case errors.Is(err, models.ErrTrainerNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeTrainerNotFound, Message: "Trainer not found"}
	case errors.Is(err, models.ErrSpeciesNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Species not found"}
	case errors.Is(err, models.ErrEmptyOpponentTeam):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeEmptyTeam, Message: "Opponent team is empty"}
	case errors.Is(err, models.ErrNoActivePartyMember):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeNoPartyMember, Message: "No creature in the party"}
	case errors.Is(err, models.ErrPlayerNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Player progress not found"}
	case errors.Is(err, models.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeTokenExpired, Message: "Token has expired"}
	case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Token is invalid"}
	case errors.Is(err, models.ErrForbidden):
		statusCode = http.StatusForbidden
		errResp = models.ErrorResponse{Code: models.ErrCodeForbidden, Message: "Forbidden"}
	case errors.Is(err, models.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: err.Error()}
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Resource not found"}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Code: models.ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}
