package handler

import (
	"net/http"

	"creature-server/internal/middleware"
	"creature-server/internal/models"
	"creature-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GameHandler exposes the engine over HTTP. It holds no game logic: it
// binds requests, resolves the player from the JWT and delegates to the
// services.
type GameHandler struct {
	encounters *service.EncounterService
	battles    *service.BattleService
	jwtSecret  string
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(encounters *service.EncounterService, battles *service.BattleService, jwtSecret string) *GameHandler {
	return &GameHandler{
		encounters: encounters,
		battles:    battles,
		jwtSecret:  jwtSecret,
	}
}

// RegisterRoutes wires the engine routes. All game routes sit behind JWT
// auth; rateLimit additionally guards the search action, the only one a
// client can usefully spam.
func (h *GameHandler) RegisterRoutes(router *gin.Engine, rateLimit gin.HandlerFunc) {
	auth := middleware.JWTAuth(h.jwtSecret)

	mapsGroup := router.Group("/maps")
	mapsGroup.Use(auth)
	{
		mapsGroup.POST("/:slug/search", rateLimit, h.searchMap)
		mapsGroup.GET("/:slug/unlock-status", h.mapUnlockStatus)
	}

	encountersGroup := router.Group("/encounters")
	encountersGroup.Use(auth)
	{
		encountersGroup.POST("/:id/attack", h.attackEncounter)
		encountersGroup.POST("/:id/catch", h.catchEncounter)
		encountersGroup.POST("/:id/flee", h.fleeEncounter)
	}

	battleGroup := router.Group("/battle")
	battleGroup.Use(auth)
	{
		battleGroup.POST("/attack", h.battleAttack)
		battleGroup.POST("/resolve", h.battleResolve)
	}
}

func (h *GameHandler) searchMap(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	result, err := h.encounters.Search(c.Request.Context(), userID, c.Param("slug"), middleware.IsAdminFromContext(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	outcome := "nothing"
	switch {
	case result.Encountered:
		outcome = "encounter"
	case result.ItemDrop != nil:
		outcome = "item"
	}
	searchesTotal.WithLabelValues(outcome).Inc()

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) mapUnlockStatus(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	status, err := h.encounters.MapUnlockStatus(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *GameHandler) attackEncounter(c *gin.Context) {
	userID, encounterID, ok := h.encounterIdentity(c)
	if !ok {
		return
	}

	result, err := h.encounters.Attack(c.Request.Context(), userID, encounterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) catchEncounter(c *gin.Context) {
	userID, encounterID, ok := h.encounterIdentity(c)
	if !ok {
		return
	}

	result, err := h.encounters.Catch(c.Request.Context(), userID, encounterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if result.Caught {
		catchesTotal.WithLabelValues("success").Inc()
	} else {
		catchesTotal.WithLabelValues("miss").Inc()
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) fleeEncounter(c *gin.Context) {
	userID, encounterID, ok := h.encounterIdentity(c)
	if !ok {
		return
	}

	if err := h.encounters.Flee(c.Request.Context(), userID, encounterID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fled": true})
}

func (h *GameHandler) battleAttack(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	var req battleAttackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.battles.Attack(c.Request.Context(), userID, req.Move, req.Opponent)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) battleResolve(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	var req battleResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.battles.Resolve(c.Request.Context(), userID, req.TrainerID, req.Opponents)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	battlesResolvedTotal.Inc()
	c.JSON(http.StatusOK, result)
}

// encounterIdentity resolves the player id from the token and the
// encounter id from the path, aborting the request on failure.
func (h *GameHandler) encounterIdentity(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		abortMissingIdentity(c)
		return uuid.Nil, uuid.Nil, false
	}
	encounterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid encounter id"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, encounterID, true
}

func abortMissingIdentity(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Missing authenticated user"})
}
