package mocks

import (
	"context"

	"creature-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock PlayerRepository
type PlayerRepository struct {
	mock.Mock
}

func (m *PlayerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.PlayerProgress, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*models.PlayerProgress)
	return p, args.Error(1)
}

func (m *PlayerRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.PlayerProgress, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*models.PlayerProgress)
	return p, args.Error(1)
}

func (m *PlayerRepository) Update(ctx context.Context, progress *models.PlayerProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

// Mock MapRepository
type MapRepository struct {
	mock.Mock
}

func (m *MapRepository) GetBySlug(ctx context.Context, slug string) (*models.MapDefinition, error) {
	args := m.Called(ctx, slug)
	def, _ := args.Get(0).(*models.MapDefinition)
	return def, args.Error(1)
}

func (m *MapRepository) GetByOrderIndex(ctx context.Context, orderIndex int) (*models.MapDefinition, error) {
	args := m.Called(ctx, orderIndex)
	def, _ := args.Get(0).(*models.MapDefinition)
	return def, args.Error(1)
}

func (m *MapRepository) DropTable(ctx context.Context, mapID uuid.UUID, kind models.DropKind) ([]models.DropTableEntry, error) {
	args := m.Called(ctx, mapID, kind)
	entries, _ := args.Get(0).([]models.DropTableEntry)
	return entries, args.Error(1)
}

// Mock MapProgressRepository
type MapProgressRepository struct {
	mock.Mock
}

func (m *MapProgressRepository) Get(ctx context.Context, userID, mapID uuid.UUID) (*models.MapProgress, error) {
	args := m.Called(ctx, userID, mapID)
	p, _ := args.Get(0).(*models.MapProgress)
	return p, args.Error(1)
}

func (m *MapProgressRepository) GetOrCreate(ctx context.Context, userID, mapID uuid.UUID) (*models.MapProgress, error) {
	args := m.Called(ctx, userID, mapID)
	p, _ := args.Get(0).(*models.MapProgress)
	return p, args.Error(1)
}

func (m *MapProgressRepository) Update(ctx context.Context, progress *models.MapProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MapProgressRepository) EnsureUnlocked(ctx context.Context, userID, mapID uuid.UUID) error {
	args := m.Called(ctx, userID, mapID)
	return args.Error(0)
}

// Mock EncounterRepository
type EncounterRepository struct {
	mock.Mock
}

func (m *EncounterRepository) GetActiveByID(ctx context.Context, userID, encounterID uuid.UUID) (*models.Encounter, error) {
	args := m.Called(ctx, userID, encounterID)
	e, _ := args.Get(0).(*models.Encounter)
	return e, args.Error(1)
}

func (m *EncounterRepository) GetActiveByPlayer(ctx context.Context, userID uuid.UUID) (*models.Encounter, error) {
	args := m.Called(ctx, userID)
	e, _ := args.Get(0).(*models.Encounter)
	return e, args.Error(1)
}

func (m *EncounterRepository) ReplaceActive(ctx context.Context, encounter *models.Encounter) error {
	args := m.Called(ctx, encounter)
	return args.Error(0)
}

func (m *EncounterRepository) UpdateHP(ctx context.Context, encounterID uuid.UUID, currentHP int) error {
	args := m.Called(ctx, encounterID, currentHP)
	return args.Error(0)
}

func (m *EncounterRepository) Finish(ctx context.Context, encounterID uuid.UUID) error {
	args := m.Called(ctx, encounterID)
	return args.Error(0)
}

// Mock SpeciesRepository
type SpeciesRepository struct {
	mock.Mock
}

func (m *SpeciesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Species, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Species)
	return s, args.Error(1)
}

// Mock OwnedCreatureRepository
type OwnedCreatureRepository struct {
	mock.Mock
}

func (m *OwnedCreatureRepository) Create(ctx context.Context, creature *models.OwnedCreature) error {
	args := m.Called(ctx, creature)
	return args.Error(0)
}

func (m *OwnedCreatureRepository) GetPartyLeader(ctx context.Context, userID uuid.UUID) (*models.OwnedCreature, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*models.OwnedCreature)
	return c, args.Error(1)
}

func (m *OwnedCreatureRepository) Update(ctx context.Context, creature *models.OwnedCreature) error {
	args := m.Called(ctx, creature)
	return args.Error(0)
}

// Mock TrainerRepository
type TrainerRepository struct {
	mock.Mock
}

func (m *TrainerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TrainerDefinition, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.TrainerDefinition)
	return t, args.Error(1)
}

func (m *TrainerRepository) HasClaimedPrize(ctx context.Context, userID, trainerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, trainerID)
	return args.Bool(0), args.Error(1)
}

func (m *TrainerRepository) MarkPrizeClaimed(ctx context.Context, userID, trainerID uuid.UUID) error {
	args := m.Called(ctx, userID, trainerID)
	return args.Error(0)
}

// Mock DailyActivityRepository
type DailyActivityRepository struct {
	mock.Mock
}

func (m *DailyActivityRepository) Increment(ctx context.Context, userID uuid.UUID, day string, delta models.DailyActivity) error {
	args := m.Called(ctx, userID, day, delta)
	return args.Error(0)
}

// Mock LeaderboardRepository
type LeaderboardRepository struct {
	mock.Mock
}

func (m *LeaderboardRepository) AddExperience(ctx context.Context, day string, userID uuid.UUID, exp int) error {
	args := m.Called(ctx, day, userID, exp)
	return args.Error(0)
}

// Mock StatePublisher
type StatePublisher struct {
	mock.Mock
}

func (m *StatePublisher) PublishPlayerState(ctx context.Context, update models.PlayerStateUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}
