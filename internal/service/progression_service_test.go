package service

import (
	"context"
	"testing"

	"creature-server/internal/interfaces/mocks"
	"creature-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProgressionFixture(t *testing.T) (*ProgressionService, *mocks.MapRepository, *mocks.MapProgressRepository) {
	t.Helper()
	maps := new(mocks.MapRepository)
	progress := new(mocks.MapProgressRepository)
	svc := NewProgressionService(maps, progress, zap.NewNop())
	return svc, maps, progress
}

func TestUnlockStatusFirstMapAlwaysUnlocked(t *testing.T) {
	svc, maps, _ := newProgressionFixture(t)
	userID := uuid.New()

	status, err := svc.UnlockStatus(context.Background(), userID, &models.MapDefinition{OrderIndex: 0})
	require.NoError(t, err)
	assert.True(t, status.Unlocked)
	maps.AssertNotCalled(t, "GetByOrderIndex", mock.Anything, mock.Anything)
}

func TestUnlockStatusGatedByPrecedingMap(t *testing.T) {
	svc, maps, progress := newProgressionFixture(t)
	userID := uuid.New()
	prev := &models.MapDefinition{ID: uuid.New(), Slug: "forest", OrderIndex: 0, RequiredSearches: 5}
	current := &models.MapDefinition{ID: uuid.New(), Slug: "cave", OrderIndex: 1}

	maps.On("GetByOrderIndex", mock.Anything, 0).Return(prev, nil)
	progress.On("Get", mock.Anything, userID, prev.ID).
		Return(&models.MapProgress{UserID: userID, MapID: prev.ID, TotalSearches: 3}, nil)

	status, err := svc.UnlockStatus(context.Background(), userID, current)
	require.NoError(t, err)
	assert.False(t, status.Unlocked)
	assert.Equal(t, 5, status.RequiredSearches)
	assert.Equal(t, 3, status.CurrentSearches)
	assert.Equal(t, 2, status.RemainingSearches)
}

func TestUnlockStatusUntouchedPrecedingMapCountsZero(t *testing.T) {
	svc, maps, progress := newProgressionFixture(t)
	userID := uuid.New()
	prev := &models.MapDefinition{ID: uuid.New(), OrderIndex: 0, RequiredSearches: 5}

	maps.On("GetByOrderIndex", mock.Anything, 0).Return(prev, nil)
	progress.On("Get", mock.Anything, userID, prev.ID).Return(nil, models.ErrNotFound)

	status, err := svc.UnlockStatus(context.Background(), userID, &models.MapDefinition{OrderIndex: 1})
	require.NoError(t, err)
	assert.False(t, status.Unlocked)
	assert.Equal(t, 0, status.CurrentSearches)
	assert.Equal(t, 5, status.RemainingSearches)
}

func TestUnlockStatusUnlockedAtThreshold(t *testing.T) {
	svc, maps, progress := newProgressionFixture(t)
	userID := uuid.New()
	prev := &models.MapDefinition{ID: uuid.New(), OrderIndex: 0, RequiredSearches: 5}

	maps.On("GetByOrderIndex", mock.Anything, 0).Return(prev, nil)
	progress.On("Get", mock.Anything, userID, prev.ID).
		Return(&models.MapProgress{TotalSearches: 5}, nil)

	status, err := svc.UnlockStatus(context.Background(), userID, &models.MapDefinition{OrderIndex: 1})
	require.NoError(t, err)
	assert.True(t, status.Unlocked)
	assert.Equal(t, 0, status.RemainingSearches)
}

func TestCheckAccessAdminBypassesLockedMap(t *testing.T) {
	svc, maps, progress := newProgressionFixture(t)
	userID := uuid.New()
	prev := &models.MapDefinition{ID: uuid.New(), OrderIndex: 0, RequiredSearches: 5}

	maps.On("GetByOrderIndex", mock.Anything, 0).Return(prev, nil)
	progress.On("Get", mock.Anything, userID, prev.ID).Return(nil, models.ErrNotFound)

	current := &models.MapDefinition{OrderIndex: 1}

	_, err := svc.CheckAccess(context.Background(), userID, current, false)
	assert.ErrorIs(t, err, models.ErrMapLocked)

	status, err := svc.CheckAccess(context.Background(), userID, current, true)
	require.NoError(t, err)
	assert.False(t, status.Unlocked)
}

func TestRecordSearchIncrementsAndLevels(t *testing.T) {
	svc, _, progress := newProgressionFixture(t)
	userID := uuid.New()
	mapDef := &models.MapDefinition{ID: uuid.New(), OrderIndex: 0, RequiredSearches: 100}

	row := &models.MapProgress{UserID: userID, MapID: mapDef.ID, TotalSearches: 7, Level: 1, Experience: 95}
	progress.On("GetOrCreate", mock.Anything, userID, mapDef.ID).Return(row, nil)
	progress.On("Update", mock.Anything, row).Return(nil)

	updated, unlocked, err := svc.RecordSearch(context.Background(), userID, mapDef)
	require.NoError(t, err)
	assert.Nil(t, unlocked)
	assert.Equal(t, 8, updated.TotalSearches)
	assert.Equal(t, 2, updated.Level)
	assert.Equal(t, 5, updated.Experience)
}

func TestRecordSearchCrossingThresholdUnlocksNextMap(t *testing.T) {
	svc, maps, progress := newProgressionFixture(t)
	userID := uuid.New()
	mapDef := &models.MapDefinition{ID: uuid.New(), Slug: "forest", OrderIndex: 0, RequiredSearches: 5}
	next := &models.MapDefinition{ID: uuid.New(), Slug: "cave", OrderIndex: 1}

	row := &models.MapProgress{UserID: userID, MapID: mapDef.ID, TotalSearches: 4, Level: 1}
	progress.On("GetOrCreate", mock.Anything, userID, mapDef.ID).Return(row, nil)
	progress.On("Update", mock.Anything, row).Return(nil)
	maps.On("GetByOrderIndex", mock.Anything, 1).Return(next, nil)
	progress.On("EnsureUnlocked", mock.Anything, userID, next.ID).Return(nil)

	updated, unlocked, err := svc.RecordSearch(context.Background(), userID, mapDef)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.TotalSearches)
	require.NotNil(t, unlocked)
	assert.Equal(t, "cave", unlocked.Slug)
	progress.AssertCalled(t, "EnsureUnlocked", mock.Anything, userID, next.ID)
}

func TestRecordSearchBelowThresholdDoesNotUnlock(t *testing.T) {
	svc, maps, progress := newProgressionFixture(t)
	userID := uuid.New()
	mapDef := &models.MapDefinition{ID: uuid.New(), OrderIndex: 0, RequiredSearches: 5}

	row := &models.MapProgress{UserID: userID, MapID: mapDef.ID, TotalSearches: 1, Level: 1}
	progress.On("GetOrCreate", mock.Anything, userID, mapDef.ID).Return(row, nil)
	progress.On("Update", mock.Anything, row).Return(nil)

	_, unlocked, err := svc.RecordSearch(context.Background(), userID, mapDef)
	require.NoError(t, err)
	assert.Nil(t, unlocked)
	maps.AssertNotCalled(t, "GetByOrderIndex", mock.Anything, mock.Anything)
}

func TestRecordSearchPastThresholdUnlocksOnlyOnce(t *testing.T) {
	svc, maps, progress := newProgressionFixture(t)
	userID := uuid.New()
	mapDef := &models.MapDefinition{ID: uuid.New(), OrderIndex: 0, RequiredSearches: 5}

	// Already crossed earlier, so another search must not re-trigger the
	// unlock cascade.
	row := &models.MapProgress{UserID: userID, MapID: mapDef.ID, TotalSearches: 9, Level: 2}
	progress.On("GetOrCreate", mock.Anything, userID, mapDef.ID).Return(row, nil)
	progress.On("Update", mock.Anything, row).Return(nil)

	_, unlocked, err := svc.RecordSearch(context.Background(), userID, mapDef)
	require.NoError(t, err)
	assert.Nil(t, unlocked)
	maps.AssertNotCalled(t, "GetByOrderIndex", mock.Anything, mock.Anything)
}

func TestRecordSearchAtEndOfChain(t *testing.T) {
	svc, maps, progress := newProgressionFixture(t)
	userID := uuid.New()
	mapDef := &models.MapDefinition{ID: uuid.New(), OrderIndex: 3, RequiredSearches: 5}

	row := &models.MapProgress{UserID: userID, MapID: mapDef.ID, TotalSearches: 4, Level: 1}
	progress.On("GetOrCreate", mock.Anything, userID, mapDef.ID).Return(row, nil)
	progress.On("Update", mock.Anything, row).Return(nil)
	maps.On("GetByOrderIndex", mock.Anything, 4).Return(nil, models.ErrMapNotFound)

	_, unlocked, err := svc.RecordSearch(context.Background(), userID, mapDef)
	require.NoError(t, err)
	assert.Nil(t, unlocked)
	progress.AssertNotCalled(t, "EnsureUnlocked", mock.Anything, mock.Anything, mock.Anything)
}
