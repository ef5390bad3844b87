package database_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"creature-server/internal/database"
	"creature-server/internal/interfaces"
	"creature-server/internal/models"

	"github.com/docker/docker/client"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

type RepositoryTestSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	rdContainer *tcredis.RedisContainer
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	logger      *zap.Logger

	players     interfaces.PlayerRepository
	maps        interfaces.MapRepository
	mapProgress interfaces.MapProgressRepository
	encounters  interfaces.EncounterRepository
	species     interfaces.SpeciesRepository
	owned       interfaces.OwnedCreatureRepository
	trainers    interfaces.TrainerRepository
	activity    interfaces.DailyActivityRepository
	leaderboard interfaces.LeaderboardRepository
}

func (s *RepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.logger, err = zap.NewDevelopment()
	require.NoError(s.T(), err, "Failed to create logger for tests")

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")

	pgConnStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get postgres connection string")

	s.pgPool, err = pgxpool.New(s.ctx, pgConnStr)
	require.NoError(s.T(), err, "Failed to connect to test postgres")

	require.NoError(s.T(), database.NewMigrator(s.pgPool).Up(s.ctx), "Failed to run migrations")
	s.logger.Info("Database migrations applied")

	s.rdContainer, err = tcredis.Run(s.ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(1*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start redis container")

	redisHost, err := s.rdContainer.Host(s.ctx)
	require.NoError(s.T(), err)
	redisPort, err := s.rdContainer.MappedPort(s.ctx, "6379/tcp")
	require.NoError(s.T(), err)

	s.redisClient = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port())})
	_, err = s.redisClient.Ping(s.ctx).Result()
	require.NoError(s.T(), err, "Failed to connect to test redis")

	s.players = database.NewPgPlayerRepository(s.pgPool, s.logger)
	s.maps = database.NewPgMapRepository(s.pgPool, s.logger)
	s.mapProgress = database.NewPgMapProgressRepository(s.pgPool, s.logger)
	s.encounters = database.NewPgEncounterRepository(s.pgPool, s.logger)
	s.species = database.NewPgSpeciesRepository(s.pgPool, s.logger)
	s.owned = database.NewPgOwnedCreatureRepository(s.pgPool, s.logger)
	s.trainers = database.NewPgTrainerRepository(s.pgPool, s.logger)
	s.activity = database.NewPgDailyActivityRepository(s.pgPool, s.logger)
	s.leaderboard = database.NewRedisLeaderboardRepository(s.redisClient, s.logger)
}

func (s *RepositoryTestSuite) TearDownSuite() {
	if s.pgPool != nil {
		s.pgPool.Close()
	}
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Error("Failed to terminate postgres container", zap.Error(err))
		}
	}
	if s.rdContainer != nil {
		if err := s.rdContainer.Terminate(s.ctx); err != nil {
			s.logger.Error("Failed to terminate redis container", zap.Error(err))
		}
	}
}

func (s *RepositoryTestSuite) SetupTest() {
	require.NoError(s.T(), s.redisClient.FlushDB(s.ctx).Err(), "Failed to flush Redis DB")

	_, err := s.pgPool.Exec(s.ctx, `TRUNCATE TABLE
		player_progress, map_progress, encounters, owned_creatures,
		daily_activity, trainer_prizes_claimed, trainer_team_members,
		trainers, drop_table_entries, species_moves, species, maps, items
		RESTART IDENTITY CASCADE`)
	require.NoError(s.T(), err, "Failed to truncate tables")
}

// seedMap inserts a map row and returns its definition.
func (s *RepositoryTestSuite) seedMap(slug string, orderIndex, requiredSearches int) *models.MapDefinition {
	s.T().Helper()
	id := uuid.New()
	_, err := s.pgPool.Exec(s.ctx,
		`INSERT INTO maps (id, slug, name, order_index, level_min, level_max, required_searches, encounter_rate)
		 VALUES ($1, $2, $3, $4, 1, 5, $5, 0.5)`,
		id, slug, slug, orderIndex, requiredSearches)
	require.NoError(s.T(), err)
	mapDef, err := s.maps.GetBySlug(s.ctx, slug)
	require.NoError(s.T(), err)
	return mapDef
}

func (s *RepositoryTestSuite) seedSpecies(name, rarity string) uuid.UUID {
	s.T().Helper()
	id := uuid.New()
	_, err := s.pgPool.Exec(s.ctx,
		`INSERT INTO species (id, name, rarity, catch_rate, hp, attack, defense, sp_attack, sp_defense, speed)
		 VALUES ($1, $2, $3, 120, 30, 20, 20, 15, 15, 25)`,
		id, name, rarity)
	require.NoError(s.T(), err)
	return id
}

func (s *RepositoryTestSuite) TestPlayerGetOrCreate() {
	t := s.T()
	userID := uuid.New()

	created, err := s.players.GetOrCreate(s.ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, created.Level)
	require.Equal(t, 0, created.Experience)

	created.Level = 3
	created.Gold = 250
	require.NoError(t, s.players.Update(s.ctx, created))

	again, err := s.players.GetOrCreate(s.ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 3, again.Level)
	require.Equal(t, 250, again.Gold)
}

func (s *RepositoryTestSuite) TestEnsureUnlockedIsIdempotent() {
	t := s.T()
	userID := uuid.New()
	mapDef := s.seedMap("forest", 0, 5)

	require.NoError(t, s.mapProgress.EnsureUnlocked(s.ctx, userID, mapDef.ID))

	first, err := s.mapProgress.Get(s.ctx, userID, mapDef.ID)
	require.NoError(t, err)
	require.True(t, first.IsUnlocked)
	require.NotNil(t, first.UnlockedAt)

	// A second unlock must not move the original timestamp.
	require.NoError(t, s.mapProgress.EnsureUnlocked(s.ctx, userID, mapDef.ID))

	second, err := s.mapProgress.Get(s.ctx, userID, mapDef.ID)
	require.NoError(t, err)
	require.True(t, second.IsUnlocked)
	require.NotNil(t, second.UnlockedAt)
	require.True(t, first.UnlockedAt.Equal(*second.UnlockedAt))
}

func (s *RepositoryTestSuite) TestReplaceActiveKeepsOneEncounter() {
	t := s.T()
	userID := uuid.New()
	mapDef := s.seedMap("forest", 0, 5)
	speciesID := s.seedSpecies("Mossling", "common")

	makeEncounter := func() *models.Encounter {
		return &models.Encounter{
			ID:        uuid.New(),
			UserID:    userID,
			MapID:     mapDef.ID,
			SpeciesID: speciesID,
			Level:     3,
			CurrentHP: 40,
			MaxHP:     40,
			IsActive:  true,
			StartedAt: time.Now(),
		}
	}

	first := makeEncounter()
	require.NoError(t, s.encounters.ReplaceActive(s.ctx, first))

	second := makeEncounter()
	require.NoError(t, s.encounters.ReplaceActive(s.ctx, second))

	active, err := s.encounters.GetActiveByPlayer(s.ctx, userID)
	require.NoError(t, err)
	require.Equal(t, second.ID, active.ID)

	var activeCount int
	require.NoError(t, s.pgPool.QueryRow(s.ctx,
		`SELECT count(*) FROM encounters WHERE user_id = $1 AND is_active`, userID).Scan(&activeCount))
	require.Equal(t, 1, activeCount)

	// The first is retired with a termination timestamp.
	var endedAt *time.Time
	require.NoError(t, s.pgPool.QueryRow(s.ctx,
		`SELECT ended_at FROM encounters WHERE id = $1`, first.ID).Scan(&endedAt))
	require.NotNil(t, endedAt)

	_, err = s.encounters.GetActiveByID(s.ctx, userID, first.ID)
	require.ErrorIs(t, err, models.ErrEncounterNotFound)
}

func (s *RepositoryTestSuite) TestEncounterLifecycle() {
	t := s.T()
	userID := uuid.New()
	mapDef := s.seedMap("forest", 0, 5)
	speciesID := s.seedSpecies("Mossling", "common")

	encounter := &models.Encounter{
		ID: uuid.New(), UserID: userID, MapID: mapDef.ID, SpeciesID: speciesID,
		Level: 2, CurrentHP: 30, MaxHP: 30, IsActive: true, StartedAt: time.Now(),
	}
	require.NoError(t, s.encounters.ReplaceActive(s.ctx, encounter))

	require.NoError(t, s.encounters.UpdateHP(s.ctx, encounter.ID, 12))
	updated, err := s.encounters.GetActiveByID(s.ctx, userID, encounter.ID)
	require.NoError(t, err)
	require.Equal(t, 12, updated.CurrentHP)

	require.NoError(t, s.encounters.Finish(s.ctx, encounter.ID))
	_, err = s.encounters.GetActiveByPlayer(s.ctx, userID)
	require.ErrorIs(t, err, models.ErrEncounterNotFound)
}

func (s *RepositoryTestSuite) TestDropTableFiltersByKind() {
	t := s.T()
	mapDef := s.seedMap("forest", 0, 5)
	speciesID := s.seedSpecies("Mossling", "common")

	var itemID uuid.UUID
	require.NoError(t, s.pgPool.QueryRow(s.ctx,
		`INSERT INTO items (name) VALUES ('Berry') RETURNING id`).Scan(&itemID))

	_, err := s.pgPool.Exec(s.ctx,
		`INSERT INTO drop_table_entries (map_id, kind, target_id, weight, position)
		 VALUES ($1, 'creature', $2, 70, 0), ($1, 'item', $3, 30, 0)`,
		mapDef.ID, speciesID, itemID)
	require.NoError(t, err)

	creatures, err := s.maps.DropTable(s.ctx, mapDef.ID, models.DropKindCreature)
	require.NoError(t, err)
	require.Len(t, creatures, 1)
	require.Equal(t, speciesID, creatures[0].TargetID)
	require.Equal(t, 70.0, creatures[0].Weight)

	items, err := s.maps.DropTable(s.ctx, mapDef.ID, models.DropKindItem)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, itemID, items[0].TargetID)
}

func (s *RepositoryTestSuite) TestSpeciesMovesAndRarityNormalization() {
	t := s.T()
	// Legacy rarity token still present in authored content.
	speciesID := s.seedSpecies("Auroran", "Super Rare")

	_, err := s.pgPool.Exec(s.ctx,
		`INSERT INTO species_moves (species_id, name, power, mp_cost, learn_level)
		 VALUES ($1, 'Gleam', 40, 3, 1), ($1, 'Radiance', 75, 10, 9)`,
		speciesID)
	require.NoError(t, err)

	sp, err := s.species.GetByID(s.ctx, speciesID)
	require.NoError(t, err)
	require.Equal(t, models.RarityEpic, sp.Rarity)
	require.Len(t, sp.Moves, 2)

	_, err = s.species.GetByID(s.ctx, uuid.New())
	require.ErrorIs(t, err, models.ErrSpeciesNotFound)
}

func (s *RepositoryTestSuite) TestOwnedCreatureMovesRoundTrip() {
	t := s.T()
	userID := uuid.New()
	speciesID := s.seedSpecies("Mossling", "common")

	idx := 0
	creature := &models.OwnedCreature{
		ID: uuid.New(), UserID: userID, SpeciesID: speciesID,
		Level: 5, Location: models.LocationParty, PartyIndex: &idx,
		Moves:     []string{"Scratch", "Leaf Cut"},
		CurrentHP: 60, MaxHP: 60, CurrentMP: 18, MaxMP: 18,
		CaughtAt: time.Now(),
	}
	require.NoError(t, s.owned.Create(s.ctx, creature))

	leader, err := s.owned.GetPartyLeader(s.ctx, userID)
	require.NoError(t, err)
	require.Equal(t, creature.ID, leader.ID)
	require.Equal(t, []string{"Scratch", "Leaf Cut"}, leader.Moves)

	leader.CurrentMP = 10
	leader.Moves = append(leader.Moves, "Spore")
	require.NoError(t, s.owned.Update(s.ctx, leader))

	again, err := s.owned.GetPartyLeader(s.ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 10, again.CurrentMP)
	require.Len(t, again.Moves, 3)

	_, err = s.owned.GetPartyLeader(s.ctx, uuid.New())
	require.ErrorIs(t, err, models.ErrNoActivePartyMember)
}

func (s *RepositoryTestSuite) TestDailyActivityUpsert() {
	t := s.T()
	userID := uuid.New()
	day := "2025-07-14"

	require.NoError(t, s.activity.Increment(s.ctx, userID, day, models.DailyActivity{Searches: 1, MapExperience: 10}))
	require.NoError(t, s.activity.Increment(s.ctx, userID, day, models.DailyActivity{Searches: 1, MapExperience: 10, PlatinumCoins: 100}))

	var searches, mapExp, coins int
	require.NoError(t, s.pgPool.QueryRow(s.ctx,
		`SELECT searches, map_experience, platinum_coins FROM daily_activity WHERE user_id = $1 AND day = $2`,
		userID, day).Scan(&searches, &mapExp, &coins))
	require.Equal(t, 2, searches)
	require.Equal(t, 20, mapExp)
	require.Equal(t, 100, coins)
}

func (s *RepositoryTestSuite) TestLeaderboardAccumulatesScores() {
	t := s.T()
	userID := uuid.New()
	day := "2025-07-14"

	require.NoError(t, s.leaderboard.AddExperience(s.ctx, day, userID, 10))
	require.NoError(t, s.leaderboard.AddExperience(s.ctx, day, userID, 25))

	score, err := s.redisClient.ZScore(s.ctx, "daily_exp:"+day, userID.String()).Result()
	require.NoError(t, err)
	require.Equal(t, 35.0, score)
}

func (s *RepositoryTestSuite) TestTrainerPrizeClaim() {
	t := s.T()
	userID := uuid.New()
	speciesID := s.seedSpecies("Auroran", "rare")

	var trainerID uuid.UUID
	require.NoError(t, s.pgPool.QueryRow(s.ctx,
		`INSERT INTO trainers (name, platinum_coins_reward, exp_reward, prize_species_id, prize_level)
		 VALUES ('Ranger Ilya', 100, 200, $1, 12) RETURNING id`, speciesID).Scan(&trainerID))
	_, err := s.pgPool.Exec(s.ctx,
		`INSERT INTO trainer_team_members (trainer_id, position, species_id, level)
		 VALUES ($1, 0, $2, 10)`, trainerID, speciesID)
	require.NoError(t, err)

	trainer, err := s.trainers.GetByID(s.ctx, trainerID)
	require.NoError(t, err)
	require.Equal(t, 100, trainer.PlatinumCoinsReward)
	require.Len(t, trainer.Team, 1)
	require.NotNil(t, trainer.PrizeSpeciesID)

	claimed, err := s.trainers.HasClaimedPrize(s.ctx, userID, trainerID)
	require.NoError(t, err)
	require.False(t, claimed)

	require.NoError(t, s.trainers.MarkPrizeClaimed(s.ctx, userID, trainerID))
	// Marking twice is a no-op, not an error.
	require.NoError(t, s.trainers.MarkPrizeClaimed(s.ctx, userID, trainerID))

	claimed, err = s.trainers.HasClaimedPrize(s.ctx, userID, trainerID)
	require.NoError(t, err)
	require.True(t, claimed)
}

func TestRepositoryTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		t.Fatalf("Docker client init error: %v. Ensure Docker is running and accessible.", err)
	}
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Fatalf("Docker daemon is not running or accessible: %v", err)
	}
	cli.Close()

	suite.Run(t, new(RepositoryTestSuite))
}
