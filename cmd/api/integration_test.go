//go:build integration
// +build integration

package main

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incvoting/voting-api/internal/config"
	"github.com/incvoting/voting-api/internal/domain/delegate"
	"github.com/incvoting/voting-api/internal/domain/election"
	"github.com/incvoting/voting-api/internal/domain/vote"
	"github.com/incvoting/voting-api/internal/storage/postgres"
)

// Integration tests that require a real PostgreSQL database
// Run with: go test -tags=integration

func TestDatabaseConnection(t *testing.T) {
	cfg := config.Load()

	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}

	db, err := postgres.Connect(cfg)
	assert.NoError(t, err, "Should be able to connect to test database")

	if err == nil {
		sqlDB, err := db.DB()
		assert.NoError(t, err)

		err = sqlDB.Ping()
		assert.NoError(t, err, "Should be able to ping the database")

		sqlDB.Close()
	}
}

func TestDatabaseMigration(t *testing.T) {
	cfg := config.Load()

	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}

	db, err := postgres.Connect(cfg)
	assert.NoError(t, err, "Should be able to connect to test database")

	if err == nil {
		err = postgres.AutoMigrate(db)
		assert.NoError(t, err, "Should be able to run migrations")

		sqlDB, _ := db.DB()
		sqlDB.Close()
	}
}

func TestRepositoryContainer(t *testing.T) {
	cfg := config.Load()

	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}

	repos, err := postgres.NewContainer(cfg)
	require.NoError(t, err, "Should be able to build the repository container")
	defer repos.Close()

	assert.NoError(t, repos.Health(), "Container health check should pass")

	positions, err := repos.Positions().GetAll()
	assert.NoError(t, err, "Should be able to list seeded positions")
	assert.NotEmpty(t, positions, "Migrations should seed the position catalog")
}

// TestResultsAggregation exercises the real tally query against Postgres:
// per-candidate counts, zero-vote candidates, ordering with the display-order
// tie-break, and strict grouping by position.
func TestResultsAggregation(t *testing.T) {
	cfg := config.Load()

	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}

	repos, err := postgres.NewContainer(cfg)
	require.NoError(t, err, "Should be able to build the repository container")
	defer repos.Close()

	// A throwaway zone keeps this run isolated from seeded data and reruns.
	zone := "TEST ZONE " + uuid.NewString()[:8]

	chair := election.NewPosition(zone, "Council Chair", 998)
	require.NoError(t, repos.Positions().Create(chair))
	secretary := election.NewPosition(zone, "Council Secretary", 999)
	require.NoError(t, repos.Positions().Create(secretary))

	ada := election.NewCandidate(chair.ID, "Ada Obi", "F", "Umuali", zone, "", 1)
	chinedu := election.NewCandidate(chair.ID, "Chinedu Eze", "M", "Amafor", zone, "", 2)
	ngozi := election.NewCandidate(chair.ID, "Ngozi Ude", "F", "Obinze", zone, "", 3)
	obi := election.NewCandidate(chair.ID, "Obi Okafor", "M", "Umuali", zone, "", 4)
	emeka := election.NewCandidate(secretary.ID, "Emeka Nwosu", "M", "Umuali", zone, "", 1)
	for _, c := range []*election.Candidate{ada, chinedu, ngozi, obi, emeka} {
		require.NoError(t, repos.Candidates().Create(c))
	}

	delegates := make([]*delegate.Delegate, 4)
	for i := range delegates {
		d := delegate.New(fmt.Sprintf("Delegate %d", i+1), "", "", zone, "", "")
		require.NoError(t, repos.Delegates().Create(d))
		delegates[i] = d
	}

	t.Cleanup(func() {
		db := repos.DB()
		db.Exec("DELETE FROM votes WHERE position_id IN (?, ?)", chair.ID, secretary.ID)
		db.Exec("DELETE FROM candidates WHERE position_id IN (?, ?)", chair.ID, secretary.ID)
		db.Exec("DELETE FROM positions WHERE zone = ?", zone)
		db.Exec("DELETE FROM delegates WHERE zone = ?", zone)
	})

	// Chinedu 2, Ada 1, Ngozi 1 (tie with Ada), Obi 0; Emeka 1 for secretary.
	ballots := []vote.Ballot{
		{chair.ID: chinedu.ID, secretary.ID: emeka.ID},
		{chair.ID: chinedu.ID},
		{chair.ID: ada.ID},
		{chair.ID: ngozi.ID},
	}
	for i, b := range ballots {
		_, err := repos.Votes().CreateBallot(delegates[i].ID, b)
		require.NoError(t, err)
	}

	results, err := repos.Votes().Results("")
	require.NoError(t, err)

	byPosition := make(map[uuid.UUID]vote.PositionResult, len(results))
	for _, r := range results {
		byPosition[r.PositionID] = r
	}

	chairResult, ok := byPosition[chair.ID]
	require.True(t, ok, "chair position should appear in the results")
	require.Len(t, chairResult.Candidates, 4, "every candidate appears, voted for or not")

	names := make([]string, 0, len(chairResult.Candidates))
	counts := make([]int64, 0, len(chairResult.Candidates))
	for _, c := range chairResult.Candidates {
		names = append(names, c.Name)
		counts = append(counts, c.VoteCount)
	}
	assert.Equal(t, []string{"Chinedu Eze", "Ada Obi", "Ngozi Ude", "Obi Okafor"}, names,
		"count descending, display order breaking the Ada/Ngozi tie")
	assert.Equal(t, []int64{2, 1, 1, 0}, counts)

	secretaryResult, ok := byPosition[secretary.ID]
	require.True(t, ok, "secretary position should appear in the results")
	require.Len(t, secretaryResult.Candidates, 1)
	assert.Equal(t, "Emeka Nwosu", secretaryResult.Candidates[0].Name)
	assert.Equal(t, int64(1), secretaryResult.Candidates[0].VoteCount,
		"chair votes must not bleed into the secretary tally")

	zoneResults, err := repos.Votes().Results(zone)
	require.NoError(t, err)
	assert.Len(t, zoneResults, 2, "zone filter returns only this zone's positions")
}
