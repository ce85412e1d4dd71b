package ladder_test

import (
	"testing"

	"github.com/depressed1503/maria-rating/internal/database"
	"github.com/depressed1503/maria-rating/internal/ladder"
	"github.com/depressed1503/maria-rating/internal/players"
	"github.com/depressed1503/maria-rating/internal/singles"
	"github.com/depressed1503/maria-rating/internal/teams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	query   ladder.Query
	dir     players.Directory
	singles singles.Workflow
	teams   teams.Workflow
}

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (fixture, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return fixture{
		query:   ladder.New(db),
		dir:     players.New(db),
		singles: singles.New(db),
		teams:   teams.New(db),
	}, dbTeardown
}

func TestLeaderboard(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()

	var ids [3]int64
	for i, handle := range []string{"alice", "bob", "carol"} {
		id, err := f.dir.Register("ext-"+handle, handle)
		require.NoError(t, err)
		ids[i] = id
	}

	// alice beats bob twice, carol beats bob once.
	for _, report := range []struct {
		winner, loser int64
		confirmer     string
	}{
		{ids[0], ids[1], "ext-bob"},
		{ids[0], ids[1], "ext-bob"},
		{ids[2], ids[1], "ext-bob"},
	} {
		matchID, err := f.singles.Report(report.winner, report.loser, 3, 0)
		require.NoError(t, err)
		outcome, err := f.singles.Confirm(matchID, report.confirmer)
		require.NoError(t, err)
		require.Equal(t, singles.OutcomeApplied, outcome)
	}

	entries, err := f.query.Leaderboard()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "alice", entries[0].Handle)
	assert.Equal(t, "carol", entries[1].Handle)
	assert.Equal(t, "bob", entries[2].Handle)
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Rating, entries[i].Rating, "strictly descending by rating")
	}
}

func TestLeaderboardTieOrderIsDeterministic(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()

	// All at the default rating; ties break by registration order.
	for _, handle := range []string{"zoe", "adam", "mia"} {
		_, err := f.dir.Register("ext-"+handle, handle)
		require.NoError(t, err)
	}

	entries, err := f.query.Leaderboard()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"zoe", "adam", "mia"}, []string{entries[0].Handle, entries[1].Handle, entries[2].Handle})
}

func TestGamesPlayed(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()

	var ids [4]int64
	for i, handle := range []string{"p1", "p2", "p3", "p4"} {
		id, err := f.dir.Register("ext-"+handle, handle)
		require.NoError(t, err)
		ids[i] = id
	}

	// One confirmed, one pending, one rejected singles match for p1.
	confirmed, err := f.singles.Report(ids[0], ids[1], 3, 1)
	require.NoError(t, err)
	_, err = f.singles.Confirm(confirmed, "ext-p2")
	require.NoError(t, err)

	_, err = f.singles.Report(ids[0], ids[1], 3, 2)
	require.NoError(t, err)

	rejected, err := f.singles.Report(ids[1], ids[0], 3, 0)
	require.NoError(t, err)
	_, err = f.singles.Reject(rejected, "ext-p1")
	require.NoError(t, err)

	count, err := f.query.GamesPlayed(ids[0])
	require.NoError(t, err)
	assert.Equal(t, 1, count, "only confirmed matches count")

	t.Run("team matches are not counted", func(t *testing.T) {
		matchID, err := f.teams.Report(ids[0], ids[1], ids[2], ids[3], 3, 1)
		require.NoError(t, err)
		for _, ext := range []string{"ext-p2", "ext-p3", "ext-p4"} {
			_, err := f.teams.Confirm(matchID, ext)
			require.NoError(t, err)
		}

		count, err := f.query.GamesPlayed(ids[0])
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("unknown player has zero games", func(t *testing.T) {
		count, err := f.query.GamesPlayed(999)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
