package singles_test

import (
	"database/sql"
	"testing"

	"github.com/depressed1503/maria-rating/internal/database"
	"github.com/depressed1503/maria-rating/internal/players"
	"github.com/depressed1503/maria-rating/internal/singles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (singles.Workflow, players.Directory, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return singles.New(db), players.New(db), db, dbTeardown
}

func registerPair(t *testing.T, dir players.Directory) (int64, int64) {
	t.Helper()
	a, err := dir.Register("ext-a", "alice")
	require.NoError(t, err)
	b, err := dir.Register("ext-b", "bob")
	require.NoError(t, err)
	return a, b
}

func ratingOf(t *testing.T, dir players.Directory, id int64) int {
	t.Helper()
	p, err := dir.FindByID(id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Rating
}

func TestReportValidation(t *testing.T) {
	workflow, dir, db, teardown := setupTestDB(t)
	defer teardown()

	a, b := registerPair(t, dir)

	cases := []struct {
		name               string
		reporter, opponent int64
		score1, score2     int
		wantErr            error
	}{
		{"self play", a, a, 3, 1, singles.ErrSelfPlay},
		{"negative score", a, b, -1, 3, singles.ErrNegativeScore},
		{"draw", a, b, 2, 2, singles.ErrDrawScore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := workflow.Report(tc.reporter, tc.opponent, tc.score1, tc.score2)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, singles.ErrValidation)
		})
	}

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM singles_matches").Scan(&count))
	assert.Zero(t, count, "no match record should be created on validation failure")
}

func TestReportDerivesWinner(t *testing.T) {
	workflow, dir, _, teardown := setupTestDB(t)
	defer teardown()

	a, b := registerPair(t, dir)

	t.Run("reporter wins on higher first score", func(t *testing.T) {
		id, err := workflow.Report(a, b, 3, 1)
		require.NoError(t, err)

		match, err := workflow.Get(id)
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.Equal(t, a, match.WinnerID)
		assert.Equal(t, b, match.LoserID())
		assert.Equal(t, singles.StatePending, match.State)
	})

	t.Run("opponent wins on higher second score", func(t *testing.T) {
		id, err := workflow.Report(a, b, 1, 3)
		require.NoError(t, err)

		match, err := workflow.Get(id)
		require.NoError(t, err)
		assert.Equal(t, b, match.WinnerID)
	})
}

func TestConfirmAppliesRatingsExactlyOnce(t *testing.T) {
	workflow, dir, _, teardown := setupTestDB(t)
	defer teardown()

	a, b := registerPair(t, dir)

	id, err := workflow.Report(a, b, 3, 1)
	require.NoError(t, err)

	// No rating effect while pending.
	assert.Equal(t, 1500, ratingOf(t, dir, a))
	assert.Equal(t, 1500, ratingOf(t, dir, b))

	outcome, err := workflow.Confirm(id, "ext-b")
	require.NoError(t, err)
	assert.Equal(t, singles.OutcomeApplied, outcome)

	// k=32 at equal ratings moves 16 points each way.
	assert.Equal(t, 1516, ratingOf(t, dir, a))
	assert.Equal(t, 1484, ratingOf(t, dir, b))

	match, err := workflow.Get(id)
	require.NoError(t, err)
	assert.Equal(t, singles.StateConfirmed, match.State)
	assert.NotNil(t, match.ResolvedAt)

	t.Run("second confirm is a no-op", func(t *testing.T) {
		outcome, err := workflow.Confirm(id, "ext-b")
		require.NoError(t, err)
		assert.Equal(t, singles.OutcomeAlreadyResolved, outcome)
		assert.Equal(t, 1516, ratingOf(t, dir, a))
		assert.Equal(t, 1484, ratingOf(t, dir, b))
	})
}

func TestConfirmUnknownMatch(t *testing.T) {
	workflow, _, _, teardown := setupTestDB(t)
	defer teardown()

	outcome, err := workflow.Confirm("no-such-match", "ext-b")
	require.NoError(t, err)
	assert.Equal(t, singles.OutcomeNotFound, outcome)
}

func TestReject(t *testing.T) {
	workflow, dir, _, teardown := setupTestDB(t)
	defer teardown()

	a, b := registerPair(t, dir)

	t.Run("pending match is removed without rating effect", func(t *testing.T) {
		id, err := workflow.Report(a, b, 3, 1)
		require.NoError(t, err)

		outcome, err := workflow.Reject(id, "ext-b")
		require.NoError(t, err)
		assert.Equal(t, singles.OutcomeRemoved, outcome)

		match, err := workflow.Get(id)
		require.NoError(t, err)
		assert.Nil(t, match, "a rejected match has no further existence")
		assert.Equal(t, 1500, ratingOf(t, dir, a))
	})

	t.Run("confirmed match stays untouched", func(t *testing.T) {
		id, err := workflow.Report(a, b, 3, 1)
		require.NoError(t, err)
		_, err = workflow.Confirm(id, "ext-b")
		require.NoError(t, err)

		outcome, err := workflow.Reject(id, "ext-b")
		require.NoError(t, err)
		assert.Equal(t, singles.OutcomeAlreadyResolved, outcome)

		match, err := workflow.Get(id)
		require.NoError(t, err)
		require.NotNil(t, match, "a confirmed match must survive a late reject")
		assert.Equal(t, singles.StateConfirmed, match.State)
	})

	t.Run("unknown match", func(t *testing.T) {
		outcome, err := workflow.Reject("no-such-match", "ext-b")
		require.NoError(t, err)
		assert.Equal(t, singles.OutcomeNotFound, outcome)
	})
}
