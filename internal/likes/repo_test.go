package likes

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"reviewhub/pkg/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seed(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, id := range []string{"a", "b"} {
		_, err := db.Exec(`
			INSERT INTO users (id, username, email, password_hash)
			VALUES (?, ?, ?, 'x')
		`, id, id, id+"@example.com")
		require.NoError(t, err)
	}
	_, err := db.Exec(`
		INSERT INTO reviews (id, user_id, title, content)
		VALUES ('r1', 'a', 't', 'c')
	`)
	require.NoError(t, err)
}

func TestLikeMembership(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()
	seed(t, db)

	n, err := repo.CountByReviewAndUser(ctx, "r1", "b")
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, repo.Like(ctx, "r1", "b"))
	// a pair contributes at most one membership
	require.NoError(t, repo.Like(ctx, "r1", "b"))

	n, err = repo.CountByReviewAndUser(ctx, "r1", "b")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	total, err := repo.CountByReview(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, 1, total)

	ok, err := repo.Unlike(ctx, "r1", "b")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Unlike(ctx, "r1", "b")
	require.NoError(t, err)
	require.False(t, ok)

	n, err = repo.CountByReviewAndUser(ctx, "r1", "b")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestLikesPerUserAreIndependent(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()
	seed(t, db)

	require.NoError(t, repo.Like(ctx, "r1", "a"))
	require.NoError(t, repo.Like(ctx, "r1", "b"))

	total, err := repo.CountByReview(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, 2, total)

	_, err = repo.Unlike(ctx, "r1", "a")
	require.NoError(t, err)

	n, err := repo.CountByReviewAndUser(ctx, "r1", "b")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
