package social

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

func seedUser(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO users (id, username, email, password_hash)
		VALUES (?, ?, ?, 'x')
	`, id, id, id+"@example.com")
	require.NoError(t, err)
}

func TestFollowUnfollow(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	seedUser(t, db, "a")
	seedUser(t, db, "b")
	seedUser(t, db, "c")

	require.NoError(t, repo.Follow(ctx, "a", "b"))
	require.NoError(t, repo.Follow(ctx, "a", "c"))
	// duplicate follow is a no-op
	require.NoError(t, repo.Follow(ctx, "a", "b"))

	ids, err := repo.FolloweeIDs(ctx, "a")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"b", "c"}, ids)

	following, err := repo.IsFollowing(ctx, "a", "b")
	require.NoError(t, err)
	require.True(t, following)

	// edges are directional: b does not follow a
	following, err = repo.IsFollowing(ctx, "b", "a")
	require.NoError(t, err)
	require.False(t, following)

	ok, err := repo.Unfollow(ctx, "a", "b")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Unfollow(ctx, "a", "b")
	require.NoError(t, err)
	require.False(t, ok)

	ids, err = repo.FolloweeIDs(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []string{"c"}, ids)
}

func TestFolloweeIDsEmpty(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)

	seedUser(t, db, "a")
	ids, err := repo.FolloweeIDs(context.Background(), "a")
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestEdges(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	seedUser(t, db, "a")
	seedUser(t, db, "b")
	require.NoError(t, repo.Follow(ctx, "a", "b"))

	edges, err := repo.Edges(ctx, "a")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.Equal(t, "a", edges[0].FollowerID)
	require.Equal(t, "b", edges[0].FolloweeID)
	require.False(t, edges[0].CreatedAt.IsZero())
}
