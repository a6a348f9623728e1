package social

import (
	"context"
	"database/sql"
	"fmt"

	"reviewhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// FolloweeIDs returns the identifiers of every user the given user follows.
// The feed for a user is composed from exactly this set.
func (r *Repo) FolloweeIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT followee_id
		FROM follows
		WHERE follower_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list followees: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan followee: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM follows
		WHERE follower_id = ? AND followee_id = ?
	`, followerID, followeeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count follow edge: %w", err)
	}
	return n > 0, nil
}

// Follow inserts the edge; inserting an existing edge is a no-op.
func (r *Repo) Follow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES (?, ?)
		ON CONFLICT(follower_id, followee_id) DO NOTHING
	`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("insert follow edge: %w", err)
	}
	return nil
}

func (r *Repo) Unfollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM follows
		WHERE follower_id = ? AND followee_id = ?
	`, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("delete follow edge: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Edges lists a user's outgoing follow edges, newest first.
func (r *Repo) Edges(ctx context.Context, followerID string) ([]models.FollowEdge, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT follower_id, followee_id, created_at
		FROM follows
		WHERE follower_id = ?
		ORDER BY created_at DESC
	`, followerID)
	if err != nil {
		return nil, fmt.Errorf("list follow edges: %w", err)
	}
	defer rows.Close()

	var out []models.FollowEdge
	for rows.Next() {
		var e models.FollowEdge
		if err := rows.Scan(&e.FollowerID, &e.FolloweeID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan follow edge: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
