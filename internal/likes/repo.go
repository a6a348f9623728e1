package likes

import (
	"context"
	"database/sql"
	"fmt"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// CountByReviewAndUser is a membership test: 1 when the user has liked the
// review, 0 otherwise. The primary key on (review_id, user_id) guarantees a
// pair contributes at most once.
func (r *Repo) CountByReviewAndUser(ctx context.Context, reviewID, userID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM likes
		WHERE review_id = ? AND user_id = ?
	`, reviewID, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count like: %w", err)
	}
	return n, nil
}

func (r *Repo) CountByReview(ctx context.Context, reviewID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM likes
		WHERE review_id = ?
	`, reviewID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count review likes: %w", err)
	}
	return n, nil
}

// Like records the membership; liking twice is a no-op.
func (r *Repo) Like(ctx context.Context, reviewID, userID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO likes (review_id, user_id)
		VALUES (?, ?)
		ON CONFLICT(review_id, user_id) DO NOTHING
	`, reviewID, userID)
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (r *Repo) Unlike(ctx context.Context, reviewID, userID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM likes
		WHERE review_id = ? AND user_id = ?
	`, reviewID, userID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
