package reviews

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"reviewhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const selectColumns = `
	r.id, r.user_id, r.title, r.content, r.reward_claimed, r.created_at,
	u.id, u.username, u.email, u.created_at
`

func (r *Repo) Create(ctx context.Context, review models.Review) (*models.Review, error) {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO reviews (id, user_id, title, content)
		VALUES (?, ?, ?, ?)
	`, review.ID, review.UserID, review.Title, review.Content)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	return r.GetByID(ctx, review.ID)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+selectColumns+`
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.id = ?
	`, id)

	review, err := scanReview(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return review, nil
}

// GetOwnedUnclaimed is the guarded lookup behind update and delete: it
// returns nil both when the review does not exist and when it exists but is
// not the caller's unclaimed review, so callers cannot tell the cases apart.
func (r *Repo) GetOwnedUnclaimed(ctx context.Context, id, ownerID string) (*models.Review, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+selectColumns+`
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.id = ? AND r.user_id = ? AND r.reward_claimed = 0
	`, id, ownerID)

	review, err := scanReview(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan owned review: %w", err)
	}
	return review, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx so the feed queries can
// run against a shared snapshot.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ListByOwners returns one page of reviews owned by any of the given users,
// newest first. Ties on created_at break on id so a page is stable across
// the paired count query.
func (r *Repo) ListByOwners(ctx context.Context, ownerIDs []string, page, size int) ([]models.Review, error) {
	return listByOwners(ctx, r.DB, ownerIDs, page, size)
}

// CountByOwners counts every matching review independent of the page window.
func (r *Repo) CountByOwners(ctx context.Context, ownerIDs []string) (int, error) {
	return countByOwners(ctx, r.DB, ownerIDs)
}

// FeedWindow reads one page window and the total count inside a single
// transaction, so the pair reflects one snapshot of the matching set even
// while writers commit in between. The sqlite driver rejects the ReadOnly
// flag; a deferred transaction takes its read view at the first query, which
// is all the feed needs.
func (r *Repo) FeedWindow(ctx context.Context, ownerIDs []string, page, size int) ([]models.Review, int, error) {
	if len(ownerIDs) == 0 {
		return []models.Review{}, 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin feed read: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	items, err := listByOwners(ctx, tx, ownerIDs, page, size)
	if err != nil {
		return nil, 0, err
	}
	total, err := countByOwners(ctx, tx, ownerIDs)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func listByOwners(ctx context.Context, q querier, ownerIDs []string, page, size int) ([]models.Review, error) {
	if len(ownerIDs) == 0 {
		return []models.Review{}, nil
	}

	query := `
		SELECT ` + selectColumns + `
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id IN (` + placeholders(len(ownerIDs)) + `)
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT ? OFFSET ?
	`

	args := make([]any, 0, len(ownerIDs)+2)
	for _, id := range ownerIDs {
		args = append(args, id)
	}
	args = append(args, size, page*size)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := make([]models.Review, 0, size)
	for rows.Next() {
		review, err := scanReview(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		out = append(out, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func countByOwners(ctx context.Context, q querier, ownerIDs []string) (int, error) {
	if len(ownerIDs) == 0 {
		return 0, nil
	}

	query := `SELECT COUNT(*) FROM reviews WHERE user_id IN (` + placeholders(len(ownerIDs)) + `)`

	args := make([]any, 0, len(ownerIDs))
	for _, id := range ownerIDs {
		args = append(args, id)
	}

	var total int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return total, nil
}

// Update persists title and content. The ownership and reward predicate is
// part of the statement itself, so the check and the write are atomic.
func (r *Repo) Update(ctx context.Context, review models.Review) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE reviews
		SET title = ?, content = ?
		WHERE id = ? AND user_id = ? AND reward_claimed = 0
	`, review.Title, review.Content, review.ID, review.UserID)
	if err != nil {
		return false, fmt.Errorf("update review: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM reviews
		WHERE id = ? AND user_id = ? AND reward_claimed = 0
	`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete review: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ClaimReward flips the one-way reward flag. Once set the review is frozen
// against owner edits and deletes.
func (r *Repo) ClaimReward(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE reviews
		SET reward_claimed = 1
		WHERE id = ? AND user_id = ? AND reward_claimed = 0
	`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("claim reward: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func scanReview(scan func(...any) error) (*models.Review, error) {
	var (
		review  models.Review
		owner   models.User
		claimed int
	)
	if err := scan(
		&review.ID, &review.UserID, &review.Title, &review.Content, &claimed, &review.CreatedAt,
		&owner.ID, &owner.Username, &owner.Email, &owner.CreatedAt,
	); err != nil {
		return nil, err
	}
	review.RewardClaimed = claimed != 0
	review.Owner = &owner
	return &review, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
