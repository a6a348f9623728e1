package live

import "time"

const (
	EventReviewCreated = "review.created"
	EventReviewUpdated = "review.updated"
	EventReviewDeleted = "review.deleted"
	EventReviewLiked   = "review.liked"
	EventReviewUnliked = "review.unliked"
)

// ReviewEvent is broadcast to every connected subscriber after a successful
// mutation. Reads never produce events.
type ReviewEvent struct {
	Type     string    `json:"type"`
	ReviewID string    `json:"review_id"`
	UserID   string    `json:"user_id"`
	Title    string    `json:"title,omitempty"`
	At       time.Time `json:"at"`
}
