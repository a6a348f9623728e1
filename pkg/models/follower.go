package models

import "time"

// FollowEdge points from the follower to the user being followed.
// A user's feed is built from the reviews of their followees.
type FollowEdge struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
