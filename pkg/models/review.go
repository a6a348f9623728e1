package models

import "time"

type Review struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	RewardClaimed bool      `json:"reward_claimed"`
	CreatedAt     time.Time `json:"created_at"`
	// Owner is a display snapshot attached on reads; never written back.
	Owner *User `json:"user,omitempty"`
}
