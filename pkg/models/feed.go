package models

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// FeedPage is one window of a viewer's feed plus pagination metadata.
// Total counts every matching review, not just the current window.
type FeedPage struct {
	User       *User      `json:"user"`
	Reviews    []Review   `json:"reviews"`
	Pagination Pagination `json:"pagination"`
}

// ReviewDetail is a single review with viewer-specific state. It is only
// returned when the viewer resolved; anonymous reads get the bare review.
type ReviewDetail struct {
	User           *User  `json:"user"`
	Review         Review `json:"review"`
	UserLikeActive bool   `json:"user_like_active"`
	LikeCount      int    `json:"like_count"`
}
