package reviews

import "reviewhub/pkg/models"

// Merge applies a partial patch to an existing review: a field replaces the
// original only when the submitted value is non-empty. Everything else on
// the original (owner, reward state, timestamps) is untouched.
func Merge(original, patch models.Review) models.Review {
	merged := original
	if patch.Title != "" {
		merged.Title = patch.Title
	}
	if patch.Content != "" {
		merged.Content = patch.Content
	}
	return merged
}
