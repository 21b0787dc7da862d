package posts

import (
	"sort"
	"strings"
)

// NormalizeQuery trims the search text; an empty result means "no filter"
func NormalizeQuery(query string) string {
	return strings.TrimSpace(query)
}

// Matches reports whether the post's username or content contains query,
// ignoring case. The query is literal text, never a pattern.
func Matches(post *Post, query string) bool {
	if post == nil {
		return false
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(post.Username), q) ||
		strings.Contains(strings.ToLower(post.Content), q)
}

// SortNewestFirst orders posts by createdAt desc, breaking ties by id desc
func SortNewestFirst(list []*Post) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}
