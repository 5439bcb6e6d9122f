// Package headlines finds news coverage related to an event's location in
// RSS feeds and Google News search results.
package headlines

import "time"

// Headline is one related article.
type Headline struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	FoundBy     string    `json:"foundBy"`
}

// Default and maximum number of headlines returned for one event.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)
