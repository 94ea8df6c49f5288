package entity

import "time"

// Brief is a cached generated summary per country/window — purely a cache
// of the Answerer's brief-generation path, not part of core retrieval.
type Brief struct {
	ID           int64
	CountryCode  string
	Content      string
	ArticleCount int
	DaysRange    int
	GeneratedAt  time.Time
}
