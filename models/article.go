package models

// Article represents a diary article in the system
// Content is a raw HTML fragment authored by the admin; slug and excerpt are
// derived from the other fields and recomputed on every write
type Article struct {
	ID      int    `json:"id" db:"id"`
	Title   string `json:"title" db:"title"`
	Content string `json:"content" db:"content"`
	PubDate string `json:"pub_date" db:"pub_date"` // ISO timestamp (RFC3339)
	Slug    string `json:"slug" db:"slug"`
	Excerpt string `json:"excerpt" db:"excerpt"`
}

// ArticleSummary is the dashboard listing projection (no content payload)
type ArticleSummary struct {
	ID      int    `json:"id" db:"id"`
	Title   string `json:"title" db:"title"`
	PubDate string `json:"pub_date" db:"pub_date"`
}
