package store

import (
	"time"

	"github.com/jmoiron/sqlx"

	"diary-service/content"
	"diary-service/models"
)

// ArticleStore is the persistence boundary for articles. Every query is
// parameterized; slug and excerpt are recomputed from the current title,
// body, and date on each write so they can never drift from their sources.
type ArticleStore struct {
	db *sqlx.DB
}

// NewArticleStore creates an article store over db.
func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// List returns at most limit article summaries, most recently dated first.
func (s *ArticleStore) List(limit int) ([]models.ArticleSummary, error) {
	var articles []models.ArticleSummary
	err := s.db.Select(&articles,
		"SELECT id, title, pub_date FROM articles ORDER BY pub_date DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// ListAll returns every article in display order: publication date
// descending, insertion order descending on ties.
func (s *ArticleStore) ListAll() ([]models.Article, error) {
	var articles []models.Article
	err := s.db.Select(&articles,
		"SELECT id, title, content, pub_date, slug, excerpt FROM articles ORDER BY pub_date DESC, id DESC")
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// Get returns the article with id; sql.ErrNoRows when absent.
func (s *ArticleStore) Get(id int) (*models.Article, error) {
	var article models.Article
	err := s.db.Get(&article,
		"SELECT id, title, content, pub_date, slug, excerpt FROM articles WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Insert persists a new article, deriving the ISO timestamp, slug, and
// excerpt internally, and returns the assigned id.
func (s *ArticleStore) Insert(title, body string, pubDate time.Time) (int64, error) {
	fullDate := pubDate.UTC().Format(time.RFC3339)
	slug := content.Slug(pubDate, title)
	excerpt := content.Excerpt(body, content.ExcerptLength)

	result, err := s.db.Exec(
		"INSERT INTO articles (title, content, pub_date, slug, excerpt) VALUES (?, ?, ?, ?, ?)",
		title, body, fullDate, slug, excerpt)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// Update replaces the mutable fields of article id, recomputing slug and
// excerpt alongside. Updating a missing id affects no rows and is not an
// error.
func (s *ArticleStore) Update(id int, title, body string, pubDate time.Time) error {
	fullDate := pubDate.UTC().Format(time.RFC3339)
	slug := content.Slug(pubDate, title)
	excerpt := content.Excerpt(body, content.ExcerptLength)

	_, err := s.db.Exec(
		"UPDATE articles SET title = ?, content = ?, pub_date = ?, slug = ?, excerpt = ? WHERE id = ?",
		title, body, fullDate, slug, excerpt, id)
	return err
}

// Delete removes article id. Deleting a missing id is a no-op.
func (s *ArticleStore) Delete(id int) error {
	_, err := s.db.Exec("DELETE FROM articles WHERE id = ?", id)
	return err
}
