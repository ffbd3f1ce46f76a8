package store

import (
	"github.com/jmoiron/sqlx"

	"diary-service/models"
)

// UserStore is the persistence boundary for admin accounts.
type UserStore struct {
	db *sqlx.DB
}

// NewUserStore creates a user store over db.
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new account. Username uniqueness is enforced by the
// table's primary key; a duplicate insert fails and the caller surfaces a
// generic registration failure.
func (s *UserStore) Create(username, passwordHash, salt string) error {
	_, err := s.db.Exec(
		"INSERT INTO users (username, password, salt) VALUES (?, ?, ?)",
		username, passwordHash, salt)
	return err
}

// GetByUsername returns the account for username; sql.ErrNoRows when absent.
func (s *UserStore) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Get(&user,
		"SELECT username, password, salt FROM users WHERE username = ?", username)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
