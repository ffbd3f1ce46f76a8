package models

// User represents an admin account
// Password holds the hex PBKDF2 hash; never returned in responses
type User struct {
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"` // Hashed; omitted from JSON
	Salt     string `json:"-" db:"salt"`
}
