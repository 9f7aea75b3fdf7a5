package domain

// User is an account holder. Only the public profile fields are serialized;
// the credential hash stays server-side.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsActive     bool   `json:"-"`
	PasswordHash string `json:"-"`
}
