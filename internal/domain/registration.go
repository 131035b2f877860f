package domain

// PendingRegistration travels inside the signed session between start and verify,
// verify hashes the password it carries.
type PendingRegistration struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}
