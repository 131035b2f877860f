package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered identity. It is provisional until the email owner
// presents the verification code, Password holds the pending plaintext until then.
type Account struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Username   string    `db:"username" json:"username"`
	Email      string    `db:"email" json:"email"`
	Password   string    `db:"password" json:"-"`
	IsVerified bool      `db:"is_verified" json:"is_verified"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
