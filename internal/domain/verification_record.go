package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationRecord is the one live code for an email address.
type VerificationRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Code      string    `db:"code" json:"code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

func NewVerificationRecord(id uuid.UUID, email, code string, now time.Time, ttl time.Duration) *VerificationRecord {
	return &VerificationRecord{
		ID:        id,
		Email:     email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired is true only once now is strictly after the expiry instant.
func (r *VerificationRecord) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
