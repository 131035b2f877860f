package repository

import (
	"context"

	"github.com/vibe-gaming/signup/internal/domain"

	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Accounts            Accounts
	VerificationRecords VerificationRecords
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Accounts:            newAccountRepository(db),
		VerificationRecords: newVerificationRecordRepository(db),
	}
}

type Accounts interface {
	// FindByEmailOrUsername returns the account holding either value, preferring an email match.
	FindByEmailOrUsername(ctx context.Context, email string, username string) (*domain.Account, error)
	CreateProvisional(ctx context.Context, account *domain.Account) error
	FindUnverifiedByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Promote only touches provisional rows, a second call reports domain.ErrNoRowsAffected.
	Promote(ctx context.Context, account *domain.Account, passwordHash string) error
	Delete(ctx context.Context, account *domain.Account) error
}

type VerificationRecords interface {
	// Replace drops whatever record the email had and stores the new one as a single unit.
	Replace(ctx context.Context, record *domain.VerificationRecord) error
	Find(ctx context.Context, email string, code string) (*domain.VerificationRecord, error)
	// Delete removes exactly this record, a newer record for the same email is left alone.
	Delete(ctx context.Context, record *domain.VerificationRecord) error
}
