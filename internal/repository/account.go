package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vibe-gaming/signup/internal/db"
	"github.com/vibe-gaming/signup/internal/domain"

	"github.com/jmoiron/sqlx"
)

const accountColumns = "id, username, email, password, is_verified, created_at, updated_at"

type accountRepository struct {
	db *sqlx.DB
}

func newAccountRepository(db *sqlx.DB) *accountRepository {
	return &accountRepository{
		db: db,
	}
}

func (r *accountRepository) FindByEmailOrUsername(ctx context.Context, email string, username string) (*domain.Account, error) {
	const op = "repository.account.FindByEmailOrUsername"

	query := r.db.Rebind(`
	SELECT ` + accountColumns + `
	FROM account
	WHERE email = ? OR LOWER(username) = LOWER(?)
	ORDER BY CASE WHEN email = ? THEN 0 ELSE 1 END
	LIMIT 1
	`)

	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, email, username, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select account failed: %w", op, err)
	}

	return &account, nil
}

func (r *accountRepository) CreateProvisional(ctx context.Context, account *domain.Account) error {
	const op = "repository.account.CreateProvisional"

	query := r.db.Rebind(`
	INSERT INTO account (id, username, email, password, is_verified, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	result, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.Password,
		false,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("%s: insert account failed: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}

func (r *accountRepository) FindUnverifiedByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const op = "repository.account.FindUnverifiedByEmail"

	query := r.db.Rebind(`SELECT ` + accountColumns + ` FROM account WHERE email = ? AND is_verified = ?`)

	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, email, false); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select account failed: %w", op, err)
	}

	return &account, nil
}

func (r *accountRepository) Promote(ctx context.Context, account *domain.Account, passwordHash string) error {
	const op = "repository.account.Promote"

	query := r.db.Rebind(`
	UPDATE account
	SET password = ?, is_verified = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ? AND is_verified = ?
	`)

	res, err := r.db.ExecContext(ctx, query, passwordHash, true, account.ID, false)
	if err != nil {
		return fmt.Errorf("%s: update account failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	account.Password = passwordHash
	account.IsVerified = true

	return nil
}

func (r *accountRepository) Delete(ctx context.Context, account *domain.Account) error {
	const op = "repository.account.Delete"

	// verified accounts are never removed by the registration flow
	query := r.db.Rebind(`DELETE FROM account WHERE id = ? AND is_verified = ?`)

	res, err := r.db.ExecContext(ctx, query, account.ID, false)
	if err != nil {
		return fmt.Errorf("%s: delete account failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}
