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

const replaceAttempts = 3

type verificationRecordRepository struct {
	db *sqlx.DB
}

func newVerificationRecordRepository(db *sqlx.DB) *verificationRecordRepository {
	return &verificationRecordRepository{
		db: db,
	}
}

func (r *verificationRecordRepository) Replace(ctx context.Context, record *domain.VerificationRecord) error {
	const op = "repository.verificationRecord.Replace"

	var err error
	for attempt := 0; attempt < replaceAttempts; attempt++ {
		err = db.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
			return r.replaceWithTx(ctx, tx, record)
		})
		// a concurrent replace for the same email either deadlocked with us or
		// committed its insert first, running again deletes its row and wins
		if err == nil || !(db.IsRetryable(err) || db.IsDuplicateEntry(err)) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *verificationRecordRepository) replaceWithTx(ctx context.Context, tx *sqlx.Tx, record *domain.VerificationRecord) error {
	deleteQuery := tx.Rebind(`DELETE FROM verification_record WHERE email = ?`)
	if _, err := tx.ExecContext(ctx, deleteQuery, record.Email); err != nil {
		return fmt.Errorf("delete verification record failed: %w", err)
	}

	insertQuery := tx.Rebind(`
	INSERT INTO verification_record (id, email, code, created_at, expires_at)
	VALUES (?, ?, ?, ?, ?)
	`)

	res, err := tx.ExecContext(ctx, insertQuery, record.ID, record.Email, record.Code, record.CreatedAt, record.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert verification record failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected failed: %w", err)
	}

	if rows != 1 {
		return fmt.Errorf("expected 1 row affected, got %d", rows)
	}

	return nil
}

func (r *verificationRecordRepository) Find(ctx context.Context, email string, code string) (*domain.VerificationRecord, error) {
	const op = "repository.verificationRecord.Find"

	query := r.db.Rebind(`
	SELECT id, email, code, created_at, expires_at
	FROM verification_record
	WHERE email = ? AND code = ?
	`)

	var record domain.VerificationRecord
	if err := r.db.GetContext(ctx, &record, query, email, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select verification record failed: %w", op, err)
	}

	return &record, nil
}

func (r *verificationRecordRepository) Delete(ctx context.Context, record *domain.VerificationRecord) error {
	const op = "repository.verificationRecord.Delete"

	query := r.db.Rebind(`DELETE FROM verification_record WHERE id = ?`)

	// deleting an already consumed record is not an error
	if _, err := r.db.ExecContext(ctx, query, record.ID); err != nil {
		return fmt.Errorf("%s: delete verification record failed: %w", op, err)
	}

	return nil
}
