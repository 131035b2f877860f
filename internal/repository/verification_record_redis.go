package repository

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vibe-gaming/signup/internal/domain"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

const (
	verificationKeyPrefix = "verification"
	deleteMaxRetries      = 4
)

// redisVerificationRecordRepository keeps one key per email. Keys outlive the code's
// expiry by retention so that an expired code is still reported as expired.
type redisVerificationRecordRepository struct {
	redis     redis.UniversalClient
	clock     clockwork.Clock
	retention time.Duration
}

func NewRedisVerificationRecordRepository(client redis.UniversalClient, clock clockwork.Clock, retention time.Duration) VerificationRecords {
	return &redisVerificationRecordRepository{
		redis:     client,
		clock:     clock,
		retention: retention,
	}
}

func (r *redisVerificationRecordRepository) key(email string) string {
	return verificationKeyPrefix + ":" + email
}

func (r *redisVerificationRecordRepository) Replace(ctx context.Context, record *domain.VerificationRecord) error {
	const op = "repository.redisVerificationRecord.Replace"

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%s: encode record failed: %w", op, err)
	}

	ttl := record.ExpiresAt.Sub(r.clock.Now()) + r.retention
	if ttl <= 0 {
		ttl = r.retention
	}

	// SET overwrites the previous record in one step
	if err := r.redis.Set(ctx, r.key(record.Email), data, ttl).Err(); err != nil {
		return fmt.Errorf("%s: set record failed: %w", op, err)
	}

	return nil
}

func (r *redisVerificationRecordRepository) Find(ctx context.Context, email string, code string) (*domain.VerificationRecord, error) {
	const op = "repository.redisVerificationRecord.Find"

	data, err := r.redis.Get(ctx, r.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: get record failed: %w", op, err)
	}

	var record domain.VerificationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%s: decode record failed: %w", op, err)
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		return nil, domain.ErrNotFound
	}

	return &record, nil
}

func (r *redisVerificationRecordRepository) Delete(ctx context.Context, record *domain.VerificationRecord) error {
	const op = "repository.redisVerificationRecord.Delete"
	key := r.key(record.Email)

	for i := 0; i < deleteMaxRetries; i++ {
		err := r.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return nil
				}
				return err
			}

			var stored domain.VerificationRecord
			if err := json.Unmarshal(data, &stored); err != nil {
				return err
			}

			// replaced in the meantime, the newer record is not ours to delete
			if stored.ID != record.ID {
				return nil
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: delete record failed: %w", op, err)
		}

		return nil
	}

	return fmt.Errorf("%s: delete record failed: too many concurrent updates", op)
}
