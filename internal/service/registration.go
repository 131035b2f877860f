package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vibe-gaming/signup/internal/config"
	"github.com/vibe-gaming/signup/internal/domain"
	"github.com/vibe-gaming/signup/internal/repository"
	"github.com/vibe-gaming/signup/pkg/auth"
	"github.com/vibe-gaming/signup/pkg/hash"
	"github.com/vibe-gaming/signup/pkg/logger"
	"github.com/vibe-gaming/signup/pkg/otp"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type registrationService struct {
	accountRepository            repository.Accounts
	verificationRecordRepository repository.VerificationRecords
	emails                       Emails
	welcomePublisher             WelcomePublisher
	sessionCodec                 auth.SessionCodec
	otpGenerator                 otp.Generator
	hasher                       hash.PasswordHasher
	clock                        clockwork.Clock
	authConfig                   config.AuthConfig
}

func newRegistrationService(accountRepository repository.Accounts,
	verificationRecordRepository repository.VerificationRecords,
	emails Emails,
	welcomePublisher WelcomePublisher,
	sessionCodec auth.SessionCodec,
	otpGenerator otp.Generator,
	hasher hash.PasswordHasher,
	clock clockwork.Clock,
	authConfig config.AuthConfig,
) *registrationService {
	return &registrationService{
		accountRepository:            accountRepository,
		verificationRecordRepository: verificationRecordRepository,
		emails:                       emails,
		welcomePublisher:             welcomePublisher,
		sessionCodec:                 sessionCodec,
		otpGenerator:                 otpGenerator,
		hasher:                       hasher,
		clock:                        clock,
		authConfig:                   authConfig,
	}
}

type StartRegistrationInput struct {
	Email    string
	Username string
	Password string
}

// Session is the signed registration artifact handed back to the client.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *registrationService) Start(ctx context.Context, input StartRegistrationInput) (*Session, error) {
	// verify could never hash it, the provisional account would be stuck
	if len(input.Password) > hash.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	registration := domain.PendingRegistration{
		Email:    normalizeEmail(input.Email),
		Username: strings.TrimSpace(input.Username),
		Password: input.Password,
	}

	existing, err := s.accountRepository.FindByEmailOrUsername(ctx, registration.Email, registration.Username)
	if err == nil {
		return nil, conflictError(existing, registration.Email)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find account by email or username failed: %w", err)
	}

	accountID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate account id failed: %w", err)
	}

	now := s.clock.Now()
	account := &domain.Account{
		ID:         accountID,
		Username:   registration.Username,
		Email:      registration.Email,
		Password:   registration.Password,
		IsVerified: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.accountRepository.CreateProvisional(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			// lost a race with a concurrent registration that passed the same pre-check
			return nil, s.resolveConflict(ctx, registration)
		}
		return nil, fmt.Errorf("create provisional account failed: %w", err)
	}

	session, err := s.issueCodeAndSession(ctx, registration)
	if err != nil {
		s.rollbackAccount(ctx, account)
		return nil, err
	}

	return session, nil
}

func (s *registrationService) issueCodeAndSession(ctx context.Context, registration domain.PendingRegistration) (*Session, error) {
	code, err := s.issueCode(ctx, registration.Email)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.sessionCodec.Mint(registration)
	if err != nil {
		return nil, fmt.Errorf("mint session failed: %w", err)
	}

	if err := s.deliver(ctx, registration, code); err != nil {
		return nil, err
	}

	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// issueCode stores a fresh code for the email, dropping any code issued before.
func (s *registrationService) issueCode(ctx context.Context, email string) (string, error) {
	code, err := s.otpGenerator.RandomCode(s.authConfig.VerificationCodeLength)
	if err != nil {
		return "", fmt.Errorf("generate verification code failed: %w", err)
	}

	recordID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate verification record id failed: %w", err)
	}

	record := domain.NewVerificationRecord(recordID, email, code, s.clock.Now(), s.authConfig.VerificationCodeTTL)
	if err := s.verificationRecordRepository.Replace(ctx, record); err != nil {
		return "", fmt.Errorf("replace verification record failed: %w", err)
	}

	return code, nil
}

func (s *registrationService) deliver(ctx context.Context, registration domain.PendingRegistration, code string) error {
	err := s.emails.SendUserVerificationEmail(ctx, VerificationEmailInput{
		Email:            registration.Email,
		Username:         registration.Username,
		VerificationCode: code,
	})
	if err != nil {
		logger.Error("verification email delivery failed", zap.String("email", registration.Email), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return nil
}

// rollbackAccount removes the provisional account so the email and username can be registered again.
func (s *registrationService) rollbackAccount(ctx context.Context, account *domain.Account) {
	if err := s.accountRepository.Delete(context.WithoutCancel(ctx), account); err != nil {
		logger.Error("provisional account rollback failed",
			zap.String("account_id", account.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *registrationService) resolveConflict(ctx context.Context, registration domain.PendingRegistration) error {
	existing, err := s.accountRepository.FindByEmailOrUsername(ctx, registration.Email, registration.Username)
	if err != nil {
		// the winner may already be rolled back, the email is still the likeliest collision
		return ErrEmailAlreadyRegistered
	}

	return conflictError(existing, registration.Email)
}

func conflictError(existing *domain.Account, email string) error {
	if existing.Email == email {
		return ErrEmailAlreadyRegistered
	}

	return ErrUsernameAlreadyRegistered
}

func (s *registrationService) decodeSession(token string) (*domain.PendingRegistration, error) {
	registration, err := s.sessionCodec.Decode(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	registration.Email = normalizeEmail(registration.Email)

	return registration, nil
}

func (s *registrationService) Verify(ctx context.Context, token string, code string) (*domain.Account, error) {
	registration, err := s.decodeSession(token)
	if err != nil {
		return nil, err
	}

	record, err := s.verificationRecordRepository.Find(ctx, registration.Email, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.missingRecordError(ctx, registration.Email)
		}
		return nil, fmt.Errorf("find verification record failed: %w", err)
	}

	if record.IsExpired(s.clock.Now()) {
		if err := s.verificationRecordRepository.Delete(ctx, record); err != nil {
			return nil, fmt.Errorf("delete expired verification record failed: %w", err)
		}
		return nil, ErrCodeExpired
	}

	account, err := s.accountRepository.FindUnverifiedByEmail(ctx, registration.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find unverified account failed: %w", err)
	}

	passwordHash, err := s.hasher.Hash(registration.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	if err := s.accountRepository.Promote(ctx, account, passwordHash); err != nil {
		if errors.Is(err, domain.ErrNoRowsAffected) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("promote account failed: %w", err)
	}

	// the account is verified at this point, a leftover record cannot promote it again
	if err := s.verificationRecordRepository.Delete(ctx, record); err != nil {
		logger.Warn("consumed verification record not deleted",
			zap.String("record_id", record.ID.String()),
			zap.Error(err),
		)
	}

	s.publishWelcome(ctx, account)

	return account, nil
}

// missingRecordError tells a wrong code apart from a session whose account is
// already verified or was rolled back, the record of a verified account is gone.
func (s *registrationService) missingRecordError(ctx context.Context, email string) error {
	_, err := s.accountRepository.FindUnverifiedByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("find unverified account failed: %w", err)
	}

	return ErrInvalidCode
}

func (s *registrationService) publishWelcome(ctx context.Context, account *domain.Account) {
	if s.welcomePublisher == nil {
		return
	}

	if err := s.welcomePublisher.EnqueueWelcomeEmail(ctx, account.Email, account.Username); err != nil {
		logger.Error("enqueue welcome email failed",
			zap.String("account_id", account.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *registrationService) Resend(ctx context.Context, token string) (*Session, error) {
	registration, err := s.decodeSession(token)
	if err != nil {
		return nil, err
	}

	code, err := s.issueCode(ctx, registration.Email)
	if err != nil {
		return nil, err
	}

	if err := s.deliver(ctx, *registration, code); err != nil {
		return nil, err
	}

	newToken, expiresAt, err := s.sessionCodec.Mint(*registration)
	if err != nil {
		return nil, fmt.Errorf("mint session failed: %w", err)
	}

	return &Session{Token: newToken, ExpiresAt: expiresAt}, nil
}
