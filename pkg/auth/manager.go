package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/vibe-gaming/signup/internal/config"
	"github.com/vibe-gaming/signup/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token expired")
)

// SessionCodec mints and reads the signed registration session handed to the client.
// The server keeps no copy, integrity and lifetime come from the signature and exp claim.
type SessionCodec interface {
	Mint(registration domain.PendingRegistration) (string, time.Time, error)
	Decode(token string) (*domain.PendingRegistration, error)
}

type sessionClaims struct {
	UserData domain.PendingRegistration `json:"user_data"`
	jwt.RegisteredClaims
}

type Manager struct {
	signingKey []byte
	ttl        time.Duration
	clock      clockwork.Clock
	parser     *jwt.Parser
}

func NewManager(cfg config.SessionConfig, clock clockwork.Clock) (*Manager, error) {
	if cfg.SigningKey == "" {
		return nil, errors.New("empty signing key")
	}

	if cfg.TTL <= 0 {
		return nil, errors.New("empty session ttl")
	}

	return &Manager{
		signingKey: []byte(cfg.SigningKey),
		ttl:        cfg.TTL,
		clock:      clock,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithStrictDecoding(),
			jwt.WithTimeFunc(clock.Now),
		),
	}, nil
}

func (m *Manager) Mint(registration domain.PendingRegistration) (string, time.Time, error) {
	now := m.clock.Now()
	expiresAt := now.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserData: registration,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token failed: %w", err)
	}

	return signed, expiresAt, nil
}

func (m *Manager) Decode(token string) (*domain.PendingRegistration, error) {
	var claims sessionClaims

	_, err := m.parser.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return m.signingKey, nil
	})
	if err != nil {
		// the signature is verified before claims, so an expired token here is authentic
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.UserData.Email == "" {
		return nil, fmt.Errorf("%w: missing user data", ErrInvalidToken)
	}

	return &claims.UserData, nil
}
