package auth

import (
	"testing"
	"time"

	"github.com/vibe-gaming/signup/internal/config"
	"github.com/vibe-gaming/signup/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

var registration = domain.PendingRegistration{Email: "a@x.com", Username: "alice", Password: "pw1"}

func newTestManager(t *testing.T) (*Manager, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	m, err := NewManager(config.SessionConfig{SigningKey: testSigningKey, TTL: 15 * time.Minute}, clock)
	require.NoError(t, err)

	return m, clock
}

func TestNewManager_Validation(t *testing.T) {
	clock := clockwork.NewRealClock()

	_, err := NewManager(config.SessionConfig{SigningKey: "", TTL: time.Minute}, clock)
	assert.Error(t, err)

	_, err = NewManager(config.SessionConfig{SigningKey: testSigningKey}, clock)
	assert.Error(t, err)
}

func TestManager_MintDecode(t *testing.T) {
	m, clock := newTestManager(t)

	token, expiresAt, err := m.Mint(registration)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(15*time.Minute), expiresAt)

	got, err := m.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, registration, *got)
}

func TestManager_Expiry(t *testing.T) {
	m, clock := newTestManager(t)

	token, _, err := m.Mint(registration)
	require.NoError(t, err)

	clock.Advance(15*time.Minute - time.Second)
	_, err = m.Decode(token)
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = m.Decode(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestManager_TamperedTokenIsInvalid(t *testing.T) {
	m, _ := newTestManager(t)

	token, _, err := m.Mint(registration)
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		tampered := []byte(token)
		tampered[i] ^= 0x01

		_, err := m.Decode(string(tampered))
		require.ErrorIsf(t, err, ErrInvalidToken, "flipped byte %d was accepted", i)
	}
}

func TestManager_ExpiredAndTamperedIsInvalid(t *testing.T) {
	m, clock := newTestManager(t)

	token, _, err := m.Mint(registration)
	require.NoError(t, err)
	clock.Advance(time.Hour)

	tampered := []byte(token)
	tampered[len(tampered)-2] ^= 0x01

	_, err = m.Decode(string(tampered))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsForeignTokens(t *testing.T) {
	m, clock := newTestManager(t)
	claims := sessionClaims{
		UserData: registration,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Minute)),
		},
	}

	t.Run("other key", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("another-key"))
		require.NoError(t, err)

		_, err = m.Decode(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Decode(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no expiry", func(t *testing.T) {
		noExp := sessionClaims{UserData: registration}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, noExp).SignedString([]byte(testSigningKey))
		require.NoError(t, err)

		_, err = m.Decode(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no user data", func(t *testing.T) {
		empty := sessionClaims{RegisteredClaims: claims.RegisteredClaims}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, empty).SignedString([]byte(testSigningKey))
		require.NoError(t, err)

		_, err = m.Decode(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Decode("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
