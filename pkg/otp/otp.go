package otp

import (
	"github.com/pkg/errors"
	"github.com/xlzd/gotp"
)

const (
	secretLength = 32
	interval     = 30
)

// Generator produces fixed-width numeric one-time codes.
type Generator interface {
	RandomCode(length int) (string, error)
}

// GOTPGenerator derives every code from a fresh random secret, so codes are
// independent of each other and of time.
type GOTPGenerator struct{}

func NewGOTPGenerator() *GOTPGenerator {
	return &GOTPGenerator{}
}

func (g *GOTPGenerator) RandomCode(length int) (string, error) {
	if length <= 0 || length > 10 {
		return "", errors.Errorf("unsupported code length %d", length)
	}

	secret := gotp.RandomSecret(secretLength)

	return gotp.NewTOTP(secret, length, interval, nil).Now(), nil
}
