package service

import "errors"

var (
	ErrEmailAlreadyRegistered    = errors.New("email already registered")
	ErrUsernameAlreadyRegistered = errors.New("username already registered")
	ErrPasswordTooLong           = errors.New("password is longer than 72 bytes")

	ErrInvalidSession = errors.New("invalid registration session")
	ErrSessionExpired = errors.New("registration session expired")

	ErrInvalidCode = errors.New("invalid verification code")
	ErrCodeExpired = errors.New("verification code expired")

	ErrAccountNotFound = errors.New("account not found or already verified")
	ErrDeliveryFailed  = errors.New("verification code delivery failed")
)
