// Package common defines shared constants and sentinel errors used across
// the client layers of mailadmin. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Validation errors raised before any request leaves the process.
	ErrEmptyLogin         = errors.New("login value is empty")
	ErrEmptyPassword      = errors.New("password is empty")
	ErrInvalidMobile      = errors.New("invalid mobile number format")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrIncorrectParameter = errors.New("incorrect parameter")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
