package service

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrWeakPassword  = errors.New("password is not strong enough")
	ErrUsernameTaken = errors.New("username already registered")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInactiveUser  = errors.New("inactive user")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrIntegrity     = errors.New("integrity violation")
)
