package service

import "errors"

// Common service errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("resource not found")
)

// User service specific errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

// Matchmaking service specific errors
var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrTicketNotYours  = errors.New("ticket belongs to another user")
	ErrTicketImmutable = errors.New("matched ticket cannot be cancelled")
)
