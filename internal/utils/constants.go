package utils

import "time"

// Application Constants
const (
	AppName    = "UberFriends"
	AppVersion = "1.0.0"

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 8
	PasswordMaxLength  = 128

	// Dispatch
	DefaultMaxAssignAttempts = 3
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Booking outcomes
const (
	BookingStatusDriverAssigned = "driver_assigned"
	BookingStatusWaiting        = "waiting"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrUserNotFound       = "user not found"
	ErrUserExists         = "user already exists"
	ErrInvalidToken       = "invalid token"
	ErrInvalidEmail       = "invalid email address"
	ErrWeakPassword       = "password must be between 8 and 128 characters"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrValidationFailed   = "validation failed"
	ErrDriverNotFound     = "driver not found"
	ErrInviteNotFound     = "invite not found"
	ErrNoDriversAvailable = "no drivers available at the moment"
)

// Cache Keys
const (
	CacheKeyDriverPrefix = "driver_"
	CacheKeyUserPrefix   = "user_"
)
