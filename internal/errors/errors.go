package errors

import "errors"

var (
	// Common errors
	ErrUserNotFound   = errors.New("user not found")
	ErrMetricNotFound = errors.New("metric not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrEmptyAlias     = errors.New("empty user alias")

	// Database errors
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrTransactionFailed  = errors.New("transaction failed")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Client errors
	ErrBadStatus = errors.New("unexpected response status")
)
