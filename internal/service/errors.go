package service

import (
	"errors"
	"fmt"

	"mockquiz-service/internal/models"
)

// ValidationError rejects a request before any store access happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// QuotaExceededError means the user already consumed their quiz allowance
// for the current period.
type QuotaExceededError struct {
	Limit     int
	Frequency models.LimitFrequency
}

func (e *QuotaExceededError) Error() string {
	if e.Frequency == models.FrequencyLifetime {
		return fmt.Sprintf("quiz limit reached: at most %d quizzes allowed", e.Limit)
	}
	return fmt.Sprintf("quiz limit reached: at most %d quizzes allowed per %s period", e.Limit, e.Frequency)
}

func IsQuotaExceeded(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}

// TransactionConflictError means the quiz commit lost a write race and was
// rolled back after exhausting the driver's retries.
type TransactionConflictError struct {
	Err error
}

func (e *TransactionConflictError) Error() string {
	return fmt.Sprintf("quiz commit aborted by a concurrent update: %v", e.Err)
}

func (e *TransactionConflictError) Unwrap() error { return e.Err }

func IsTransactionConflict(err error) bool {
	var tc *TransactionConflictError
	return errors.As(err, &tc)
}

// ErrNotFound is returned by read operations for missing documents.
var ErrNotFound = errors.New("not found")
