package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected failure inside the service or its storage layer.
var ErrInternal = errors.New("internal error")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Chart-of-accounts errors.
var (
	// ErrInvalidHierarchy is returned when an account code does not extend its parent's code.
	ErrInvalidHierarchy = errors.New("account code must start with its parent's code")
	// ErrCycleDetected is returned when a parent assignment would make an account its own ancestor.
	ErrCycleDetected = errors.New("account hierarchy contains a cycle")
	// ErrInconsistentNature is returned when a caller-supplied normal balance disagrees with the account kind.
	ErrInconsistentNature = errors.New("normal balance does not match account kind")
	// ErrAggregatorCannotBeLeaf is returned when an account with children is flagged as postable.
	ErrAggregatorCannotBeLeaf = errors.New("account with child accounts cannot be a posting (leaf) account")
	// ErrAccountHasPostings is returned when a structural edit is attempted on an account
	// that already has journal lines against it.
	ErrAccountHasPostings = errors.New("account structure cannot change once postings exist")
)

// Journal-entry errors. The ErrInvalidLine sub-kinds wrap ErrInvalidLine so callers can
// match either the specific violation or the family with errors.Is.
var (
	ErrInvalidLine         = errors.New("invalid journal line")
	ErrBothSidesPositive   = fmt.Errorf("%w: a line cannot carry both debit and credit", ErrInvalidLine)
	ErrNeitherSidePositive = fmt.Errorf("%w: either debit or credit must be greater than zero", ErrInvalidLine)
	ErrNegativeAmount      = fmt.Errorf("%w: amounts cannot be negative", ErrInvalidLine)
	ErrNonLeafAccount      = fmt.Errorf("%w: account does not accept postings", ErrInvalidLine)
	ErrInactiveAccount     = fmt.Errorf("%w: account is inactive", ErrInvalidLine)

	// ErrUnbalanced is returned when total debits differ from total credits.
	ErrUnbalanced = errors.New("entry is not balanced: total debit must equal total credit")
	// ErrPeriodClosed is returned when an entry is dated inside a closed accounting period.
	ErrPeriodClosed = errors.New("accounting period is closed for this date")
	// ErrBankingThreshold is returned when a single cash line exceeds the configured
	// banking threshold instead of going through a bank account.
	ErrBankingThreshold = errors.New("cash line exceeds the banking threshold; use a bank account")
	// ErrAlreadyConfirmed is returned when confirming an entry that is not a draft.
	ErrAlreadyConfirmed = errors.New("entry is not in draft status")
	// ErrNotConfirmed is returned when voiding an entry that is not confirmed.
	ErrNotConfirmed = errors.New("entry is not confirmed")
)

// Period-close errors.
var (
	ErrPeriodAlreadyClosed    = errors.New("accounting period is already closed")
	ErrUnbalancedClosingEntry = errors.New("computed closing entry does not balance")
)

// AppError wraps a lower-level error with an HTTP-like status code and a message
// suitable for logging. Repositories return AppError for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound via errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
