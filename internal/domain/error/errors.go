package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidUserID       = 4001
	CodeInvalidAmount       = 4002
	CodeSelfTransfer        = 4003
	CodeInsufficientBalance = 4004
	CodeInvalidTransferState = 4005
	CodeCancelWindowExpired = 4006
	CodeInvalidPageRequest  = 4007
	CodeAmountOverflow      = 4008
	CodeDuplicateUser       = 4090
	CodeUserNotFound        = 4040
	CodeTransferNotFound    = 4041

	// 5xxx - Server errors
	CodeInternalServer = 5000
)

// Machine-distinguishable reason strings carried in error responses
const (
	ReasonInvalidArgument     = "INVALID_ARGUMENT"
	ReasonUserExists          = "USER_EXISTS"
	ReasonUserNotFound        = "USER_NOT_FOUND"
	ReasonTransferNotFound    = "TRANSFER_NOT_FOUND"
	ReasonSelfTransfer        = "SELF_TRANSFER"
	ReasonInsufficientBalance = "INSUFFICIENT_BALANCE"
	ReasonInvalidState        = "INVALID_STATE"
	ReasonWindowExpired       = "WINDOW_EXPIRED"
	ReasonInternal            = "INTERNAL"
)

// Base error types
var (
	// ErrInvalidUserID is returned when a user id fails length or charset rules
	ErrInvalidUserID = errors.New("user id must be 3-50 characters of [A-Za-z0-9_-]")

	// ErrInvalidAmount is returned when an amount string is malformed
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when an amount is negative
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrAmountOverflow is returned when an amount does not fit the fixed-point range
	ErrAmountOverflow = errors.New("amount is too large")

	// ErrSelfTransfer is returned when sender and recipient are the same user
	ErrSelfTransfer = errors.New("cannot transfer to the same user")

	// ErrInsufficientBalance is returned when a debit would drive a balance negative
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrVersionConflict is returned when a conditional balance update targeted a
	// stale version. Retried internally; never surfaced to clients as-is.
	ErrVersionConflict = errors.New("balance version conflict")

	// ErrDuplicateUser is returned when creating a user id that already exists
	ErrDuplicateUser = errors.New("user already exists")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrTransferNotFound is returned when the requested transfer doesn't exist
	ErrTransferNotFound = errors.New("transfer not found")

	// ErrInvalidTransferState is returned when a status change is attempted from
	// a state that does not permit it
	ErrInvalidTransferState = errors.New("invalid transfer state")

	// ErrCancelWindowExpired is returned when a cancellation arrives after the
	// cancellation window has closed
	ErrCancelWindowExpired = errors.New("cancellation window has expired")

	// ErrInvalidPageRequest is returned for out-of-range pagination parameters
	ErrInvalidPageRequest = errors.New("invalid page request")

	// ErrDuplicateBalanceChange is returned when a (transfer, leg) ledger line
	// already exists; the transfer's effect was already applied
	ErrDuplicateBalanceChange = errors.New("balance change already recorded")

	// ErrDatabaseConnection is returned when the store is unreachable
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns the standardized numeric code for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrAmountOverflow):
		return CodeAmountOverflow
	case errors.Is(err, ErrSelfTransfer):
		return CodeSelfTransfer
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInvalidTransferState):
		return CodeInvalidTransferState
	case errors.Is(err, ErrCancelWindowExpired):
		return CodeCancelWindowExpired
	case errors.Is(err, ErrInvalidPageRequest):
		return CodeInvalidPageRequest
	case errors.Is(err, ErrDuplicateUser):
		return CodeDuplicateUser
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrTransferNotFound):
		return CodeTransferNotFound
	default:
		return CodeInternalServer
	}
}

// Reason returns the machine-distinguishable reason string for known errors
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateUser):
		return ReasonUserExists
	case errors.Is(err, ErrUserNotFound):
		return ReasonUserNotFound
	case errors.Is(err, ErrTransferNotFound):
		return ReasonTransferNotFound
	case errors.Is(err, ErrSelfTransfer):
		return ReasonSelfTransfer
	case errors.Is(err, ErrInsufficientBalance):
		return ReasonInsufficientBalance
	case errors.Is(err, ErrInvalidTransferState):
		return ReasonInvalidState
	case errors.Is(err, ErrCancelWindowExpired):
		return ReasonWindowExpired
	case errors.Is(err, ErrInvalidUserID),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrNegativeAmount),
		errors.Is(err, ErrAmountOverflow),
		errors.Is(err, ErrInvalidPageRequest):
		return ReasonInvalidArgument
	default:
		return ReasonInternal
	}
}

// UserNotFoundError carries the missing identifier so responses can echo it
type UserNotFoundError struct {
	UserID string
}

// Error implements the error interface
func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// Is makes the error match ErrUserNotFound
func (e *UserNotFoundError) Is(target error) bool {
	return target == ErrUserNotFound
}

// NewUserNotFoundError creates a not-found error for the given user id
func NewUserNotFoundError(userID string) error {
	return &UserNotFoundError{UserID: userID}
}

// TransferNotFoundError carries the missing transfer id
type TransferNotFoundError struct {
	TransferID uint64
}

// Error implements the error interface
func (e *TransferNotFoundError) Error() string {
	return fmt.Sprintf("transfer not found: %d", e.TransferID)
}

// Is makes the error match ErrTransferNotFound
func (e *TransferNotFoundError) Is(target error) bool {
	return target == ErrTransferNotFound
}

// NewTransferNotFoundError creates a not-found error for the given transfer id
func NewTransferNotFoundError(transferID uint64) error {
	return &TransferNotFoundError{TransferID: transferID}
}

// InsufficientBalanceError reports a rejected debit with balance context
type InsufficientBalanceError struct {
	UserID    string
	Required  string
	Available string
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for user %s: required %s, available %s",
		e.UserID, e.Required, e.Available)
}

// Is makes the error match ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_balance",
		"user_id":    e.UserID,
		"required":   e.Required,
		"available":  e.Available,
		"error_code": CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a detailed insufficient balance error
func NewInsufficientBalanceError(userID, required, available string) error {
	return &InsufficientBalanceError{UserID: userID, Required: required, Available: available}
}

// InvalidTransferStateError reports an attempted transition from a state
// that does not permit it. A business rejection, not a fault.
type InvalidTransferStateError struct {
	TransferID uint64
	Current    string
}

// Error implements the error interface
func (e *InvalidTransferStateError) Error() string {
	return fmt.Sprintf("transfer %d cannot change state: current status is %s", e.TransferID, e.Current)
}

// Is makes the error match ErrInvalidTransferState
func (e *InvalidTransferStateError) Is(target error) bool {
	return target == ErrInvalidTransferState
}

// NewInvalidTransferStateError creates a detailed invalid-state error
func NewInvalidTransferStateError(transferID uint64, current string) error {
	return &InvalidTransferStateError{TransferID: transferID, Current: current}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrTransferNotFound)
}

// IsInvalidArgument checks if the error is a request-validation failure
func IsInvalidArgument(err error) bool {
	return Reason(err) == ReasonInvalidArgument
}

// IsBusinessRejection reports whether the error is a 4xx-class rejection
// rather than a server fault
func IsBusinessRejection(err error) bool {
	return Reason(err) != ReasonInternal
}
