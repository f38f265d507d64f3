package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"InvalidUserID", ErrInvalidUserID, 4001},
		{"InvalidAmount", ErrInvalidAmount, 4002},
		{"NegativeAmount", ErrNegativeAmount, 4002},
		{"SelfTransfer", ErrSelfTransfer, 4003},
		{"InsufficientBalance", ErrInsufficientBalance, 4004},
		{"InvalidTransferState", ErrInvalidTransferState, 4005},
		{"CancelWindowExpired", ErrCancelWindowExpired, 4006},
		{"InvalidPageRequest", ErrInvalidPageRequest, 4007},
		{"AmountOverflow", ErrAmountOverflow, 4008},
		{"DuplicateUser", ErrDuplicateUser, 4090},
		{"UserNotFound", ErrUserNotFound, 4040},
		{"TransferNotFound", ErrTransferNotFound, 4041},
		{"UnknownError", errors.New("unknown error"), 5000},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrInvalidUserID), 4001},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if code := ErrorCode(tc.err); code != tc.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tc.err, code, tc.expected)
			}
		})
	}
}

func TestReason(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{"DuplicateUser", ErrDuplicateUser, ReasonUserExists},
		{"UserNotFound", ErrUserNotFound, ReasonUserNotFound},
		{"TransferNotFound", ErrTransferNotFound, ReasonTransferNotFound},
		{"SelfTransfer", ErrSelfTransfer, ReasonSelfTransfer},
		{"InsufficientBalance", ErrInsufficientBalance, ReasonInsufficientBalance},
		{"InvalidTransferState", ErrInvalidTransferState, ReasonInvalidState},
		{"CancelWindowExpired", ErrCancelWindowExpired, ReasonWindowExpired},
		{"InvalidUserID", ErrInvalidUserID, ReasonInvalidArgument},
		{"InvalidAmount", ErrInvalidAmount, ReasonInvalidArgument},
		{"InvalidPageRequest", ErrInvalidPageRequest, ReasonInvalidArgument},
		{"DatabaseConnection", ErrDatabaseConnection, ReasonInternal},
		{"UnknownError", errors.New("boom"), ReasonInternal},
		{"WrappedNotFound", fmt.Errorf("wrapped: %w", ErrUserNotFound), ReasonUserNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if reason := Reason(tc.err); reason != tc.expected {
				t.Errorf("Reason(%v) = %s, want %s", tc.err, reason, tc.expected)
			}
		})
	}
}

func TestUserNotFoundError(t *testing.T) {
	err := NewUserNotFoundError("alice")

	expectedMsg := "user not found: alice"
	if err.Error() != expectedMsg {
		t.Errorf("Error() = %s, want %s", err.Error(), expectedMsg)
	}

	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("errors.Is(err, ErrUserNotFound) = false, want true")
	}
	if ErrorCode(err) != CodeUserNotFound {
		t.Errorf("ErrorCode(err) = %d, want %d", ErrorCode(err), CodeUserNotFound)
	}
}

func TestTransferNotFoundError(t *testing.T) {
	err := NewTransferNotFoundError(42)

	expectedMsg := "transfer not found: 42"
	if err.Error() != expectedMsg {
		t.Errorf("Error() = %s, want %s", err.Error(), expectedMsg)
	}

	if !errors.Is(err, ErrTransferNotFound) {
		t.Errorf("errors.Is(err, ErrTransferNotFound) = false, want true")
	}
}

func TestInsufficientBalanceError(t *testing.T) {
	err := NewInsufficientBalanceError("alice", "300.00", "150.00")

	expectedMsg := "insufficient balance for user alice: required 300.00, available 150.00"
	if err.Error() != expectedMsg {
		t.Errorf("Error() = %s, want %s", err.Error(), expectedMsg)
	}

	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("errors.Is(err, ErrInsufficientBalance) = false, want true")
	}

	var detailed *InsufficientBalanceError
	if !errors.As(err, &detailed) {
		t.Fatalf("errors.As failed: not an *InsufficientBalanceError")
	}
	fields := detailed.LogFields()
	if fields["user_id"] != "alice" || fields["required"] != "300.00" {
		t.Errorf("LogFields() = %v, missing expected values", fields)
	}
}

func TestInvalidTransferStateError(t *testing.T) {
	err := NewInvalidTransferStateError(7, "COMPLETED")

	expectedMsg := "transfer 7 cannot change state: current status is COMPLETED"
	if err.Error() != expectedMsg {
		t.Errorf("Error() = %s, want %s", err.Error(), expectedMsg)
	}

	if !errors.Is(err, ErrInvalidTransferState) {
		t.Errorf("errors.Is(err, ErrInvalidTransferState) = false, want true")
	}
}

func TestErrorHelperFunctions(t *testing.T) {
	if !IsNotFoundError(NewUserNotFoundError("alice")) {
		t.Errorf("IsNotFoundError(user not found) = false, want true")
	}
	if !IsNotFoundError(NewTransferNotFoundError(1)) {
		t.Errorf("IsNotFoundError(transfer not found) = false, want true")
	}
	if IsNotFoundError(ErrInvalidAmount) {
		t.Errorf("IsNotFoundError(ErrInvalidAmount) = true, want false")
	}

	if !IsInvalidArgument(ErrInvalidAmount) {
		t.Errorf("IsInvalidArgument(ErrInvalidAmount) = false, want true")
	}
	if IsInvalidArgument(ErrUserNotFound) {
		t.Errorf("IsInvalidArgument(ErrUserNotFound) = true, want false")
	}

	if !IsBusinessRejection(ErrCancelWindowExpired) {
		t.Errorf("IsBusinessRejection(ErrCancelWindowExpired) = false, want true")
	}
	if IsBusinessRejection(ErrDatabaseConnection) {
		t.Errorf("IsBusinessRejection(ErrDatabaseConnection) = true, want false")
	}
	if IsBusinessRejection(errors.New("boom")) {
		t.Errorf("IsBusinessRejection(unknown) = true, want false")
	}
}
