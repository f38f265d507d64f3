package entity

import (
	"testing"

	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	t.Run("Valid amounts", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected int64
		}{
			{"100.00", 10000},
			{"0.01", 1},
			{"0.10", 10},
			{"1", 100},
			{"1.5", 150},
			{"1234567.89", 123456789},
			{"0.00", 0},
			{"0", 0},
			{"  10.00  ", 1000},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				cents, err := ParseAmount(tc.input)
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, cents)
			})
		}
	})

	t.Run("Invalid amounts", func(t *testing.T) {
		testCases := []struct {
			input       string
			errorType   error
			description string
		}{
			{"", errs.ErrInvalidAmount, "Empty string"},
			{"   ", errs.ErrInvalidAmount, "Whitespace only"},
			{"-1.00", errs.ErrNegativeAmount, "Negative amount"},
			{"+1.00", errs.ErrInvalidAmount, "Explicit plus sign"},
			{"1.234", errs.ErrInvalidAmount, "Too many decimal places"},
			{"abc", errs.ErrInvalidAmount, "Non-numeric"},
			{"1,000.00", errs.ErrInvalidAmount, "Comma as thousands separator"},
			{"1.00.00", errs.ErrInvalidAmount, "Multiple decimal points"},
			{"$100", errs.ErrInvalidAmount, "Currency symbol"},
			{".50", errs.ErrInvalidAmount, "Missing integer part"},
			{"99999999999999999999.00", errs.ErrAmountOverflow, "Overflows int64 cents"},
		}

		for _, tc := range testCases {
			t.Run(tc.description, func(t *testing.T) {
				_, err := ParseAmount(tc.input)
				assert.Error(t, err)
				assert.ErrorIs(t, err, tc.errorType)
			})
		}
	})
}

func TestParsePositiveAmount(t *testing.T) {
	t.Run("Accepts positive values", func(t *testing.T) {
		cents, err := ParsePositiveAmount("0.01")
		assert.NoError(t, err)
		assert.Equal(t, int64(1), cents)
	})

	t.Run("Rejects zero", func(t *testing.T) {
		_, err := ParsePositiveAmount("0.00")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("Rejects negative", func(t *testing.T) {
		_, err := ParsePositiveAmount("-5.00")
		assert.ErrorIs(t, err, errs.ErrNegativeAmount)
	})
}

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		cents    int64
		expected string
	}{
		{10000, "100.00"},
		{1, "0.01"},
		{10, "0.10"},
		{100, "1.00"},
		{150, "1.50"},
		{123456789, "1234567.89"},
		{0, "0.00"},
		{-10000, "-100.00"},
		{-1, "-0.01"},
		{2147483647, "21474836.47"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatAmount(tc.cents))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// string -> cents -> string must be stable for canonical inputs
	testCases := []string{
		"0.00",
		"0.01",
		"1.00",
		"10.50",
		"1234.56",
		"9999999.99",
	}

	for _, tc := range testCases {
		t.Run(tc, func(t *testing.T) {
			cents, err := ParseAmount(tc)
			assert.NoError(t, err)
			assert.Equal(t, tc, FormatAmount(cents))
		})
	}
}
