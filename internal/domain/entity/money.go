package entity

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
)

// Monetary amounts are carried as int64 cents everywhere inside the service.
// Strings cross the API boundary with exactly two decimal places.

// MaxDecimalPlaces is the scale of every monetary amount
const MaxDecimalPlaces = 2

// ParseAmount validates a decimal string and converts it to cents.
// Accepted forms: "10", "10.5", "10.50". Anything with more than two
// decimal places, a sign, or non-numeric characters is rejected.
func ParseAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	if strings.HasPrefix(amount, "-") {
		return 0, errs.ErrNegativeAmount
	}
	if strings.HasPrefix(amount, "+") {
		return 0, fmt.Errorf("%w: explicit sign not allowed", errs.ErrInvalidAmount)
	}

	whole, frac, hasDot := strings.Cut(amount, ".")
	if whole == "" {
		return 0, fmt.Errorf("%w: missing integer part", errs.ErrInvalidAmount)
	}

	var centsDigits string
	switch {
	case !hasDot || frac == "":
		centsDigits = whole + "00"
	case len(frac) == 1:
		centsDigits = whole + frac + "0"
	case len(frac) == MaxDecimalPlaces:
		centsDigits = whole + frac
	default:
		return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	value, err := strconv.ParseInt(centsDigits, 10, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return 0, errs.ErrAmountOverflow
		}
		return 0, fmt.Errorf("%w: %q is not a number", errs.ErrInvalidAmount, amount)
	}

	return value, nil
}

// ParsePositiveAmount is ParseAmount restricted to strictly positive values.
func ParsePositiveAmount(amount string) (int64, error) {
	cents, err := ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	if cents == 0 {
		return 0, fmt.Errorf("%w: amount must be positive", errs.ErrInvalidAmount)
	}
	return cents, nil
}

// FormatAmount renders cents as a decimal string with two decimal places.
// 1015 -> "10.15", 1000 -> "10.00", -50 -> "-0.50".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
