package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxDescriptionLength = 255
	MaxCategoryLength    = 64

	// MaxAmountScale and MaxAmountDigits match the NUMERIC(24,6) amount column.
	MaxAmountScale  = 6
	MaxAmountDigits = 18
)

// maxAmount is the smallest value that no longer fits MaxAmountDigits integer digits.
var maxAmount = decimal.New(1, MaxAmountDigits)

// ValidationError reports a rejected field on the write boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Normalize trims free-text fields and validates the input.
func (in TransactionInput) Normalize() (TransactionInput, error) {
	if !in.Kind.Valid() {
		return in, invalid("kind", `must be "income" or "expense"`)
	}
	upd, err := TransactionUpdate{
		Amount:      in.Amount,
		Description: in.Description,
		Category:    in.Category,
		Date:        in.Date,
	}.Normalize()
	if err != nil {
		return in, err
	}
	in.Amount, in.Description, in.Category, in.Date = upd.Amount, upd.Description, upd.Category, upd.Date
	return in, nil
}

// Normalize trims free-text fields and validates the update.
func (u TransactionUpdate) Normalize() (TransactionUpdate, error) {
	u.Description = strings.TrimSpace(u.Description)
	u.Category = strings.TrimSpace(u.Category)
	u.Date = strings.TrimSpace(u.Date)

	if !u.Amount.IsPositive() {
		return u, invalid("amount", "must be greater than zero")
	}
	if !u.Amount.Equal(u.Amount.Truncate(MaxAmountScale)) {
		return u, invalid("amount", fmt.Sprintf("must have at most %d decimal places", MaxAmountScale))
	}
	if u.Amount.GreaterThanOrEqual(maxAmount) {
		return u, invalid("amount", fmt.Sprintf("must be less than 10^%d", MaxAmountDigits))
	}
	if u.Category == "" {
		return u, invalid("category", "is required")
	}
	if utf8.RuneCountInString(u.Category) > MaxCategoryLength {
		return u, invalid("category", fmt.Sprintf("must be at most %d characters", MaxCategoryLength))
	}
	if utf8.RuneCountInString(u.Description) > MaxDescriptionLength {
		return u, invalid("description", fmt.Sprintf("must be at most %d characters", MaxDescriptionLength))
	}
	if u.Date == "" {
		return u, invalid("date", "is required")
	}
	if _, err := time.Parse(DateLayout, u.Date); err != nil {
		return u, invalid("date", "must be a calendar date in YYYY-MM-DD format")
	}
	return u, nil
}
