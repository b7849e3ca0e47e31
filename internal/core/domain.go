package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the ISO day format used for input, storage and export.
	DateLayout = "2006-01-02"
	// MonthLayout produces zero-padded month keys such as "2024-03".
	MonthLayout = "2006-01"

	MaxCategoryLength    = 50
	MaxDescriptionLength = 200
)

type (
	Date struct {
		time.Time
	}

	// Expense is a single logged financial transaction.
	Expense struct {
		ID          int64
		Amount      decimal.Decimal
		Category    string
		Date        Date
		Description string
		CreatedAt   time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyCategory      = errors.New("empty category")
	ErrCategoryTooLong    = fmt.Errorf("category too long (max %d characters)", MaxCategoryLength)
	ErrDescriptionTooLong = fmt.Errorf("description too long (max %d characters)", MaxDescriptionLength)
	ErrNotFound           = errors.New("expense not found")
)

// ValidationError reports which input field was rejected and why.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current day in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// MonthKey returns the "YYYY-MM" grouping key of the date.
func (d Date) MonthKey() string {
	return d.Format(MonthLayout)
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// ParseDate parses an ISO YYYY-MM-DD string. An empty string means today.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Today(), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewExpense validates raw form values and builds an Expense ready to be
// inserted. It is the only place where user input becomes a record.
func NewExpense(amount, category, date, description string) (Expense, error) {
	amt, err := ParseAmount(amount)
	if err != nil {
		return Expense{}, &ValidationError{Field: "amount", Err: err}
	}
	d, err := ParseDate(date)
	if err != nil {
		return Expense{}, &ValidationError{Field: "date", Err: err}
	}

	e := Expense{
		Amount:      amt,
		Category:    strings.TrimSpace(category),
		Date:        d,
		Description: strings.TrimSpace(description),
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// Validate checks the fields that have structural constraints. Amount sign
// and range are deliberately unchecked.
func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	if e.Category == "" {
		return &ValidationError{Field: "category", Err: ErrEmptyCategory}
	}
	if utf8.RuneCountInString(e.Category) > MaxCategoryLength {
		return &ValidationError{Field: "category", Err: ErrCategoryTooLong}
	}
	if utf8.RuneCountInString(e.Description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Err: ErrDescriptionTooLong}
	}
	return nil
}
