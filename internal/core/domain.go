package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date with no time-of-day component.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single ledger entry owned by a user. Created by
	// direct entry, a quick-card replay, or the recurring materializer.
	Transaction struct {
		ID            int64
		UserID        int64
		Date          Date
		Title         string
		Amount        Money
		Category      string
		SubCategory   string
		PaymentMethod string
		CreatedAt     time.Time
	}

	// Budget is a per-category spending cap for one calendar month.
	// Unique per (user, category, month, year); setting it again
	// overwrites the amount.
	Budget struct {
		ID       int64
		UserID   int64
		Category string
		Amount   Money
		Month    int // 1-12
		Year     int
	}

	// RecurringTransaction is a template the materializer turns into at
	// most one Transaction per calendar month.
	RecurringTransaction struct {
		ID            int64
		UserID        int64
		Title         string
		Amount        Money
		Category      string
		SubCategory   string
		PaymentMethod string
		DayOfMonth    int  // 1-31, scheduling trigger
		LastLogged    Date // zero when never materialized
		IsActive      bool
	}

	// QuickCard is a saved transaction template replayed with one tap.
	QuickCard struct {
		ID            int64
		UserID        int64
		Title         string
		Amount        Money
		Category      string
		SubCategory   string
		PaymentMethod string
	}

	User struct {
		ID       int64
		Username string
		Email    string
	}
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyTitle        = errors.New("empty title")
	ErrTitleTooLong      = errors.New("title too long (max 200 characters)")
	ErrEmptyCategory     = errors.New("empty category")
	ErrInvalidDayOfMonth = errors.New("day of month must be between 1 and 31")
	ErrInvalidMonth      = errors.New("month must be between 1 and 12")
	ErrInvalidYear       = errors.New("year must be positive")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// SameMonth reports whether both dates fall in the same calendar month
// of the same year.
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > 200 {
		return ErrTitleTooLong
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 1 {
		return ErrInvalidYear
	}
	return nil
}

func (rt RecurringTransaction) Validate() error {
	if strings.TrimSpace(rt.Title) == "" {
		return ErrEmptyTitle
	}
	if len(rt.Title) > 200 {
		return ErrTitleTooLong
	}
	if err := rt.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(rt.Category) == "" {
		return ErrEmptyCategory
	}
	if rt.DayOfMonth < 1 || rt.DayOfMonth > 31 {
		return ErrInvalidDayOfMonth
	}
	return nil
}

func (q QuickCard) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return ErrEmptyTitle
	}
	if err := q.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(q.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first day of the month and the first day of
// the following month, for use as a half-open [from, to) query range.
func MonthBounds(year int, month int) (Date, Date) {
	from := NewDate(year, month, 1)
	to := Date{Time: from.AddDate(0, 1, 0)}
	return from, to
}

// PrevMonth returns the year and month immediately before the given one.
func PrevMonth(year int, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}
