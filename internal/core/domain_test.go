package core

import (
	"strings"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		UserID:   1,
		Date:     NewDate(2024, 3, 15),
		Title:    "Groceries",
		Amount:   Money{Cents: 4250},
		Category: "Food",
	}

	tests := []struct {
		name    string
		mutate  func(tx *Transaction)
		wantErr error
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "zero date", mutate: func(tx *Transaction) { tx.Date = Date{} }, wantErr: ErrInvalidDate},
		{name: "empty title", mutate: func(tx *Transaction) { tx.Title = "  " }, wantErr: ErrEmptyTitle},
		{name: "title too long", mutate: func(tx *Transaction) { tx.Title = strings.Repeat("x", 201) }, wantErr: ErrTitleTooLong},
		{name: "zero amount", mutate: func(tx *Transaction) { tx.Amount = Money{} }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount = Money{Cents: -1} }, wantErr: ErrInvalidAmount},
		{name: "empty category", mutate: func(tx *Transaction) { tx.Category = "" }, wantErr: ErrEmptyCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecurringTransactionValidate(t *testing.T) {
	valid := RecurringTransaction{
		UserID:     1,
		Title:      "Rent",
		Amount:     Money{Cents: 120000},
		Category:   "Housing",
		DayOfMonth: 1,
		IsActive:   true,
	}

	tests := []struct {
		name    string
		mutate  func(rt *RecurringTransaction)
		wantErr error
	}{
		{name: "valid", mutate: func(*RecurringTransaction) {}},
		{name: "day zero", mutate: func(rt *RecurringTransaction) { rt.DayOfMonth = 0 }, wantErr: ErrInvalidDayOfMonth},
		{name: "day 32", mutate: func(rt *RecurringTransaction) { rt.DayOfMonth = 32 }, wantErr: ErrInvalidDayOfMonth},
		{name: "day 31 allowed", mutate: func(rt *RecurringTransaction) { rt.DayOfMonth = 31 }},
		{name: "empty category", mutate: func(rt *RecurringTransaction) { rt.Category = " " }, wantErr: ErrEmptyCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := valid
			tt.mutate(&rt)
			if err := rt.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudgetValidate(t *testing.T) {
	valid := Budget{
		UserID:   1,
		Category: "Food",
		Amount:   Money{Cents: 50000},
		Month:    3,
		Year:     2024,
	}

	tests := []struct {
		name    string
		mutate  func(b *Budget)
		wantErr error
	}{
		{name: "valid", mutate: func(*Budget) {}},
		{name: "empty category", mutate: func(b *Budget) { b.Category = " " }, wantErr: ErrEmptyCategory},
		{name: "zero amount", mutate: func(b *Budget) { b.Amount = Money{} }, wantErr: ErrInvalidAmount},
		{name: "month zero", mutate: func(b *Budget) { b.Month = 0 }, wantErr: ErrInvalidMonth},
		{name: "month 13", mutate: func(b *Budget) { b.Month = 13 }, wantErr: ErrInvalidMonth},
		{name: "year zero", mutate: func(b *Budget) { b.Year = 0 }, wantErr: ErrInvalidYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			tt.mutate(&b)
			if err := b.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDateSameMonth(t *testing.T) {
	tests := []struct {
		name string
		a, b Date
		want bool
	}{
		{name: "same month", a: NewDate(2024, 2, 1), b: NewDate(2024, 2, 29), want: true},
		{name: "different month", a: NewDate(2024, 2, 29), b: NewDate(2024, 3, 1), want: false},
		{name: "same month different year", a: NewDate(2023, 2, 10), b: NewDate(2024, 2, 10), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.SameMonth(tt.b); got != tt.want {
				t.Errorf("SameMonth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2024, 2, 29},
		{2023, 2, 28},
		{2024, 4, 30},
		{2024, 1, 31},
		{2024, 12, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	from, to := MonthBounds(2024, 12)
	if !from.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", from)
	}
	if !to.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %v", to)
	}
}

func TestPrevMonth(t *testing.T) {
	if y, m := PrevMonth(2024, 1); y != 2023 || m != 12 {
		t.Errorf("PrevMonth(2024, 1) = %d, %d", y, m)
	}
	if y, m := PrevMonth(2024, 7); y != 2024 || m != 6 {
		t.Errorf("PrevMonth(2024, 7) = %d, %d", y, m)
	}
}
