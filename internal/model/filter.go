package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DateRange is an inclusive calendar-date interval (YYYY-MM-DD bounds).
type DateRange struct {
	Start string
	End   string
}

// Filter selects payment records. Clauses are AND-combined; a zero-valued
// clause matches everything.
type Filter struct {
	CompanyName   string // case-insensitive substring
	Department    string // exact
	PaymentStatus string // exact
	Overdue       string // exact
	DateRange     *DateRange
	SearchTerm    string // substring over company name, text, contract, voucher
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
	Currency      string // exact
}

// Merge overlays the set clauses of other onto f and returns the result.
// Pointer clauses replace only when non-nil, strings only when non-empty.
func (f Filter) Merge(other Filter) Filter {
	if other.CompanyName != "" {
		f.CompanyName = other.CompanyName
	}
	if other.Department != "" {
		f.Department = other.Department
	}
	if other.PaymentStatus != "" {
		f.PaymentStatus = other.PaymentStatus
	}
	if other.Overdue != "" {
		f.Overdue = other.Overdue
	}
	if other.DateRange != nil {
		f.DateRange = other.DateRange
	}
	if other.SearchTerm != "" {
		f.SearchTerm = other.SearchTerm
	}
	if other.MinAmount != nil {
		f.MinAmount = other.MinAmount
	}
	if other.MaxAmount != nil {
		f.MaxAmount = other.MaxAmount
	}
	if other.Currency != "" {
		f.Currency = other.Currency
	}
	return f
}

// Matches reports whether the record passes every set clause.
func (f Filter) Matches(r PaymentRecord) bool {
	if f.CompanyName != "" &&
		!strings.Contains(strings.ToLower(r.CompanyName), strings.ToLower(f.CompanyName)) {
		return false
	}
	if f.Department != "" && r.Department != f.Department {
		return false
	}
	if f.PaymentStatus != "" && r.PaymentStatus != f.PaymentStatus {
		return false
	}
	if f.Overdue != "" && r.Overdue != f.Overdue {
		return false
	}
	if f.DateRange != nil {
		// Canonical ISO dates compare correctly as strings.
		if r.ElectricDate < f.DateRange.Start || r.ElectricDate > f.DateRange.End {
			return false
		}
	}
	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		if !strings.Contains(strings.ToLower(r.CompanyName), term) &&
			!strings.Contains(strings.ToLower(r.Text), term) &&
			!strings.Contains(strings.ToLower(r.ContractNumber), term) &&
			!strings.Contains(strings.ToLower(r.VoucherNumber), term) {
			return false
		}
	}
	if f.MinAmount != nil && r.LocalCurrencyAmount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && r.LocalCurrencyAmount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.Currency != "" && r.Currency != f.Currency {
		return false
	}
	return true
}
