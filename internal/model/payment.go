package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel values carried over verbatim from the source export format.
const (
	// Unassigned is the bucket for blank departments, projects and managers.
	Unassigned = "미지정"
	// OverdueExceeded marks a record past its due date ("exceeded").
	OverdueExceeded = "초과"
	// UnknownCompany is the default company name for blank cells.
	UnknownCompany = "알 수 없음"
	// StatusNeedsReview is the default payment status for blank cells.
	StatusNeedsReview = "확인 필요"
	// ProgressNotStarted is the default settlement progress for rollups.
	ProgressNotStarted = "미진행"
)

// DateFormat is the canonical calendar-date layout for record date fields.
const DateFormat = "2006-01-02"

// PaymentRecord is one row of the advance/prepayment export.
//
// ElectricDate and BaseDate are canonical YYYY-MM-DD strings (the parser
// coerces all inputs into that shape). LocalCurrencyAmount is the sole
// figure used by every rollup and may be negative.
type PaymentRecord struct {
	ID                    string
	ElectricKey           int
	Account               string
	GLAccountName         string
	MoldMaster            string
	MoldMasterDetails     string
	ContractNumber        string
	CompanyCode           string
	CompanyName           string
	YearMonth             string
	ElectricDate          string
	Currency              string
	VoucherCurrencyAmount decimal.Decimal
	LocalCurrencyAmount   decimal.Decimal
	BaseDate              string
	StartPlanNumber       string
	PaymentPlanNumber     string
	Reference             string
	CollectionManager     string
	Department            string
	BusinessPlace         string
	InvestmentBudget      string
	VoucherNumber         string
	Text                  string
	PaymentStatus         string
	SettlementProgress    string
	Notes                 string
	Overdue               string
	OverdueMonths         int // meaningful only when Overdue == OverdueExceeded
	CustomerName          string
	ResponsibleTeam       string
	SalesManager          string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsAdvancePayment reports whether the record posts to an advance-payment
// (선급금) G/L account.
func (r PaymentRecord) IsAdvancePayment() bool {
	return strings.Contains(r.GLAccountName, "선급금")
}

// IsPrepayment reports whether the record posts to a prepayment (선수금)
// G/L account.
func (r PaymentRecord) IsPrepayment() bool {
	return strings.Contains(r.GLAccountName, "선수금")
}

// IsOverdue reports whether the record is flagged past due.
func (r PaymentRecord) IsOverdue() bool {
	return r.Overdue == OverdueExceeded
}
