package store

import (
	"github.com/shopspring/decimal"

	"github.com/apbook-dev/apbook/internal/model"
)

// Patch is a partial record update: nil fields are left untouched.
// ID, CreatedAt and UpdatedAt are never patchable.
type Patch struct {
	ElectricKey           *int
	Account               *string
	GLAccountName         *string
	MoldMaster            *string
	MoldMasterDetails     *string
	ContractNumber        *string
	CompanyCode           *string
	CompanyName           *string
	YearMonth             *string
	ElectricDate          *string
	Currency              *string
	VoucherCurrencyAmount *decimal.Decimal
	LocalCurrencyAmount   *decimal.Decimal
	BaseDate              *string
	StartPlanNumber       *string
	PaymentPlanNumber     *string
	Reference             *string
	CollectionManager     *string
	Department            *string
	BusinessPlace         *string
	InvestmentBudget      *string
	VoucherNumber         *string
	Text                  *string
	PaymentStatus         *string
	SettlementProgress    *string
	Notes                 *string
	Overdue               *string
	OverdueMonths         *int
	CustomerName          *string
	ResponsibleTeam       *string
	SalesManager          *string
}

func (p Patch) apply(r *model.PaymentRecord) {
	setInt(&r.ElectricKey, p.ElectricKey)
	setString(&r.Account, p.Account)
	setString(&r.GLAccountName, p.GLAccountName)
	setString(&r.MoldMaster, p.MoldMaster)
	setString(&r.MoldMasterDetails, p.MoldMasterDetails)
	setString(&r.ContractNumber, p.ContractNumber)
	setString(&r.CompanyCode, p.CompanyCode)
	setString(&r.CompanyName, p.CompanyName)
	setString(&r.YearMonth, p.YearMonth)
	setString(&r.ElectricDate, p.ElectricDate)
	setString(&r.Currency, p.Currency)
	setDecimal(&r.VoucherCurrencyAmount, p.VoucherCurrencyAmount)
	setDecimal(&r.LocalCurrencyAmount, p.LocalCurrencyAmount)
	setString(&r.BaseDate, p.BaseDate)
	setString(&r.StartPlanNumber, p.StartPlanNumber)
	setString(&r.PaymentPlanNumber, p.PaymentPlanNumber)
	setString(&r.Reference, p.Reference)
	setString(&r.CollectionManager, p.CollectionManager)
	setString(&r.Department, p.Department)
	setString(&r.BusinessPlace, p.BusinessPlace)
	setString(&r.InvestmentBudget, p.InvestmentBudget)
	setString(&r.VoucherNumber, p.VoucherNumber)
	setString(&r.Text, p.Text)
	setString(&r.PaymentStatus, p.PaymentStatus)
	setString(&r.SettlementProgress, p.SettlementProgress)
	setString(&r.Notes, p.Notes)
	setString(&r.Overdue, p.Overdue)
	setInt(&r.OverdueMonths, p.OverdueMonths)
	setString(&r.CustomerName, p.CustomerName)
	setString(&r.ResponsibleTeam, p.ResponsibleTeam)
	setString(&r.SalesManager, p.SalesManager)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setDecimal(dst *decimal.Decimal, src *decimal.Decimal) {
	if src != nil {
		*dst = *src
	}
}
