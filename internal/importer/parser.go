// Package importer turns raw advance/prepayment CSV exports into typed
// payment records. The source files are real-world exports with BOM
// prefixes, mixed line endings, ragged rows and occasional encoding
// damage, so the parser aims for maximum recoverable yield: row-level
// trouble is skipped or coerced, never fatal. Validation is the store's
// job, not the parser's.
package importer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/apbook-dev/apbook/internal/model"
)

// Fixed column order of the export. This ordering is the file-format
// contract and must not change.
const (
	colID = iota
	colElectricKey
	colAccount
	colGLAccountName
	colMoldMaster
	colMoldMasterDetails
	colContractNumber
	colCompanyCode
	colCompanyName
	colYearMonth
	colElectricDate
	colCurrency
	colVoucherCurrencyAmount
	colLocalCurrencyAmount
	colBaseDate
	colStartPlanNumber
	colPaymentPlanNumber
	colReference
	colCollectionManager
	colDepartment
	colBusinessPlace
	colInvestmentBudget
	colVoucherNumber
	colText
	colPaymentStatus
	colSettlementProgress
	colNotes
	colOverdue
	colOverdueMonths
	colCustomerName
	colResponsibleTeam
	colSalesManager
)

// minColumns is the fewest tokens a line may carry and still count as a
// data row; shorter lines are discarded silently.
const minColumns = 10

// rowSentinels mark repeated header rows, total rows and footer noise by
// their first token; matching lines are discarded silently.
var rowSentinels = []string{"고유", "마감", "("}

// Result is the outcome of one parse run. Errors holds line-numbered
// messages for rows that failed to build (and coercion warnings in strict
// mode); a parse always completes, so Errors never aborts anything.
type Result struct {
	Records    []model.PaymentRecord
	Errors     []string
	TotalRows  int
	ParsedRows int
}

// Parser converts raw export text into payment records.
type Parser struct {
	Policy    CoercionPolicy
	Header    HeaderMatcher
	Sentinels []string
}

// New returns a Parser with the default coercion policy and header
// detection for the real export format.
func New() *Parser {
	return &Parser{
		Header:    DefaultHeaderMatcher(),
		Sentinels: rowSentinels,
	}
}

// Parse processes raw CSV text. A missing header is the only fatal
// condition and yields a single error with empty results; everything else
// degrades per-row or per-field.
func (p *Parser) Parse(raw string) Result {
	raw = strings.TrimPrefix(raw, "\uFEFF")
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	dataStart, found := p.Header.Locate(lines)
	if !found {
		return Result{Errors: []string{"header row not found in the first lines of the file"}}
	}

	var result Result
	lineNo := dataStart
	for _, line := range lines[dataStart:] {
		lineNo++
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.TotalRows++

		cols := tokenize(line)
		if p.skipRow(cols) {
			continue
		}

		record, err := p.buildRecord(cols, result.TotalRows-1, lineNo, &result.Errors)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNo, err))
			continue
		}
		result.Records = append(result.Records, record)
		result.ParsedRows++
	}
	return result
}

// tokenize splits a line on commas outside quoted spans. A doubled quote
// inside a span is a literal quote; an unmatched quote just toggles state
// and is never an error.
func tokenize(line string) []string {
	var cols []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			cols = append(cols, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	cols = append(cols, strings.TrimSpace(current.String()))
	return cols
}

// skipRow reports whether a tokenized line is noise rather than data.
func (p *Parser) skipRow(cols []string) bool {
	if len(cols) < minColumns {
		return true
	}
	first := strings.TrimSpace(cols[0])
	if first == "" {
		return true
	}
	for _, sentinel := range p.Sentinels {
		if strings.Contains(first, sentinel) {
			return true
		}
	}
	return false
}

// buildRecord maps positional tokens to named fields. Any panic while
// building is recovered into a row-level error so one bad row never stops
// the run.
func (p *Parser) buildRecord(cols []string, rowIdx, lineNo int, warnings *[]string) (record model.PaymentRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("building row: %v", r)
		}
	}()

	clean := func(idx int) string {
		if idx >= len(cols) {
			return ""
		}
		return p.Policy.CleanText(cols[idx])
	}
	amount := func(idx int, field string) decimal.Decimal {
		raw := ""
		if idx < len(cols) {
			raw = cols[idx]
		}
		d, coerced := p.Policy.Number(raw)
		if coerced && p.Policy.Strict {
			*warnings = append(*warnings, fmt.Sprintf("line %d: coerced %s %q to 0", lineNo, field, raw))
		}
		return d
	}
	date := func(idx int, field string) string {
		raw := ""
		if idx < len(cols) {
			raw = cols[idx]
		}
		out, coerced := p.Policy.Date(raw)
		if coerced && p.Policy.Strict {
			*warnings = append(*warnings, fmt.Sprintf("line %d: coerced %s %q to %s", lineNo, field, raw, out))
		}
		return out
	}

	electricKey := int(amount(colElectricKey, "electric key").IntPart())
	if electricKey == 0 {
		electricKey = 1
	}

	overdueMonths := 0
	if clean(colOverdueMonths) != "" {
		overdueMonths = int(amount(colOverdueMonths, "overdue months").IntPart())
	}

	record = model.PaymentRecord{
		ID:                    defaultString(clean(colID), "auto-"+uuid.NewString()),
		ElectricKey:           electricKey,
		Account:               clean(colAccount),
		GLAccountName:         clean(colGLAccountName),
		MoldMaster:            clean(colMoldMaster),
		MoldMasterDetails:     clean(colMoldMasterDetails),
		ContractNumber:        clean(colContractNumber),
		CompanyCode:           clean(colCompanyCode),
		CompanyName:           defaultString(clean(colCompanyName), model.UnknownCompany),
		YearMonth:             clean(colYearMonth),
		ElectricDate:          date(colElectricDate, "electric date"),
		Currency:              defaultString(clean(colCurrency), "KRW"),
		VoucherCurrencyAmount: amount(colVoucherCurrencyAmount, "voucher currency amount"),
		LocalCurrencyAmount:   amount(colLocalCurrencyAmount, "local currency amount"),
		BaseDate:              date(colBaseDate, "base date"),
		StartPlanNumber:       clean(colStartPlanNumber),
		PaymentPlanNumber:     clean(colPaymentPlanNumber),
		Reference:             clean(colReference),
		CollectionManager:     clean(colCollectionManager),
		Department:            defaultString(clean(colDepartment), model.Unassigned),
		BusinessPlace:         clean(colBusinessPlace),
		InvestmentBudget:      clean(colInvestmentBudget),
		VoucherNumber:         defaultString(clean(colVoucherNumber), fmt.Sprintf("V-%d", rowIdx)),
		Text:                  clean(colText),
		PaymentStatus:         defaultString(clean(colPaymentStatus), model.StatusNeedsReview),
		SettlementProgress:    clean(colSettlementProgress),
		Notes:                 clean(colNotes),
		Overdue:               clean(colOverdue),
		OverdueMonths:         overdueMonths,
		CustomerName:          clean(colCustomerName),
		ResponsibleTeam:       defaultString(clean(colResponsibleTeam), defaultString(clean(colDepartment), model.Unassigned)),
		SalesManager:          defaultString(clean(colSalesManager), clean(colCollectionManager)),
	}
	return record, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
