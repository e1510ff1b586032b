// Package export serializes grouped summaries to the BOM-prefixed,
// force-quoted CSV layout the downstream spreadsheet tooling expects:
// one row per child entity, a department subtotal row, then a blank
// separator row, repeated per department.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/apbook-dev/apbook/internal/analysis"
)

var projectHeader = []string{
	"부서", "금형마스터", "금형마스터내역", "정산진행현황", "대금지급",
	"선급금", "선수금", "합계", "통화", "항목수",
}

var managerHeader = []string{
	"부서", "회수담당", "정산진행현황", "선급금", "선수금", "합계", "항목수",
}

// WriteProjectCSV writes the by-project summaries to w.
func WriteProjectCSV(w io.Writer, summaries []*analysis.DepartmentSummary) error {
	if err := writeBOM(w); err != nil {
		return err
	}
	if err := writeRow(w, projectHeader); err != nil {
		return err
	}
	for _, dept := range summaries {
		for _, p := range dept.Children {
			row := []string{
				p.Department,
				p.Key,
				p.Details,
				p.SettlementProgress,
				p.PaymentStatus,
				amount(p.AdvancePayment),
				amount(p.Prepayment),
				amount(p.Total),
				p.Currency,
				strconv.Itoa(p.ItemCount),
			}
			if err := writeRow(w, row); err != nil {
				return err
			}
		}
		subtotal := []string{
			dept.Department + " 소계",
			"", "", "", "",
			amount(dept.TotalAdvancePayment),
			amount(dept.TotalPrepayment),
			amount(dept.TotalAmount),
			"",
			strconv.Itoa(dept.ItemCount),
		}
		if err := writeRow(w, subtotal); err != nil {
			return err
		}
		if err := writeRow(w, []string{""}); err != nil {
			return err
		}
	}
	return nil
}

// WriteManagerCSV writes the by-manager summaries to w.
func WriteManagerCSV(w io.Writer, summaries []*analysis.DepartmentSummary) error {
	if err := writeBOM(w); err != nil {
		return err
	}
	if err := writeRow(w, managerHeader); err != nil {
		return err
	}
	for _, dept := range summaries {
		for _, m := range dept.Children {
			row := []string{
				m.Department,
				m.Key,
				m.SettlementProgress,
				amount(m.AdvancePayment),
				amount(m.Prepayment),
				amount(m.Total),
				strconv.Itoa(m.ItemCount),
			}
			if err := writeRow(w, row); err != nil {
				return err
			}
		}
		subtotal := []string{
			dept.Department + " 소계",
			"", "",
			amount(dept.TotalAdvancePayment),
			amount(dept.TotalPrepayment),
			amount(dept.TotalAmount),
			strconv.Itoa(dept.ItemCount),
		}
		if err := writeRow(w, subtotal); err != nil {
			return err
		}
		if err := writeRow(w, []string{""}); err != nil {
			return err
		}
	}
	return nil
}

// FileName builds the dated download name, e.g. "프로젝트별_분석_2025-01-31.csv".
func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, now.Format("2006-01-02"))
}

// amount formats a rollup figure with thousands separators as plain text
// (no currency symbol).
func amount(d decimal.Decimal) string {
	if d.IsInteger() {
		return humanize.Comma(d.IntPart())
	}
	return humanize.CommafWithDigits(d.InexactFloat64(), 2)
}

func writeBOM(w io.Writer) error {
	_, err := io.WriteString(w, "\uFEFF")
	return err
}

// writeRow emits one line with every cell double-quoted. encoding/csv
// only quotes on demand, and the output contract requires quotes on every
// cell, so quoting is done here.
func writeRow(w io.Writer, cells []string) error {
	quoted := make([]string, len(cells))
	for i, cell := range cells {
		quoted[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\n")
	return err
}
