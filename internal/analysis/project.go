package analysis

import (
	"fmt"
	"strings"

	"github.com/apbook-dev/apbook/internal/model"
)

// projectDimension groups within each department by mold master code.
var projectDimension = dimension{
	childKey: func(r model.PaymentRecord) string {
		if r.MoldMaster == "" {
			return model.Unassigned
		}
		return r.MoldMaster
	},
	newChild: func(r model.PaymentRecord, dept, key string) *Entity {
		e := &Entity{
			Department:         dept,
			Key:                key,
			Details:            r.MoldMasterDetails,
			SettlementProgress: r.SettlementProgress,
			PaymentStatus:      r.PaymentStatus,
			Currency:           r.Currency,
			Total:              r.LocalCurrencyAmount,
			ItemCount:          1,
		}
		if e.SettlementProgress == "" {
			e.SettlementProgress = model.ProgressNotStarted
		}
		if r.IsAdvancePayment() {
			e.AdvancePayment = r.LocalCurrencyAmount
		} else if r.IsPrepayment() {
			e.Prepayment = r.LocalCurrencyAmount
		}
		return e
	},
	accumulate: func(e *Entity, r model.PaymentRecord) {
		if r.IsAdvancePayment() {
			e.AdvancePayment = e.AdvancePayment.Add(r.LocalCurrencyAmount)
		} else if r.IsPrepayment() {
			e.Prepayment = e.Prepayment.Add(r.LocalCurrencyAmount)
		}
		e.Total = e.Total.Add(r.LocalCurrencyAmount)
		e.ItemCount++
	},
	trackCurrencies: true,
}

// ProjectFilter selects project entities within the generated summaries.
// Clauses are AND-combined; empty clauses match everything.
type ProjectFilter struct {
	Department         string // exact, prunes whole departments
	MoldMaster         string // substring on code or details
	PaymentStatus      string // exact
	SettlementProgress string // exact
	Currency           string // exact
	SearchTerm         string // substring over code, details, status, progress
}

func (f ProjectFilter) merge(other ProjectFilter) ProjectFilter {
	if other.Department != "" {
		f.Department = other.Department
	}
	if other.MoldMaster != "" {
		f.MoldMaster = other.MoldMaster
	}
	if other.PaymentStatus != "" {
		f.PaymentStatus = other.PaymentStatus
	}
	if other.SettlementProgress != "" {
		f.SettlementProgress = other.SettlementProgress
	}
	if other.Currency != "" {
		f.Currency = other.Currency
	}
	if other.SearchTerm != "" {
		f.SearchTerm = other.SearchTerm
	}
	return f
}

// ProjectAnalysis is the by-project aggregation over the record set.
type ProjectAnalysis struct {
	summaries []*DepartmentSummary
	filtered  []*DepartmentSummary
	stats     Stats
	filter    ProjectFilter

	// Err carries the last generation failure; the previous summaries
	// stay in place when it is set.
	Err string
}

// NewProjectAnalysis returns an empty by-project analysis.
func NewProjectAnalysis() *ProjectAnalysis {
	return &ProjectAnalysis{}
}

// Generate rebuilds the summaries and statistics from records. An empty
// input yields empty summaries and zeroed statistics; a panic during
// grouping is caught into Err and the previous results are kept.
func (a *ProjectAnalysis) Generate(records []model.PaymentRecord) {
	a.Err = ""
	defer func() {
		if r := recover(); r != nil {
			a.Err = fmt.Sprintf("generating project analysis: %v", r)
		}
	}()

	if len(records) == 0 {
		a.summaries = nil
		a.filtered = nil
		a.stats = Stats{}
		return
	}

	summaries := groupRecords(records, projectDimension)
	a.summaries = summaries
	a.stats = computeStats(summaries, projectDimension)
	a.applyFilter()
}

// SetFilter merges the set clauses into the active filter and re-applies.
func (a *ProjectAnalysis) SetFilter(f ProjectFilter) {
	a.filter = a.filter.merge(f)
	a.applyFilter()
}

// ClearFilter resets the filter and re-applies.
func (a *ProjectAnalysis) ClearFilter() {
	a.filter = ProjectFilter{}
	a.applyFilter()
}

// Summaries returns the unfiltered summaries.
func (a *ProjectAnalysis) Summaries() []*DepartmentSummary { return a.summaries }

// Filtered returns the summaries after child pruning, with department
// totals recomputed from the surviving children.
func (a *ProjectAnalysis) Filtered() []*DepartmentSummary { return a.filtered }

// Stats returns the top-level statistics over the unfiltered summaries.
func (a *ProjectAnalysis) Stats() Stats { return a.stats }

func (a *ProjectAnalysis) applyFilter() {
	f := a.filter
	filtered := cloneSummaries(a.summaries)

	if f.Department != "" {
		var kept []*DepartmentSummary
		for _, s := range filtered {
			if s.Department == f.Department {
				kept = append(kept, s)
			}
		}
		filtered = kept
	}

	filtered = pruneChildren(filtered, func(e *Entity) bool {
		if f.MoldMaster != "" {
			needle := strings.ToLower(f.MoldMaster)
			if !strings.Contains(strings.ToLower(e.Key), needle) &&
				!strings.Contains(strings.ToLower(e.Details), needle) {
				return false
			}
		}
		if f.PaymentStatus != "" && e.PaymentStatus != f.PaymentStatus {
			return false
		}
		if f.SettlementProgress != "" && e.SettlementProgress != f.SettlementProgress {
			return false
		}
		if f.Currency != "" && e.Currency != f.Currency {
			return false
		}
		if f.SearchTerm != "" {
			term := strings.ToLower(f.SearchTerm)
			if !strings.Contains(strings.ToLower(e.Key), term) &&
				!strings.Contains(strings.ToLower(e.Details), term) &&
				!strings.Contains(strings.ToLower(e.PaymentStatus), term) &&
				!strings.Contains(strings.ToLower(e.SettlementProgress), term) {
				return false
			}
		}
		return true
	})

	recomputeTotals(filtered)
	a.filtered = filtered
}
