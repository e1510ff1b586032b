package analysis

import (
	"fmt"
	"strings"

	"github.com/apbook-dev/apbook/internal/model"
)

// managerDimension groups within each department by collection manager.
// SettlementProgress follows last-write-wins over the member records in
// input order, matching the source behavior.
var managerDimension = dimension{
	childKey: func(r model.PaymentRecord) string {
		if r.CollectionManager == "" {
			return model.Unassigned
		}
		return r.CollectionManager
	},
	newChild: func(r model.PaymentRecord, dept, key string) *Entity {
		e := &Entity{
			Department:         dept,
			Key:                key,
			SettlementProgress: r.SettlementProgress,
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
		if r.SettlementProgress != "" {
			e.SettlementProgress = r.SettlementProgress
		}
	},
	distinctChildStat: true,
}

// ManagerFilter selects manager entities within the generated summaries.
type ManagerFilter struct {
	Department         string // exact, prunes whole departments
	CollectionManager  string // substring
	SettlementProgress string // exact
	SearchTerm         string // substring over manager, progress, department
}

func (f ManagerFilter) merge(other ManagerFilter) ManagerFilter {
	if other.Department != "" {
		f.Department = other.Department
	}
	if other.CollectionManager != "" {
		f.CollectionManager = other.CollectionManager
	}
	if other.SettlementProgress != "" {
		f.SettlementProgress = other.SettlementProgress
	}
	if other.SearchTerm != "" {
		f.SearchTerm = other.SearchTerm
	}
	return f
}

// ManagerAnalysis is the by-collection-manager aggregation over the
// record set.
type ManagerAnalysis struct {
	summaries []*DepartmentSummary
	filtered  []*DepartmentSummary
	stats     Stats
	filter    ManagerFilter

	Err string
}

// NewManagerAnalysis returns an empty by-manager analysis.
func NewManagerAnalysis() *ManagerAnalysis {
	return &ManagerAnalysis{}
}

// Generate rebuilds the summaries and statistics from records. Failure
// semantics match ProjectAnalysis.Generate.
func (a *ManagerAnalysis) Generate(records []model.PaymentRecord) {
	a.Err = ""
	defer func() {
		if r := recover(); r != nil {
			a.Err = fmt.Sprintf("generating manager analysis: %v", r)
		}
	}()

	if len(records) == 0 {
		a.summaries = nil
		a.filtered = nil
		a.stats = Stats{}
		return
	}

	summaries := groupRecords(records, managerDimension)
	a.summaries = summaries
	a.stats = computeStats(summaries, managerDimension)
	a.applyFilter()
}

// SetFilter merges the set clauses into the active filter and re-applies.
func (a *ManagerAnalysis) SetFilter(f ManagerFilter) {
	a.filter = a.filter.merge(f)
	a.applyFilter()
}

// ClearFilter resets the filter and re-applies.
func (a *ManagerAnalysis) ClearFilter() {
	a.filter = ManagerFilter{}
	a.applyFilter()
}

// Summaries returns the unfiltered summaries.
func (a *ManagerAnalysis) Summaries() []*DepartmentSummary { return a.summaries }

// Filtered returns the summaries after child pruning, with department
// totals recomputed from the surviving children.
func (a *ManagerAnalysis) Filtered() []*DepartmentSummary { return a.filtered }

// Stats returns the top-level statistics over the unfiltered summaries.
// TotalChildren counts distinct manager names across departments, since
// one manager may collect for several departments.
func (a *ManagerAnalysis) Stats() Stats { return a.stats }

func (a *ManagerAnalysis) applyFilter() {
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
		if f.CollectionManager != "" &&
			!strings.Contains(strings.ToLower(e.Key), strings.ToLower(f.CollectionManager)) {
			return false
		}
		if f.SettlementProgress != "" && e.SettlementProgress != f.SettlementProgress {
			return false
		}
		if f.SearchTerm != "" {
			term := strings.ToLower(f.SearchTerm)
			if !strings.Contains(strings.ToLower(e.Key), term) &&
				!strings.Contains(strings.ToLower(e.SettlementProgress), term) &&
				!strings.Contains(strings.ToLower(e.Department), term) {
				return false
			}
		}
		return true
	})

	recomputeTotals(filtered)
	a.filtered = filtered
}
