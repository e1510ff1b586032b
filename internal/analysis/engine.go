// Package analysis folds the flat record set into nested
// department→entity rollups. Summaries are pure projections: they are
// rebuilt wholesale on every Generate and never mutated incrementally.
package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/apbook-dev/apbook/internal/model"
)

// Entity is one child rollup within a department: a project (mold
// master) or a collection manager depending on the variant.
type Entity struct {
	Department         string
	Key                string // mold master code or manager name
	Details            string // mold master details (project variant)
	SettlementProgress string
	PaymentStatus      string // project variant
	Currency           string // project variant
	AdvancePayment     decimal.Decimal
	Prepayment         decimal.Decimal
	Total              decimal.Decimal
	ItemCount          int
}

// CurrencyTotals is a per-currency slice of a department's rollup.
type CurrencyTotals struct {
	AdvancePayment decimal.Decimal
	Prepayment     decimal.Decimal
	Total          decimal.Decimal
}

// DepartmentSummary is one department's rollup with its child entities,
// ordered by descending absolute total.
type DepartmentSummary struct {
	Department          string
	TotalAdvancePayment decimal.Decimal
	TotalPrepayment     decimal.Decimal
	TotalAmount         decimal.Decimal
	ItemCount           int
	ChildCount          int
	Children            []*Entity
	Currencies          map[string]CurrencyTotals // project variant only
}

// Stats are the top-level figures over a full set of summaries.
type Stats struct {
	TotalDepartments    int
	TotalChildren       int
	TotalAdvancePayment decimal.Decimal
	TotalPrepayment     decimal.Decimal
	GrandTotal          decimal.Decimal
	TopDepartment       string
	TopChild            string
}

// dimension parameterizes the shared grouping routine.
type dimension struct {
	// childKey returns the grouping key within a department, already
	// defaulted for blanks.
	childKey func(model.PaymentRecord) string
	// newChild builds a fresh child entity for a first-seen key.
	newChild func(r model.PaymentRecord, dept, key string) *Entity
	// accumulate folds another record into an existing child.
	accumulate func(e *Entity, r model.PaymentRecord)
	// trackCurrencies keeps a per-department currency breakdown.
	trackCurrencies bool
	// distinctChildStat counts unique child keys across departments
	// instead of summing per-department child counts (one manager may
	// appear in several departments).
	distinctChildStat bool
}

// groupRecords partitions records by department and then by the
// dimension's child key, accumulating advance/prepayment splits. The
// amount classification only routes the advance/prepayment columns;
// every record's amount lands in the totals regardless.
func groupRecords(records []model.PaymentRecord, dim dimension) []*DepartmentSummary {
	byDept := make(map[string]*DepartmentSummary)
	var order []*DepartmentSummary

	for _, r := range records {
		dept := r.Department
		if dept == "" {
			dept = model.Unassigned
		}

		summary, ok := byDept[dept]
		if !ok {
			summary = &DepartmentSummary{Department: dept}
			if dim.trackCurrencies {
				summary.Currencies = make(map[string]CurrencyTotals)
			}
			byDept[dept] = summary
			order = append(order, summary)
		}

		amount := r.LocalCurrencyAmount
		if r.IsAdvancePayment() {
			summary.TotalAdvancePayment = summary.TotalAdvancePayment.Add(amount)
		} else if r.IsPrepayment() {
			summary.TotalPrepayment = summary.TotalPrepayment.Add(amount)
		}
		summary.TotalAmount = summary.TotalAmount.Add(amount)
		summary.ItemCount++

		if dim.trackCurrencies {
			ct := summary.Currencies[r.Currency]
			if r.IsAdvancePayment() {
				ct.AdvancePayment = ct.AdvancePayment.Add(amount)
			} else if r.IsPrepayment() {
				ct.Prepayment = ct.Prepayment.Add(amount)
			}
			ct.Total = ct.Total.Add(amount)
			summary.Currencies[r.Currency] = ct
		}

		key := dim.childKey(r)
		var child *Entity
		for _, c := range summary.Children {
			if c.Key == key {
				child = c
				break
			}
		}
		if child == nil {
			summary.Children = append(summary.Children, dim.newChild(r, dept, key))
			summary.ChildCount++
		} else {
			dim.accumulate(child, r)
		}
	}

	sortSummaries(order)
	return order
}

// sortSummaries orders departments and their children by descending
// absolute total. Stable sorts keep discovery order on ties.
func sortSummaries(summaries []*DepartmentSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalAmount.Abs().GreaterThan(summaries[j].TotalAmount.Abs())
	})
	for _, s := range summaries {
		sort.SliceStable(s.Children, func(i, j int) bool {
			return s.Children[i].Total.Abs().GreaterThan(s.Children[j].Total.Abs())
		})
	}
}

// computeStats derives the top-level figures from sorted summaries.
func computeStats(summaries []*DepartmentSummary, dim dimension) Stats {
	stats := Stats{TotalDepartments: len(summaries)}

	distinct := make(map[string]bool)
	var top *Entity
	for _, s := range summaries {
		stats.TotalAdvancePayment = stats.TotalAdvancePayment.Add(s.TotalAdvancePayment)
		stats.TotalPrepayment = stats.TotalPrepayment.Add(s.TotalPrepayment)
		stats.GrandTotal = stats.GrandTotal.Add(s.TotalAmount)
		if dim.distinctChildStat {
			for _, c := range s.Children {
				distinct[c.Key] = true
			}
		} else {
			stats.TotalChildren += s.ChildCount
		}
		for _, c := range s.Children {
			if top == nil || c.Total.Abs().GreaterThan(top.Total.Abs()) {
				top = c
			}
		}
	}
	if dim.distinctChildStat {
		stats.TotalChildren = len(distinct)
	}
	if len(summaries) > 0 {
		stats.TopDepartment = summaries[0].Department
	}
	if top != nil {
		stats.TopChild = top.Key
	}
	return stats
}

// cloneSummaries deep-copies summaries so summary filtering can prune
// and recompute without disturbing the generated originals.
func cloneSummaries(summaries []*DepartmentSummary) []*DepartmentSummary {
	out := make([]*DepartmentSummary, len(summaries))
	for i, s := range summaries {
		c := *s
		c.Children = make([]*Entity, len(s.Children))
		for j, child := range s.Children {
			dup := *child
			c.Children[j] = &dup
		}
		if s.Currencies != nil {
			c.Currencies = make(map[string]CurrencyTotals, len(s.Currencies))
			for k, v := range s.Currencies {
				c.Currencies[k] = v
			}
		}
		out[i] = &c
	}
	return out
}

// recomputeTotals re-derives each department's rollup from its surviving
// children after pruning. Filtered totals are mathematically rebuilt, not
// merely hidden.
func recomputeTotals(summaries []*DepartmentSummary) {
	for _, s := range summaries {
		s.TotalAdvancePayment = decimal.Zero
		s.TotalPrepayment = decimal.Zero
		s.TotalAmount = decimal.Zero
		s.ItemCount = 0
		for _, c := range s.Children {
			s.TotalAdvancePayment = s.TotalAdvancePayment.Add(c.AdvancePayment)
			s.TotalPrepayment = s.TotalPrepayment.Add(c.Prepayment)
			s.TotalAmount = s.TotalAmount.Add(c.Total)
			s.ItemCount += c.ItemCount
		}
		s.ChildCount = len(s.Children)
		if s.Currencies != nil {
			s.Currencies = make(map[string]CurrencyTotals)
			for _, c := range s.Children {
				ct := s.Currencies[c.Currency]
				ct.AdvancePayment = ct.AdvancePayment.Add(c.AdvancePayment)
				ct.Prepayment = ct.Prepayment.Add(c.Prepayment)
				ct.Total = ct.Total.Add(c.Total)
				s.Currencies[c.Currency] = ct
			}
		}
	}
}

// pruneChildren keeps only children passing keep, then drops departments
// left with no children.
func pruneChildren(summaries []*DepartmentSummary, keep func(*Entity) bool) []*DepartmentSummary {
	var out []*DepartmentSummary
	for _, s := range summaries {
		var kept []*Entity
		for _, c := range s.Children {
			if keep(c) {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			continue
		}
		s.Children = kept
		out = append(out, s)
	}
	return out
}
