package model

import "github.com/shopspring/decimal"

// Bucket is a count/amount pair for one grouping key.
type Bucket struct {
	Count  int
	Amount decimal.Decimal
}

// Stats are the flat statistics over the full canonical record set.
type Stats struct {
	TotalCount    int
	TotalAmount   decimal.Decimal
	OverdueCount  int
	OverdueAmount decimal.Decimal
	ByDepartment  map[string]Bucket
	ByStatus      map[string]Bucket
}

// ComputeStats folds records into flat statistics. Only
// LocalCurrencyAmount contributes to amount sums.
func ComputeStats(records []PaymentRecord) Stats {
	stats := Stats{
		TotalAmount:   decimal.Zero,
		OverdueAmount: decimal.Zero,
		ByDepartment:  make(map[string]Bucket),
		ByStatus:      make(map[string]Bucket),
	}

	for _, r := range records {
		stats.TotalCount++
		stats.TotalAmount = stats.TotalAmount.Add(r.LocalCurrencyAmount)

		if r.IsOverdue() {
			stats.OverdueCount++
			stats.OverdueAmount = stats.OverdueAmount.Add(r.LocalCurrencyAmount)
		}

		dept := stats.ByDepartment[r.Department]
		dept.Count++
		dept.Amount = dept.Amount.Add(r.LocalCurrencyAmount)
		stats.ByDepartment[r.Department] = dept

		status := stats.ByStatus[r.PaymentStatus]
		status.Count++
		status.Amount = status.Amount.Add(r.LocalCurrencyAmount)
		stats.ByStatus[r.PaymentStatus] = status
	}

	return stats
}
