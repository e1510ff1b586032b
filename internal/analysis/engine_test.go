package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apbook-dev/apbook/internal/model"
)

func record(dept, mold, manager, gl string, amount int64) model.PaymentRecord {
	return model.PaymentRecord{
		Department:          dept,
		MoldMaster:          mold,
		MoldMasterDetails:   mold + " 내역",
		CollectionManager:   manager,
		GLAccountName:       gl,
		Currency:            "KRW",
		LocalCurrencyAmount: decimal.NewFromInt(amount),
	}
}

func sumAmounts(records []model.PaymentRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.LocalCurrencyAmount)
	}
	return total
}

func TestProjectAnalysis_TotalsConserveInput(t *testing.T) {
	// Records outside the advance/prepayment accounts still count toward
	// every total; classification only routes the split columns.
	records := []model.PaymentRecord{
		record("PM팀", "M-1", "김철수", "선급금(영업)", 1000),
		record("PM팀", "M-2", "김철수", "선수금", -400),
		record("엔진1팀", "M-3", "이영희", "기타유동자산", 77),
		record("", "", "", "잡이익", 5),
	}

	a := NewProjectAnalysis()
	a.Generate(records)
	require.Empty(t, a.Err)

	deptTotal := decimal.Zero
	for _, s := range a.Summaries() {
		deptTotal = deptTotal.Add(s.TotalAmount)
	}
	assert.True(t, deptTotal.Equal(sumAmounts(records)),
		"department totals must sum to the input total, got %s", deptTotal)

	stats := a.Stats()
	assert.True(t, stats.GrandTotal.Equal(sumAmounts(records)))
	assert.Equal(t, "1000", stats.TotalAdvancePayment.String())
	assert.Equal(t, "-400", stats.TotalPrepayment.String())
	assert.Equal(t, 3, stats.TotalDepartments, "blank department buckets as 미지정")
}

func TestProjectAnalysis_SortByAbsoluteTotal(t *testing.T) {
	records := []model.PaymentRecord{
		record("A팀", "M-1", "", "선급금", 100),
		record("B팀", "M-2", "", "선수금", -500),
		record("C팀", "M-3", "", "선급금", 10),
	}

	a := NewProjectAnalysis()
	a.Generate(records)

	var order []string
	for _, s := range a.Summaries() {
		order = append(order, s.Department)
	}
	assert.Equal(t, []string{"B팀", "A팀", "C팀"}, order,
		"descending by absolute total, sign ignored")
	assert.Equal(t, "B팀", a.Stats().TopDepartment)
	assert.Equal(t, "M-2", a.Stats().TopChild)
}

func TestProjectAnalysis_TieKeepsDiscoveryOrder(t *testing.T) {
	records := []model.PaymentRecord{
		record("A팀", "M-1", "", "선급금", 100),
		record("B팀", "M-2", "", "선급금", -100),
	}

	a := NewProjectAnalysis()
	a.Generate(records)

	require.Len(t, a.Summaries(), 2)
	assert.Equal(t, "A팀", a.Summaries()[0].Department)
	assert.Equal(t, "B팀", a.Summaries()[1].Department)
}

func TestProjectAnalysis_ChildAccumulation(t *testing.T) {
	records := []model.PaymentRecord{
		record("PM팀", "M-1", "", "선급금", 300),
		record("PM팀", "M-1", "", "선급금", 200),
		record("PM팀", "M-2", "", "선수금", -50),
	}

	a := NewProjectAnalysis()
	a.Generate(records)

	require.Len(t, a.Summaries(), 1)
	s := a.Summaries()[0]
	assert.Equal(t, 2, s.ChildCount)
	assert.Equal(t, 3, s.ItemCount)

	require.Len(t, s.Children, 2)
	assert.Equal(t, "M-1", s.Children[0].Key)
	assert.Equal(t, "500", s.Children[0].Total.String())
	assert.Equal(t, 2, s.Children[0].ItemCount)
}

func TestProjectAnalysis_CurrencyBreakdown(t *testing.T) {
	usd := record("PM팀", "M-1", "", "선급금", 120)
	usd.Currency = "USD"
	records := []model.PaymentRecord{
		record("PM팀", "M-2", "", "선급금", 1000),
		record("PM팀", "M-3", "", "선수금", -200),
		usd,
	}

	a := NewProjectAnalysis()
	a.Generate(records)

	require.Len(t, a.Summaries(), 1)
	cur := a.Summaries()[0].Currencies
	require.Contains(t, cur, "KRW")
	require.Contains(t, cur, "USD")
	assert.Equal(t, "800", cur["KRW"].Total.String())
	assert.Equal(t, "1000", cur["KRW"].AdvancePayment.String())
	assert.Equal(t, "-200", cur["KRW"].Prepayment.String())
	assert.Equal(t, "120", cur["USD"].Total.String())
}

func TestProjectAnalysis_EmptyInput(t *testing.T) {
	a := NewProjectAnalysis()
	a.Generate(nil)

	assert.Empty(t, a.Err)
	assert.Empty(t, a.Summaries())
	assert.Empty(t, a.Filtered())
	assert.Equal(t, Stats{}, a.Stats())
}

func TestProjectAnalysis_FilterRecomputesTotals(t *testing.T) {
	paid := record("PM팀", "M-1", "", "선급금", 1000)
	paid.PaymentStatus = "지급완료"
	pending := record("PM팀", "M-2", "", "선급금", 300)
	pending.PaymentStatus = "지급대기"
	other := record("엔진1팀", "M-3", "", "선수금", -500)
	other.PaymentStatus = "지급대기"

	a := NewProjectAnalysis()
	a.Generate([]model.PaymentRecord{paid, pending, other})
	a.SetFilter(ProjectFilter{PaymentStatus: "지급대기"})

	filtered := a.Filtered()
	require.Len(t, filtered, 2)
	for _, s := range filtered {
		childTotal := decimal.Zero
		for _, c := range s.Children {
			childTotal = childTotal.Add(c.Total)
		}
		assert.True(t, s.TotalAmount.Equal(childTotal),
			"%s total must equal its surviving children", s.Department)
	}

	// PM팀 keeps only the pending project; its rollup shrinks accordingly.
	var pm *DepartmentSummary
	for _, s := range filtered {
		if s.Department == "PM팀" {
			pm = s
		}
	}
	require.NotNil(t, pm)
	assert.Equal(t, "300", pm.TotalAmount.String())
	assert.Equal(t, 1, pm.ChildCount)
	assert.Equal(t, "300", pm.Currencies["KRW"].Total.String(),
		"currency breakdown rebuilds from surviving children")

	// The unfiltered summaries are untouched.
	for _, s := range a.Summaries() {
		if s.Department == "PM팀" {
			assert.Equal(t, "1300", s.TotalAmount.String())
		}
	}
}

func TestProjectAnalysis_FilterPrunesEmptyDepartments(t *testing.T) {
	records := []model.PaymentRecord{
		record("PM팀", "M-1", "", "선급금", 1000),
		record("엔진1팀", "M-2", "", "선수금", -500),
	}

	a := NewProjectAnalysis()
	a.Generate(records)
	a.SetFilter(ProjectFilter{MoldMaster: "m-1"})

	require.Len(t, a.Filtered(), 1)
	assert.Equal(t, "PM팀", a.Filtered()[0].Department)

	a.ClearFilter()
	assert.Len(t, a.Filtered(), 2)
}

func TestProjectAnalysis_DepartmentFilter(t *testing.T) {
	records := []model.PaymentRecord{
		record("PM팀", "M-1", "", "선급금", 1000),
		record("엔진1팀", "M-2", "", "선수금", -500),
	}

	a := NewProjectAnalysis()
	a.Generate(records)
	a.SetFilter(ProjectFilter{Department: "엔진1팀"})

	require.Len(t, a.Filtered(), 1)
	assert.Equal(t, "엔진1팀", a.Filtered()[0].Department)
	assert.Equal(t, "-500", a.Filtered()[0].TotalAmount.String())
}

func TestManagerAnalysis_ProgressLastWriteWins(t *testing.T) {
	first := record("PM팀", "", "김철수", "선급금", 100)
	first.SettlementProgress = "진행중"
	second := record("PM팀", "", "김철수", "선급금", 100)
	second.SettlementProgress = "" // blank never overwrites
	third := record("PM팀", "", "김철수", "선급금", 100)
	third.SettlementProgress = "정산완료"

	a := NewManagerAnalysis()
	a.Generate([]model.PaymentRecord{first, second, third})

	require.Len(t, a.Summaries(), 1)
	require.Len(t, a.Summaries()[0].Children, 1)
	child := a.Summaries()[0].Children[0]
	assert.Equal(t, "정산완료", child.SettlementProgress)
	assert.Equal(t, 3, child.ItemCount)
	assert.Equal(t, "300", child.Total.String())
}

func TestManagerAnalysis_BlankProgressDefaults(t *testing.T) {
	a := NewManagerAnalysis()
	a.Generate([]model.PaymentRecord{record("PM팀", "", "김철수", "선급금", 100)})

	require.Len(t, a.Summaries(), 1)
	assert.Equal(t, model.ProgressNotStarted, a.Summaries()[0].Children[0].SettlementProgress)
}

func TestManagerAnalysis_DistinctManagerStat(t *testing.T) {
	// The same manager collecting for two departments is one manager in
	// the headline count, while per-department child counts still sum to 3.
	records := []model.PaymentRecord{
		record("PM팀", "", "김철수", "선급금", 100),
		record("엔진1팀", "", "김철수", "선수금", -200),
		record("엔진1팀", "", "이영희", "선급금", 50),
	}

	a := NewManagerAnalysis()
	a.Generate(records)

	assert.Equal(t, 2, a.Stats().TotalChildren)

	perDept := 0
	for _, s := range a.Summaries() {
		perDept += s.ChildCount
	}
	assert.Equal(t, 3, perDept)
}

func TestManagerAnalysis_FilterByManager(t *testing.T) {
	records := []model.PaymentRecord{
		record("PM팀", "", "김철수", "선급금", 1000),
		record("PM팀", "", "이영희", "선수금", -400),
		record("엔진1팀", "", "박민수", "선급금", 70),
	}

	a := NewManagerAnalysis()
	a.Generate(records)
	a.SetFilter(ManagerFilter{CollectionManager: "김철수"})

	filtered := a.Filtered()
	require.Len(t, filtered, 1)
	s := filtered[0]
	require.Len(t, s.Children, 1)
	assert.Equal(t, "김철수", s.Children[0].Key)
	assert.True(t, s.TotalAmount.Equal(s.Children[0].Total),
		"department total must equal the surviving child total")
	assert.Equal(t, "1000", s.TotalAmount.String())
}

func TestManagerAnalysis_UnassignedBucket(t *testing.T) {
	a := NewManagerAnalysis()
	a.Generate([]model.PaymentRecord{record("PM팀", "", "", "선급금", 10)})

	require.Len(t, a.Summaries(), 1)
	assert.Equal(t, model.Unassigned, a.Summaries()[0].Children[0].Key)
}

func TestManagerAnalysis_EmptyInputResetsPrevious(t *testing.T) {
	a := NewManagerAnalysis()
	a.Generate([]model.PaymentRecord{record("PM팀", "", "김철수", "선급금", 10)})
	require.Len(t, a.Summaries(), 1)

	a.Generate(nil)
	assert.Empty(t, a.Summaries())
	assert.Equal(t, Stats{}, a.Stats())
}
