package export

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apbook-dev/apbook/internal/analysis"
)

func sampleSummaries() []*analysis.DepartmentSummary {
	return []*analysis.DepartmentSummary{
		{
			Department:          "PM팀",
			TotalAdvancePayment: decimal.NewFromInt(1000000),
			TotalPrepayment:     decimal.NewFromInt(-500000),
			TotalAmount:         decimal.NewFromInt(500000),
			ItemCount:           3,
			ChildCount:          2,
			Children: []*analysis.Entity{
				{
					Department:         "PM팀",
					Key:                "M-100",
					Details:            "금형A",
					SettlementProgress: "진행중",
					PaymentStatus:      "지급완료",
					Currency:           "KRW",
					AdvancePayment:     decimal.NewFromInt(1000000),
					Total:              decimal.NewFromInt(1000000),
					ItemCount:          2,
				},
				{
					Department:         "PM팀",
					Key:                "M-200",
					SettlementProgress: "미진행",
					Currency:           "KRW",
					Prepayment:         decimal.NewFromInt(-500000),
					Total:              decimal.NewFromInt(-500000),
					ItemCount:          1,
				},
			},
		},
	}
}

func TestWriteProjectCSV(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteProjectCSV(&buf, sampleSummaries()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "\uFEFF"), "output must carry a BOM")

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\uFEFF"), "\n"), "\n")
	require.Len(t, lines, 5) // header, 2 children, subtotal, separator

	assert.Equal(t, `"부서","금형마스터","금형마스터내역","정산진행현황","대금지급","선급금","선수금","합계","통화","항목수"`, lines[0])
	assert.Equal(t, `"PM팀","M-100","금형A","진행중","지급완료","1,000,000","0","1,000,000","KRW","2"`, lines[1])
	assert.Equal(t, `"PM팀","M-200","","미진행","","0","-500,000","-500,000","KRW","1"`, lines[2])
	assert.Equal(t, `"PM팀 소계","","","","","1,000,000","-500,000","500,000","","3"`, lines[3])
	assert.Equal(t, `""`, lines[4], "blank separator row after each department")
}

func TestWriteManagerCSV(t *testing.T) {
	summaries := []*analysis.DepartmentSummary{
		{
			Department:      "엔진1팀",
			TotalPrepayment: decimal.NewFromInt(-500000),
			TotalAmount:     decimal.NewFromInt(-500000),
			ItemCount:       1,
			ChildCount:      1,
			Children: []*analysis.Entity{
				{
					Department:         "엔진1팀",
					Key:                "이영희",
					SettlementProgress: "정산완료",
					Prepayment:         decimal.NewFromInt(-500000),
					Total:              decimal.NewFromInt(-500000),
					ItemCount:          1,
				},
			},
		},
	}

	var buf strings.Builder
	require.NoError(t, WriteManagerCSV(&buf, summaries))

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(buf.String(), "\uFEFF"), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `"부서","회수담당","정산진행현황","선급금","선수금","합계","항목수"`, lines[0])
	assert.Equal(t, `"엔진1팀","이영희","정산완료","0","-500,000","-500,000","1"`, lines[1])
	assert.Equal(t, `"엔진1팀 소계","","","0","-500,000","-500,000","1"`, lines[2])
	assert.Equal(t, `""`, lines[3])
}

func TestWriteProjectCSV_EscapesEmbeddedQuotes(t *testing.T) {
	summaries := sampleSummaries()
	summaries[0].Children[0].Details = `별칭 "에이스" 금형`

	var buf strings.Builder
	require.NoError(t, WriteProjectCSV(&buf, summaries))
	assert.Contains(t, buf.String(), `"별칭 ""에이스"" 금형"`)
}

func TestAmountFormatting(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(1000000), "1,000,000"},
		{decimal.NewFromInt(-500000), "-500,000"},
		{decimal.NewFromInt(0), "0"},
		{decimal.NewFromFloat(3500.25), "3,500.25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, amount(tt.in), "amount(%s)", tt.in)
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 1, 31, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "프로젝트별_분석_2025-01-31.csv", FileName("프로젝트별_분석", now))
}
