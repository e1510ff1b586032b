package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/apbook-dev/apbook/internal/model"
)

// sampleRecord is the placeholder loaded when the source file cannot be
// read or parsed at all, so downstream views are never completely empty.
func sampleRecord(now time.Time) model.PaymentRecord {
	million := decimal.NewFromInt(1000000)
	return model.PaymentRecord{
		ID:                    "sample-1",
		ElectricKey:           1,
		Account:               "0000110630",
		GLAccountName:         "지급금(영업)",
		MoldMaster:            "SAMPLE001",
		MoldMasterDetails:     "Sample Data - CSV 로드 실패",
		ContractNumber:        "SAMPLE",
		CompanyCode:           "99999",
		CompanyName:           "샘플 데이터",
		YearMonth:             "2025-01",
		ElectricDate:          "2025-01-01",
		Currency:              "KRW",
		VoucherCurrencyAmount: million,
		LocalCurrencyAmount:   million,
		BaseDate:              "2025-12-31",
		StartPlanNumber:       "SAMPLE-001",
		PaymentPlanNumber:     "SAMPLE-001",
		Reference:             "CSV 파일 로드 실패로 인한 샘플 데이터",
		CollectionManager:     "시스템",
		Department:            "테스트팀",
		BusinessPlace:         "1000",
		InvestmentBudget:      "TEST",
		VoucherNumber:         "SAMPLE001",
		Text:                  "CSV 파일을 정상적으로 로드할 수 없어 샘플 데이터를 표시합니다.",
		PaymentStatus:         model.StatusNeedsReview,
		Notes:                 "CSV 파일 로드 오류",
		ResponsibleTeam:       "테스트팀",
		SalesManager:          "시스템",
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}
