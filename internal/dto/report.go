package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportQuery holds the query parameters shared by report endpoints.
type ReportQuery struct {
	StartDate          string  `form:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate            string  `form:"endDate" binding:"required,datetime=2006-01-02"`
	ChartOfAccountCode string  `form:"chartOfAccountCode"`
	CategoryIDs        []int64 `form:"categoryId"`
	IncludeChildren    bool    `form:"includeChildren"`
}

// ToDomain parses the query into a report request.
func (q ReportQuery) ToDomain() (domain.ReportRequest, error) {
	start, err := time.Parse(time.DateOnly, q.StartDate)
	if err != nil {
		return domain.ReportRequest{}, fmt.Errorf("invalid startDate %q: %w", q.StartDate, err)
	}
	end, err := time.Parse(time.DateOnly, q.EndDate)
	if err != nil {
		return domain.ReportRequest{}, fmt.Errorf("invalid endDate %q: %w", q.EndDate, err)
	}
	return domain.ReportRequest{
		StartDate:          start,
		EndDate:            end,
		ChartOfAccountCode: q.ChartOfAccountCode,
		CategoryIDs:        q.CategoryIDs,
		IncludeChildren:    q.IncludeChildren,
	}, nil
}

// ReconcileQuery holds the parameters of a reconciliation balance lookup.
type ReconcileQuery struct {
	Date       string `form:"date" binding:"required,datetime=2006-01-02"`
	CategoryID int64  `form:"categoryId" binding:"required,gt=0"`
}

// ReconcileResponse is the bank-currency balance strictly before Date.
type ReconcileResponse struct {
	CategoryID     int64           `json:"categoryID"`
	Date           string          `json:"date"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// TrialBalanceResponse wraps the trial balance rows with their totals.
type TrialBalanceResponse struct {
	AsOf        string                   `json:"asOf"`
	Rows        []domain.TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal          `json:"totalDebit"`
	TotalCredit decimal.Decimal          `json:"totalCredit"`
	Balanced    bool                     `json:"balanced"`
}

// ToTrialBalanceResponse totals the rows of a trial balance.
func ToTrialBalanceResponse(req domain.ReportRequest, rows []domain.TrialBalanceRow) TrialBalanceResponse {
	debit, credit := decimal.Zero, decimal.Zero
	for _, r := range rows {
		debit = debit.Add(r.Debit)
		credit = credit.Add(r.Credit)
	}
	if rows == nil {
		rows = []domain.TrialBalanceRow{}
	}
	return TrialBalanceResponse{
		AsOf:        req.EndDate.Format(time.DateOnly),
		Rows:        rows,
		TotalDebit:  debit,
		TotalCredit: credit,
		Balanced:    debit.Equal(credit),
	}
}
