package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/handlers"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type HandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockPosting        *MockPostingService
	mockJournal        *MockJournalService
	mockCategory       *MockCategoryService
	mockClosingBalance *MockClosingBalanceService
	mockReporting      *MockReportingService
	healthErr          error
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.healthErr = nil

	suite.mockPosting = new(MockPostingService)
	suite.mockJournal = new(MockJournalService)
	suite.mockCategory = new(MockCategoryService)
	suite.mockClosingBalance = new(MockClosingBalanceService)
	suite.mockReporting = new(MockReportingService)

	handlers.RegisterRoutes(suite.router, &portssvc.ServiceContainer{
		Posting:        suite.mockPosting,
		Category:       suite.mockCategory,
		ClosingBalance: suite.mockClosingBalance,
		Journal:        suite.mockJournal,
		Reporting:      suite.mockReporting,
	}, func(ctx context.Context) error { return suite.healthErr })
}

func (suite *HandlerTestSuite) do(method, url string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) errorMessage(w *httptest.ResponseRecorder) string {
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func sampleJournal() *domain.Journal {
	return &domain.Journal{
		ID:                   "j-1",
		PostingReferenceType: domain.RefInvoice,
		ReferenceID:          7,
		JournalDate:          time.Date(2024, time.December, 3, 0, 0, 0, 0, time.UTC),
		LineItems: []domain.JournalLineItem{
			{TransactionCategoryID: 1, DebitAmount: decimal.NewFromInt(500), CreditAmount: decimal.Zero, ReferenceType: domain.RefInvoice, ExchangeRate: decimal.NewFromInt(1), OrderSequence: 1},
			{TransactionCategoryID: 2, DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(500), ReferenceType: domain.RefInvoice, ExchangeRate: decimal.NewFromInt(1), OrderSequence: 2},
		},
	}
}

func invoiceBody(amount string) map[string]any {
	return map[string]any{
		"referenceType": "INVOICE",
		"referenceID":   7,
		"amount":        amount,
		"journalDate":   "2024-12-03",
		"partyKind":     "CONTACT",
		"partyID":       10,
		"partyRole":     "RECEIVABLE",
	}
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestPost_Created() {
	suite.mockPosting.On("Post", mock.Anything, mock.MatchedBy(func(r domain.PostingRequest) bool {
		return r.ReferenceType == domain.RefInvoice &&
			r.ReferenceID == 7 &&
			r.Amount.Equal(decimal.NewFromInt(500)) &&
			r.Party != nil && r.Party.ID == 10 && r.Party.Role == domain.RoleReceivable &&
			r.JournalDate.Equal(time.Date(2024, time.December, 3, 0, 0, 0, 0, time.UTC))
	}), "user-42").Return(sampleJournal(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/postings", invoiceBody("500"), middleware.ActorHeader, "user-42")

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Posted)
	suite.True(resp.TotalDebit.Equal(decimal.NewFromInt(500)))
	suite.True(resp.TotalCredit.Equal(resp.TotalDebit))
	suite.Require().NotNil(resp.Journal)
	suite.Equal(domain.RefInvoice, resp.Journal.PostingReferenceType)
	suite.mockPosting.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestPost_ZeroAmountPostsNothing() {
	suite.mockPosting.On("Post", mock.Anything, mock.Anything, middleware.SystemActor).Return(nil, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/postings", invoiceBody("0"))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Posted)
	suite.Nil(resp.Journal)
	suite.mockPosting.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestPost_PreconditionIsUnprocessable() {
	suite.mockPosting.On("Post", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: no RECEIVABLE relation for CONTACT 10", apperrors.ErrPrecondition)).Once()

	w := suite.do(http.MethodPost, "/api/v1/postings", invoiceBody("500"))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(suite.errorMessage(w), "RECEIVABLE relation")
}

func (suite *HandlerTestSuite) TestPost_RejectsUnknownReferenceType() {
	body := invoiceBody("500")
	body["referenceType"] = 999

	w := suite.do(http.MethodPost, "/api/v1/postings", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPosting.AssertNotCalled(suite.T(), "Post", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestPost_RejectsMalformedCurrency() {
	body := invoiceBody("500")
	body["currencyCode"] = "usd"

	w := suite.do(http.MethodPost, "/api/v1/postings", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPosting.AssertNotCalled(suite.T(), "Post", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestPost_InternalErrorHidesCause() {
	suite.mockPosting.On("Post", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewInternalError("save journal", errors.New("connection reset by peer"))).Once()

	w := suite.do(http.MethodPost, "/api/v1/postings", invoiceBody("500"))

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to post journal", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestReverse_WithExplicitReversalType() {
	suite.mockPosting.On("ReverseAs", mock.Anything, domain.RefBankAccount, int64(3), domain.RefDeleteBankAccount, "user-42").
		Return(sampleJournal(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/postings/reverse", map[string]any{
		"referenceType": "BANK_ACCOUNT",
		"referenceID":   3,
		"reversalType":  "DELETE_BANK_ACCOUNT",
	}, middleware.ActorHeader, "user-42")

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockPosting.AssertExpectations(suite.T())
	suite.mockPosting.AssertNotCalled(suite.T(), "Reverse", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestReverse_NothingToReverse() {
	suite.mockPosting.On("Reverse", mock.Anything, domain.RefInvoice, int64(8), middleware.SystemActor).Return(nil, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/postings/reverse", map[string]any{"referenceType": 1, "referenceID": 8})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Posted)
}

func (suite *HandlerTestSuite) TestGetJournal_ByNameAndNumber() {
	suite.mockJournal.On("GetJournal", mock.Anything, domain.RefInvoice, int64(7)).Return(sampleJournal(), nil).Twice()

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/journals/invoice/7", nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/journals/1/7", nil).Code)
	suite.mockJournal.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestGetJournal_NotFound() {
	suite.mockJournal.On("GetJournal", mock.Anything, domain.RefExpense, int64(9)).
		Return(nil, apperrors.NewNotFoundError("journal EXPENSE/9")).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/EXPENSE/9", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestGetJournal_BadType() {
	w := suite.do(http.MethodGet, "/api/v1/journals/NOPE/9", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournal.AssertNotCalled(suite.T(), "GetJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateCategory_RejectsBadChartOfAccountCode() {
	w := suite.do(http.MethodPost, "/api/v1/categories", map[string]any{
		"name":               "Rent",
		"chartOfAccountCode": "5-2",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockCategory.AssertNotCalled(suite.T(), "CreateCategory", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateCategory_Created() {
	suite.mockCategory.On("CreateCategory", mock.Anything, mock.MatchedBy(func(r dto.CreateCategoryRequest) bool {
		return r.ChartOfAccountCode == "05-02" && r.Name == "Rent"
	}), "user-42").Return(&domain.TransactionCategory{ID: 41, Code: "05-02-005", Name: "Rent", VersionNumber: 1}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/categories", map[string]any{
		"name":               "Rent",
		"chartOfAccountCode": "05-02",
	}, middleware.ActorHeader, "user-42")

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.CategoryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("05-02-005", resp.Code)
}

func (suite *HandlerTestSuite) TestUpdateCategory_ConflictIs409() {
	suite.mockCategory.On("UpdateCategory", mock.Anything, int64(41), mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: category 41 changed", apperrors.ErrConflict)).Once()

	w := suite.do(http.MethodPut, "/api/v1/categories/41", map[string]any{"name": "Office rent", "versionNumber": 2})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteCategory_RequiresVersion() {
	w := suite.do(http.MethodDelete, "/api/v1/categories/41", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockCategory.AssertNotCalled(suite.T(), "DeleteCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestDeleteCategory_NoContent() {
	suite.mockCategory.On("DeleteCategory", mock.Anything, int64(41), 3, middleware.SystemActor).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/categories/41?versionNumber=3", nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockCategory.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestDeleteCategory_NotEditable() {
	suite.mockCategory.On("DeleteCategory", mock.Anything, int64(41), 3, mock.Anything).
		Return(fmt.Errorf("%w: category 41 has posted line items", apperrors.ErrCategoryNotEditable)).Once()

	w := suite.do(http.MethodDelete, "/api/v1/categories/41?versionNumber=3", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestGetCategory_BadID() {
	w := suite.do(http.MethodGet, "/api/v1/categories/abc", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestRebuildClosingBalances() {
	suite.mockClosingBalance.On("RebuildClosingBalances", mock.Anything, int64(41)).Return(4, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/categories/41/closing-balances/rebuild", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body map[string]int64
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(int64(4), body["snapshots"])
}

func (suite *HandlerTestSuite) TestTrialBalance_Totals() {
	rows := []domain.TrialBalanceRow{
		{Category: domain.CategoryWithClassification{TransactionCategory: domain.TransactionCategory{ID: 1}}, Debit: decimal.NewFromInt(700), Credit: decimal.Zero},
		{Category: domain.CategoryWithClassification{TransactionCategory: domain.TransactionCategory{ID: 2}}, Debit: decimal.Zero, Credit: decimal.NewFromInt(700)},
	}
	suite.mockReporting.On("TrialBalance", mock.Anything, mock.MatchedBy(func(r domain.ReportRequest) bool {
		return r.EndDate.Equal(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC))
	})).Return(rows, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance?startDate=2024-12-01&endDate=2024-12-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TrialBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("2024-12-31", resp.AsOf)
	suite.True(resp.Balanced)
	suite.True(resp.TotalDebit.Equal(decimal.NewFromInt(700)))
}

func (suite *HandlerTestSuite) TestReports_RequireDates() {
	w := suite.do(http.MethodGet, "/api/v1/reports/general-ledger?startDate=2024-12-01", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReporting.AssertNotCalled(suite.T(), "GeneralLedger", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestReconcileBalance() {
	suite.mockClosingBalance.On("MatchClosingBalanceForReconcile", mock.Anything,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), int64(5)).
		Return(decimal.RequireFromString("1250.50"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reconcile/closing-balance?date=2025-01-01&categoryId=5", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ReconcileResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.ClosingBalance.Equal(decimal.RequireFromString("1250.50")))
	suite.Equal(int64(5), resp.CategoryID)
}

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())

	suite.healthErr = errors.New("pool closed")
	w = suite.do(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *HandlerTestSuite) TestMetricsEndpoint() {
	w := suite.do(http.MethodGet, "/metrics", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "go_goroutines")
}

// --- Run Test Suite ---
func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
