package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock PostingService ---
type MockPostingService struct {
	mock.Mock
}

var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

func (m *MockPostingService) Post(ctx context.Context, req domain.PostingRequest, actorUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockPostingService) Reverse(ctx context.Context, originalType domain.PostingReferenceType, referenceID int64, actorUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, originalType, referenceID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockPostingService) ReverseAs(ctx context.Context, originalType domain.PostingReferenceType, referenceID int64, reversalType domain.PostingReferenceType, actorUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, originalType, referenceID, reversalType, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalReaderSvc = (*MockJournalService)(nil)

func (m *MockJournalService) GetJournal(ctx context.Context, referenceType domain.PostingReferenceType, referenceID int64) (*domain.Journal, error) {
	args := m.Called(ctx, referenceType, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) ListLineItems(ctx context.Context, req domain.ReportRequest) ([]domain.JournalLineItem, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLineItem), args.Error(1)
}

// --- Mock CategoryService ---
type MockCategoryService struct {
	mock.Mock
}

var _ portssvc.CategorySvcFacade = (*MockCategoryService)(nil)

func (m *MockCategoryService) GetCategoryByID(ctx context.Context, id int64) (*domain.CategoryWithClassification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryWithClassification), args.Error(1)
}

func (m *MockCategoryService) GetCategoryByCode(ctx context.Context, code string) (*domain.CategoryWithClassification, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryWithClassification), args.Error(1)
}

func (m *MockCategoryService) IsEditable(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryService) ListDropdown(ctx context.Context) (map[string][]domain.CategoryWithClassification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.CategoryWithClassification), args.Error(1)
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, actorUserID string) (*domain.TransactionCategory, error) {
	args := m.Called(ctx, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionCategory), args.Error(1)
}

func (m *MockCategoryService) UpdateCategory(ctx context.Context, id int64, req dto.UpdateCategoryRequest, actorUserID string) (*domain.TransactionCategory, error) {
	args := m.Called(ctx, id, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionCategory), args.Error(1)
}

func (m *MockCategoryService) DeleteCategory(ctx context.Context, id int64, expectedVersion int, actorUserID string) error {
	args := m.Called(ctx, id, expectedVersion, actorUserID)
	return args.Error(0)
}

func (m *MockCategoryService) CreatePartyCategories(ctx context.Context, party domain.Party, actorUserID string) ([]domain.PartyCategoryRelation, error) {
	args := m.Called(ctx, party, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PartyCategoryRelation), args.Error(1)
}

// --- Mock ClosingBalanceService ---
type MockClosingBalanceService struct {
	mock.Mock
}

var _ portssvc.ClosingBalanceSvcFacade = (*MockClosingBalanceService)(nil)

func (m *MockClosingBalanceService) GetList(ctx context.Context, req domain.ReportRequest) ([]domain.CategoryBalance, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryBalance), args.Error(1)
}

func (m *MockClosingBalanceService) ListSnapshots(ctx context.Context, req domain.ReportRequest) ([]domain.TransactionCategoryClosingBalance, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionCategoryClosingBalance), args.Error(1)
}

func (m *MockClosingBalanceService) MatchClosingBalanceForReconcile(ctx context.Context, date time.Time, categoryID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, date, categoryID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockClosingBalanceService) UpdateClosingBalance(ctx context.Context, lineItem domain.JournalLineItem) error {
	return m.Called(ctx, lineItem).Error(0)
}

func (m *MockClosingBalanceService) RevertClosingBalance(ctx context.Context, lineItem domain.JournalLineItem) error {
	return m.Called(ctx, lineItem).Error(0)
}

func (m *MockClosingBalanceService) RebuildClosingBalances(ctx context.Context, categoryID int64) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingSvc = (*MockReportingService)(nil)

func (m *MockReportingService) GeneralLedger(ctx context.Context, req domain.ReportRequest) ([]domain.GeneralLedgerAccount, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeneralLedgerAccount), args.Error(1)
}

func (m *MockReportingService) TrialBalance(ctx context.Context, req domain.ReportRequest) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}
