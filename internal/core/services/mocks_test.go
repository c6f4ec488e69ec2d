package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransactionManager ---
type passthroughTxManager struct{}

func (passthroughTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionCategoryRepositoryFacade = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, id int64) (*domain.CategoryWithClassification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryWithClassification), args.Error(1)
}

func (m *MockCategoryRepository) FindCategoryByCode(ctx context.Context, code string) (*domain.CategoryWithClassification, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryWithClassification), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, filter portsrepo.CategoryFilter) ([]domain.CategoryWithClassification, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryWithClassification), args.Error(1)
}

func (m *MockCategoryRepository) ListCategoryCodes(ctx context.Context, chartOfAccountID int64) ([]string, error) {
	args := m.Called(ctx, chartOfAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category *domain.TransactionCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.TransactionCategory, expectedVersion int) error {
	args := m.Called(ctx, category, expectedVersion)
	return args.Error(0)
}

func (m *MockCategoryRepository) SoftDeleteCategory(ctx context.Context, id int64, expectedVersion int, userID string, now time.Time) error {
	args := m.Called(ctx, id, expectedVersion, userID, now)
	return args.Error(0)
}

// --- Mock ChartOfAccountRepository ---
type MockChartOfAccountRepository struct {
	mock.Mock
}

var _ portsrepo.ChartOfAccountReader = (*MockChartOfAccountRepository)(nil)

func (m *MockChartOfAccountRepository) FindChartOfAccountByID(ctx context.Context, id int64) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockChartOfAccountRepository) FindChartOfAccountByCode(ctx context.Context, code string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockChartOfAccountRepository) ListChartOfAccounts(ctx context.Context) ([]domain.ChartOfAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartOfAccount), args.Error(1)
}

// --- Mock PartyRelationRepository ---
type MockPartyRelationRepository struct {
	mock.Mock
}

var _ portsrepo.PartyRelationRepositoryFacade = (*MockPartyRelationRepository)(nil)

func (m *MockPartyRelationRepository) FindPartyCategory(ctx context.Context, kind domain.PartyKind, partyID int64, role domain.PartyRole) (*domain.PartyCategoryRelation, error) {
	args := m.Called(ctx, kind, partyID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartyCategoryRelation), args.Error(1)
}

func (m *MockPartyRelationRepository) SavePartyCategoryRelation(ctx context.Context, relation *domain.PartyCategoryRelation) error {
	args := m.Called(ctx, relation)
	return args.Error(0)
}

// --- Mock LineItemReader ---
type MockLineItemReader struct {
	mock.Mock
}

var _ portsrepo.LineItemReader = (*MockLineItemReader)(nil)

func (m *MockLineItemReader) FindActiveLineItemsByReference(ctx context.Context, referenceType domain.PostingReferenceType, referenceID int64) ([]domain.JournalLineItem, error) {
	args := m.Called(ctx, referenceType, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLineItem), args.Error(1)
}

func (m *MockLineItemReader) ListLineItems(ctx context.Context, filter portsrepo.LineItemFilter) ([]domain.JournalLineItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLineItem), args.Error(1)
}

func (m *MockLineItemReader) CountActiveLineItemsByCategory(ctx context.Context, categoryID int64) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}
