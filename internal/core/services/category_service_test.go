package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/cache"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type CategoryServiceTestSuite struct {
	suite.Suite
	mockCategoryRepo *MockCategoryRepository
	mockCOARepo      *MockChartOfAccountRepository
	mockPartyRepo    *MockPartyRelationRepository
	mockLineItems    *MockLineItemReader
	service          portssvc.CategorySvcFacade
	now              time.Time
	rent             domain.CategoryWithClassification
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockCOARepo = new(MockChartOfAccountRepository)
	suite.mockPartyRepo = new(MockPartyRelationRepository)
	suite.mockLineItems = new(MockLineItemReader)
	suite.now = time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC)

	suite.service = services.NewCategoryService(
		passthroughTxManager{},
		suite.mockCategoryRepo,
		suite.mockCOARepo,
		suite.mockPartyRepo,
		suite.mockLineItems,
		services.WithCategoryCache(
			cache.NewTTLCache[string, domain.CategoryWithClassification](time.Minute),
			cache.NewTTLCache[string, map[string][]domain.CategoryWithClassification](time.Minute),
		),
		services.WithCategoryClock(func() time.Time { return suite.now }),
	)

	suite.rent = domain.CategoryWithClassification{
		TransactionCategory: domain.TransactionCategory{
			ID:               41,
			Name:             "Rent",
			Code:             "05-02-004",
			ChartOfAccountID: 12,
			Editable:         true,
			Selectable:       true,
			VersionNumber:    3,
		},
		ChartOfAccountCode: domain.COAOperatingExpense,
		Classification:     domain.Expense,
	}
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}

// --- Test Cases ---

func (suite *CategoryServiceTestSuite) TestGetCategoryByCode_IsCached() {
	ctx := context.Background()
	suite.mockCategoryRepo.On("FindCategoryByCode", ctx, "05-02-004").Return(&suite.rent, nil).Once()

	first, err := suite.service.GetCategoryByCode(ctx, "05-02-004")
	suite.Require().NoError(err)
	second, err := suite.service.GetCategoryByCode(ctx, "05-02-004")
	suite.Require().NoError(err)
	byID, err := suite.service.GetCategoryByID(ctx, suite.rent.ID)
	suite.Require().NoError(err)

	suite.Equal(first.ID, second.ID)
	suite.Equal(first.ID, byID.ID)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestGetCategoryByID_DeletedIsNotFound() {
	ctx := context.Background()
	deleted := suite.rent
	deleted.DeleteFlag = true
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, deleted.ID).Return(&deleted, nil).Once()

	_, err := suite.service.GetCategoryByID(ctx, deleted.ID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CategoryServiceTestSuite) TestListDropdown_GroupsAndCaches() {
	ctx := context.Background()
	bank := domain.CategoryWithClassification{
		TransactionCategory: domain.TransactionCategory{ID: 2, Code: domain.CodeBank, Selectable: true},
		ChartOfAccountCode:  domain.COABank,
	}
	suite.mockCategoryRepo.On("ListCategories", ctx, portsrepo.CategoryFilter{SelectableOnly: true}).
		Return([]domain.CategoryWithClassification{bank, suite.rent}, nil).Once()

	grouped, err := suite.service.ListDropdown(ctx)
	suite.Require().NoError(err)
	suite.Len(grouped, 2)
	suite.Len(grouped[domain.COABank], 1)

	_, err = suite.service.ListDropdown(ctx)
	suite.Require().NoError(err)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_UnknownChartOfAccount() {
	ctx := context.Background()
	suite.mockCOARepo.On("FindChartOfAccountByCode", ctx, "09-09").Return(nil, apperrors.NewNotFoundError("chart of account 09-09")).Once()

	_, err := suite.service.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "X", ChartOfAccountCode: "09-09"}, "u1")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "SaveCategory", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_AssignsNextCodeAndInvalidatesCache() {
	ctx := context.Background()
	coa := &domain.ChartOfAccount{ID: 12, Code: domain.COAOperatingExpense, Classification: domain.Expense}
	suite.mockCOARepo.On("FindChartOfAccountByCode", ctx, domain.COAOperatingExpense).Return(coa, nil).Once()
	suite.mockCategoryRepo.On("ListCategoryCodes", ctx, int64(12)).Return([]string{"05-02-001", "05-02-003", "05-02-004"}, nil).Once()
	suite.mockCategoryRepo.On("SaveCategory", ctx, mock.AnythingOfType("*domain.TransactionCategory")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.TransactionCategory).ID = 50 }).
		Return(nil).Once()
	// Warm the cache, then expect a second repository read after the write.
	suite.mockCategoryRepo.On("FindCategoryByCode", ctx, "05-02-004").Return(&suite.rent, nil).Twice()
	_, err := suite.service.GetCategoryByCode(ctx, "05-02-004")
	suite.Require().NoError(err)

	created, err := suite.service.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "  Utilities ", ChartOfAccountCode: domain.COAOperatingExpense}, "u1")
	suite.Require().NoError(err)
	suite.Equal("05-02-005", created.Code)
	suite.Equal("Utilities", created.Name)
	suite.Equal(1, created.VersionNumber)
	suite.True(created.Editable)
	suite.Equal("u1", created.CreatedBy)
	suite.True(created.CreatedAt.Equal(suite.now))

	_, err = suite.service.GetCategoryByCode(ctx, "05-02-004")
	suite.Require().NoError(err)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_StaleVersionConflicts() {
	ctx := context.Background()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.rent.ID).Return(&suite.rent, nil).Once()

	name := "Office Rent"
	_, err := suite.service.UpdateCategory(ctx, suite.rent.ID, dto.UpdateCategoryRequest{Name: &name, VersionNumber: 2}, "u1")
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "UpdateCategory", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_Success() {
	ctx := context.Background()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.rent.ID).Return(&suite.rent, nil).Once()
	suite.mockLineItems.On("CountActiveLineItemsByCategory", ctx, suite.rent.ID).Return(0, nil).Once()
	suite.mockCategoryRepo.On("UpdateCategory", ctx, mock.MatchedBy(func(c domain.TransactionCategory) bool {
		return c.Name == "Office Rent" && c.VersionNumber == 4
	}), 3).Return(nil).Once()

	name := "Office Rent"
	updated, err := suite.service.UpdateCategory(ctx, suite.rent.ID, dto.UpdateCategoryRequest{Name: &name, VersionNumber: 3}, "u1")
	suite.Require().NoError(err)
	suite.Equal(4, updated.VersionNumber)
	suite.Equal("u1", updated.LastUpdatedBy)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_ConcurrentWriteConflicts() {
	ctx := context.Background()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.rent.ID).Return(&suite.rent, nil).Once()
	suite.mockLineItems.On("CountActiveLineItemsByCategory", ctx, suite.rent.ID).Return(0, nil).Once()
	suite.mockCategoryRepo.On("UpdateCategory", ctx, mock.Anything, 3).Return(apperrors.ErrConflict).Once()

	desc := "moved"
	_, err := suite.service.UpdateCategory(ctx, suite.rent.ID, dto.UpdateCategoryRequest{Description: &desc, VersionNumber: 3}, "u1")
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_SystemCategoryIsNotEditable() {
	ctx := context.Background()
	system := suite.rent
	system.Editable = false
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, system.ID).Return(&system, nil).Once()

	err := suite.service.DeleteCategory(ctx, system.ID, system.VersionNumber, "u1")
	suite.ErrorIs(err, apperrors.ErrCategoryNotEditable)
	suite.mockLineItems.AssertNotCalled(suite.T(), "CountActiveLineItemsByCategory", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_Success() {
	ctx := context.Background()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.rent.ID).Return(&suite.rent, nil).Once()
	suite.mockLineItems.On("CountActiveLineItemsByCategory", ctx, suite.rent.ID).Return(0, nil).Once()
	suite.mockCategoryRepo.On("SoftDeleteCategory", ctx, suite.rent.ID, 3, "u1", suite.now).Return(nil).Once()

	suite.NoError(suite.service.DeleteCategory(ctx, suite.rent.ID, 3, "u1"))
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestCreatePartyCategories_MissingParentIsPrecondition() {
	ctx := context.Background()
	suite.mockPartyRepo.On("FindPartyCategory", ctx, domain.PartyContact, int64(9), domain.RolePayable).
		Return(nil, apperrors.NewNotFoundError("relation")).Once()
	suite.mockCategoryRepo.On("FindCategoryByCode", ctx, domain.CodeAccountsPayable).
		Return(nil, apperrors.NewNotFoundError("category")).Once()

	_, err := suite.service.CreatePartyCategories(ctx, domain.Party{
		Kind: domain.PartyContact, ID: 9, ContactType: domain.ContactTypeSupplier, Organization: "Parts Co",
	}, "u1")
	suite.ErrorIs(err, apperrors.ErrPrecondition)
}

func (suite *CategoryServiceTestSuite) TestCreatePartyCategories_RejectsUnknownContactType() {
	_, err := suite.service.CreatePartyCategories(context.Background(), domain.Party{
		Kind: domain.PartyContact, ID: 9, ContactType: 7, Organization: "Parts Co",
	}, "u1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}
