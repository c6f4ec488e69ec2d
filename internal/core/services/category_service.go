package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/cache"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

const dropdownCacheKey = "dropdown"

// categoryService is the transaction category registry.
type categoryService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	categoryRepo  portsrepo.TransactionCategoryRepositoryFacade
	coaRepo       portsrepo.ChartOfAccountReader
	partyRepo     portsrepo.PartyRelationRepositoryFacade
	lineItemRepo  portsrepo.LineItemReader
	categoryCache cache.Cache[string, domain.CategoryWithClassification]
	dropdownCache cache.Cache[string, map[string][]domain.CategoryWithClassification]
}

// CategoryServiceOption is a functional option for configuring the category service
type CategoryServiceOption func(*categoryService)

// WithCategoryCache enables read-through caching of category lookups and the dropdown.
func WithCategoryCache(
	categories cache.Cache[string, domain.CategoryWithClassification],
	dropdown cache.Cache[string, map[string][]domain.CategoryWithClassification],
) CategoryServiceOption {
	return func(s *categoryService) {
		s.categoryCache = categories
		s.dropdownCache = dropdown
	}
}

// WithCategoryClock sets the clock used for audit fields.
func WithCategoryClock(now func() time.Time) CategoryServiceOption {
	return func(s *categoryService) {
		s.Now = now
	}
}

// NewCategoryService creates the category registry. Caching is off unless WithCategoryCache is given.
func NewCategoryService(
	txManager portsrepo.TransactionManager,
	categoryRepo portsrepo.TransactionCategoryRepositoryFacade,
	coaRepo portsrepo.ChartOfAccountReader,
	partyRepo portsrepo.PartyRelationRepositoryFacade,
	lineItemRepo portsrepo.LineItemReader,
	options ...CategoryServiceOption,
) portssvc.CategorySvcFacade {
	svc := &categoryService{
		txManager:     txManager,
		categoryRepo:  categoryRepo,
		coaRepo:       coaRepo,
		partyRepo:     partyRepo,
		lineItemRepo:  lineItemRepo,
		categoryCache: cache.NoopCache[string, domain.CategoryWithClassification]{},
		dropdownCache: cache.NoopCache[string, map[string][]domain.CategoryWithClassification]{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func idKey(id int64) string { return fmt.Sprintf("id:%d", id) }

func codeKey(code string) string { return "code:" + code }

// invalidate drops every cached entry. Codes, names and the dropdown can all change together.
func (s *categoryService) invalidate() {
	s.categoryCache.Clear()
	s.dropdownCache.Clear()
}

// GetCategoryByID retrieves a non-deleted category.
func (s *categoryService) GetCategoryByID(ctx context.Context, id int64) (*domain.CategoryWithClassification, error) {
	if cached, ok := s.categoryCache.Get(idKey(id)); ok {
		return &cached, nil
	}
	cat, err := s.categoryRepo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find category %d: %w", id, err)
	}
	if cat.DeleteFlag {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("category %d", id))
	}
	s.categoryCache.Set(idKey(id), *cat)
	return cat, nil
}

// GetCategoryByCode resolves a code to its category.
func (s *categoryService) GetCategoryByCode(ctx context.Context, code string) (*domain.CategoryWithClassification, error) {
	if cached, ok := s.categoryCache.Get(codeKey(code)); ok {
		return &cached, nil
	}
	cat, err := s.categoryRepo.FindCategoryByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find category %s: %w", code, err)
	}
	s.categoryCache.Set(codeKey(code), *cat)
	s.categoryCache.Set(idKey(cat.ID), *cat)
	return cat, nil
}

// IsEditable is false for system categories and for categories that carry posted legs.
func (s *categoryService) IsEditable(ctx context.Context, id int64) (bool, error) {
	cat, err := s.categoryRepo.FindCategoryByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to find category %d: %w", id, err)
	}
	if cat.DeleteFlag {
		return false, apperrors.NewNotFoundError(fmt.Sprintf("category %d", id))
	}
	return s.editable(ctx, cat.TransactionCategory)
}

func (s *categoryService) editable(ctx context.Context, cat domain.TransactionCategory) (bool, error) {
	if !cat.Editable {
		return false, nil
	}
	count, err := s.lineItemRepo.CountActiveLineItemsByCategory(ctx, cat.ID)
	if err != nil {
		return false, fmt.Errorf("failed to count line items of category %d: %w", cat.ID, err)
	}
	return count == 0, nil
}

// ListDropdown returns selectable categories grouped by chart of account code.
func (s *categoryService) ListDropdown(ctx context.Context) (map[string][]domain.CategoryWithClassification, error) {
	if cached, ok := s.dropdownCache.Get(dropdownCacheKey); ok {
		return cached, nil
	}
	categories, err := s.categoryRepo.ListCategories(ctx, portsrepo.CategoryFilter{SelectableOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	grouped := make(map[string][]domain.CategoryWithClassification)
	for _, c := range categories {
		grouped[c.ChartOfAccountCode] = append(grouped[c.ChartOfAccountCode], c)
	}
	s.dropdownCache.Set(dropdownCacheKey, grouped)
	return grouped, nil
}

// CreateCategory creates a category under a chart of account with the next free code.
func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, actorUserID string) (*domain.TransactionCategory, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}
	coa, err := s.coaRepo.FindChartOfAccountByCode(ctx, req.ChartOfAccountCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown chart of account %q", apperrors.ErrValidation, req.ChartOfAccountCode)
		}
		return nil, fmt.Errorf("failed to find chart of account %s: %w", req.ChartOfAccountCode, err)
	}
	if req.ParentID != nil {
		parent, err := s.GetCategoryByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ChartOfAccountID != coa.ID {
			return nil, fmt.Errorf("%w: parent category %s belongs to another chart of account", apperrors.ErrValidation, parent.Code)
		}
	}

	cat := &domain.TransactionCategory{
		Name:             name,
		Description:      req.Description,
		ParentID:         req.ParentID,
		ChartOfAccountID: coa.ID,
		Editable:         boolOr(req.Editable, true),
		Selectable:       boolOr(req.Selectable, true),
	}
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.insertCategory(ctx, cat, coa.Code, actorUserID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create category", slog.String("chart_of_account", coa.Code))
		return nil, err
	}
	s.invalidate()
	s.LogInfo(ctx, "Category created", slog.Int64("category_id", cat.ID), slog.String("code", cat.Code))
	return cat, nil
}

// insertCategory assigns the next code under the chart of account and saves cat at version 1.
func (s *categoryService) insertCategory(ctx context.Context, cat *domain.TransactionCategory, coaCode, actorUserID string) error {
	codes, err := s.categoryRepo.ListCategoryCodes(ctx, cat.ChartOfAccountID)
	if err != nil {
		return fmt.Errorf("failed to list category codes: %w", err)
	}
	code, err := domain.NextCategoryCode(coaCode, codes)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvariantViolation, err)
	}
	cat.Code = code
	cat.VersionNumber = 1
	cat.Touch(actorUserID, s.now())
	if err := s.categoryRepo.SaveCategory(ctx, cat); err != nil {
		return fmt.Errorf("failed to save category %s: %w", code, err)
	}
	return nil
}

// UpdateCategory applies the request if the caller saw the current version.
func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req dto.UpdateCategoryRequest, actorUserID string) (*domain.TransactionCategory, error) {
	current, err := s.categoryRepo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find category %d: %w", id, err)
	}
	if current.DeleteFlag {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("category %d", id))
	}
	if current.VersionNumber != req.VersionNumber {
		return nil, fmt.Errorf("%w: category %d is at version %d, not %d", apperrors.ErrConflict, id, current.VersionNumber, req.VersionNumber)
	}
	ok, err := s.editable(ctx, current.TransactionCategory)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: category %s", apperrors.ErrCategoryNotEditable, current.Code)
	}

	updated := current.TransactionCategory
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category name must not be empty", apperrors.ErrValidation)
		}
		updated.Name = name
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Selectable != nil {
		updated.Selectable = *req.Selectable
	}
	updated.VersionNumber = req.VersionNumber + 1
	updated.Touch(actorUserID, s.now())

	if err := s.categoryRepo.UpdateCategory(ctx, updated, req.VersionNumber); err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.Int64("category_id", id))
		return nil, fmt.Errorf("failed to update category %d: %w", id, err)
	}
	s.invalidate()
	s.LogInfo(ctx, "Category updated", slog.Int64("category_id", id), slog.Int("version", updated.VersionNumber))
	return &updated, nil
}

// DeleteCategory soft-deletes an unused category.
func (s *categoryService) DeleteCategory(ctx context.Context, id int64, expectedVersion int, actorUserID string) error {
	current, err := s.categoryRepo.FindCategoryByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find category %d: %w", id, err)
	}
	if current.DeleteFlag {
		return apperrors.NewNotFoundError(fmt.Sprintf("category %d", id))
	}
	if expectedVersion != current.VersionNumber {
		return fmt.Errorf("%w: category %d is at version %d, not %d", apperrors.ErrConflict, id, current.VersionNumber, expectedVersion)
	}
	ok, err := s.editable(ctx, current.TransactionCategory)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: category %s", apperrors.ErrCategoryNotEditable, current.Code)
	}
	if err := s.categoryRepo.SoftDeleteCategory(ctx, id, expectedVersion, actorUserID, s.now()); err != nil {
		s.LogError(ctx, err, "Failed to delete category", slog.Int64("category_id", id))
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	s.invalidate()
	s.LogInfo(ctx, "Category deleted", slog.Int64("category_id", id))
	return nil
}

type partyCategorySpec struct {
	role       domain.PartyRole
	parentCode string
}

// partyCategorySpecs lists the sub-categories a party needs.
func partyCategorySpecs(party domain.Party) ([]partyCategorySpec, error) {
	receivable := partyCategorySpec{role: domain.RoleReceivable, parentCode: domain.CodeAccountsReceivable}
	payable := partyCategorySpec{role: domain.RolePayable, parentCode: domain.CodeAccountsPayable}
	switch party.Kind {
	case domain.PartyEmployee:
		return []partyCategorySpec{{role: domain.RolePayroll, parentCode: domain.CodePayrollLiability}}, nil
	case domain.PartyContact:
		switch party.ContactType {
		case domain.ContactTypeSupplier:
			return []partyCategorySpec{payable}, nil
		case domain.ContactTypeCustomer:
			return []partyCategorySpec{receivable}, nil
		case domain.ContactTypeBoth:
			return []partyCategorySpec{receivable, payable}, nil
		}
		return nil, fmt.Errorf("%w: unknown contact type %d", apperrors.ErrValidation, party.ContactType)
	}
	return nil, fmt.Errorf("%w: unknown party kind %q", apperrors.ErrValidation, party.Kind)
}

// partyCategoryName names a party sub-category after its parent.
func partyCategoryName(parent string, party domain.Party) string {
	if party.Kind == domain.PartyEmployee {
		full := strings.TrimSpace(strings.TrimSpace(party.FirstName) + " " + strings.TrimSpace(party.LastName))
		return parent + " - " + full
	}
	return parent + "-" + party.DisplayName()
}

// CreatePartyCategories creates the party's sub-categories and relations. Roles that already
// have a relation are returned as they are.
func (s *categoryService) CreatePartyCategories(ctx context.Context, party domain.Party, actorUserID string) ([]domain.PartyCategoryRelation, error) {
	if party.ID <= 0 {
		return nil, fmt.Errorf("%w: party id must be positive", apperrors.ErrValidation)
	}
	specs, err := partyCategorySpecs(party)
	if err != nil {
		return nil, err
	}
	if party.DisplayName() == "" {
		return nil, fmt.Errorf("%w: party needs an organization or a name", apperrors.ErrValidation)
	}

	relations := make([]domain.PartyCategoryRelation, 0, len(specs))
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, spec := range specs {
			existing, err := s.partyRepo.FindPartyCategory(ctx, party.Kind, party.ID, spec.role)
			if err == nil {
				relations = append(relations, *existing)
				continue
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("failed to find %s category of %s %d: %w", spec.role, party.Kind, party.ID, err)
			}

			parent, err := s.categoryRepo.FindCategoryByCode(ctx, spec.parentCode)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return fmt.Errorf("%w: category %s is not set up", apperrors.ErrPrecondition, spec.parentCode)
				}
				return fmt.Errorf("failed to find category %s: %w", spec.parentCode, err)
			}
			parentID := parent.ID
			child := &domain.TransactionCategory{
				Name:             partyCategoryName(parent.Name, party),
				ParentID:         &parentID,
				ChartOfAccountID: parent.ChartOfAccountID,
			}
			if err := s.insertCategory(ctx, child, parent.ChartOfAccountCode, actorUserID); err != nil {
				return err
			}

			rel := &domain.PartyCategoryRelation{
				PartyKind:             party.Kind,
				PartyID:               party.ID,
				Role:                  spec.role,
				TransactionCategoryID: child.ID,
			}
			rel.Touch(actorUserID, s.now())
			if err := s.partyRepo.SavePartyCategoryRelation(ctx, rel); err != nil {
				return fmt.Errorf("failed to save %s relation of %s %d: %w", spec.role, party.Kind, party.ID, err)
			}
			relations = append(relations, *rel)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create party categories",
			slog.String("party_kind", string(party.Kind)),
			slog.Int64("party_id", party.ID))
		return nil, err
	}
	s.invalidate()
	s.LogInfo(ctx, "Party categories created",
		slog.String("party_kind", string(party.Kind)),
		slog.Int64("party_id", party.ID),
		slog.Int("relations", len(relations)))
	return relations, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
