// Package seed installs the chart of accounts and the well-known transaction categories.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"gopkg.in/yaml.v3"
)

//go:embed chart_of_accounts.yaml
var defaultChart []byte

// SystemActor is recorded as the creator of seeded categories.
const SystemActor = "seed"

// ChartOfAccountEntry is one chart-of-account node in the seed file.
type ChartOfAccountEntry struct {
	Code           string                `yaml:"code"`
	Name           string                `yaml:"name"`
	Classification domain.Classification `yaml:"classification"`
	Parent         string                `yaml:"parent"`
}

// CategoryEntry is one well-known transaction category in the seed file.
type CategoryEntry struct {
	Code           string `yaml:"code"`
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	ChartOfAccount string `yaml:"chartOfAccount"`
	Selectable     bool   `yaml:"selectable"`
}

// Chart is the parsed seed file.
type Chart struct {
	ChartOfAccounts []ChartOfAccountEntry `yaml:"chartOfAccounts"`
	Categories      []CategoryEntry       `yaml:"categories"`
}

// Result counts what a Load call wrote.
type Result struct {
	ChartOfAccounts   int
	CategoriesCreated int
	CategoriesKept    int
}

// DefaultChart returns the embedded chart.
func DefaultChart() (*Chart, error) {
	return Parse(defaultChart)
}

// Parse decodes and validates a seed file. Parents must be listed before their children.
func Parse(data []byte) (*Chart, error) {
	var chart Chart
	if err := yaml.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("%w: seed file: %v", apperrors.ErrValidation, err)
	}

	seen := make(map[string]bool, len(chart.ChartOfAccounts))
	for _, coa := range chart.ChartOfAccounts {
		if coa.Code == "" || coa.Name == "" {
			return nil, fmt.Errorf("%w: chart of account needs a code and a name", apperrors.ErrValidation)
		}
		if !coa.Classification.Valid() {
			return nil, fmt.Errorf("%w: chart of account %s has unknown classification %q", apperrors.ErrValidation, coa.Code, coa.Classification)
		}
		if coa.Parent != "" && !seen[coa.Parent] {
			return nil, fmt.Errorf("%w: chart of account %s is listed before its parent %s", apperrors.ErrValidation, coa.Code, coa.Parent)
		}
		if seen[coa.Code] {
			return nil, fmt.Errorf("%w: chart of account %s is listed twice", apperrors.ErrValidation, coa.Code)
		}
		seen[coa.Code] = true
	}

	codes := make(map[string]bool, len(chart.Categories))
	for _, cat := range chart.Categories {
		if !seen[cat.ChartOfAccount] {
			return nil, fmt.Errorf("%w: category %s references unknown chart of account %s", apperrors.ErrValidation, cat.Code, cat.ChartOfAccount)
		}
		if !strings.HasPrefix(cat.Code, cat.ChartOfAccount+"-") {
			return nil, fmt.Errorf("%w: category %s does not belong to chart of account %s", apperrors.ErrValidation, cat.Code, cat.ChartOfAccount)
		}
		if codes[cat.Code] {
			return nil, fmt.Errorf("%w: category %s is listed twice", apperrors.ErrValidation, cat.Code)
		}
		codes[cat.Code] = true
	}
	return &chart, nil
}

// Load writes chart into the repositories in one transaction. Chart-of-account nodes are
// upserted by code; categories that already exist by code are left untouched.
func Load(ctx context.Context, repos portsrepo.RepositoryProvider, chart *Chart, now time.Time) (Result, error) {
	var result Result
	err := repos.TxManager.WithinTransaction(ctx, func(ctx context.Context) error {
		coaIDs := make(map[string]int64, len(chart.ChartOfAccounts))
		for _, entry := range chart.ChartOfAccounts {
			coa := &domain.ChartOfAccount{
				Code:           entry.Code,
				Name:           entry.Name,
				Classification: entry.Classification,
			}
			if entry.Parent != "" {
				parentID := coaIDs[entry.Parent]
				coa.ParentID = &parentID
			}
			if err := repos.ChartOfAccountRepo.SaveChartOfAccount(ctx, coa); err != nil {
				return fmt.Errorf("failed to save chart of account %s: %w", entry.Code, err)
			}
			coaIDs[entry.Code] = coa.ID
			result.ChartOfAccounts++
		}

		for _, entry := range chart.Categories {
			_, err := repos.CategoryRepo.FindCategoryByCode(ctx, entry.Code)
			if err == nil {
				result.CategoriesKept++
				continue
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("failed to find category %s: %w", entry.Code, err)
			}
			cat := &domain.TransactionCategory{
				Name:             entry.Name,
				Description:      entry.Description,
				Code:             entry.Code,
				ChartOfAccountID: coaIDs[entry.ChartOfAccount],
				Editable:         false,
				Selectable:       entry.Selectable,
				IsDefault:        true,
				VersionNumber:    1,
			}
			cat.Touch(SystemActor, now)
			if err := repos.CategoryRepo.SaveCategory(ctx, cat); err != nil {
				return fmt.Errorf("failed to save category %s: %w", entry.Code, err)
			}
			result.CategoriesCreated++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}
