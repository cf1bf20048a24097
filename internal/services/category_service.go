package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"subscription-tracker/internal/config"
	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/models"
	"subscription-tracker/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")
	ErrCategoryInUse         = errors.New("category is in use")
)

// CategoryMatch is the rule selected for a merchant
type CategoryMatch struct {
	Name     string
	Color    string
	Keyword  string
	Fallback bool
}

type categoryService struct {
	store repositories.Store
	rules []config.CategoryRule
}

// NewCategoryService creates a category service using rules in order. An empty
// rule table uses the built-in defaults.
func NewCategoryService(store repositories.Store, rules []config.CategoryRule) CategoryServiceInterface {
	if len(rules) == 0 {
		rules = config.DefaultCategoryRules()
	}

	normalized := make([]config.CategoryRule, 0, len(rules))
	for _, rule := range rules {
		rule.Keyword = normalizeForMatching(rule.Keyword)
		if rule.Keyword == "" {
			continue
		}
		if rule.Color == "" {
			rule.Color = models.DefaultCategoryColor
		}
		normalized = append(normalized, rule)
	}

	return &categoryService{
		store: store,
		rules: normalized,
	}
}

// CategorizeMerchant returns the first rule whose keyword the merchant contains
func (s *categoryService) CategorizeMerchant(merchant string) CategoryMatch {
	normalized := normalizeForMatching(merchant)
	if normalized != "" {
		for _, rule := range s.rules {
			if strings.Contains(normalized, rule.Keyword) {
				return CategoryMatch{Name: rule.Name, Color: rule.Color, Keyword: rule.Keyword}
			}
		}
	}

	return CategoryMatch{
		Name:     config.FallbackCategoryName,
		Color:    config.FallbackCategoryColor,
		Fallback: true,
	}
}

// ResolveCategory returns the persisted category for merchant, creating it on first use
func (s *categoryService) ResolveCategory(ctx context.Context, merchant string) (*models.Category, error) {
	match := s.CategorizeMerchant(merchant)

	category, err := s.store.Categories().GetOrCreate(match.Name, match.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category %q: %w", match.Name, err)
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.Categories().List()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)

	if _, err := s.store.Categories().GetByName(name); err == nil {
		return nil, ErrCategoryAlreadyExists
	} else if !errors.Is(err, repositories.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}

	category := &models.Category{Name: name, Color: req.Color}
	if err := s.store.Categories().Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// DeleteCategory refuses to delete a category referenced by any subscription
func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.store.WithinTransaction(func(tx repositories.Store) error {
		if _, err := tx.Categories().GetByID(id); err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to get category: %w", err)
		}

		count, err := tx.Categories().CountSubscriptions(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: used by %d subscription(s)", ErrCategoryInUse, count)
		}

		if err := tx.Categories().Delete(id); err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		return nil
	})
}

func normalizeForMatching(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
