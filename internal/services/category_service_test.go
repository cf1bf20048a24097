package services

import (
	"context"
	"testing"

	"subscription-tracker/internal/config"
	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/models"
	"subscription-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CategoryServiceTestSuite struct {
	suite.Suite
	store   repositories.Store
	service CategoryServiceInterface
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}

func (s *CategoryServiceTestSuite) SetupTest() {
	s.store = newTestStore(s.T())
	s.service = NewCategoryService(s.store, nil)
}

func (s *CategoryServiceTestSuite) TestCategorizeMerchant_DefaultRules() {
	testCases := []struct {
		merchant string
		expected string
		fallback bool
	}{
		{"NETFLIX.COM", "Streaming", false},
		{"Spotify UK", "Streaming", false},
		{"Amazon Prime", "Shopping", false},
		{"Adobe Creative Cloud", "Software", false},
		{"GitHub", "Software", false},
		{"Dropbox", "Cloud Storage", false},
		{"OpenAI ChatGPT Plus", "AI Tools", false},
		{"Pure Gym", config.FallbackCategoryName, true},
		{"   ", config.FallbackCategoryName, true},
	}

	for _, tc := range testCases {
		s.Run(tc.merchant, func() {
			match := s.service.CategorizeMerchant(tc.merchant)
			s.Equal(tc.expected, match.Name)
			s.Equal(tc.fallback, match.Fallback)
		})
	}
}

func (s *CategoryServiceTestSuite) TestCategorizeMerchant_FirstRuleWins() {
	service := NewCategoryService(s.store, []config.CategoryRule{
		{Keyword: "Prime", Name: "Video", Color: "#111111"},
		{Keyword: "amazon", Name: "Shopping"},
	})

	match := service.CategorizeMerchant("Amazon Prime Video")
	s.Equal("Video", match.Name)
	s.Equal("prime", match.Keyword)

	match = service.CategorizeMerchant("Amazon Marketplace")
	s.Equal("Shopping", match.Name)
	s.Equal(models.DefaultCategoryColor, match.Color)
}

func (s *CategoryServiceTestSuite) TestResolveCategory_GetOrCreate() {
	ctx := context.Background()

	first, err := s.service.ResolveCategory(ctx, "Netflix")
	s.Require().NoError(err)
	second, err := s.service.ResolveCategory(ctx, "Spotify")
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.Equal("Streaming", first.Name)
	s.Equal("#ec4899", first.Color)

	categories, err := s.service.ListCategories(ctx)
	s.Require().NoError(err)
	s.Len(categories, 1)
}

func (s *CategoryServiceTestSuite) TestCreateCategory() {
	ctx := context.Background()

	category, err := s.service.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "  Fitness ", Color: "#22c55e"})
	s.Require().NoError(err)
	s.Equal("Fitness", category.Name)
	s.NotEqual(uuid.Nil, category.ID)

	_, err = s.service.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Fitness"})
	s.ErrorIs(err, ErrCategoryAlreadyExists)

	defaulted, err := s.service.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "News"})
	s.Require().NoError(err)
	s.Equal(models.DefaultCategoryColor, defaulted.Color)
}

func (s *CategoryServiceTestSuite) TestDeleteCategory() {
	ctx := context.Background()

	s.ErrorIs(s.service.DeleteCategory(ctx, uuid.New()), ErrCategoryNotFound)

	unused, err := s.service.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Unused"})
	s.Require().NoError(err)
	s.Require().NoError(s.service.DeleteCategory(ctx, unused.ID))

	used, err := s.service.ResolveCategory(ctx, "Netflix")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Subscriptions().Create(&models.Subscription{
		Name:         "Netflix",
		Amount:       decimal.RequireFromString("15.99"),
		Currency:     "GBP",
		BillingCycle: models.BillingCycleMonthly,
		StartDate:    day(2024, 1, 14),
		IsActive:     true,
		CategoryID:   &used.ID,
	}))

	err = s.service.DeleteCategory(ctx, used.ID)
	s.ErrorIs(err, ErrCategoryInUse)
	s.Contains(err.Error(), "used by 1 subscription(s)")
}
