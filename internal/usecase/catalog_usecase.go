package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"ferreinti-backend/internal/domain"
	"ferreinti-backend/pkg/cache"
	"ferreinti-backend/pkg/utils"
)

const cacheKeyCategories = "catalog:categories"

type CatalogUsecase struct {
	productRepo domain.ProductRepository
	cache       cache.CacheService
	categoryTTL time.Duration
}

func NewCatalogUsecase(productRepo domain.ProductRepository, cacheService cache.CacheService, categoryTTL time.Duration) *CatalogUsecase {
	return &CatalogUsecase{
		productRepo: productRepo,
		cache:       cacheService,
		categoryTTL: categoryTTL,
	}
}

// --- Categories ---

func (u *CatalogUsecase) GetCategories(ctx context.Context) ([]domain.Category, error) {
	if cached, found := u.cache.Get(cacheKeyCategories); found {
		if cats, ok := cached.([]domain.Category); ok {
			return cats, nil
		}
	}

	cats, err := u.productRepo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	u.cache.Set(cacheKeyCategories, cats, u.categoryTTL)
	return cats, nil
}

func (u *CatalogUsecase) CreateCategory(ctx context.Context, cat *domain.Category) error {
	if cat.Name == "" {
		return fmt.Errorf("category name is required")
	}
	cat.ID = utils.GenerateID("cat")
	cat.Slug = utils.GenerateSlug(cat.Name)
	if err := u.productRepo.CreateCategory(ctx, cat); err != nil {
		return err
	}
	u.cache.Delete(cacheKeyCategories)
	return nil
}

func (u *CatalogUsecase) UpdateCategory(ctx context.Context, cat *domain.Category) error {
	if cat.Name != "" {
		cat.Slug = utils.GenerateSlug(cat.Name)
	}
	if err := u.productRepo.UpdateCategory(ctx, cat); err != nil {
		return err
	}
	u.cache.Delete(cacheKeyCategories)
	return nil
}

func (u *CatalogUsecase) DeleteCategory(ctx context.Context, id string) error {
	if err := u.productRepo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	u.cache.Delete(cacheKeyCategories)
	return nil
}

// --- Products ---

func (u *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return u.productRepo.List(ctx, filter)
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return u.productRepo.GetByID(ctx, id)
}

func (u *CatalogUsecase) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return u.productRepo.GetBySlug(ctx, slug)
}

func (u *CatalogUsecase) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if p.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	p.ID = utils.GenerateID("prod")
	p.Slug = utils.GenerateSlug(p.Name)
	if p.Images == nil {
		p.Images = []string{}
	}
	return u.productRepo.Create(ctx, p)
}

func (u *CatalogUsecase) UpdateProduct(ctx context.Context, p *domain.Product) error {
	existing, err := u.productRepo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.Name != "" && p.Name != existing.Name {
		p.Slug = utils.GenerateSlug(p.Name)
	} else {
		p.Slug = existing.Slug
	}
	if p.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	return u.productRepo.Update(ctx, p)
}

func (u *CatalogUsecase) DeleteProduct(ctx context.Context, id string) error {
	return u.productRepo.Delete(ctx, id)
}

// --- Reviews ---

func (u *CatalogUsecase) GetReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	return u.productRepo.GetReviews(ctx, productID)
}

// AddReview stores the review and recomputes the product's average
// rating (1 decimal) over all of its reviews.
func (u *CatalogUsecase) AddReview(ctx context.Context, user *domain.User, productID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}
	if _, err := u.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:        utils.GenerateID("rev"),
		ProductID: productID,
		UserID:    user.ID,
		UserName:  user.Name,
		Rating:    rating,
		Comment:   comment,
	}
	if err := u.productRepo.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	reviews, err := u.productRepo.GetReviews(ctx, productID)
	if err != nil {
		slog.Error("Usecase: AddReview - rating recompute failed", "product_id", productID, "error", err)
		return review, nil
	}
	var sum int
	for _, rv := range reviews {
		sum += rv.Rating
	}
	avg := 0.0
	if len(reviews) > 0 {
		avg = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}
	if err := u.productRepo.UpdateRating(ctx, productID, avg, len(reviews)); err != nil {
		slog.Error("Usecase: AddReview - rating update failed", "product_id", productID, "error", err)
	}

	return review, nil
}
