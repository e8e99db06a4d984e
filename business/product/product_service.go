package product

import (
	"context"
	"errors"
	"fmt"
	"steezestore/domain"
	"steezestore/pkg/logger"
	"strings"
)

const (
	defaultPageSize = 24
	maxPageSize     = 50
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindPage(ctx context.Context, offset, limit int) ([]domain.Product, int64, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint64) error
}

// ImageStore removes uploaded assets from the external image host.
type ImageStore interface {
	Destroy(publicID string) error
}

type ProductPage struct {
	Items []domain.Product `json:"items"`
	Page  int              `json:"page"`
	Total int64            `json:"total"`
}

type ProductService struct {
	productRepo ProductRepository
	imageStore  ImageStore
}

func NewProductService(productRepo ProductRepository, imageStore ImageStore) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		imageStore:  imageStore,
	}
}

// GetCatalogPage clamps the requested page and limit to sane bounds.
func (s *ProductService) GetCatalogPage(ctx context.Context, page, limit int) (ProductPage, error) {
	if err := ctx.Err(); err != nil {
		return ProductPage{}, fmt.Errorf("context error: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := s.productRepo.FindPage(ctx, (page-1)*limit, limit)
	if err != nil {
		logger.Error("Failed to load catalog page", err)
		return ProductPage{}, err
	}

	return ProductPage{Items: items, Page: page, Total: total}, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id uint64) (domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *ProductService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	product.Title = strings.TrimSpace(product.Title)
	if product.Title == "" {
		return nil, errors.New("title is required")
	}
	if product.Price <= 0 {
		return nil, errors.New("price must be positive")
	}
	if product.Category == "" {
		product.Category = domain.DefaultCategory
	}
	product.Sizes = sanitizeSizes(product.Sizes)

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("Failed to create product", err)
		return nil, err
	}

	logger.Info("product created", "product_id", product.ID)

	return product, nil
}

// UpdateProduct replaces the catalog fields and destroys any images the
// caller removed. Asset cleanup is best-effort: a failed destroy is logged
// and skipped, the update still succeeds.
func (s *ProductService) UpdateProduct(ctx context.Context, product *domain.Product, removePublicIDs []string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	product.Title = strings.TrimSpace(product.Title)
	if product.Title == "" {
		return nil, errors.New("title is required")
	}

	existing, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	if len(removePublicIDs) > 0 {
		s.destroyImages(removePublicIDs)

		removed := make(map[string]bool, len(removePublicIDs))
		for _, id := range removePublicIDs {
			removed[id] = true
		}
		kept := existing.Images[:0]
		for _, img := range existing.Images {
			if !removed[img.PublicID] {
				kept = append(kept, img)
			}
		}
		existing.Images = kept
	}

	existing.Title = product.Title
	existing.Category = product.Category
	if existing.Category == "" {
		existing.Category = domain.DefaultCategory
	}
	if product.Price > 0 {
		existing.Price = product.Price
	}
	if len(product.Sizes) > 0 {
		existing.Sizes = sanitizeSizes(product.Sizes)
	}
	existing.Images = append(existing.Images, product.Images...)

	if err := s.productRepo.Update(ctx, &existing); err != nil {
		logger.Error("Failed to update product", err)
		return nil, err
	}

	return &existing, nil
}

// DeleteProduct removes the row and then its hosted images, continuing past
// individual destroy failures.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete product", err)
		return err
	}

	publicIDs := make([]string, 0, len(product.Images))
	for _, img := range product.Images {
		publicIDs = append(publicIDs, img.PublicID)
	}
	s.destroyImages(publicIDs)

	return nil
}

func (s *ProductService) destroyImages(publicIDs []string) {
	for _, publicID := range publicIDs {
		if publicID == "" {
			continue
		}
		if err := s.imageStore.Destroy(publicID); err != nil {
			logger.Warn("Failed to destroy image", err, "public_id", publicID)
		}
	}
}

// sanitizeSizes keeps only the product sizes the store actually stocks,
// falling back to the full set.
func sanitizeSizes(sizes []string) []string {
	allowed := make(map[string]bool, len(domain.ProductSizes))
	for _, s := range domain.ProductSizes {
		allowed[s] = true
	}

	clean := make([]string, 0, len(sizes))
	for _, s := range sizes {
		if allowed[s] {
			clean = append(clean, s)
		}
	}
	if len(clean) == 0 {
		return append([]string{}, domain.ProductSizes...)
	}
	return clean
}
