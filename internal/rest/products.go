package rest

import (
	"context"
	"errors"
	"net/http"
	"steezestore/business/product"
	"steezestore/domain"
	"steezestore/internal/middleware"
	"steezestore/internal/repository/postgres"
	"steezestore/pkg/logger"
	"steezestore/pkg/metrics"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetCatalogPage(ctx context.Context, page, limit int) (product.ProductPage, error)
	GetProductByID(ctx context.Context, id uint64) (domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p *domain.Product, removePublicIDs []string) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint64) error
}

type EngagementService interface {
	RecordLike(ctx context.Context, cid string, productID uint64) (int, bool, error)
}

type ProductHandler struct {
	productService    ProductService
	engagementService EngagementService
	validator         *validator.Validate
	timeout           time.Duration
}

func NewProductHandler(productService ProductService, engagementService EngagementService) *ProductHandler {
	return &ProductHandler{
		productService:    productService,
		engagementService: engagementService,
		validator:         validator.New(),
		timeout:           10 * time.Second,
	}
}

type ProductImageInput struct {
	URL      string `json:"url" validate:"required"`
	PublicID string `json:"publicId" validate:"required"`
}

type CreateProductRequest struct {
	Title    string              `json:"title" validate:"required"`
	Category string              `json:"category"`
	Price    float64             `json:"price" validate:"required,gt=0"`
	Sizes    []string            `json:"sizes" validate:"omitempty,dive,oneof=XL XXL XXXL"`
	Images   []ProductImageInput `json:"images" validate:"omitempty,dive"`
}

type UpdateProductRequest struct {
	Title           string              `json:"title" validate:"required"`
	Category        string              `json:"category"`
	Price           float64             `json:"price" validate:"omitempty,gt=0"`
	Sizes           []string            `json:"sizes" validate:"omitempty,dive,oneof=XL XXL XXXL"`
	Images          []ProductImageInput `json:"images" validate:"omitempty,dive"`
	DeletePublicIDs []string            `json:"deletePublicIds"`
}

// ListCatalog serves the public storefront grid.
func (h *ProductHandler) ListCatalog(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	catalog, err := h.productService.GetCatalogPage(ctx, page, limit)
	if err != nil {
		logger.Error("Failed to load catalog", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(catalog))
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	found, err := h.productService.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(found))
}

// Like records a like for the requesting cid. Repeat likes are the normal
// idempotent path and still answer 200.
func (h *ProductHandler) Like(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	cid := middleware.CIDFromContext(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	likes, firstTime, err := h.engagementService.RecordLike(ctx, cid, id)
	if err != nil {
		if errors.Is(err, postgres.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to record like", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "like failed"})
	}

	if firstTime {
		metrics.FirstTimeLikes.Inc()
	} else {
		metrics.DuplicateLikes.Inc()
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"likes":     likes,
		"firstTime": firstTime,
	}))
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate product request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.productService.CreateProduct(ctx, &domain.Product{
		Title:    req.Title,
		Category: req.Category,
		Price:    req.Price,
		Sizes:    req.Sizes,
		Images:   toDomainImages(req.Images),
	})
	if err != nil {
		logger.Error("Failed to create product", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req UpdateProductRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate product request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.productService.UpdateProduct(ctx, &domain.Product{
		ID:       id,
		Title:    req.Title,
		Category: req.Category,
		Price:    req.Price,
		Sizes:    req.Sizes,
		Images:   toDomainImages(req.Images),
	}, req.DeletePublicIDs)
	if err != nil {
		if errors.Is(err, postgres.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to update product", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, postgres.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to delete product", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Product deleted successfully"))
}

func toDomainImages(images []ProductImageInput) []domain.ProductImage {
	out := make([]domain.ProductImage, 0, len(images))
	for _, img := range images {
		out = append(out, domain.ProductImage{URL: img.URL, PublicID: img.PublicID})
	}
	return out
}
