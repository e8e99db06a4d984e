package analytics

import (
	"context"
	"fmt"
	"sort"
	"steezestore/domain"
	"steezestore/pkg/logger"
)

const topN = 5

// OrdersRepository contract interface
type OrdersRepository interface {
	FindAll(ctx context.Context) ([]domain.Order, error)
}

// ProductRepository contract interface
type ProductRepository interface {
	TopByLikes(ctx context.Context, limit int) ([]domain.Product, error)
	CountByCategory(ctx context.Context, limit int) ([]domain.CategoryCount, error)
}

type MostLiked struct {
	Title string `json:"title"`
	Likes int    `json:"likes"`
}

type TopSeller struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

type Overview struct {
	RevenueTotal  float64                `json:"revenueTotal"`
	OrdersCount   int                    `json:"ordersCount"`
	MostLiked     []MostLiked            `json:"mostLiked"`
	TopSellers    []TopSeller            `json:"topSellers"`
	TopCategories []domain.CategoryCount `json:"topCategories"`
}

type AnalyticsService struct {
	orderRepo   OrdersRepository
	productRepo ProductRepository
}

func NewAnalyticsService(orderRepo OrdersRepository, productRepo ProductRepository) *AnalyticsService {
	return &AnalyticsService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// Overview builds the dashboard summary. Read-only; nothing here mutates
// customer or product state.
func (s *AnalyticsService) Overview(ctx context.Context) (Overview, error) {
	if err := ctx.Err(); err != nil {
		return Overview{}, fmt.Errorf("context error: %w", err)
	}

	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to load orders for overview", err)
		return Overview{}, err
	}

	revenueTotal := 0.0
	for _, o := range orders {
		revenueTotal += o.Total
	}

	mostLikedProducts, err := s.productRepo.TopByLikes(ctx, topN)
	if err != nil {
		logger.Error("Failed to load most liked products", err)
		return Overview{}, err
	}
	mostLiked := make([]MostLiked, 0, len(mostLikedProducts))
	for _, p := range mostLikedProducts {
		mostLiked = append(mostLiked, MostLiked{Title: p.Title, Likes: p.Likes})
	}

	topCategories, err := s.productRepo.CountByCategory(ctx, topN)
	if err != nil {
		logger.Error("Failed to count products by category", err)
		return Overview{}, err
	}

	return Overview{
		RevenueTotal:  revenueTotal,
		OrdersCount:   len(orders),
		MostLiked:     mostLiked,
		TopSellers:    topSellers(orders, topN),
		TopCategories: topCategories,
	}, nil
}

// topSellers groups every line item across all orders by title and sums the
// quantities, keeping the best n.
func topSellers(orders []domain.Order, n int) []TopSeller {
	counts := make(map[string]int)
	titles := make([]string, 0)
	for _, o := range orders {
		for _, item := range o.Items {
			if _, seen := counts[item.Title]; !seen {
				titles = append(titles, item.Title)
			}
			counts[item.Title] += item.Qty
		}
	}

	sellers := make([]TopSeller, 0, len(titles))
	for _, title := range titles {
		sellers = append(sellers, TopSeller{Title: title, Count: counts[title]})
	}
	sort.SliceStable(sellers, func(i, j int) bool { return sellers[i].Count > sellers[j].Count })

	if len(sellers) > n {
		sellers = sellers[:n]
	}
	return sellers
}
