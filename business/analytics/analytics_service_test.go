package analytics

import (
	"context"
	"steezestore/domain"
	"testing"
)

type fakeOrdersRepo struct {
	orders []domain.Order
}

func (f *fakeOrdersRepo) FindAll(_ context.Context) ([]domain.Order, error) {
	return f.orders, nil
}

type fakeProductRepo struct {
	top        []domain.Product
	categories []domain.CategoryCount
}

func (f *fakeProductRepo) TopByLikes(_ context.Context, limit int) ([]domain.Product, error) {
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}

func (f *fakeProductRepo) CountByCategory(_ context.Context, limit int) ([]domain.CategoryCount, error) {
	return f.categories, nil
}

func TestOverviewAggregates(t *testing.T) {
	orderRepo := &fakeOrdersRepo{orders: []domain.Order{
		{Total: 20000, Items: []domain.OrderItem{
			{Title: "Vintage Tee", Qty: 2},
			{Title: "Denim Jacket", Qty: 1},
		}},
		{Total: 15000, Items: []domain.OrderItem{
			{Title: "Vintage Tee", Qty: 1},
		}},
	}}
	productRepo := &fakeProductRepo{
		top:        []domain.Product{{Title: "Denim Jacket", Likes: 9}, {Title: "Vintage Tee", Likes: 4}},
		categories: []domain.CategoryCount{{Category: "Tees", Total: 12}},
	}

	svc := NewAnalyticsService(orderRepo, productRepo)

	overview, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	if overview.RevenueTotal != 35000 {
		t.Errorf("revenue = %v, want 35000", overview.RevenueTotal)
	}
	if overview.OrdersCount != 2 {
		t.Errorf("orders count = %d, want 2", overview.OrdersCount)
	}
	if len(overview.MostLiked) != 2 || overview.MostLiked[0].Title != "Denim Jacket" {
		t.Errorf("most liked = %v", overview.MostLiked)
	}
	if len(overview.TopSellers) != 2 {
		t.Fatalf("top sellers = %v", overview.TopSellers)
	}
	if overview.TopSellers[0].Title != "Vintage Tee" || overview.TopSellers[0].Count != 3 {
		t.Errorf("top seller = %+v, want Vintage Tee x3", overview.TopSellers[0])
	}
	if len(overview.TopCategories) != 1 || overview.TopCategories[0].Category != "Tees" {
		t.Errorf("top categories = %v", overview.TopCategories)
	}
}

func TestOverviewEmptyStore(t *testing.T) {
	svc := NewAnalyticsService(&fakeOrdersRepo{}, &fakeProductRepo{})

	overview, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if overview.RevenueTotal != 0 || overview.OrdersCount != 0 {
		t.Errorf("empty store overview = %+v", overview)
	}
	if len(overview.TopSellers) != 0 {
		t.Errorf("top sellers should be empty, got %v", overview.TopSellers)
	}
}

func TestTopSellersTruncatesAndOrders(t *testing.T) {
	orders := []domain.Order{{Items: []domain.OrderItem{
		{Title: "A", Qty: 1},
		{Title: "B", Qty: 5},
		{Title: "C", Qty: 3},
		{Title: "D", Qty: 2},
	}}}

	got := topSellers(orders, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Title != "B" || got[1].Title != "C" || got[2].Title != "D" {
		t.Errorf("order = %v, want B, C, D", got)
	}
}
