package product

import (
	"context"
	"errors"
	"steezestore/domain"
	"testing"
)

type fakeProductRepo struct {
	products map[uint64]domain.Product
	nextID   uint64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uint64]domain.Product{}}
}

func (f *fakeProductRepo) Create(_ context.Context, product *domain.Product) error {
	f.nextID++
	product.ID = f.nextID
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uint64) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, errors.New("not found")
	}
	return p, nil
}

func (f *fakeProductRepo) FindPage(_ context.Context, offset, limit int) ([]domain.Product, int64, error) {
	out := make([]domain.Product, 0, limit)
	for id := uint64(offset + 1); id <= uint64(offset+limit); id++ {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, int64(len(f.products)), nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return errors.New("not found")
	}
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id uint64) error {
	if _, ok := f.products[id]; !ok {
		return errors.New("not found")
	}
	delete(f.products, id)
	return nil
}

type fakeImageStore struct {
	destroyed []string
	fail      bool
}

func (f *fakeImageStore) Destroy(publicID string) error {
	if f.fail {
		return errors.New("cloud host down")
	}
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

func TestCreateProductDefaults(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo, &fakeImageStore{})

	created, err := svc.CreateProduct(context.Background(), &domain.Product{
		Title: "  Vintage Tee  ",
		Price: 10000,
		Sizes: []string{"M", domain.SizeXL},
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	if created.Title != "Vintage Tee" {
		t.Errorf("title = %q, want trimmed", created.Title)
	}
	if created.Category != domain.DefaultCategory {
		t.Errorf("category = %q, want %q", created.Category, domain.DefaultCategory)
	}
	if len(created.Sizes) != 1 || created.Sizes[0] != domain.SizeXL {
		t.Errorf("sizes = %v, want unsupported entries dropped", created.Sizes)
	}
}

func TestCreateProductRejectsBadInput(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(), &fakeImageStore{})

	if _, err := svc.CreateProduct(context.Background(), &domain.Product{Title: " ", Price: 100}); err == nil {
		t.Error("blank title should be rejected")
	}
	if _, err := svc.CreateProduct(context.Background(), &domain.Product{Title: "Tee", Price: 0}); err == nil {
		t.Error("zero price should be rejected")
	}
}

func TestCreateProductAllSizesWhenNoneValid(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(), &fakeImageStore{})

	created, err := svc.CreateProduct(context.Background(), &domain.Product{Title: "Tee", Price: 100})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if len(created.Sizes) != len(domain.ProductSizes) {
		t.Errorf("sizes = %v, want full stocked set", created.Sizes)
	}
}

func TestGetCatalogPageClampsBounds(t *testing.T) {
	repo := newFakeProductRepo()
	for i := 0; i < 30; i++ {
		repo.Create(context.Background(), &domain.Product{Title: "Tee", Price: 100})
	}
	svc := NewProductService(repo, &fakeImageStore{})

	page, err := svc.GetCatalogPage(context.Background(), -3, 1000)
	if err != nil {
		t.Fatalf("GetCatalogPage: %v", err)
	}
	if page.Page != 1 {
		t.Errorf("page = %d, want clamped to 1", page.Page)
	}
	if len(page.Items) != 30 {
		t.Errorf("items = %d, want all 30 under the max page size", len(page.Items))
	}
	if page.Total != 30 {
		t.Errorf("total = %d, want 30", page.Total)
	}
}

func TestUpdateProductRemovesImages(t *testing.T) {
	repo := newFakeProductRepo()
	store := &fakeImageStore{}
	svc := NewProductService(repo, store)

	seed := domain.Product{
		Title: "Tee",
		Price: 100,
		Images: []domain.ProductImage{
			{URL: "u1", PublicID: "p1"},
			{URL: "u2", PublicID: "p2"},
		},
	}
	repo.Create(context.Background(), &seed)

	updated, err := svc.UpdateProduct(context.Background(), &domain.Product{
		ID:     seed.ID,
		Title:  "Tee v2",
		Images: []domain.ProductImage{{URL: "u3", PublicID: "p3"}},
	}, []string{"p1"})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	if len(store.destroyed) != 1 || store.destroyed[0] != "p1" {
		t.Errorf("destroyed = %v, want [p1]", store.destroyed)
	}
	if len(updated.Images) != 2 {
		t.Fatalf("images = %v, want p2 kept and p3 appended", updated.Images)
	}
	if updated.Images[0].PublicID != "p2" || updated.Images[1].PublicID != "p3" {
		t.Errorf("images = %v", updated.Images)
	}
	if updated.Title != "Tee v2" {
		t.Errorf("title = %q", updated.Title)
	}
}

func TestDeleteProductDestroysImagesBestEffort(t *testing.T) {
	repo := newFakeProductRepo()
	store := &fakeImageStore{fail: true}
	svc := NewProductService(repo, store)

	seed := domain.Product{
		Title:  "Tee",
		Price:  100,
		Images: []domain.ProductImage{{URL: "u1", PublicID: "p1"}},
	}
	repo.Create(context.Background(), &seed)

	if err := svc.DeleteProduct(context.Background(), seed.ID); err != nil {
		t.Fatalf("image host failure should not fail the delete: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), seed.ID); err == nil {
		t.Error("product row should be gone")
	}
}
