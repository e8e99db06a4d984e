package identity

import (
	"context"
	"steezestore/domain"
	"steezestore/internal/repository/postgres"
	"strings"
	"testing"
	"time"
)

type fakeCustomerRepo struct {
	customers []domain.Customer
	nextID    uint64
	saves     int
}

func (f *fakeCustomerRepo) FindByPhone(_ context.Context, phone string) (domain.Customer, error) {
	for _, c := range f.customers {
		if c.PrimaryPhone == phone {
			return c, nil
		}
		for _, p := range c.Phones {
			if p == phone {
				return c, nil
			}
		}
	}
	return domain.Customer{}, postgres.ErrCustomerNotFound
}

func (f *fakeCustomerRepo) FindByCID(_ context.Context, cid string) (domain.Customer, error) {
	for _, c := range f.customers {
		if c.CID == cid {
			return c, nil
		}
		for _, d := range c.DeviceIDs {
			if d == cid {
				return c, nil
			}
		}
	}
	return domain.Customer{}, postgres.ErrCustomerNotFound
}

func (f *fakeCustomerRepo) CreateIfAbsent(_ context.Context, customer *domain.Customer) error {
	for _, c := range f.customers {
		if c.CID == customer.CID {
			*customer = c
			return nil
		}
	}
	f.nextID++
	customer.ID = f.nextID
	f.customers = append(f.customers, *customer)
	return nil
}

func (f *fakeCustomerRepo) SaveIdentity(_ context.Context, customer *domain.Customer) error {
	f.saves++
	for i := range f.customers {
		if f.customers[i].ID == customer.ID {
			f.customers[i] = *customer
			return nil
		}
	}
	return postgres.ErrCustomerNotFound
}

func newTestService(repo *fakeCustomerRepo) *IdentityService {
	svc := NewIdentityService(repo)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestResolvePhoneWinsOverCID(t *testing.T) {
	repo := &fakeCustomerRepo{}
	repo.CreateIfAbsent(context.Background(), &domain.Customer{CID: "cust-by-phone", PrimaryPhone: "+2348012345678"})
	repo.CreateIfAbsent(context.Background(), &domain.Customer{CID: "cid_abc"})

	svc := newTestService(repo)

	got, err := svc.Resolve(context.Background(), "cid_abc", "+2348012345678", "Ada")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.CID != "cust-by-phone" {
		t.Fatalf("expected phone match to win, got cid %q", got.CID)
	}
	if got.LatestName != "Ada" {
		t.Errorf("name not merged, got %q", got.LatestName)
	}
	if len(got.DeviceIDs) != 1 || got.DeviceIDs[0] != "cid_abc" {
		t.Errorf("device id not merged: %v", got.DeviceIDs)
	}
}

func TestResolveByCIDWhenNoPhone(t *testing.T) {
	repo := &fakeCustomerRepo{}
	repo.CreateIfAbsent(context.Background(), &domain.Customer{CID: "cid_abc"})

	svc := newTestService(repo)

	got, err := svc.Resolve(context.Background(), "cid_abc", "", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.CID != "cid_abc" {
		t.Fatalf("expected cid match, got %q", got.CID)
	}
}

func TestResolveMatchesKnownDeviceID(t *testing.T) {
	repo := &fakeCustomerRepo{}
	seed := domain.Customer{CID: "cust-1"}
	seed.MergeIdentity("", "", "cid_old_device", time.Now())
	repo.CreateIfAbsent(context.Background(), &seed)

	svc := newTestService(repo)

	got, err := svc.Resolve(context.Background(), "cid_old_device", "", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.CID != "cust-1" {
		t.Fatalf("expected device-id match to reuse cust-1, got %q", got.CID)
	}
}

func TestResolveCreatesWithProvidedCID(t *testing.T) {
	repo := &fakeCustomerRepo{}
	svc := newTestService(repo)

	got, err := svc.Resolve(context.Background(), "cid_new", "+2348099887766", "Bola")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.CID != "cid_new" {
		t.Fatalf("expected the client token as cid, got %q", got.CID)
	}
	if got.PrimaryPhone != "+2348099887766" {
		t.Errorf("primary phone not set: %q", got.PrimaryPhone)
	}
	if len(repo.customers) != 1 {
		t.Fatalf("expected one record, got %d", len(repo.customers))
	}
}

func TestResolveAnonymousGeneratesCID(t *testing.T) {
	repo := &fakeCustomerRepo{}
	svc := newTestService(repo)

	got, err := svc.Resolve(context.Background(), "", "", "Walk In")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !strings.HasPrefix(got.CID, "cust-") {
		t.Fatalf("expected generated cust- cid, got %q", got.CID)
	}
}

func TestResolveIsIdempotentPerSignalSet(t *testing.T) {
	repo := &fakeCustomerRepo{}
	svc := newTestService(repo)

	first, err := svc.Resolve(context.Background(), "cid_x", "+2348011112222", "Ada")
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, err := svc.Resolve(context.Background(), "cid_x", "+2348011112222", "Ada")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}

	if first.CID != second.CID {
		t.Fatalf("same signals resolved to different customers: %q vs %q", first.CID, second.CID)
	}
	if len(second.Phones) != 1 || len(second.Aliases) != 1 {
		t.Errorf("duplicate signals grew the sets: phones=%v aliases=%v", second.Phones, second.Aliases)
	}
	if len(repo.customers) != 1 {
		t.Fatalf("expected one record, got %d", len(repo.customers))
	}
}

func TestGetByCIDNotFound(t *testing.T) {
	svc := newTestService(&fakeCustomerRepo{})

	_, err := svc.GetByCID(context.Background(), "cid_missing")
	if err != postgres.ErrCustomerNotFound {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}
