package domain

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"
)

func TestMergeIdentityIdempotent(t *testing.T) {
	now := time.Now()
	c := &Customer{CID: "cid_abc"}

	c.MergeIdentity("Ada", "+2348012345678", "cid_abc", now)
	c.MergeIdentity("Ada", "+2348012345678", "cid_abc", now.Add(time.Minute))

	if len(c.Aliases) != 1 || c.Aliases[0] != "Ada" {
		t.Errorf("aliases = %v, want [Ada]", c.Aliases)
	}
	if len(c.Phones) != 1 || c.Phones[0] != "+2348012345678" {
		t.Errorf("phones = %v, want one entry", c.Phones)
	}
	if len(c.DeviceIDs) != 1 {
		t.Errorf("deviceIds = %v, want one entry", c.DeviceIDs)
	}
	if c.PrimaryPhone != "+2348012345678" {
		t.Errorf("primaryPhone = %q", c.PrimaryPhone)
	}
	if !c.LastSeenAt.Equal(now.Add(time.Minute)) {
		t.Errorf("lastSeenAt not refreshed on second merge")
	}
	if !c.FirstSeenAt.Equal(now) {
		t.Errorf("firstSeenAt overwritten on second merge")
	}
}

func TestMergeIdentityPrimaryPhoneKept(t *testing.T) {
	now := time.Now()
	c := &Customer{CID: "cid_abc"}

	c.MergeIdentity("Ada", "+111111111", "", now)
	c.MergeIdentity("Ada Lovelace", "+222222222", "", now)

	if c.PrimaryPhone != "+111111111" {
		t.Errorf("primaryPhone = %q, want first phone ever seen", c.PrimaryPhone)
	}
	if len(c.Phones) != 2 {
		t.Errorf("phones = %v, want both numbers", c.Phones)
	}
	if c.LatestName != "Ada Lovelace" {
		t.Errorf("latestName = %q", c.LatestName)
	}
	if len(c.Aliases) != 2 {
		t.Errorf("aliases = %v, want both names", c.Aliases)
	}
}

func TestMergeIdentityBlankSignals(t *testing.T) {
	now := time.Now()
	c := &Customer{CID: "cid_anon"}

	c.MergeIdentity("", "  ", "", now)

	if len(c.Aliases) != 0 || len(c.Phones) != 0 || len(c.DeviceIDs) != 0 {
		t.Errorf("blank signals must not append entries: %v %v %v", c.Aliases, c.Phones, c.DeviceIDs)
	}
	if c.FirstSeenAt.IsZero() || c.LastSeenAt.IsZero() {
		t.Errorf("timestamps must still be set for anonymous merges")
	}
}

// The incrementally maintained basket average has to match the mean computed
// from the full order history, within 0.01, for any sequence of orders.
func TestRecordOrderRunningAverage(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		c := &Customer{CID: fmt.Sprintf("cid_%d", trial)}
		n := 1 + rng.Intn(40)
		sum := 0
		for i := 0; i < n; i++ {
			itemCount := 1 + rng.Intn(12)
			sum += itemCount
			c.RecordOrder(float64(itemCount)*1000, itemCount, time.Now(), nil)
		}

		want := math.Round(float64(sum)/float64(n)*100) / 100
		if math.Abs(c.AvgBasketSize-want) > 0.01 {
			t.Fatalf("trial %d: avgBasketSize = %v, want %v (n=%d)", trial, c.AvgBasketSize, want, n)
		}
		if c.OrderCount != n {
			t.Fatalf("trial %d: orderCount = %d, want %d", trial, c.OrderCount, n)
		}
	}
}

func TestRecordOrderFirstOrderScenario(t *testing.T) {
	when := time.Now()
	c := &Customer{CID: "cid_tee"}
	c.MergeIdentity("Tunde", "+2348012345678", "", when)

	c.RecordOrder(10000, 2, when, []OrderLine{{Title: "Tee", Qty: 2}})

	if c.OrderCount != 1 {
		t.Errorf("orderCount = %d, want 1", c.OrderCount)
	}
	if c.TotalSpent != 10000 {
		t.Errorf("totalSpent = %v, want 10000", c.TotalSpent)
	}
	if c.AvgBasketSize != 2.00 {
		t.Errorf("avgBasketSize = %v, want 2.00", c.AvgBasketSize)
	}
	if c.PrimaryPhone != "+2348012345678" {
		t.Errorf("primaryPhone = %q", c.PrimaryPhone)
	}
	if c.LastOrderAt == nil || !c.LastOrderAt.Equal(when) {
		t.Errorf("lastOrderAt not set to order time")
	}
}

func TestRecordOrderTwoOrdersAverage(t *testing.T) {
	c := &Customer{CID: "cid_two"}

	c.RecordOrder(5000, 1, time.Now(), nil)
	c.RecordOrder(15000, 3, time.Now(), nil)

	if c.AvgBasketSize != 2.00 {
		t.Errorf("avgBasketSize = %v, want 2.00 after itemCounts 1 and 3", c.AvgBasketSize)
	}
	if c.TotalSpent != 20000 {
		t.Errorf("totalSpent = %v, want 20000", c.TotalSpent)
	}
}

func TestBumpCategoryBound(t *testing.T) {
	c := &Customer{CID: "cid_cat"}

	for i := 0; i < 25; i++ {
		c.BumpCategory(fmt.Sprintf("category-%d", i), i+1)
	}

	if len(c.TopCategories) != TopCategoriesLimit {
		t.Fatalf("topCategories has %d entries, want %d", len(c.TopCategories), TopCategoriesLimit)
	}
	for i := 1; i < len(c.TopCategories); i++ {
		if c.TopCategories[i].Count > c.TopCategories[i-1].Count {
			t.Fatalf("topCategories not sorted descending at %d: %v", i, c.TopCategories)
		}
	}
}

func TestBumpCategoryAccumulates(t *testing.T) {
	c := &Customer{CID: "cid_acc"}

	c.BumpCategory("Standard", 1)
	c.BumpCategory("New Drop", 5)
	c.BumpCategory("Standard", 2)

	if c.TopCategories[0].Category != "New Drop" || c.TopCategories[0].Count != 5 {
		t.Errorf("top entry = %+v, want New Drop/5", c.TopCategories[0])
	}
	if c.TopCategories[1].Category != "Standard" || c.TopCategories[1].Count != 3 {
		t.Errorf("second entry = %+v, want Standard/3", c.TopCategories[1])
	}
}

func TestBumpProductMatchesByIDThenTitle(t *testing.T) {
	c := &Customer{CID: "cid_prod"}

	c.BumpProduct(7, "Vintage Tee", 1)
	c.BumpProduct(7, "Vintage Tee (renamed)", 2)
	c.BumpProduct(0, "Hoodie", 1)
	c.BumpProduct(0, "Hoodie", 1)

	if len(c.TopProducts) != 2 {
		t.Fatalf("topProducts = %v, want 2 entries", c.TopProducts)
	}
	if c.TopProducts[0].ProductID != 7 || c.TopProducts[0].Count != 3 {
		t.Errorf("id-matched entry = %+v, want count 3", c.TopProducts[0])
	}
	if c.TopProducts[1].Title != "Hoodie" || c.TopProducts[1].Count != 2 {
		t.Errorf("title-matched entry = %+v, want count 2", c.TopProducts[1])
	}
}

func TestBumpProductBound(t *testing.T) {
	c := &Customer{CID: "cid_pbound"}

	for i := 0; i < TopProductsLimit+10; i++ {
		c.BumpProduct(uint64(i+1), fmt.Sprintf("product-%d", i), 1)
	}

	if len(c.TopProducts) != TopProductsLimit {
		t.Fatalf("topProducts has %d entries, want %d", len(c.TopProducts), TopProductsLimit)
	}
}

func TestStatusRankForwardOnly(t *testing.T) {
	if StatusRank(OrderStatusPending) >= StatusRank(OrderStatusShipped) {
		t.Errorf("Pending must rank below Shipped")
	}
	if StatusRank(OrderStatusShipped) >= StatusRank(OrderStatusDelivered) {
		t.Errorf("Shipped must rank below Delivered")
	}
	if StatusRank("Cancelled") != -1 {
		t.Errorf("unknown status must rank -1")
	}
}
