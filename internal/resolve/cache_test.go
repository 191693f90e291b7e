package resolve

import (
	"fmt"
	"testing"
	"time"

	"github.com/flipradar/flipradar/internal/model"
)

func TestMemoryCachePutGet(t *testing.T) {
	c := newMemoryCache(4, time.Minute)

	c.Put("k", record("B0X", "Cached"))
	got, ok := c.Get("k")
	if !ok || got.Title != "Cached" {
		t.Fatalf("Get() = (%+v, %v)", got, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) = true")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newMemoryCache(4, 10*time.Millisecond)

	c.Put("k", record("B0X", "Cached"))
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Get() = true after the TTL elapsed")
	}
}

func TestMemoryCacheEvictsOldest(t *testing.T) {
	c := newMemoryCache(2, time.Minute)

	c.Put("a", record("A", "A"))
	c.Put("b", record("B", "B"))
	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("Get(a) = false")
	}
	c.Put("c", record("C", "C"))

	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) = true, want the least recently used entry evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("Get(a) = false, recently used entry should survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("Get(c) = false")
	}
}

func TestMemoryCacheUpdateExistingKey(t *testing.T) {
	c := newMemoryCache(2, time.Minute)

	c.Put("k", record("B0X", "Old"))
	c.Put("k", record("B0X", "New"))

	got, ok := c.Get("k")
	if !ok || got.Title != "New" {
		t.Fatalf("Get() = (%+v, %v), want the updated value", got, ok)
	}
}

func TestMemoryCacheIsolatesCallers(t *testing.T) {
	c := newMemoryCache(4, time.Minute)

	original := record("B0X", "Pristine")
	bsr := 100
	original.Listing = &model.ListingSnapshot{MarketplaceID: "B0X", BSR: &bsr}
	c.Put("k", original)

	// Mutating the record handed to Put does not reach the cache.
	original.Title = "Scribbled"
	original.Listing.MarketplaceID = "other"

	first, ok := c.Get("k")
	if !ok {
		t.Fatal("Get() = false")
	}
	if first.Title != "Pristine" || first.Listing.MarketplaceID != "B0X" {
		t.Fatalf("cached record aliased the stored pointer: %+v", first)
	}

	// Mutating a returned record does not poison later hits.
	first.Title = "Scribbled"
	first.Listing.MarketplaceID = "other"

	second, ok := c.Get("k")
	if !ok {
		t.Fatal("Get() = false")
	}
	if second.Title != "Pristine" || second.Listing.MarketplaceID != "B0X" {
		t.Fatalf("cache hit reflects a caller's mutation: %+v", second)
	}
}

func TestMemoryCacheBoundedSize(t *testing.T) {
	c := newMemoryCache(8, time.Minute)
	for i := 0; i < 100; i++ {
		c.Put(fmt.Sprintf("k%d", i), record("B0X", "V"))
	}
	if c.lru.Len() > 8 {
		t.Errorf("lru length = %d, want at most 8", c.lru.Len())
	}
	if len(c.items) > 8 {
		t.Errorf("items length = %d, want at most 8", len(c.items))
	}
}
