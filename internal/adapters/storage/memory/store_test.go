package memory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/PabloGalante/verba/internal/adapters/storage/keyed"
	memstore "github.com/PabloGalante/verba/internal/adapters/storage/memory"
)

func item(pk, sk string, extra map[string]string) keyed.Item {
	it := keyed.Item{keyed.AttrPK: pk, keyed.AttrSK: sk}
	for k, v := range extra {
		it[k] = v
	}
	return it
}

func TestGetAbsentReturnsNil(t *testing.T) {
	ctx := context.Background()
	s := memstore.NewStore()

	got, err := s.Get(ctx, "p", "s")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent item, got %v", got)
	}
}

func TestPutOverwritesAndIsolatesCaller(t *testing.T) {
	ctx := context.Background()
	s := memstore.NewStore()

	original := item("p", "s", map[string]string{"v": "1"})
	if err := s.Put(ctx, original); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Mutating the caller's map after Put must not affect the stored item.
	original["v"] = "mutated"

	got, err := s.Get(ctx, "p", "s")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got["v"] != "1" {
		t.Errorf("stored item aliased caller's map: %v", got)
	}

	if err := s.Put(ctx, item("p", "s", map[string]string{"v": "2"})); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}
	got, _ = s.Get(ctx, "p", "s")
	if got["v"] != "2" {
		t.Errorf("expected overwrite, got %v", got)
	}
}

func TestQueryBySortKeyPrefix(t *testing.T) {
	ctx := context.Background()
	s := memstore.NewStore()

	for _, sk := range []string{"MSG#2", "MSG#1", "METADATA", "MSG#3"} {
		if err := s.Put(ctx, item("p", sk, nil)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	items, err := s.Query(ctx, keyed.QuerySpec{PK: "p", SKPrefix: "MSG#"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []string{"MSG#1", "MSG#2", "MSG#3"} {
		if items[i][keyed.AttrSK] != want {
			t.Errorf("position %d: expected %s, got %s", i, want, items[i][keyed.AttrSK])
		}
	}

	// Without a prefix the whole partition comes back.
	all, err := s.Query(ctx, keyed.QuerySpec{PK: "p"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 items, got %d", len(all))
	}
}

func TestQuerySecondaryIndexDescendingWithLimit(t *testing.T) {
	ctx := context.Background()
	s := memstore.NewStore()

	for i := 0; i < 4; i++ {
		it := item(fmt.Sprintf("p%d", i), "METADATA", map[string]string{
			keyed.AttrGSI1PK: "CONVS",
			keyed.AttrGSI1SK: fmt.Sprintf("2025-06-01T12:00:0%d.000Z#c%d", i, i),
		})
		if err := s.Put(ctx, it); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	items, err := s.Query(ctx, keyed.QuerySpec{
		Index:      keyed.IndexRecency,
		IndexPK:    "CONVS",
		Descending: true,
		Limit:      2,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0][keyed.AttrPK] != "p3" || items[1][keyed.AttrPK] != "p2" {
		t.Errorf("unexpected order: %v, %v", items[0][keyed.AttrPK], items[1][keyed.AttrPK])
	}
}

func TestBatchDelete(t *testing.T) {
	ctx := context.Background()
	s := memstore.NewStore()

	var keys []keyed.ItemKey
	for i := 0; i < 30; i++ {
		sk := fmt.Sprintf("MSG#%02d", i)
		if err := s.Put(ctx, item("p", sk, nil)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		keys = append(keys, keyed.ItemKey{PK: "p", SK: sk})
	}

	if err := s.BatchDelete(ctx, keys); err != nil {
		t.Fatalf("BatchDelete failed: %v", err)
	}

	items, err := s.Query(ctx, keyed.QuerySpec{PK: "p"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty partition, got %d items", len(items))
	}
}
