package store_test

import (
	"context"
	"testing"

	"github.com/atlasclinic/ledger-engine/ledger"
	"github.com/atlasclinic/ledger-engine/ledger/store"
)

func entry(date string, account, debit, credit int64, ref string) ledger.Entry {
	return ledger.Entry{Date: date, AccountID: account, Debit: debit, Credit: credit, ReferenceID: ref}
}

func TestMemory_AppendAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	first, err := m.Append(ctx, entry("1403/1/1", 2, 100, 0, "payment-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := m.Append(ctx, entry("1403/1/2", 2, 100, 0, "payment-2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != first+1 {
		t.Errorf("expected sequential ids, got %d then %d", first, second)
	}
}

func TestMemory_ListAllOrdersByDateThenID(t *testing.T) {
	// GIVEN: entries appended out of date order, plus one unparseable date
	// WHEN: listing all
	// THEN: rows come back date-ordered with the unparseable row first
	//       (sentinel 0 sorts before every valid date)

	ctx := context.Background()
	m := store.NewMemory()
	m.Append(ctx, entry("1403/5/10", 2, 100, 0, "payment-1"))
	m.Append(ctx, entry("1403/5/8", 2, 100, 0, "payment-2"))
	m.Append(ctx, entry("garbage", 2, 100, 0, "payment-3"))

	all, err := m.ListAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}
	wantDates := []string{"garbage", "1403/5/8", "1403/5/10"}
	for i, want := range wantDates {
		if all[i].Date != want {
			t.Errorf("row %d date = %q, want %q", i, all[i].Date, want)
		}
	}
}

func TestMemory_FindByReference(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	m.Append(ctx, entry("1403/5/8", 2, 140000, 0, "payment-1"))
	m.Append(ctx, entry("1403/5/8", 4, 0, 140000, "payment-1"))
	m.Append(ctx, entry("1403/5/9", 2, 5000, 0, "payment-2"))

	family, err := m.FindByReference(ctx, "payment-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(family) != 2 {
		t.Fatalf("expected 2 rows in the family, got %d", len(family))
	}
	for _, e := range family {
		if e.ReferenceID != "payment-1" {
			t.Errorf("row %d carries reference %q", e.ID, e.ReferenceID)
		}
	}

	none, err := m.FindByReference(ctx, "payment-404")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected empty family, got %d rows", len(none))
	}
}

func TestMemory_DeleteManyMaintainsReferenceIndex(t *testing.T) {
	// GIVEN: a two-row family
	// WHEN: deleting it (including an id that does not exist)
	// THEN: the family is gone from both the list and the reference index

	ctx := context.Background()
	m := store.NewMemory()
	id1, _ := m.Append(ctx, entry("1403/5/8", 2, 140000, 0, "payment-1"))
	id2, _ := m.Append(ctx, entry("1403/5/8", 4, 0, 140000, "payment-1"))

	if err := m.DeleteMany(ctx, []int64{id1, id2, 9999}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	family, _ := m.FindByReference(ctx, "payment-1")
	if len(family) != 0 {
		t.Errorf("expected reference index cleared, got %d rows", len(family))
	}
	all, _ := m.ListAll(ctx)
	if len(all) != 0 {
		t.Errorf("expected empty ledger, got %d rows", len(all))
	}
}

func TestMemory_ListInRange(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	m.Append(ctx, entry("1403/1/10", 2, 100, 0, "payment-1"))
	m.Append(ctx, entry("1403/2/10", 2, 200, 0, "payment-2"))
	m.Append(ctx, entry("1403/3/10", 3, 300, 0, "payment-3"))
	m.Append(ctx, entry("garbage", 2, 400, 0, "payment-4"))

	// Account filter plus bounded range
	got, err := m.ListInRange(ctx, 2, "1403/1/1", "1403/2/29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}

	// All accounts, upper bound only: unparseable dates stay excluded
	got, err = m.ListInRange(ctx, 0, "", "1403/12/29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}

	// Fully unbounded includes everything
	got, err = m.ListInRange(ctx, 0, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(got))
	}
}

func TestMemory_AppendBatchAllOrNothing(t *testing.T) {
	// GIVEN: a batch whose second row is invalid
	// WHEN: appending the batch
	// THEN: nothing is written

	ctx := context.Background()
	m := store.NewMemory()
	_, err := m.AppendBatch(ctx, []ledger.Entry{
		entry("1403/5/8", 2, 100, 0, "payment-1"),
		entry("1403/5/8", 4, -50, 0, "payment-1"),
	})
	if err == nil {
		t.Fatal("expected an error for the invalid row")
	}
	all, _ := m.ListAll(ctx)
	if len(all) != 0 {
		t.Errorf("expected empty ledger after failed batch, got %d rows", len(all))
	}
}
