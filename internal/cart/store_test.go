package cart_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"velvet/internal/cart"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE cart_slots(
	  session_id TEXT PRIMARY KEY, data TEXT NOT NULL, updated_at TEXT)`); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSlotStoreRoundTrip(t *testing.T) {
	store := cart.NewSlotStore(memdb(t))

	items := []cart.Entry{{ID: "ring-aurora", Quantity: 2}, {ID: "neck-lumen", Quantity: 1}}
	if err := store.Set("sid-1", items); err != nil {
		t.Fatal(err)
	}

	got := store.Get("sid-1")
	if len(got) != 2 || got[0].ID != "ring-aurora" || got[0].Quantity != 2 {
		t.Fatalf("unexpected round trip: %+v", got)
	}
}

func TestSlotStoreMissingSlotIsEmpty(t *testing.T) {
	store := cart.NewSlotStore(memdb(t))
	if got := store.Get("nope"); len(got) != 0 {
		t.Fatalf("missing slot should read empty, got %+v", got)
	}
}

func TestSlotStoreMalformedDataIsEmpty(t *testing.T) {
	db := memdb(t)
	store := cart.NewSlotStore(db)
	db.MustExec(`INSERT INTO cart_slots(session_id, data) VALUES('sid-bad', '{not json')`)

	if got := store.Get("sid-bad"); len(got) != 0 {
		t.Fatalf("malformed slot should read empty, got %+v", got)
	}
}

func TestSlotStoreLastWriteWins(t *testing.T) {
	store := cart.NewSlotStore(memdb(t))
	_ = store.Set("sid-1", []cart.Entry{{ID: "a", Quantity: 1}})
	_ = store.Set("sid-1", []cart.Entry{{ID: "b", Quantity: 7}})

	got := store.Get("sid-1")
	if len(got) != 1 || got[0].ID != "b" || got[0].Quantity != 7 {
		t.Fatalf("second write should replace the first, got %+v", got)
	}
}

func TestSlotStorePublishesOnSet(t *testing.T) {
	store := cart.NewSlotStore(memdb(t))

	var notified []string
	store.Events.Subscribe(func(slot string) { notified = append(notified, slot) })

	if err := store.Set("sid-42", []cart.Entry{{ID: "a", Quantity: 1}}); err != nil {
		t.Fatal(err)
	}
	if len(notified) != 1 || notified[0] != "sid-42" {
		t.Fatalf("expected one notification for sid-42, got %v", notified)
	}

	// Clearing is still a write, so it notifies as well.
	if err := store.Set("sid-42", nil); err != nil {
		t.Fatal(err)
	}
	if len(notified) != 2 {
		t.Fatalf("expected second notification, got %v", notified)
	}
}
