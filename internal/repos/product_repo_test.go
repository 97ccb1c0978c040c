package repos_test

import (
	"testing"

	"velvet/internal/repos"
)

func openSeeded(t *testing.T) *repos.ProductRepo {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return repos.NewProductRepo(db)
}

func TestSearchByCategory(t *testing.T) {
	prods := openSeeded(t)

	out, err := prods.Search("", "Ring", 0, 0, 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rings from seed, got %d", len(out))
	}
	for _, p := range out {
		if p.Category != "Ring" {
			t.Fatalf("non-ring in result: %+v", p)
		}
	}
}

func TestSearchFreeTextIsCaseInsensitive(t *testing.T) {
	prods := openSeeded(t)

	out, err := prods.Search("PENDANT", "", 0, 0, 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "neck-lumen" {
		t.Fatalf("expected neck-lumen, got %+v", out)
	}
}

func TestSearchPriceRange(t *testing.T) {
	prods := openSeeded(t)

	out, err := prods.Search("", "", 80, 100, 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 products in 80..100, got %d", len(out))
	}
	for _, p := range out {
		if p.Price < 80 || p.Price > 100 {
			t.Fatalf("price out of range: %+v", p)
		}
	}
}

func TestGetByIDsSkipsMissing(t *testing.T) {
	prods := openSeeded(t)

	out, err := prods.GetByIDs([]string{"ring-aurora", "no-such-id", "brc-tide"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 found products, got %d", len(out))
	}
}

func TestGetByIDsEmptyInput(t *testing.T) {
	prods := openSeeded(t)
	out, err := prods.GetByIDs(nil)
	if err != nil || out != nil {
		t.Fatalf("empty input should be a no-op, got %v %v", out, err)
	}
}
