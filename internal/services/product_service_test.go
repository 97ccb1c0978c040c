package services_test

import (
	"errors"
	"strings"
	"testing"

	"velvet/internal/domain"
	"velvet/internal/repos"
	"velvet/internal/services"
)

// fakeObjects remembers uploads and removals; failRemove makes every Remove
// call fail.
type fakeObjects struct {
	uploads    []string
	removed    []string
	failRemove bool
}

func (f *fakeObjects) Upload(path string, data []byte) (string, error) {
	f.uploads = append(f.uploads, path)
	return "/media/products/" + path, nil
}

func (f *fakeObjects) Remove(path string) error {
	f.removed = append(f.removed, path)
	if f.failRemove {
		return errors.New("object store unavailable")
	}
	return nil
}

func TestSaveUploadsNewImagesAndKeepsURLs(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	prods := repos.NewProductRepo(db)
	objects := &fakeObjects{}
	svc := services.NewProductService(prods, objects)

	p := domain.Product{
		Name: "Mist Earrings", Description: "Silver drop earrings.",
		Price: 48.00, Quantity: 5, Category: "Earring",
	}
	images := []services.ImageInput{
		{URL: "/media/products/existing.jpg"},
		{Name: "new-shot.png", Data: []byte{1, 2, 3}},
	}
	saved, err := svc.Save(p, images, nil)
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == "" {
		t.Fatal("expected a generated id")
	}
	if len(objects.uploads) != 1 || !strings.HasSuffix(objects.uploads[0], ".png") {
		t.Fatalf("expected one .png upload, got %v", objects.uploads)
	}

	got, err := prods.Get(saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	urls := got.Images()
	if len(urls) != 2 || urls[0] != "/media/products/existing.jpg" {
		t.Fatalf("image order not preserved: %v", urls)
	}
	if !strings.HasPrefix(urls[1], "/media/products/") {
		t.Fatalf("uploaded url missing prefix: %s", urls[1])
	}
}

func TestSaveExistingIDUpdates(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	prods := repos.NewProductRepo(db)
	svc := services.NewProductService(prods, &fakeObjects{})

	p, err := prods.Get("ring-aurora")
	if err != nil {
		t.Fatal(err)
	}
	p.Price = 135.00
	if _, err := svc.Save(p, []services.ImageInput{{URL: p.FirstImage()}}, p.Reviews()); err != nil {
		t.Fatal(err)
	}

	got, _ := prods.Get("ring-aurora")
	if got.Price != 135.00 {
		t.Fatalf("price not updated: %v", got.Price)
	}
	if len(got.Reviews()) != 1 {
		t.Fatalf("reviews lost on update: %v", got.ReviewsJSON)
	}
}

func TestDeleteContinuesPastFailedImageRemoval(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	prods := repos.NewProductRepo(db)
	objects := &fakeObjects{failRemove: true}
	svc := services.NewProductService(prods, objects)

	if err := svc.Delete("ring-aurora"); err != nil {
		t.Fatalf("record delete should succeed despite image failures: %v", err)
	}
	if len(objects.removed) != 1 || objects.removed[0] != "ring-aurora.jpg" {
		t.Fatalf("expected removal attempt for ring-aurora.jpg, got %v", objects.removed)
	}
	if _, err := prods.Get("ring-aurora"); err == nil {
		t.Fatal("product record should be gone")
	}
}

func TestDeleteUnknownProduct(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	svc := services.NewProductService(repos.NewProductRepo(db), &fakeObjects{})
	if err := svc.Delete("no-such-id"); err == nil {
		t.Fatal("expected error for unknown product")
	}
}
