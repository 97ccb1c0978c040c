package services

import (
	"encoding/json"
	"fmt"
	"log"
	"path"
	"path/filepath"
	"time"

	"velvet/internal/domain"
	"velvet/internal/repos"
	"velvet/internal/storage"

	"github.com/google/uuid"
)

// ImageInput is one image on the product form: either raw upload bytes or a
// pre-existing URL passed through unchanged.
type ImageInput struct {
	URL  string // set when the image is already stored
	Name string // original filename, used for the extension
	Data []byte
}

type ProductService struct {
	Prods   *repos.ProductRepo
	Objects storage.ObjectStore
}

func NewProductService(prods *repos.ProductRepo, objects storage.ObjectStore) *ProductService {
	return &ProductService{Prods: prods, Objects: objects}
}

// Save creates or updates a product. New images are uploaded individually
// under a randomly generated path; the resulting URL list replaces the
// product's image sequence in form order.
func (s *ProductService) Save(p domain.Product, images []ImageInput, reviews []domain.Review) (domain.Product, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if img.Data == nil {
			urls = append(urls, img.URL)
			continue
		}
		objPath := fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), uuid.NewString(), filepath.Ext(img.Name))
		url, err := s.Objects.Upload(objPath, img.Data)
		if err != nil {
			return domain.Product{}, fmt.Errorf("upload image: %w", err)
		}
		urls = append(urls, url)
	}

	imagesJSON, err := json.Marshal(urls)
	if err != nil {
		return domain.Product{}, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	reviewsJSON, err := json.Marshal(reviews)
	if err != nil {
		return domain.Product{}, err
	}
	p.ImagesJSON = string(imagesJSON)
	p.ReviewsJSON = string(reviewsJSON)

	if p.ID == "" {
		p.ID = uuid.NewString()
		return p, s.Prods.Create(p)
	}
	return p, s.Prods.Update(p)
}

// Delete removes the product record after best-effort deletion of each
// referenced image object; individual removal failures are logged and do not
// abort the rest.
func (s *ProductService) Delete(id string) error {
	p, err := s.Prods.Get(id)
	if err != nil {
		return err
	}
	for _, url := range p.Images() {
		objPath := path.Base(url)
		if objPath == "" || objPath == "." {
			continue
		}
		if err := s.Objects.Remove(objPath); err != nil {
			log.Printf("[warn] delete image %s: %v", objPath, err)
		}
	}
	return s.Prods.Delete(id)
}
