package repos

import (
	"strings"

	"velvet/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, description, price, quantity, category, images_json, reviews_json,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// GetByIDs issues one batched lookup; ids absent from the table are simply
// missing from the result.
func (r *ProductRepo) GetByIDs(ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT `+productCols+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	err = r.db.Select(&out, r.db.Rebind(query), args...)
	return out, err
}

// Search filters by free text, category equality and a price range, newest
// first.
func (r *ProductRepo) Search(q, category string, minPrice, maxPrice float64, limit, offset int) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if q != "" {
		needle := "%" + strings.ToLower(q) + "%"
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, needle, needle)
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	if minPrice > 0 {
		where += ` AND price >= ?`
		args = append(args, minPrice)
	}
	if maxPrice > 0 {
		where += ` AND price <= ?`
		args = append(args, maxPrice)
	}

	sql := `SELECT ` + productCols + ` FROM products WHERE ` + where + `
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, sql, args...)
	return out, err
}

func (r *ProductRepo) List(limit, offset int) ([]domain.Product, error) {
	return r.Search("", "", 0, 0, limit, offset)
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, description, price, quantity, category, images_json, reviews_json, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, p.ID, p.Name, p.Description, p.Price, p.Quantity, p.Category, p.ImagesJSON, p.ReviewsJSON)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET name = ?, description = ?, price = ?, quantity = ?, category = ?,
	      images_json = ?, reviews_json = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, p.Name, p.Description, p.Price, p.Quantity, p.Category, p.ImagesJSON, p.ReviewsJSON, p.ID)
	return err
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}
