package services

import (
	"velvet/internal/cart"
	"velvet/internal/repos"
)

// ReconciledItem is a cart entry joined with the live product record: the
// persisted quantity plus authoritative price/name/stock.
type ReconciledItem struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
	Images      []string
	Quantity    int
}

func (it ReconciledItem) Subtotal() float64 { return it.Price * float64(it.Quantity) }

type CartService struct {
	Store cart.Store
	Prods *repos.ProductRepo
}

func NewCartService(store cart.Store, prods *repos.ProductRepo) *CartService {
	return &CartService{Store: store, Prods: prods}
}

// Reconcile joins the entries against current product records in one batched
// lookup. Entries whose product no longer exists are silently dropped; the
// output preserves the cart's entry order. Pure read, no side effects.
func (s *CartService) Reconcile(entries []cart.Entry) ([]ReconciledItem, error) {
	if len(entries) == 0 {
		return []ReconciledItem{}, nil
	}

	seen := map[string]bool{}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !seen[e.ID] {
			seen[e.ID] = true
			ids = append(ids, e.ID)
		}
	}

	prods, err := s.Prods.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]int, len(prods))
	for i := range prods {
		byID[prods[i].ID] = i
	}

	out := make([]ReconciledItem, 0, len(entries))
	for _, e := range entries {
		i, ok := byID[e.ID]
		if !ok {
			continue // product gone; drop without surfacing an error
		}
		p := prods[i]
		out = append(out, ReconciledItem{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Stock:       p.Quantity,
			Category:    p.Category,
			Images:      p.Images(),
			Quantity:    e.Quantity,
		})
	}
	return out, nil
}

// View reads the slot and reconciles it in one step.
func (s *CartService) View(slot string) ([]ReconciledItem, error) {
	return s.Reconcile(s.Store.Get(slot))
}
