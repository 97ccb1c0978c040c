package domain

import "encoding/json"

type Product struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	Quantity    int     `db:"quantity"` // stock on hand, read-only at checkout
	Category    string  `db:"category"` // Ring | Necklace | Bracelet | Earring
	ImagesJSON  string  `db:"images_json"`
	ReviewsJSON string  `db:"reviews_json"`
	CreatedAt   string  `db:"created_at"`
	UpdatedAt   string  `db:"updated_at"`
}

type Review struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Images decodes the stored URL list; a malformed value yields nil.
func (p Product) Images() []string {
	var urls []string
	_ = json.Unmarshal([]byte(p.ImagesJSON), &urls)
	return urls
}

func (p Product) Reviews() []Review {
	var rs []Review
	_ = json.Unmarshal([]byte(p.ReviewsJSON), &rs)
	return rs
}

func (p Product) FirstImage() string {
	if urls := p.Images(); len(urls) > 0 {
		return urls[0]
	}
	return ""
}

func (p Product) InStock() bool { return p.Quantity > 0 }

// Order statuses. The only in-code transition is pending -> paid, applied by
// the webhook handler.
const (
	OrderPending = "pending"
	OrderPaid    = "paid"
)

type Order struct {
	ID              string  `db:"id"`
	SessionID       string  `db:"session_id"`
	CustomerName    string  `db:"customer_name"`
	CustomerEmail   string  `db:"customer_email"`
	CustomerPhone   string  `db:"customer_phone"`
	CustomerAddress string  `db:"customer_address"`
	ItemsJSON       string  `db:"items_json"` // snapshot taken at submission time
	Subtotal        float64 `db:"subtotal"`
	Shipping        float64 `db:"shipping"`
	Total           float64 `db:"total"`
	Status          string  `db:"status"`
	StripeSessionID string  `db:"stripe_session_id"`
	PaymentIntent   string  `db:"payment_intent"`
	PaymentStatus   string  `db:"payment_status"`
	ShippingJSON    string  `db:"shipping_json"`
	CreatedAt       string  `db:"created_at"`
	UpdatedAt       string  `db:"updated_at"`
}

// OrderItem is the denormalized line captured on the order; price and name are
// not re-validated against the live product after this point.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

func (o Order) Items() []OrderItem {
	var items []OrderItem
	_ = json.Unmarshal([]byte(o.ItemsJSON), &items)
	return items
}
