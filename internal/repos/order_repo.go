package repos

import (
	"fmt"

	"velvet/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
  id, session_id, customer_name, customer_email, customer_phone, customer_address,
  items_json, subtotal, shipping, total, status, stripe_session_id,
  payment_intent, payment_status, shipping_json,
  created_at, COALESCE(updated_at,'') AS updated_at`

// Create inserts the order header with its item snapshot.
func (r *OrderRepo) Create(o domain.Order) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders
	    (id, session_id, customer_name, customer_email, customer_phone, customer_address,
	     items_json, subtotal, shipping, total, status, created_at)
	  VALUES
	    (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, o.ID, o.SessionID, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.CustomerAddress,
		o.ItemsJSON, o.Subtotal, o.Shipping, o.Total, o.Status)
	return err
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	return o, err
}

func (r *OrderRepo) SetStripeSession(orderID, sessionID string) error {
	res, err := r.db.Exec(`UPDATE orders SET stripe_session_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, sessionID, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

// MarkPaid overwrites payment state in a single statement. It deliberately
// does not check the previous status, so a replayed notification re-applies
// the same values.
func (r *OrderRepo) MarkPaid(orderID, paymentIntent, paymentStatus, shippingJSON string) error {
	res, err := r.db.Exec(`
	  UPDATE orders
	  SET status = ?, payment_intent = ?, payment_status = ?, shipping_json = ?,
	      updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, domain.OrderPaid, paymentIntent, paymentStatus, shippingJSON, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT `+orderCols+` FROM orders
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) ListBySession(sessionID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT `+orderCols+` FROM orders
	  WHERE session_id = ?
	  ORDER BY datetime(created_at) DESC
	`, sessionID)
	return out, err
}
