package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"velvet/internal/domain"
	"velvet/internal/payments"
	"velvet/internal/repos"

	"github.com/google/uuid"
)

// Flat shipping fee, waived when the subtotal strictly exceeds the threshold.
const (
	ShippingFlatFee  = 10.0
	FreeShippingOver = 100.0
)

type Totals struct {
	Subtotal float64
	Shipping float64
	Total    float64
}

func ComputeTotals(items []ReconciledItem) Totals {
	t := Totals{}
	for _, it := range items {
		t.Subtotal += it.Subtotal()
	}
	t.Shipping = ShippingFlatFee
	if t.Subtotal > FreeShippingOver {
		t.Shipping = 0
	}
	t.Total = t.Subtotal + t.Shipping
	return t
}

type CheckoutForm struct {
	Email      string
	FirstName  string
	LastName   string
	Address    string
	City       string
	PostalCode string
	Country    string
	Phone      string
}

var ErrCartEmpty = errors.New("cart empty")

type CheckoutService struct {
	Orders   *repos.OrderRepo
	Payments payments.SessionCreator
	BaseURL  string
}

func NewCheckoutService(orders *repos.OrderRepo, pay payments.SessionCreator, baseURL string) *CheckoutService {
	return &CheckoutService{Orders: orders, Payments: pay, BaseURL: baseURL}
}

// PlaceOrder persists a pending order with a denormalized item snapshot, then
// requests a payment session keyed by the order id and writes the session id
// back. The steps are not transactional: a session failure after the insert
// leaves the pending order behind with no session id and no cleanup. Stock is
// never read or decremented here.
func (s *CheckoutService) PlaceOrder(sessionID string, form CheckoutForm, items []ReconciledItem) (orderID, redirectURL string, err error) {
	if len(items) == 0 {
		return "", "", ErrCartEmpty
	}

	t := ComputeTotals(items)

	snapshot := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		snapshot = append(snapshot, domain.OrderItem{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	itemsJSON, err := json.Marshal(snapshot)
	if err != nil {
		return "", "", err
	}

	orderID = uuid.NewString()
	o := domain.Order{
		ID:              orderID,
		SessionID:       sessionID,
		CustomerName:    form.FirstName + " " + form.LastName,
		CustomerEmail:   form.Email,
		CustomerPhone:   form.Phone,
		CustomerAddress: fmt.Sprintf("%s, %s, %s, %s", form.Address, form.City, form.PostalCode, form.Country),
		ItemsJSON:       string(itemsJSON),
		Subtotal:        t.Subtotal,
		Shipping:        t.Shipping,
		Total:           t.Total,
		Status:          domain.OrderPending,
	}
	if err := s.Orders.Create(o); err != nil {
		return "", "", err
	}

	sess, err := s.requestSession(orderID, form.Email, snapshot, t.Subtotal > FreeShippingOver, itemImages(items))
	if err != nil {
		// Pending order is left behind; known gap, no cleanup or retry.
		return orderID, "", err
	}
	if err := s.Orders.SetStripeSession(orderID, sess.ID); err != nil {
		return orderID, "", err
	}
	return orderID, sess.URL, nil
}

// SessionForOrder creates a payment session for an already-persisted order
// and records the session id on it. Backs the create-checkout-session API.
func (s *CheckoutService) SessionForOrder(orderID string) (payments.Session, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return payments.Session{}, err
	}
	sess, err := s.requestSession(o.ID, o.CustomerEmail, o.Items(), o.Subtotal > FreeShippingOver, nil)
	if err != nil {
		return payments.Session{}, err
	}
	if err := s.Orders.SetStripeSession(o.ID, sess.ID); err != nil {
		return payments.Session{}, err
	}
	return sess, nil
}

func (s *CheckoutService) requestSession(orderID, email string, items []domain.OrderItem, freeShipping bool, images map[string]string) (payments.Session, error) {
	lines := make([]payments.LineItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, payments.LineItem{
			Name:       it.Name,
			UnitAmount: toPence(it.Price),
			Quantity:   int64(it.Quantity),
			ImageURL:   images[it.ProductID],
		})
	}
	return s.Payments.CreateSession(payments.SessionRequest{
		OrderID:       orderID,
		CustomerEmail: email,
		Items:         lines,
		SuccessURL:    s.BaseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}&order_id=" + orderID,
		CancelURL:     s.BaseURL + "/checkout?canceled=true&order_id=" + orderID,
		FreeShipping:  freeShipping,
	})
}

func itemImages(items []ReconciledItem) map[string]string {
	m := make(map[string]string, len(items))
	for _, it := range items {
		if len(it.Images) > 0 {
			m[it.ID] = it.Images[0]
		}
	}
	return m
}

func toPence(pounds float64) int64 {
	return int64(math.Round(pounds * 100))
}
