package services

import (
	"encoding/json"
	"errors"

	"velvet/internal/repos"

	"github.com/stripe/stripe-go/v80"
)

type WebhookService struct {
	Orders *repos.OrderRepo
}

func NewWebhookService(orders *repos.OrderRepo) *WebhookService {
	return &WebhookService{Orders: orders}
}

// HandleEvent applies an already-verified event. Only
// checkout.session.completed mutates anything: a single blind-overwrite update
// of the order named in the session metadata. Other event types are
// acknowledged and ignored.
func (s *WebhookService) HandleEvent(event stripe.Event) error {
	if event.Type != "checkout.session.completed" {
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return err
	}

	orderID := sess.Metadata["orderId"]
	if orderID == "" {
		return errors.New("event metadata missing orderId")
	}

	paymentIntent := ""
	if sess.PaymentIntent != nil {
		paymentIntent = sess.PaymentIntent.ID
	}
	shippingJSON := ""
	if sess.ShippingDetails != nil {
		if b, err := json.Marshal(sess.ShippingDetails); err == nil {
			shippingJSON = string(b)
		}
	}

	return s.Orders.MarkPaid(orderID, paymentIntent, string(sess.PaymentStatus), shippingJSON)
}
