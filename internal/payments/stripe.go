// Package payments wraps the hosted payment processor: checkout session
// creation and webhook signature verification.
package payments

import (
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

type LineItem struct {
	Name       string
	UnitAmount int64 // pence
	Quantity   int64
	ImageURL   string
}

type SessionRequest struct {
	OrderID       string
	CustomerEmail string
	Items         []LineItem
	SuccessURL    string
	CancelURL     string
	FreeShipping  bool
}

type Session struct {
	ID  string
	URL string
}

// SessionCreator is what the checkout orchestrator needs; tests substitute a
// fake.
type SessionCreator interface {
	CreateSession(req SessionRequest) (Session, error)
}

type StripeClient struct {
	Key string
}

func (c *StripeClient) CreateSession(req SessionRequest) (Session, error) {
	stripe.Key = c.Key

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, it := range req.Items {
		li := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("gbp"),
				UnitAmount: stripe.Int64(it.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Name),
				},
			},
			Quantity: stripe.Int64(it.Quantity),
		}
		if it.ImageURL != "" {
			li.PriceData.ProductData.Images = []*string{stripe.String(it.ImageURL)}
		}
		lineItems = append(lineItems, li)
	}

	shippingAmount := int64(1000) // £10 standard
	shippingName := "Standard Shipping"
	if req.FreeShipping {
		shippingAmount = 0
		shippingName = "Free Shipping"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		CustomerEmail:      stripe.String(req.CustomerEmail),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{"GB", "US", "CA", "FR", "DE", "ES", "IT"}),
		},
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
					Type: stripe.String("fixed_amount"),
					FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(shippingAmount),
						Currency: stripe.String("gbp"),
					},
					DisplayName: stripe.String(shippingName),
					DeliveryEstimate: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
						Minimum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
							Unit:  stripe.String("business_day"),
							Value: stripe.Int64(3),
						},
						Maximum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
							Unit:  stripe.String("business_day"),
							Value: stripe.Int64(5),
						},
					},
				},
			},
		},
	}
	params.AddMetadata("orderId", req.OrderID)

	s, err := session.New(params)
	if err != nil {
		return Session{}, err
	}
	return Session{ID: s.ID, URL: s.URL}, nil
}

// VerifyEvent checks the notification signature against the shared secret
// before any trust is placed in the payload.
func VerifyEvent(payload []byte, sigHeader, secret string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, secret)
}
