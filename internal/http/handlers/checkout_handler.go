package handlers

import (
	"errors"

	"velvet/internal/cart"
	applog "velvet/internal/log"
	"velvet/internal/services"
	"velvet/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Store    cart.Store
}

func (h *CheckoutHandler) Form(c *fiber.Ctx) error {
	sid := ensureSID(c)
	items, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return render(c, "checkout", fiber.Map{"Err": "Failed to load cart items. Please try again."})
	}
	data := fiber.Map{"Items": items, "Totals": services.ComputeTotals(items)}
	if c.Query("canceled") != "" {
		data["Err"] = "Payment was canceled. You can try again when you're ready."
	}
	return render(c, "checkout", data)
}

// Place persists a pending order and redirects to the hosted payment page.
func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)

	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return h.formError(c, "Please enter a valid email address.")
	}
	firstName, ok := validate.Name(c.FormValue("first_name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "first_name"})
		return h.formError(c, "Please enter your first name.")
	}
	lastName, ok := validate.Name(c.FormValue("last_name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "last_name"})
		return h.formError(c, "Please enter your last name.")
	}
	phone, ok := validate.Phone(c.FormValue("phone"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "phone"})
		return h.formError(c, "Please enter a valid phone number.")
	}
	form := services.CheckoutForm{
		Email:      email,
		FirstName:  firstName,
		LastName:   lastName,
		Phone:      phone,
		Address:    c.FormValue("address"),
		City:       c.FormValue("city"),
		PostalCode: c.FormValue("postal_code"),
		Country:    c.FormValue("country"),
	}
	if form.Address == "" || form.City == "" || form.PostalCode == "" {
		applog.Security(c, "validation.fail", map[string]any{"field": "address"})
		return h.formError(c, "Please fill in your shipping address.")
	}
	if form.Country == "" {
		form.Country = "United Kingdom"
	}

	items, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return h.formError(c, "Failed to load cart items. Please try again.")
	}

	orderID, url, err := h.Checkout.PlaceOrder(sid, form, items)
	if errors.Is(err, services.ErrCartEmpty) {
		return h.formError(c, "Your cart is empty. Please add items before checkout.")
	}
	if err != nil {
		// A pending order may have been left behind; detail stays in the log.
		applog.Error(c, "checkout.place.fail", err, map[string]any{"order_id": orderID})
		return h.formError(c, "Failed to process your order. Please try again.")
	}

	applog.Audit(c, "checkout.place", map[string]any{"order_id": orderID})
	return c.Redirect(url, fiber.StatusSeeOther)
}

// Success clears the cart slot after the hosted payment page redirects back.
func (h *CheckoutHandler) Success(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Store.Set(sid, nil); err != nil {
		applog.Error(c, "checkout.cart.clear", err, nil)
	}
	return render(c, "checkout_success", fiber.Map{"OrderID": c.Query("order_id")})
}

// CreateSession is the JSON payment-session endpoint: order id in, session
// id/url out.
func (h *CheckoutHandler) CreateSession(c *fiber.Ctx) error {
	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	orderID, ok := validate.ID(req.OrderID)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "missing orderId"})
	}

	sess, err := h.Checkout.SessionForOrder(orderID)
	if err != nil {
		applog.Error(c, "checkout.session.fail", err, map[string]any{"order_id": orderID})
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create checkout session"})
	}
	return c.JSON(fiber.Map{"id": sess.ID, "url": sess.URL})
}

func (h *CheckoutHandler) formError(c *fiber.Ctx, msg string) error {
	sid := ensureSID(c)
	items, _ := h.Cart.View(sid)
	c.Status(400)
	return render(c, "checkout", fiber.Map{
		"Items":  items,
		"Totals": services.ComputeTotals(items),
		"Err":    msg,
	})
}
