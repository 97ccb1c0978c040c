package handlers

import (
	"velvet/internal/cart"
	applog "velvet/internal/log"
	"velvet/internal/services"
	"velvet/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Store cart.Store
	Cart  *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	items, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.load", err, nil)
		// Leave the stored cart untouched; show a generic retry message.
		return render(c, "cart", fiber.Map{"Err": "Failed to load cart items. Please try again."})
	}
	t := services.ComputeTotals(items)
	return render(c, "cart", fiber.Map{"Items": items, "Totals": t})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))

	entries := h.Store.Get(sid)
	if err := h.Store.Set(sid, cart.AddItem(entries, cart.Entry{ID: productID, Quantity: qty})); err != nil {
		applog.Error(c, "cart.add", err, map[string]any{"product": productID})
		return c.Status(500).SendString("could not update cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))

	entries := h.Store.Get(sid)
	if err := h.Store.Set(sid, cart.UpdateQuantity(entries, productID, qty)); err != nil {
		applog.Error(c, "cart.update", err, map[string]any{"product": productID})
		return c.Status(500).SendString("could not update cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}

	entries := h.Store.Get(sid)
	if err := h.Store.Set(sid, cart.RemoveItem(entries, productID)); err != nil {
		applog.Error(c, "cart.remove", err, map[string]any{"product": productID})
		return c.Status(500).SendString("could not update cart")
	}
	return c.Redirect("/cart")
}

// Count backs the navbar badge.
func (h *CartHandler) Count(c *fiber.Ctx) error {
	sid := ensureSID(c)
	return c.JSON(fiber.Map{"count": cart.Count(h.Store.Get(sid))})
}
