package handlers

import (
	applog "velvet/internal/log"
	"velvet/internal/payments"
	"velvet/internal/services"

	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	Secret string
	Hook   *services.WebhookService
}

// Receive verifies and applies a payment notification. Nothing is mutated
// until the signature checks out.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	event, err := payments.VerifyEvent(c.Body(), c.Get("Stripe-Signature"), h.Secret)
	if err != nil {
		applog.Security(c, "webhook.signature.fail", map[string]any{"detail": err.Error()})
		return c.Status(400).JSON(fiber.Map{"error": "invalid signature"})
	}

	if err := h.Hook.HandleEvent(event); err != nil {
		applog.Error(c, "webhook.apply.fail", err, map[string]any{"type": string(event.Type)})
		return c.Status(500).JSON(fiber.Map{"error": "webhook handler failed"})
	}

	applog.Audit(c, "webhook.received", map[string]any{"type": string(event.Type)})
	return c.JSON(fiber.Map{"received": true})
}
