package handlers

import (
	applog "velvet/internal/log"
	"velvet/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct{}

// GET /contact
func (h *ContactHandler) Page(c *fiber.Ctx) error {
	return render(c, "contact", fiber.Map{})
}

// POST /contact
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	name, okName := validate.Name(c.FormValue("name"))
	email, okEmail := validate.Email(c.FormValue("email"))
	message := c.FormValue("message")
	if !okName || !okEmail || message == "" {
		c.Status(400)
		return render(c, "contact", fiber.Map{"Err": "Please fill in your name, a valid email and a message."})
	}
	// Messages only go to the audit log; there is no mailbox behind this form.
	applog.Audit(c, "contact.submit", map[string]any{"name": name, "email": email})
	return render(c, "contact", fiber.Map{"Sent": true})
}
