package handlers

import (
	"strconv"

	applog "velvet/internal/log"
	"velvet/internal/repos"
	"velvet/internal/validate"

	"github.com/gofiber/fiber/v2"
)

var categories = []string{"Ring", "Necklace", "Bracelet", "Earring"}

type ProductHandler struct {
	Prods *repos.ProductRepo
}

func (h *ProductHandler) Home(c *fiber.Ctx) error {
	prods, err := h.Prods.List(8, 0)
	if err != nil {
		applog.Error(c, "home.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Something went wrong. Please try again."})
	}
	return render(c, "home", fiber.Map{"Products": prods})
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := c.Query("q")
	category := c.Query("category")
	minPrice, _ := strconv.ParseFloat(c.Query("min"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("max"), 64)

	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	const pageSize = 12

	prods, err := h.Prods.Search(q, category, minPrice, maxPrice, pageSize, (page-1)*pageSize)
	if err != nil {
		applog.Error(c, "products.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products. Please try again."})
	}
	return render(c, "products", fiber.Map{
		"Products":   prods,
		"Categories": categories,
		"Q":          q,
		"Category":   category,
		"Page":       page,
	})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	p, err := h.Prods.Get(id)
	if err != nil || p.ID == "" {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	return render(c, "product", fiber.Map{"P": p, "Images": p.Images(), "Reviews": p.Reviews()})
}
