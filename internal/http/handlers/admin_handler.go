package handlers

import (
	"io"
	"mime/multipart"
	"strings"

	"velvet/internal/domain"
	applog "velvet/internal/log"
	"velvet/internal/repos"
	"velvet/internal/services"
	"velvet/internal/validate"

	"github.com/gofiber/fiber/v2"
)

const maxImageBytes = 5 << 20 // per upload

type AdminHandler struct {
	Prods    *repos.ProductRepo
	Products *services.ProductService
	Orders   *repos.OrderRepo
}

// GET /admin/products
func (h *AdminHandler) ProductsPage(c *fiber.Ctx) error {
	prods, err := h.Prods.List(200, 0)
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "admin_products", fiber.Map{"Products": prods})
}

// GET /admin/products/new
func (h *AdminHandler) NewForm(c *fiber.Ctx) error {
	return render(c, "admin_product_form", fiber.Map{"Categories": categories})
}

// GET /admin/products/:id/edit
func (h *AdminHandler) EditForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	p, err := h.Prods.Get(id)
	if err != nil {
		applog.Error(c, "admin.products.load.fail", err, map[string]any{"product_id": id})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	return render(c, "admin_product_form", fiber.Map{
		"P": p, "Images": p.Images(), "Reviews": p.Reviews(), "Categories": categories,
	})
}

// POST /admin/products
func (h *AdminHandler) Save(c *fiber.Ctx) error {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return h.saveError(c, "Please enter a product name.")
	}
	price, ok := validate.Price(c.FormValue("price"))
	if !ok {
		return h.saveError(c, "Please enter a valid price.")
	}
	stock, ok := validate.Stock(c.FormValue("stock"))
	if !ok {
		return h.saveError(c, "Please enter a valid stock quantity.")
	}
	category := c.FormValue("category")
	if !validCategory(category) {
		return h.saveError(c, "Please pick a category.")
	}

	p := domain.Product{
		Name:        name,
		Description: c.FormValue("description"),
		Price:       price,
		Quantity:    stock,
		Category:    category,
	}
	id := c.Params("id")
	if id == "" {
		id = c.FormValue("id")
	}
	if id != "" {
		pid, ok := validate.ID(id)
		if !ok {
			return h.saveError(c, "Invalid product id.")
		}
		p.ID = pid
	}

	images, err := h.collectImages(c)
	if err != nil {
		applog.Security(c, "admin.products.image.reject", map[string]any{"detail": err.Error()})
		return h.saveError(c, err.Error())
	}
	reviews := collectReviews(c)

	saved, err := h.Products.Save(p, images, reviews)
	if err != nil {
		applog.Error(c, "admin.products.save.fail", err, map[string]any{"product_id": p.ID})
		return h.saveError(c, "Could not save product. Please try again.")
	}
	applog.Audit(c, "admin.products.save", map[string]any{"product_id": saved.ID})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/delete
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Products.Delete(id); err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product_id": id})
		return c.Status(400).SendString("could not delete product")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id})
	return c.Redirect("/admin/products")
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Orders.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// collectImages keeps already-stored URLs in form order ahead of any new
// uploads. Each upload is size and content-type checked before its bytes are
// read.
func (h *AdminHandler) collectImages(c *fiber.Ctx) ([]services.ImageInput, error) {
	var images []services.ImageInput

	form, err := c.MultipartForm()
	if err != nil {
		// Plain form post without files is fine; keep existing URLs only.
		for _, url := range strings.Split(c.FormValue("existing_images"), "\n") {
			if url = strings.TrimSpace(url); url != "" {
				images = append(images, services.ImageInput{URL: url})
			}
		}
		return images, nil
	}

	for _, url := range form.Value["existing_images"] {
		if url = strings.TrimSpace(url); url != "" {
			images = append(images, services.ImageInput{URL: url})
		}
	}
	for _, fh := range form.File["images"] {
		data, err := readImage(fh)
		if err != nil {
			return nil, err
		}
		images = append(images, services.ImageInput{Name: fh.Filename, Data: data})
	}
	return images, nil
}

func readImage(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxImageBytes {
		return nil, fiber.NewError(400, "Each image must be 5MB or smaller.")
	}
	if ct := fh.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return nil, fiber.NewError(400, "Only image files can be uploaded.")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxImageBytes))
}

func collectReviews(c *fiber.Ctx) []domain.Review {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	names := form.Value["review_name"]
	texts := form.Value["review_text"]
	var out []domain.Review
	for i := range names {
		if i >= len(texts) {
			break
		}
		name := strings.TrimSpace(names[i])
		text := strings.TrimSpace(texts[i])
		if name == "" && text == "" {
			continue
		}
		out = append(out, domain.Review{Name: name, Text: text})
	}
	return out
}

func validCategory(cat string) bool {
	for _, c := range categories {
		if c == cat {
			return true
		}
	}
	return false
}

func (h *AdminHandler) saveError(c *fiber.Ctx, msg string) error {
	c.Status(400)
	return render(c, "admin_product_form", fiber.Map{"Err": msg, "Categories": categories})
}
