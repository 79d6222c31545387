package catalog

import (
	"errors"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/categories", h.getCategories)
	app.Get("/api/products", h.getProducts)
	app.Get("/api/products/:id", h.getProduct)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": Navigation()})
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	f := Filter{
		Category: c.Query("category"),
		Type:     c.Query("type"),
		Age:      c.Query("age"),
		Color:    c.Query("color"),
		Size:     c.Query("size"),
		OnSale:   c.QueryBool("on_sale"),
		New:      c.QueryBool("new"),
		Sort:     c.Query("sort"),
	}
	if errs := validateFilter(f); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid filter", "fields": errs})
	}
	return c.JSON(fiber.Map{"products": h.service.List(f)})
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(fiber.Map{"product": p})
}

func validateFilter(f Filter) map[string]string {
	errs := map[string]string{}
	if f.Category != "" && !slices.ContainsFunc(AllowedCategories, func(c string) bool {
		return strings.EqualFold(c, f.Category)
	}) {
		errs["category"] = "invalid category"
	}
	switch f.Sort {
	case "", SortNewest, SortPriceAsc, SortPriceDesc:
	default:
		errs["sort"] = "sort must be newest, price_asc or price_desc"
	}
	return errs
}
