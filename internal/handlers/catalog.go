package handlers

import (
	"strconv"
	"strings"

	apperrors "labanita/internal/errors"
	"labanita/internal/repositories"
	"labanita/internal/services/catalog"
	"labanita/internal/utils/pagination"
	"labanita/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CatalogHandler serves the product catalog. A nil service means the
// catalog database is disabled and every route answers 503.
type CatalogHandler struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

func NewCatalogHandler(svc *catalog.Service, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{catalog: svc, logger: logger}
}

func (h *CatalogHandler) available() bool {
	return h.catalog != nil
}

// ListProducts supports ?page, ?limit, ?category_id and ?q.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	if !h.available() {
		return response.Fail(c, apperrors.ErrCatalogUnavailable)
	}

	p := pagination.ParseFromRequest(c)
	filter := repositories.ProductFilter{
		Search: strings.TrimSpace(c.Query("q")),
		Offset: p.Offset,
		Limit:  p.Limit,
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return response.BadRequest(c, "Invalid category ID")
		}
		filter.CategoryID = uint(id)
	}

	page, err := h.catalog.ListProducts(c.UserContext(), filter)
	if err != nil {
		return fail(c, h.logger, err)
	}
	p.Total = page.Total
	return c.JSON(pagination.Response(p, page.Products))
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	if !h.available() {
		return response.Fail(c, apperrors.ErrCatalogUnavailable)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid product ID")
	}

	product, err := h.catalog.GetProduct(c.UserContext(), uint(id))
	if err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Product retrieved successfully", product)
}

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	if !h.available() {
		return response.Fail(c, apperrors.ErrCatalogUnavailable)
	}

	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Categories retrieved successfully", categories)
}
