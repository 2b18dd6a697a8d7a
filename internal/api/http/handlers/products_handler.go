package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inventory-service/internal/api/dto"
	"github.com/spec-kit/inventory-service/internal/auth"
	"github.com/spec-kit/inventory-service/internal/domain"
	"github.com/spec-kit/inventory-service/internal/service"
	apperrors "github.com/spec-kit/inventory-service/pkg/util/errorutil"
)

const maxPageSize = 100

// ProductsHandler exposes catalog endpoints.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: productService}
}

// List handles GET /items/.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return err
	}

	products, err := h.products.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProductList(products))
}

// Get handles GET /items/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.products.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProductResponse(product))
}

// Create handles POST /items/.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.ProductCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if problems := req.Validate(); problems != nil {
		return apperrors.NewValidationError("invalid product", problems)
	}

	product, err := h.products.Create(c.UserContext(), service.ProductCreateInput{
		Name:        req.Name,
		SKU:         req.SKU,
		Quantity:    *req.Quantity,
		Price:       *req.Price,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewProductResponse(product))
}

// Update handles PATCH /items/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	patch, problems, err := dto.ParseProductPatch(c.Body())
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	if problems != nil {
		return apperrors.NewValidationError("invalid product update", problems)
	}

	product, err := h.products.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProductResponse(product))
}

// ToggleArchive handles PATCH /items/:id/archive.
func (h *ProductsHandler) ToggleArchive(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.products.ToggleArchive(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProductResponse(product))
}

// Delete handles DELETE /items/:id. The admin check lives in the service so it
// precedes the existence check.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	user, _ := auth.UserFromContext(c)
	if err := h.products.HardDelete(c.UserContext(), id, user); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func productID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("id must be a positive integer", nil)
	}
	return id, nil
}

func parseProductFilter(c *fiber.Ctx) (domain.ProductFilter, error) {
	var filter domain.ProductFilter
	problems := map[string]any{}

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		filter.Category = &category
	}
	if raw := c.Query("is_archived"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			problems["is_archived"] = "must be a boolean"
		}
		filter.IncludeArchived = include
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageSize {
			problems["limit"] = "must be between 1 and 100"
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			problems["offset"] = "must be a non-negative integer"
		}
		filter.Offset = offset
	}

	if len(problems) > 0 {
		return domain.ProductFilter{}, apperrors.NewValidationError("invalid query", problems)
	}
	return filter, nil
}
