package dto

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/spec-kit/inventory-service/internal/domain"
)

// ErrMalformedBody is returned when a request body is not a JSON object.
var ErrMalformedBody = errors.New("request body must be a JSON object")

// ProductCreateRequest payload.
type ProductCreateRequest struct {
	Name        string   `json:"name"`
	SKU         string   `json:"sku"`
	Quantity    *int64   `json:"quantity"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	Description *string  `json:"description"`
}

// Validate returns per-field problems, or nil when the payload is acceptable.
func (r *ProductCreateRequest) Validate() map[string]any {
	problems := map[string]any{}
	if strings.TrimSpace(r.Name) == "" {
		problems["name"] = "required"
	}
	if strings.TrimSpace(r.SKU) == "" {
		problems["sku"] = "required"
	}
	if r.Quantity == nil {
		problems["quantity"] = "required"
	} else if msg := checkQuantity(*r.Quantity); msg != "" {
		problems["quantity"] = msg
	}
	if r.Price == nil {
		problems["price"] = "required"
	} else if msg := checkPrice(*r.Price); msg != "" {
		problems["price"] = msg
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// ParseProductPatch decodes a merge-patch body: only keys present in the JSON
// object are applied and unknown keys are ignored. Problems are reported per field.
func ParseProductPatch(body []byte) (domain.ProductPatch, map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return domain.ProductPatch{}, nil, ErrMalformedBody
	}

	var patch domain.ProductPatch
	problems := map[string]any{}

	if v, ok := raw["name"]; ok {
		patch.Name = decodeText(v, "name", problems)
	}
	if v, ok := raw["sku"]; ok {
		patch.SKU = decodeText(v, "sku", problems)
	}
	if v, ok := raw["category"]; ok {
		patch.Category = decodeText(v, "category", problems)
	}
	if v, ok := raw["description"]; ok {
		if isNull(v) {
			patch.ClearDescription = true
		} else {
			var desc string
			if err := json.Unmarshal(v, &desc); err != nil {
				problems["description"] = "must be a string or null"
			} else {
				patch.Description = &desc
			}
		}
	}
	if v, ok := raw["quantity"]; ok {
		var qty int64
		if isNull(v) || json.Unmarshal(v, &qty) != nil {
			problems["quantity"] = "must be an integer"
		} else if msg := checkQuantity(qty); msg != "" {
			problems["quantity"] = msg
		} else {
			patch.Quantity = &qty
		}
	}
	if v, ok := raw["price"]; ok {
		var price float64
		if isNull(v) || json.Unmarshal(v, &price) != nil {
			problems["price"] = "must be a number"
		} else if msg := checkPrice(price); msg != "" {
			problems["price"] = msg
		} else {
			patch.Price = &price
		}
	}

	if len(problems) == 0 {
		problems = nil
	}
	return patch, problems, nil
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Quantity    int64     `json:"quantity"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Description *string   `json:"description"`
	IsArchived  bool      `json:"is_archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProductResponse maps a domain product.
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Quantity:    p.Quantity,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		IsArchived:  p.IsArchived,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewProductList maps a slice of domain products.
func NewProductList(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}

func decodeText(v json.RawMessage, field string, problems map[string]any) *string {
	var s string
	if isNull(v) || json.Unmarshal(v, &s) != nil {
		problems[field] = "must be a string"
		return nil
	}
	if strings.TrimSpace(s) == "" {
		problems[field] = "must not be empty"
		return nil
	}
	return &s
}

func isNull(v json.RawMessage) bool {
	return strings.TrimSpace(string(v)) == "null"
}

func checkQuantity(q int64) string {
	if q < 0 {
		return "must be greater than or equal to 0"
	}
	return ""
}

func checkPrice(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "must be a finite number"
	}
	if p < 0 {
		return "must be greater than or equal to 0"
	}
	return ""
}
