package domain

import "time"

// DefaultCategory is assigned to products created without a category.
const DefaultCategory = "Uncategorized"

// Product is a catalog item tracked by the inventory.
type Product struct {
	ID          int64
	Name        string
	SKU         string
	Quantity    int64
	Price       float64
	Category    string
	Description *string
	IsArchived  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductPatch carries the fields of a merge-patch update. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	SKU         *string
	Quantity    *int64
	Price       *float64
	Category    *string
	Description *string

	// ClearDescription removes the description; it wins over Description.
	ClearDescription bool
}

// Apply overwrites the product fields present in the patch.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.SKU != nil {
		product.SKU = *p.SKU
	}
	if p.Quantity != nil {
		product.Quantity = *p.Quantity
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Description != nil {
		desc := *p.Description
		product.Description = &desc
	}
	if p.ClearDescription {
		product.Description = nil
	}
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category        *string
	IncludeArchived bool
	Limit           int
	Offset          int
}
