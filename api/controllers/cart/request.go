package cart

import "github.com/google/uuid"

// AddLineRequest adds quantity of a product; an existing line is merged.
type AddLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
}

// SetLineQuantityRequest replaces a line quantity. Zero removes the line.
type SetLineQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}
