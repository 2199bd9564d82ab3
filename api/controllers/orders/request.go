package orders

import (
	"github.com/ghassen-kharrat/barbachli-sub000/internal/checkout"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
)

const maxSearchLength = 100

// CheckoutRequest is the shipping and contact data for POST /orders.
type CheckoutRequest struct {
	Address string  `json:"address" validate:"required,max=255"`
	City    string  `json:"city" validate:"required,max=120"`
	Zip     string  `json:"zip" validate:"required,max=20"`
	Phone   string  `json:"phone" validate:"required,min=6,max=32"`
	Notes   *string `json:"notes" validate:"omitempty,max=1000"`
}

func (r CheckoutRequest) input() checkout.Input {
	return checkout.Input{
		Address: r.Address,
		City:    r.City,
		Zip:     r.Zip,
		Phone:   r.Phone,
		Notes:   r.Notes,
	}
}

// StatusRequest sets an order status. Strict applies the transition table.
type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled refunded"`
	Strict bool   `json:"strict"`
}

func (r StatusRequest) status() enums.OrderStatus {
	return enums.OrderStatus(r.Status)
}
