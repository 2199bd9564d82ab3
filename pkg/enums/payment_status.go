package enums

// PaymentStatus is a display label derived from the order status. No payment
// gateway backs it.
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusVoid     PaymentStatus = "void"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// PaymentStatusFor derives the label shown next to an order.
func PaymentStatusFor(status OrderStatus) PaymentStatus {
	switch status {
	case OrderStatusDelivered:
		return PaymentStatusPaid
	case OrderStatusCancelled:
		return PaymentStatusVoid
	case OrderStatusRefunded:
		return PaymentStatusRefunded
	default:
		return PaymentStatusUnpaid
	}
}
