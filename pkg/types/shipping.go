package types

// ShippingInfo is the delivery destination captured on an order. It is
// embedded into orders with the shipping_ column prefix.
type ShippingInfo struct {
	Address string `gorm:"column:address;not null" json:"address"`
	City    string `gorm:"column:city;not null" json:"city"`
	Zip     string `gorm:"column:zip;not null" json:"zip"`
}
