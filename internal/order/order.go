package order

import "github.com/tooniwear/storefront-backend/internal/cart"

const StatusPending = "pending"

type ShippingDetails struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
}

// Order is a placed checkout. Ownership is decided by ShippingDetails.Email.
type Order struct {
	OrderID         string          `json:"orderId"`
	ShippingDetails ShippingDetails `json:"shippingDetails"`
	Items           []cart.Item     `json:"items"`
	TotalPrice      float64         `json:"totalPrice"`
	PaymentMethod   string          `json:"paymentMethod"`
	CustomerIP      string          `json:"customerIp"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"createdAt"`
}
