package models

import "time"

type Order struct {
	ID              int       `json:"id"`
	CustomerID      int       `json:"customer_id"`
	VendorID        int       `json:"vendor_id"`
	DriverID        *int      `json:"driver_id,omitempty"`
	CurrencyCode    string    `json:"currency_code"`
	Subtotal        float64   `json:"subtotal"`
	DeliveryFee     float64   `json:"delivery_fee"`
	Tax             float64   `json:"tax"`
	Discount        float64   `json:"discount"`
	Total           float64   `json:"total"`
	Status          string    `json:"status"`
	DeliveryAddress string    `json:"delivery_address"`
	CreatedAt       time.Time `json:"created_at"`
}

type OrderItem struct {
	ID          int     `json:"id"`
	OrderID     int     `json:"order_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

type CreateOrderRequest struct {
	VendorID        int               `json:"vendor_id"`
	CurrencyCode    string            `json:"currency_code"`
	DeliveryFee     float64           `json:"delivery_fee"`
	Discount        float64           `json:"discount"`
	DeliveryAddress string            `json:"delivery_address"`
	Items           []CreateOrderItem `json:"items"`
}

type CreateOrderItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// InvoiceParty is the slice of a user that appears on a printed invoice.
type InvoiceParty struct {
	FullName string
	Email    string
}

type InvoiceData struct {
	Order    Order
	Items    []OrderItem
	Customer InvoiceParty
	Vendor   InvoiceParty
	Driver   *InvoiceParty
}
