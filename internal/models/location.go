package models

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point lies within the WGS84 coordinate ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

type ShippingDetails struct {
	WeightKG  float64 `json:"weight_kg"`
	IsFragile bool    `json:"is_fragile"`
	IsExpress bool    `json:"is_express"`
}

type DeliveryQuoteRequest struct {
	Origin      Coordinates     `json:"origin"`
	Destination Coordinates     `json:"destination"`
	Shipping    ShippingDetails `json:"shipping"`
	Subtotal    float64         `json:"subtotal"`
}

type DeliveryQuote struct {
	DistanceKM    float64 `json:"distance_km"`
	BaseFee       float64 `json:"base_fee"`
	DistanceFee   float64 `json:"distance_fee"`
	WeightCharge  float64 `json:"weight_charge"`
	ExtraCharges  float64 `json:"extra_charges"`
	TotalCost     float64 `json:"total_cost"`
	EstimatedTime string  `json:"estimated_time"`
	Carrier       string  `json:"carrier"`
}
