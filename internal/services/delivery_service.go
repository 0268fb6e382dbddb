package services

import (
	"fmt"
	"math"

	"bawabati-api/internal/models"

	"github.com/rs/zerolog"
)

const earthRadiusKM = 6371.0

// ClampPolicy selects whether the min/max fee bounds apply to a quote. The
// simple estimator always clamps; the multi-factor variant historically did
// not clamp express or fragile shipments, so the choice is explicit
// configuration rather than a hardcoded rule.
type ClampPolicy int

const (
	// ClampAlways bounds every quote to [MinFee, MaxFee].
	ClampAlways ClampPolicy = iota
	// ClampBaseOnly skips the bounds when an express or fragile surcharge
	// applies.
	ClampBaseOnly
	// ClampNever applies no bounds.
	ClampNever
)

type DeliveryConfig struct {
	BaseFee               float64
	PerKMFee              float64
	PerKGRate             float64
	FragileSurcharge      float64
	ExpressMultiplier     float64
	FreeShippingThreshold float64
	MinFee                float64
	MaxFee                float64
	Clamp                 ClampPolicy
}

// DefaultDeliveryConfig mirrors the marketplace's standard SAR-denominated
// tariff.
func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		BaseFee:               5.0,
		PerKMFee:              0.5,
		PerKGRate:             1.0,
		FragileSurcharge:      3.0,
		ExpressMultiplier:     1.5,
		FreeShippingThreshold: 200.0,
		MinFee:                5.0,
		MaxFee:                50.0,
		Clamp:                 ClampAlways,
	}
}

type DeliveryService struct {
	config DeliveryConfig
	logger zerolog.Logger
}

func NewDeliveryService(config DeliveryConfig, logger zerolog.Logger) *DeliveryService {
	return &DeliveryService{
		config: config,
		logger: logger,
	}
}

// Distance computes the great-circle distance between two points in
// kilometers using the Haversine formula.
func Distance(a, b models.Coordinates) float64 {
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1)*math.Cos(lat2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

// Quote prices a delivery for the given origin/destination pair and parcel
// attributes. Orders at or above the free-shipping threshold ship free no
// matter the distance or surcharges.
func (s *DeliveryService) Quote(origin, destination models.Coordinates, shipping models.ShippingDetails, subtotal float64) (*models.DeliveryQuote, error) {
	if !origin.Valid() {
		return nil, fmt.Errorf("invalid origin coordinates (%v, %v)", origin.Latitude, origin.Longitude)
	}
	if !destination.Valid() {
		return nil, fmt.Errorf("invalid destination coordinates (%v, %v)", destination.Latitude, destination.Longitude)
	}
	if shipping.WeightKG < 0 {
		return nil, fmt.Errorf("negative weight %v", shipping.WeightKG)
	}

	distance := Distance(origin, destination)
	distanceFee := distance * s.config.PerKMFee
	weightCharge := shipping.WeightKG * s.config.PerKGRate

	extraCharges := 0.0
	if shipping.IsFragile {
		extraCharges += s.config.FragileSurcharge
	}

	total := s.config.BaseFee + distanceFee + weightCharge + extraCharges
	if shipping.IsExpress {
		total *= s.config.ExpressMultiplier
	}

	if subtotal >= s.config.FreeShippingThreshold {
		total = 0
	} else if s.shouldClamp(shipping) {
		total = math.Min(math.Max(total, s.config.MinFee), s.config.MaxFee)
	}

	quote := &models.DeliveryQuote{
		DistanceKM:    round2(distance),
		BaseFee:       s.config.BaseFee,
		DistanceFee:   round2(distanceFee),
		WeightCharge:  round2(weightCharge),
		ExtraCharges:  round2(extraCharges),
		TotalCost:     round2(total),
		EstimatedTime: estimatedTime(distance, shipping.IsExpress),
		Carrier:       carrierLabel(shipping.IsExpress),
	}

	s.logger.Debug().
		Float64("distance_km", quote.DistanceKM).
		Float64("total_cost", quote.TotalCost).
		Str("carrier", quote.Carrier).
		Msg("Delivery quote calculated")

	return quote, nil
}

func (s *DeliveryService) shouldClamp(shipping models.ShippingDetails) bool {
	switch s.config.Clamp {
	case ClampAlways:
		return true
	case ClampBaseOnly:
		return !shipping.IsExpress && !shipping.IsFragile
	default:
		return false
	}
}

func estimatedTime(distanceKM float64, express bool) string {
	switch {
	case distanceKM < 5:
		if express {
			return "15-30 minutes"
		}
		return "30-45 minutes"
	case distanceKM < 15:
		if express {
			return "30-60 minutes"
		}
		return "1-2 hours"
	case distanceKM < 50:
		if express {
			return "1-2 hours"
		}
		return "2-4 hours"
	case distanceKM < 200:
		if express {
			return "same day"
		}
		return "1-2 days"
	default:
		if express {
			return "1-2 days"
		}
		return "2-5 days"
	}
}

func carrierLabel(express bool) string {
	if express {
		return "Bawabati Express"
	}
	return "Bawabati Standard"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
