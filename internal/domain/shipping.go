package domain

import "context"

// ShippingSettingID is the fixed identifier of the persisted shipping
// settings record. There is exactly one active configuration.
const ShippingSettingID = "shipping_config"

// Structural defaults used when no settings record has been stored yet.
const (
	DefaultStoreLat        = -12.1190285
	DefaultStoreLng        = -77.0349915
	DefaultFreeRadiusKm    = 5.0
	DefaultPricePerKm      = 1.50
	DefaultMinShippingCost = 5.0
)

// ShippingConfig is the resolved shipping pricing policy: the store
// reference coordinate plus the tiered pricing parameters.
type ShippingConfig struct {
	StoreLat        float64 `json:"storeLat"`
	StoreLng        float64 `json:"storeLng"`
	FreeRadiusKm    float64 `json:"freeRadiusKm"`
	PricePerKm      float64 `json:"pricePerKm"`
	MinShippingCost float64 `json:"minShippingCost"`
}

func DefaultShippingConfig() ShippingConfig {
	return ShippingConfig{
		StoreLat:        DefaultStoreLat,
		StoreLng:        DefaultStoreLng,
		FreeRadiusKm:    DefaultFreeRadiusKm,
		PricePerKm:      DefaultPricePerKm,
		MinShippingCost: DefaultMinShippingCost,
	}
}

// ShippingConfigUpdate is a partial configuration. Nil fields keep the
// value they are merged over. It doubles as the admin update payload and
// as the shape of the persisted settings record, so a record written by
// an older revision that lacks a field still resolves against defaults.
type ShippingConfigUpdate struct {
	StoreLat        *float64 `json:"storeLat,omitempty"`
	StoreLng        *float64 `json:"storeLng,omitempty"`
	FreeRadiusKm    *float64 `json:"freeRadiusKm,omitempty"`
	PricePerKm      *float64 `json:"pricePerKm,omitempty"`
	MinShippingCost *float64 `json:"minShippingCost,omitempty"`
}

// Apply merges the non-nil fields over base and returns the result.
func (u ShippingConfigUpdate) Apply(base ShippingConfig) ShippingConfig {
	if u.StoreLat != nil {
		base.StoreLat = *u.StoreLat
	}
	if u.StoreLng != nil {
		base.StoreLng = *u.StoreLng
	}
	if u.FreeRadiusKm != nil {
		base.FreeRadiusKm = *u.FreeRadiusKm
	}
	if u.PricePerKm != nil {
		base.PricePerKm = *u.PricePerKm
	}
	if u.MinShippingCost != nil {
		base.MinShippingCost = *u.MinShippingCost
	}
	return base
}

// IsEmpty reports whether the update carries no fields at all.
func (u ShippingConfigUpdate) IsEmpty() bool {
	return u.StoreLat == nil && u.StoreLng == nil && u.FreeRadiusKm == nil &&
		u.PricePerKm == nil && u.MinShippingCost == nil
}

// Destination is a delivery coordinate in decimal degrees. Callers must
// validate presence of both coordinates before building one.
type Destination struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ShippingQuote is the outcome of one shipping cost calculation.
// DistanceKm and Cost are rounded to 2 decimal places.
type ShippingQuote struct {
	DistanceKm float64 `json:"distanceKm"`
	Cost       float64 `json:"shippingCost"`
	IsFree     bool    `json:"isFree"`
}

type SettingsRepository interface {
	// GetShippingConfig returns the stored partial record, or (nil, nil)
	// when no record exists. Absence is a normal case, not an error.
	GetShippingConfig(ctx context.Context) (*ShippingConfigUpdate, error)
	// UpsertShippingConfig merges the given fields into the stored
	// record, creating it if missing. Fields absent from the update are
	// left untouched.
	UpsertShippingConfig(ctx context.Context, update ShippingConfigUpdate) error
}
