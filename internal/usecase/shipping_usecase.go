package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"ferreinti-backend/internal/domain"
)

// earthRadiusKm is the mean Earth radius used by the Haversine formula.
const earthRadiusKm = 6371.0

// ShippingUsecase owns the shipping pricing policy: it resolves the
// active configuration and quotes a cost for a destination. Order
// creation, checkout and the standalone calculate endpoint all go
// through this one component so their totals cannot drift apart.
type ShippingUsecase struct {
	settingsRepo domain.SettingsRepository
}

func NewShippingUsecase(settingsRepo domain.SettingsRepository) *ShippingUsecase {
	return &ShippingUsecase{settingsRepo: settingsRepo}
}

// HaversineKm returns the great-circle distance in kilometers between
// two coordinates given in decimal degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLat := toRadians(lat2 - lat1)
	deltaLon := toRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ResolveConfig returns the active shipping configuration: the stored
// settings record merged over the structural defaults. Resolution never
// fails; a missing record or a read error yields the defaults.
func (u *ShippingUsecase) ResolveConfig(ctx context.Context) domain.ShippingConfig {
	defaults := domain.DefaultShippingConfig()

	stored, err := u.settingsRepo.GetShippingConfig(ctx)
	if err != nil {
		slog.Error("Usecase: ResolveConfig - settings read failed, using defaults", "error", err)
		return defaults
	}
	if stored == nil {
		return defaults
	}
	return stored.Apply(defaults)
}

// Quote computes the shipping cost for dest under the active
// configuration. Callers must have validated that both coordinates are
// present before building the Destination.
func (u *ShippingUsecase) Quote(ctx context.Context, dest domain.Destination) domain.ShippingQuote {
	return QuoteWithConfig(u.ResolveConfig(ctx), dest)
}

// QuoteWithConfig applies the tiered pricing rule: free within the
// radius (inclusive), otherwise the per-km rate on the distance beyond
// it, floored at the configured minimum. Pure and deterministic.
func QuoteWithConfig(cfg domain.ShippingConfig, dest domain.Destination) domain.ShippingQuote {
	d := HaversineKm(cfg.StoreLat, cfg.StoreLng, dest.Lat, dest.Lng)

	if d <= cfg.FreeRadiusKm {
		return domain.ShippingQuote{
			DistanceKm: round2(d),
			Cost:       0,
			IsFree:     true,
		}
	}

	extraKm := d - cfg.FreeRadiusKm
	cost := extraKm * cfg.PricePerKm
	if cost < cfg.MinShippingCost {
		cost = cfg.MinShippingCost
	}

	return domain.ShippingQuote{
		DistanceKm: round2(d),
		Cost:       round2(cost),
		IsFree:     false,
	}
}

// UpdateConfig merges the provided fields into the stored record and
// returns the newly resolved configuration.
func (u *ShippingUsecase) UpdateConfig(ctx context.Context, update domain.ShippingConfigUpdate) (domain.ShippingConfig, error) {
	if update.IsEmpty() {
		return domain.ShippingConfig{}, fmt.Errorf("no fields to update")
	}
	if err := u.settingsRepo.UpsertShippingConfig(ctx, update); err != nil {
		return domain.ShippingConfig{}, err
	}
	return u.ResolveConfig(ctx), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
