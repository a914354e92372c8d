package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"ferreinti-backend/internal/domain"
)

type stubSettingsRepo struct {
	stored *domain.ShippingConfigUpdate
	getErr error
	upErr  error

	upserted *domain.ShippingConfigUpdate
}

func (s *stubSettingsRepo) GetShippingConfig(ctx context.Context) (*domain.ShippingConfigUpdate, error) {
	return s.stored, s.getErr
}

func (s *stubSettingsRepo) UpsertShippingConfig(ctx context.Context, update domain.ShippingConfigUpdate) error {
	if s.upErr != nil {
		return s.upErr
	}
	s.upserted = &update
	if s.stored == nil {
		s.stored = &domain.ShippingConfigUpdate{}
	}
	merged := update.Apply(s.stored.Apply(domain.DefaultShippingConfig()))
	s.stored = &domain.ShippingConfigUpdate{
		StoreLat:        &merged.StoreLat,
		StoreLng:        &merged.StoreLng,
		FreeRadiusKm:    &merged.FreeRadiusKm,
		PricePerKm:      &merged.PricePerKm,
		MinShippingCost: &merged.MinShippingCost,
	}
	return nil
}

// destAtKm returns a destination due north of the store. A pure
// latitude offset makes the great-circle distance exactly R*delta.
func destAtKm(cfg domain.ShippingConfig, km float64) domain.Destination {
	deltaDeg := km / earthRadiusKm * 180 / math.Pi
	return domain.Destination{Lat: cfg.StoreLat + deltaDeg, Lng: cfg.StoreLng}
}

func TestHaversineKm(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		d := HaversineKm(-12.1190285, -77.0349915, -12.1190285, -77.0349915)
		if d != 0 {
			t.Errorf("distance to self = %v, want 0", d)
		}
	})

	t.Run("symmetry", func(t *testing.T) {
		a := HaversineKm(-12.11, -77.03, -12.20, -77.10)
		b := HaversineKm(-12.20, -77.10, -12.11, -77.03)
		if math.Abs(a-b) > 1e-9 {
			t.Errorf("asymmetric: %v vs %v", a, b)
		}
	})

	t.Run("known distance", func(t *testing.T) {
		// One degree of latitude spans R*pi/180 km.
		d := HaversineKm(0, 0, 1, 0)
		want := earthRadiusKm * math.Pi / 180
		if math.Abs(d-want) > 1e-6 {
			t.Errorf("1 degree latitude = %v, want %v", d, want)
		}
	})
}

func TestQuoteWithConfig(t *testing.T) {
	cfg := domain.DefaultShippingConfig()

	tests := []struct {
		name     string
		km       float64
		wantCost float64
		wantFree bool
	}{
		{"at the store", 0, 0, true},
		{"inside free radius", 3, 0, true},
		{"just beyond radius floors at minimum", 5.5, 5.00, false},
		{"floor still applies near crossover", 8, 5.00, false},
		{"beyond crossover charges per km", 10, 7.50, false},
		{"far destination", 25, 30.00, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuoteWithConfig(cfg, destAtKm(cfg, tt.km))
			if q.Cost != tt.wantCost {
				t.Errorf("cost = %v, want %v", q.Cost, tt.wantCost)
			}
			if q.IsFree != tt.wantFree {
				t.Errorf("isFree = %v, want %v", q.IsFree, tt.wantFree)
			}
			if math.Abs(q.DistanceKm-tt.km) > 0.01 {
				t.Errorf("distance = %v, want about %v", q.DistanceKm, tt.km)
			}
		})
	}

	t.Run("boundary distance is free", func(t *testing.T) {
		dest := domain.Destination{Lat: cfg.StoreLat + 0.05, Lng: cfg.StoreLng + 0.03}
		d := HaversineKm(cfg.StoreLat, cfg.StoreLng, dest.Lat, dest.Lng)
		boundary := cfg
		boundary.FreeRadiusKm = d

		q := QuoteWithConfig(boundary, dest)
		if !q.IsFree || q.Cost != 0 {
			t.Errorf("distance equal to radius should be free, got cost=%v isFree=%v", q.Cost, q.IsFree)
		}
	})

	t.Run("cost never decreases with distance", func(t *testing.T) {
		prev := -1.0
		for km := 0.0; km <= 40; km += 2.5 {
			q := QuoteWithConfig(cfg, destAtKm(cfg, km))
			if q.Cost < prev {
				t.Fatalf("cost dropped from %v to %v at %vkm", prev, q.Cost, km)
			}
			prev = q.Cost
		}
	})

	t.Run("results rounded to two decimals", func(t *testing.T) {
		q := QuoteWithConfig(cfg, destAtKm(cfg, 7.123456))
		if q.Cost != math.Round(q.Cost*100)/100 {
			t.Errorf("cost %v not rounded to 2 decimals", q.Cost)
		}
		if q.DistanceKm != math.Round(q.DistanceKm*100)/100 {
			t.Errorf("distance %v not rounded to 2 decimals", q.DistanceKm)
		}
	})
}

func TestResolveConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults when nothing stored", func(t *testing.T) {
		uc := NewShippingUsecase(&stubSettingsRepo{})
		got := uc.ResolveConfig(ctx)
		if got != domain.DefaultShippingConfig() {
			t.Errorf("got %+v, want defaults", got)
		}
	})

	t.Run("defaults on read error", func(t *testing.T) {
		uc := NewShippingUsecase(&stubSettingsRepo{getErr: errors.New("db down")})
		got := uc.ResolveConfig(ctx)
		if got != domain.DefaultShippingConfig() {
			t.Errorf("got %+v, want defaults", got)
		}
	})

	t.Run("stored fields override defaults", func(t *testing.T) {
		radius := 10.0
		rate := 2.25
		uc := NewShippingUsecase(&stubSettingsRepo{
			stored: &domain.ShippingConfigUpdate{FreeRadiusKm: &radius, PricePerKm: &rate},
		})
		got := uc.ResolveConfig(ctx)
		if got.FreeRadiusKm != 10.0 || got.PricePerKm != 2.25 {
			t.Errorf("overrides not applied: %+v", got)
		}
		if got.StoreLat != domain.DefaultStoreLat || got.MinShippingCost != domain.DefaultMinShippingCost {
			t.Errorf("unset fields should keep defaults: %+v", got)
		}
	})
}

func TestUpdateConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty update", func(t *testing.T) {
		uc := NewShippingUsecase(&stubSettingsRepo{})
		if _, err := uc.UpdateConfig(ctx, domain.ShippingConfigUpdate{}); err == nil {
			t.Fatal("expected error for empty update")
		}
	})

	t.Run("partial update merges and returns resolved config", func(t *testing.T) {
		repo := &stubSettingsRepo{}
		uc := NewShippingUsecase(repo)

		radius := 8.0
		cfg, err := uc.UpdateConfig(ctx, domain.ShippingConfigUpdate{FreeRadiusKm: &radius})
		if err != nil {
			t.Fatalf("UpdateConfig: %v", err)
		}
		if cfg.FreeRadiusKm != 8.0 {
			t.Errorf("radius = %v, want 8", cfg.FreeRadiusKm)
		}
		if cfg.PricePerKm != domain.DefaultPricePerKm {
			t.Errorf("rate = %v, want default", cfg.PricePerKm)
		}

		// A second partial update must not clobber the first.
		rate := 3.0
		cfg, err = uc.UpdateConfig(ctx, domain.ShippingConfigUpdate{PricePerKm: &rate})
		if err != nil {
			t.Fatalf("UpdateConfig: %v", err)
		}
		if cfg.FreeRadiusKm != 8.0 || cfg.PricePerKm != 3.0 {
			t.Errorf("merge lost fields: %+v", cfg)
		}
	})

	t.Run("propagates storage errors", func(t *testing.T) {
		uc := NewShippingUsecase(&stubSettingsRepo{upErr: errors.New("db down")})
		radius := 8.0
		if _, err := uc.UpdateConfig(ctx, domain.ShippingConfigUpdate{FreeRadiusKm: &radius}); err == nil {
			t.Fatal("expected storage error")
		}
	})

	t.Run("updated config changes quotes immediately", func(t *testing.T) {
		repo := &stubSettingsRepo{}
		uc := NewShippingUsecase(repo)
		dest := destAtKm(domain.DefaultShippingConfig(), 10)

		before := uc.Quote(ctx, dest)
		if before.Cost != 7.50 {
			t.Fatalf("cost before update = %v, want 7.50", before.Cost)
		}

		radius := 15.0
		if _, err := uc.UpdateConfig(ctx, domain.ShippingConfigUpdate{FreeRadiusKm: &radius}); err != nil {
			t.Fatalf("UpdateConfig: %v", err)
		}

		after := uc.Quote(ctx, dest)
		if !after.IsFree {
			t.Errorf("quote after widening radius should be free, got %+v", after)
		}
	})
}
