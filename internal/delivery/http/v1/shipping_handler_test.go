package v1

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ferreinti-backend/internal/domain"
	"ferreinti-backend/internal/usecase"
)

type settingsRepoStub struct {
	stored *domain.ShippingConfigUpdate
}

func (s *settingsRepoStub) GetShippingConfig(ctx context.Context) (*domain.ShippingConfigUpdate, error) {
	return s.stored, nil
}

func (s *settingsRepoStub) UpsertShippingConfig(ctx context.Context, update domain.ShippingConfigUpdate) error {
	if s.stored == nil {
		s.stored = &update
		return nil
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

func newShippingHandlers() (*ShippingHandler, *AdminShippingHandler) {
	uc := usecase.NewShippingUsecase(&settingsRepoStub{})
	return NewShippingHandler(uc), NewAdminShippingHandler(uc)
}

func TestShippingCalculate(t *testing.T) {
	h, _ := newShippingHandlers()

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/shipping/calculate", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Calculate(rec, req)
		return rec
	}

	t.Run("missing coordinates is a 400", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"lat": -12.1}`, `{"lng": -77.0}`} {
			rec := post(body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("body %s: status = %d, want 400", body, rec.Code)
			}
		}
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		if rec := post(`{not json`); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("store location is free", func(t *testing.T) {
		rec := post(`{"lat": -12.1190285, "lng": -77.0349915}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var resp struct {
			Distance     float64 `json:"distance"`
			ShippingCost float64 `json:"shippingCost"`
			IsFree       bool    `json:"isFree"`
			Message      string  `json:"message"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.IsFree || resp.ShippingCost != 0 || resp.Distance != 0 {
			t.Errorf("unexpected quote: %+v", resp)
		}
		if !strings.Contains(resp.Message, "Free shipping") {
			t.Errorf("message = %q", resp.Message)
		}
	})

	t.Run("distant destination is priced", func(t *testing.T) {
		// ~10km due north of the store
		lat := -12.1190285 + 10.0/6371.0*180/math.Pi
		req := calculateReq{Lat: &lat}
		lng := -77.0349915
		req.Lng = &lng
		body, _ := json.Marshal(req)

		rec := post(string(body))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var resp struct {
			ShippingCost float64 `json:"shippingCost"`
			IsFree       bool    `json:"isFree"`
			Message      string  `json:"message"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.IsFree || resp.ShippingCost != 7.50 {
			t.Errorf("unexpected quote: %+v", resp)
		}
		if !strings.Contains(resp.Message, "$7.50") {
			t.Errorf("message = %q", resp.Message)
		}
	})
}

func TestAdminShippingUpdateConfig(t *testing.T) {
	h, admin := newShippingHandlers()

	put := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/shipping/config", strings.NewReader(body))
		rec := httptest.NewRecorder()
		admin.UpdateConfig(rec, req)
		return rec
	}

	t.Run("empty update is a 400", func(t *testing.T) {
		if rec := put(`{}`); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("partial update returns the merged config", func(t *testing.T) {
		rec := put(`{"freeRadiusKm": 12}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var cfg domain.ShippingConfig
		if err := json.NewDecoder(rec.Body).Decode(&cfg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if cfg.FreeRadiusKm != 12 {
			t.Errorf("radius = %v, want 12", cfg.FreeRadiusKm)
		}
		if cfg.PricePerKm != domain.DefaultPricePerKm {
			t.Errorf("rate = %v, want default", cfg.PricePerKm)
		}
	})

	t.Run("update is visible to the public endpoints at once", func(t *testing.T) {
		if rec := put(`{"freeRadiusKm": 50}`); rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		// ~10km away, now well inside the widened radius
		lat := -12.1190285 + 10.0/6371.0*180/math.Pi
		body := `{"lat": ` + strFloat(lat) + `, "lng": -77.0349915}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/shipping/calculate", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Calculate(rec, req)

		var resp struct {
			IsFree bool `json:"isFree"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.IsFree {
			t.Error("quote should be free after widening the radius")
		}
	})
}

func strFloat(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
