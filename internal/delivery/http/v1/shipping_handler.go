package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ferreinti-backend/internal/domain"
	"ferreinti-backend/internal/usecase"
)

type ShippingHandler struct {
	shippingUC *usecase.ShippingUsecase
}

func NewShippingHandler(uc *usecase.ShippingUsecase) *ShippingHandler {
	return &ShippingHandler{shippingUC: uc}
}

type calculateReq struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type calculateResp struct {
	DistanceKm   float64 `json:"distance"`
	ShippingCost float64 `json:"shippingCost"`
	IsFree       bool    `json:"isFree"`
	Message      string  `json:"message"`
}

// Calculate quotes shipping to a destination. Both coordinates are
// required; this endpoint rejects what the order flow would silently
// price at zero.
func (h *ShippingHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Lat == nil || req.Lng == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "lat and lng are required",
		})
		return
	}

	cfg := h.shippingUC.ResolveConfig(r.Context())
	quote := usecase.QuoteWithConfig(cfg, domain.Destination{Lat: *req.Lat, Lng: *req.Lng})

	msg := fmt.Sprintf("Shipping cost: $%.2f (%.1f km)", quote.Cost, quote.DistanceKm)
	if quote.IsFree {
		msg = fmt.Sprintf("Free shipping (within %gkm)", cfg.FreeRadiusKm)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(calculateResp{
		DistanceKm:   quote.DistanceKm,
		ShippingCost: quote.Cost,
		IsFree:       quote.IsFree,
		Message:      msg,
	})
}

// GetConfig exposes the active shipping configuration so the storefront
// can show the free radius and rates.
func (h *ShippingHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.shippingUC.ResolveConfig(r.Context())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}
