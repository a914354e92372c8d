package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"ferreinti-backend/internal/domain"
	"ferreinti-backend/internal/usecase"
)

type AdminShippingHandler struct {
	shippingUC *usecase.ShippingUsecase
}

func NewAdminShippingHandler(uc *usecase.ShippingUsecase) *AdminShippingHandler {
	return &AdminShippingHandler{shippingUC: uc}
}

func (h *AdminShippingHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.shippingUC.ResolveConfig(r.Context())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

// UpdateConfig merges the provided fields into the stored configuration
// and returns the full resolved result. Omitted fields keep their
// current values.
func (h *AdminShippingHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var update domain.ShippingConfigUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	cfg, err := h.shippingUC.UpdateConfig(r.Context(), update)
	if err != nil {
		slog.Error("UpdateConfig failed", "error", err)

		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "no fields to update") {
			statusCode = http.StatusBadRequest
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}
