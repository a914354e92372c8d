package v1

import (
	"log/slog"
	"net/http"

	"ferreinti-backend/internal/usecase"
	"ferreinti-backend/pkg/utils"
)

type AdminStatsHandler struct {
	statsUC *usecase.StatsUsecase
}

func NewAdminStatsHandler(uc *usecase.StatsUsecase) *AdminStatsHandler {
	return &AdminStatsHandler{statsUC: uc}
}

func (h *AdminStatsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsUC.GetDashboard(r.Context())
	if err != nil {
		slog.Error("GetDashboard failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch dashboard stats")
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}
