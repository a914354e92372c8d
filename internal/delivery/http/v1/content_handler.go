package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"ferreinti-backend/internal/usecase"
	"ferreinti-backend/pkg/utils"
)

type ContentHandler struct {
	contentUC *usecase.ContentUsecase
}

func NewContentHandler(uc *usecase.ContentUsecase) *ContentHandler {
	return &ContentHandler{contentUC: uc}
}

func (h *ContentHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	block, err := h.contentUC.GetSection(r.Context(), key)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			statusCode = http.StatusNotFound
		}
		utils.WriteError(w, statusCode, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, block)
}

// UpdateSection is admin-only; the body is stored as-is under the key.
func (h *ContentHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var content map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	block, err := h.contentUC.UpdateSection(r.Context(), key, content)
	if err != nil {
		slog.Error("UpdateSection failed", "key", key, "error", err)

		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "required") {
			statusCode = http.StatusBadRequest
		}
		utils.WriteError(w, statusCode, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, block)
}
