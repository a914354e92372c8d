package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"ferreinti-backend/internal/domain"
	"ferreinti-backend/internal/usecase"
	"ferreinti-backend/pkg/utils"
)

type AdminCatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewAdminCatalogHandler(uc *usecase.CatalogUsecase) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalogUC: uc}
}

func adminCatalogStatus(err error) int {
	msg := err.Error()
	if strings.Contains(msg, "required") || strings.Contains(msg, "negative") {
		return http.StatusBadRequest
	}
	if strings.Contains(msg, "not found") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// --- Categories ---

func (h *AdminCatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var cat domain.Category
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.catalogUC.CreateCategory(r.Context(), &cat); err != nil {
		slog.Error("CreateCategory failed", "error", err)
		utils.WriteError(w, adminCatalogStatus(err), err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusCreated, cat)
}

func (h *AdminCatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var cat domain.Category
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	cat.ID = r.PathValue("id")

	if err := h.catalogUC.UpdateCategory(r.Context(), &cat); err != nil {
		slog.Error("UpdateCategory failed", "category_id", cat.ID, "error", err)
		utils.WriteError(w, adminCatalogStatus(err), err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, cat)
}

func (h *AdminCatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.catalogUC.DeleteCategory(r.Context(), id); err != nil {
		slog.Error("DeleteCategory failed", "category_id", id, "error", err)
		utils.WriteError(w, adminCatalogStatus(err), err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// --- Products ---

func (h *AdminCatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.catalogUC.CreateProduct(r.Context(), &p); err != nil {
		slog.Error("CreateProduct failed", "error", err)
		utils.WriteError(w, adminCatalogStatus(err), err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

func (h *AdminCatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	p.ID = r.PathValue("id")

	if err := h.catalogUC.UpdateProduct(r.Context(), &p); err != nil {
		slog.Error("UpdateProduct failed", "product_id", p.ID, "error", err)
		utils.WriteError(w, adminCatalogStatus(err), err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *AdminCatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.catalogUC.DeleteProduct(r.Context(), id); err != nil {
		slog.Error("DeleteProduct failed", "product_id", id, "error", err)
		utils.WriteError(w, adminCatalogStatus(err), err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
