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

type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc}
}

func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalogUC.GetCategories(r.Context())
	if err != nil {
		slog.Error("GetCategories failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	utils.WriteJSON(w, http.StatusOK, cats)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Search:     q.Get("search"),
		CategoryID: q.Get("category"),
		Page:       utils.ParseInt(q.Get("page"), 1),
		Limit:      utils.ParseInt(q.Get("limit"), 20),
	}
	if q.Get("featured") == "true" {
		featured := true
		filter.Featured = &featured
	}

	products, total, err := h.catalogUC.ListProducts(r.Context(), filter)
	if err != nil {
		slog.Error("ListProducts failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Product ID required", http.StatusBadRequest)
		return
	}

	// Accept either the product id or its slug.
	product, err := h.catalogUC.GetProduct(r.Context(), id)
	if err != nil {
		product, err = h.catalogUC.GetProductBySlug(r.Context(), id)
	}
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

// --- Reviews ---

func (h *CatalogHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	reviews, err := h.catalogUC.GetReviews(r.Context(), productID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	utils.WriteJSON(w, http.StatusOK, reviews)
}

type addReviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *CatalogHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := r.PathValue("id")

	var req addReviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	review, err := h.catalogUC.AddReview(r.Context(), user, productID, req.Rating, req.Comment)
	if err != nil {
		slog.Error("AddReview failed", "user_id", user.ID, "product_id", productID, "error", err)

		statusCode := http.StatusInternalServerError
		errMsg := err.Error()
		if strings.Contains(errMsg, "between 1 and 5") {
			statusCode = http.StatusBadRequest
		} else if strings.Contains(errMsg, "not found") {
			statusCode = http.StatusNotFound
		}
		utils.WriteError(w, statusCode, errMsg)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, review)
}
