package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"ferreinti-backend/internal/domain"
	"ferreinti-backend/internal/usecase"
	"ferreinti-backend/pkg/utils"
)

type WishlistHandler struct {
	wishlistUC *usecase.WishlistUsecase
}

func NewWishlistHandler(uc *usecase.WishlistUsecase) *WishlistHandler {
	return &WishlistHandler{wishlistUC: uc}
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	wishlist, err := h.wishlistUC.GetMyWishlist(r.Context(), user.ID)
	if err != nil {
		slog.Error("GetWishlist failed", "user_id", user.ID, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch wishlist")
		return
	}
	utils.WriteJSON(w, http.StatusOK, wishlist)
}

func (h *WishlistHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := r.PathValue("productId")
	if productID == "" {
		http.Error(w, "Product ID required", http.StatusBadRequest)
		return
	}

	if err := h.wishlistUC.AddProduct(r.Context(), user.ID, productID); err != nil {
		slog.Error("AddProduct to wishlist failed", "user_id", user.ID, "product_id", productID, "error", err)

		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			statusCode = http.StatusNotFound
		}
		utils.WriteError(w, statusCode, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "added to wishlist"})
}

func (h *WishlistHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := r.PathValue("productId")
	if productID == "" {
		http.Error(w, "Product ID required", http.StatusBadRequest)
		return
	}

	if err := h.wishlistUC.RemoveProduct(r.Context(), user.ID, productID); err != nil {
		slog.Error("RemoveProduct from wishlist failed", "user_id", user.ID, "product_id", productID, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "removed from wishlist"})
}
