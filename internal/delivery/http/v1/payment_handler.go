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

type PaymentHandler struct {
	paymentUC *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{paymentUC: uc}
}

type checkoutReq struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
}

// CreateCheckout opens a hosted-checkout session for the user's cart.
func (h *PaymentHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	session, err := h.paymentUC.CreateCheckout(r.Context(), user.ID, req.ShippingAddress)
	if err != nil {
		slog.Error("CreateCheckout failed", "user_id", user.ID, "error", err)

		statusCode := http.StatusInternalServerError
		errMsg := err.Error()
		if strings.Contains(errMsg, "cart is empty") || strings.Contains(errMsg, "greater than 0") {
			statusCode = http.StatusBadRequest
		} else if strings.Contains(errMsg, "not configured") {
			statusCode = http.StatusServiceUnavailable
		}
		utils.WriteError(w, statusCode, errMsg)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, session)
}

// CheckStatus polls the gateway for a session the user started.
func (h *PaymentHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	sessionID := r.PathValue("sessionId")
	if sessionID == "" {
		http.Error(w, "Session ID required", http.StatusBadRequest)
		return
	}

	// Sessions are user-scoped; admins may inspect any of them.
	txn, err := h.paymentUC.GetTransaction(r.Context(), sessionID)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Session not found")
		return
	}
	if txn.UserID != user.ID && user.Role != domain.RoleAdmin {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	status, err := h.paymentUC.CheckStatus(r.Context(), sessionID)
	if err != nil {
		slog.Error("CheckStatus failed", "session_id", sessionID, "error", err)
		utils.WriteError(w, http.StatusBadGateway, "Failed to fetch session status")
		return
	}
	utils.WriteJSON(w, http.StatusOK, status)
}
