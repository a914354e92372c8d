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

type AdminOrderHandler struct {
	orderUC *usecase.OrderUsecase
}

func NewAdminOrderHandler(uc *usecase.OrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orderUC: uc}
}

func (h *AdminOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.OrderFilter{
		Page:   utils.ParseInt(q.Get("page"), 1),
		Limit:  utils.ParseInt(q.Get("limit"), 20),
		Status: q.Get("status"),
		Search: q.Get("search"),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	orders, total, err := h.orderUC.GetAllOrders(r.Context(), filter)
	if err != nil {
		slog.Error("ListOrders failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

func (h *AdminOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	order, err := h.orderUC.GetOrder(r.Context(), id)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Order not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.orderUC.UpdateOrderStatus(r.Context(), id, req.Status); err != nil {
		slog.Error("UpdateStatus failed", "order_id", id, "status", req.Status, "error", err)

		statusCode := http.StatusInternalServerError
		errMsg := err.Error()
		if strings.Contains(errMsg, "invalid order status") {
			statusCode = http.StatusBadRequest
		} else if strings.Contains(errMsg, "not found") {
			statusCode = http.StatusNotFound
		}
		utils.WriteError(w, statusCode, errMsg)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "order status updated",
		"status":  req.Status,
	})
}
