package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ferreinti-backend/internal/domain"
	"ferreinti-backend/internal/usecase"
	"ferreinti-backend/pkg/utils"
)

type AuthHandler struct {
	authUC       *usecase.AuthUsecase
	tokenExpiry  time.Duration
	secureCookie bool
}

func NewAuthHandler(uc *usecase.AuthUsecase, tokenExpiry time.Duration, env string) *AuthHandler {
	return &AuthHandler{
		authUC:       uc,
		tokenExpiry:  tokenExpiry,
		secureCookie: env == "production",
	}
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.authUC.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		slog.Warn("Register failed", "email", req.Email, "error", err)

		statusCode := http.StatusInternalServerError
		errMsg := err.Error()
		if strings.Contains(errMsg, "required") || strings.Contains(errMsg, "at least") {
			statusCode = http.StatusBadRequest
		} else if strings.Contains(errMsg, "already registered") {
			statusCode = http.StatusConflict
		}
		utils.WriteError(w, statusCode, errMsg)
		return
	}

	h.setAuthCookie(w, result.Token)
	utils.WriteJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.authUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email, "error", err)

		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "invalid credentials") {
			statusCode = http.StatusUnauthorized
		}
		utils.WriteError(w, statusCode, err.Error())
		return
	}

	h.setAuthCookie(w, result.Token)
	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	full, err := h.authUC.Me(r.Context(), user.ID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	utils.WriteJSON(w, http.StatusOK, full)
}

// ListUsers is admin-only; routing must chain the admin middleware.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := utils.ParseInt(r.URL.Query().Get("page"), 1)
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 20)

	users, total, err := h.authUC.ListUsers(r.Context(), page, limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
