package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Muhammad-Huzaifa24/backend-PMS/logging"
	"github.com/Muhammad-Huzaifa24/backend-PMS/middleware"
	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
	"github.com/Muhammad-Huzaifa24/backend-PMS/services"
	"github.com/Muhammad-Huzaifa24/backend-PMS/utils"
)

const refreshCookieName = "refresh_token"

type UserHandler struct {
	users  *services.UserService
	tokens *services.TokenService
}

func NewUserHandler(users *services.UserService, tokens *services.TokenService) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string      `json:"name"`
		Email    string      `json:"email"`
		Password string      `json:"password"`
		Role     models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.BadRequestResponse(w, "invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), body.Name, body.Email, body.Password, body.Role)
	if err != nil {
		logging.Logger.Warnf("Failed to register user %s: %v", body.Email, err)
		utils.ErrorResponse(w, err)
		return
	}

	logging.Logger.Infof("User registered successfully: %s", user.Email)
	utils.CreatedResponse(w, "User registered successfully", user)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.BadRequestResponse(w, "invalid request body")
		return
	}

	user, pair, err := h.users.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		logging.Logger.Warnf("Login failed for %s: %v", body.Email, err)
		utils.ErrorResponse(w, err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+pair.AccessToken)
	setRefreshCookie(w, pair.RefreshToken)

	logging.Logger.Infof("User logged in successfully: %s", user.Email)
	utils.SuccessResponse(w, "Login successful", map[string]any{
		"user":      user,
		"expiresIn": pair.ExpiresIn,
	})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.NotFoundResponse(w, "no user found")
		return
	}

	if err := h.users.Logout(r.Context(), user.ID); err != nil {
		logging.Logger.Errorf("Failed to log out %s: %v", user.Email, err)
		utils.ErrorResponse(w, err)
		return
	}

	clearRefreshCookie(w)
	logging.Logger.Infof("%s logged out successfully", user.Name)
	utils.SuccessResponse(w, "Logged out successfully", nil)
}

func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		token = body.RefreshToken
	}
	if token == "" {
		utils.NotFoundResponse(w, "refresh token not found")
		return
	}

	pair, err := h.tokens.Refresh(r.Context(), token)
	if err != nil {
		logging.Logger.Warnf("Failed to refresh access token: %v", err)
		utils.ErrorResponse(w, err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+pair.AccessToken)
	setRefreshCookie(w, pair.RefreshToken)

	utils.SuccessResponse(w, "Access token refreshed", pair)
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAll(r.Context())
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}
	utils.SuccessResponse(w, "", users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}
	utils.SuccessResponse(w, "", user)
}

func setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
