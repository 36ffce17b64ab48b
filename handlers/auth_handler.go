package handlers

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/corfutbolocanero/roster-service/middleware"
	"github.com/corfutbolocanero/roster-service/services"
	"github.com/corfutbolocanero/roster-service/session"
)

type AuthHandler struct {
	authService services.AuthService
	sessions    *session.Store
	jwtSecret   []byte
}

func NewAuthHandler(authService services.AuthService, sessions *session.Store, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		jwtSecret:   []byte(jwtSecret),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Rol),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.jwtSecret)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	h.sessions.SignIn(user)

	writeJSON(w, http.StatusOK, jsonResponse{"token": tokenString, "user": user}, nil)
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	var input services.UpdatePasswordInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.authService.UpdatePassword(r.Context(), userID, input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"message": "password updated"}, nil)
}

// RequestPasswordReset responde igual exista o no el correo.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	token, err := h.authService.GeneratePasswordResetToken(r.Context(), input.Email)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	resp := jsonResponse{"message": "if the email is registered, a reset link will be sent"}
	// Sin servicio de correo configurado el token se devuelve en la
	// respuesta para que el panel arme el enlace.
	if token != "" {
		resp["reset_token"] = token
	}
	writeJSON(w, http.StatusOK, resp, nil)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Token == "" || input.NewPassword == "" {
		unprocessableResponse(w, r, "token and new_password are required")
		return
	}

	if err := h.authService.ResetPasswordByToken(r.Context(), input.Token, input.NewPassword); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"message": "password reset"}, nil)
}
