package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kordano/jobly/pkg/apperr"
	"github.com/kordano/jobly/pkg/repository"
)

type AuthHandler struct {
	userRepo      repository.UserRepo
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ur repository.UserRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{userRepo: ur, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login verifies a username/password pair and issues a signed credential.
// Mismatches are reported as a 400 without revealing whether the user exists.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid json body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, apperr.Validation("username and password are required"))
		return
	}

	user, err := h.userRepo.GetUser(r.Context(), req.Username)
	if err != nil || user == nil {
		writeError(w, apperr.Validation("invalid user/password"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, apperr.Validation("invalid user/password"))
		return
	}

	token, err := signToken(h.jwtSecret, h.tokenDuration, user.Username, user.IsAdmin)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, loginResponse{Token: token}, http.StatusOK)
}

// signToken issues the identity credential asserting a username and admin flag.
func signToken(secret string, duration time.Duration, username string, isAdmin bool) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"is_admin": isAdmin,
		"exp":      time.Now().Add(duration).Unix(),
	})
	return token.SignedString([]byte(secret))
}
