package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kordano/jobly/pkg/apperr"
	"github.com/kordano/jobly/pkg/models"
	"github.com/kordano/jobly/pkg/repository"
)

type UsersHandler struct {
	userRepo      repository.UserRepo
	jwtSecret     string
	tokenDuration time.Duration
}

func NewUsersHandler(ur repository.UserRepo, jwtSecret string, tokenDuration time.Duration) *UsersHandler {
	return &UsersHandler{userRepo: ur, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type userRequest struct {
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	PhotoURL  *string `json:"photoUrl"`
	IsAdmin   *bool   `json:"isAdmin"`
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	writeJSON(w, map[string]any{"users": users}, http.StatusOK)
}

// Create registers a new user and returns a signed credential alongside it.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(r.Context(), "user_new", body); err != nil {
		writeError(w, err)
		return
	}

	var req userRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperr.Validation("invalid json body"))
		return
	}

	u := &models.User{
		Username:  *req.Username,
		FirstName: *req.FirstName,
		LastName:  *req.LastName,
		Email:     *req.Email,
		PhotoURL:  req.PhotoURL,
	}
	if req.IsAdmin != nil {
		u.IsAdmin = *req.IsAdmin
	}

	user, err := h.userRepo.CreateUser(r.Context(), u, *req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := signToken(h.jwtSecret, h.tokenDuration, user.Username, user.IsAdmin)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]any{"user": user, "token": token}, http.StatusCreated)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetUser(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]any{"user": user}, http.StatusOK)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(r.Context(), "user_update", body); err != nil {
		writeError(w, err)
		return
	}

	var req userRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperr.Validation("invalid json body"))
		return
	}

	fields := map[string]any{}
	if req.Password != nil {
		fields["password"] = *req.Password
	}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.PhotoURL != nil {
		fields["photo_url"] = *req.PhotoURL
	}

	user, err := h.userRepo.UpdateUser(r.Context(), mux.Vars(r)["username"], fields)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]any{"user": user}, http.StatusOK)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.userRepo.DeleteUser(r.Context(), mux.Vars(r)["username"]); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]any{"message": "User deleted"}, http.StatusOK)
}
