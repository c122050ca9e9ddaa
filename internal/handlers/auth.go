package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fortiva/propflow/internal/models"
	"github.com/fortiva/propflow/internal/storage"
	"github.com/fortiva/propflow/internal/utils"
)

// SignupRequest represents a registration request
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SigninRequest represents a login request
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signup handles user registration
func (r *Router) signup(w http.ResponseWriter, req *http.Request) {
	var input SignupRequest
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if input.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if input.Password == "" {
		respondError(w, http.StatusBadRequest, "Password is required")
		return
	}
	if input.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	if _, err := r.store.GetUserByEmail(req.Context(), input.Email); err == nil {
		respondError(w, http.StatusBadRequest, "User already exists")
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Email:    input.Email,
		Password: hashed,
		Name:     input.Name,
	}
	if err := r.store.CreateUser(req.Context(), &user); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := utils.GenerateToken(&user, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// signin handles user login
func (r *Router) signin(w http.ResponseWriter, req *http.Request) {
	var input SigninRequest
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := r.store.GetUserByEmail(req.Context(), input.Email)
	if err != nil || !utils.CheckPasswordHash(input.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.GenerateToken(user, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}
