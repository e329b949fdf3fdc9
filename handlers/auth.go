package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"taskmaster-api/db"
	"taskmaster-api/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Register creates an account and returns it together with a fresh token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Use POST method", http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Bad JSON", http.StatusBadRequest)
		return
	}

	if input.Username == "" {
		sendError(w, "Username is required", http.StatusBadRequest)
		return
	}
	if !isValidEmail(input.Email) {
		sendError(w, "Valid email is required", http.StatusBadRequest)
		return
	}
	if len(input.Password) < 6 {
		sendError(w, "Password must be at least 6 characters long", http.StatusBadRequest)
		return
	}

	if _, err := h.UserRepo.GetByEmail(r.Context(), input.Email); err == nil {
		sendError(w, "User already exists", http.StatusBadRequest)
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		h.logger().WithError(err).Error("look up user for registration")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}

	hash, err := h.Auth.HashPassword(input.Password)
	if err != nil {
		h.logger().WithError(err).Error("hash password")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := h.UserRepo.Create(r.Context(), user); err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			sendError(w, "User already exists", http.StatusBadRequest)
			return
		}
		h.logger().WithError(err).Error("create user")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}

	token, err := h.Auth.IssueRegistrationToken(user)
	if err != nil {
		h.logger().WithError(err).Error("issue registration token")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}

	h.logger().WithField("email", user.Email).Info("user registered")
	sendJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"token":   token,
		"user":    viewUser(user),
	})
}

// Login verifies credentials and returns a token. An unknown email and a
// wrong password produce the same response so accounts cannot be enumerated.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Use POST method", http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Bad JSON", http.StatusBadRequest)
		return
	}
	if !isValidEmail(input.Email) || input.Password == "" {
		sendError(w, "Valid email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByEmail(r.Context(), input.Email)
	if err != nil {
		// only a missing account is a credentials failure; a store fault
		// must not masquerade as one
		if errors.Is(err, db.ErrNotFound) {
			sendError(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger().WithError(err).Error("look up user for login")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}
	if !h.Auth.CheckPassword(user.PasswordHash, input.Password) {
		sendError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.Auth.IssueLoginToken(user)
	if err != nil {
		h.logger().WithError(err).Error("issue login token")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}

	h.logger().WithField("email", user.Email).Info("user logged in")
	sendJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    viewUser(user),
	})
}

// Profile returns the authenticated user's record.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, "Use GET method", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := claimsFromContext(r.Context())
	if !ok {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.UserRepo.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			sendError(w, "User not found", http.StatusNotFound)
			return
		}
		h.logger().WithError(err).Error("get profile")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}

	sendJSON(w, http.StatusOK, map[string]any{"user": user})
}
