package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/deepakranpise0/vulse-backend/internal/auth"
)

func LoginHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username and password required")
			return
		}
		token, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "User not found")
			case errors.Is(err, auth.ErrInvalidCredentials):
				writeError(w, http.StatusUnauthorized, "Invalid credentials")
			default:
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

func CreateUserHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username and password required")
			return
		}
		role := auth.Role(req.Role)
		if role != auth.RoleAdmin && role != auth.RoleUser {
			writeError(w, http.StatusBadRequest, "invalid role: "+req.Role)
			return
		}
		u, err := svc.CreateUser(r.Context(), req.Username, req.Email, req.Password, role)
		if err != nil {
			if errors.Is(err, auth.ErrUsernameTaken) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "User Created Successfully.",
			"data":    u,
		})
	}
}

func ListUsersHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := auth.ListOpts{
			Search:    strings.TrimSpace(r.URL.Query().Get("search")),
			SortBy:    r.URL.Query().Get("sortBy"),
			SortOrder: r.URL.Query().Get("sortOrder"),
			Page:      parseIntDefault(r.URL.Query().Get("page"), 0),
			Limit:     parseIntDefault(r.URL.Query().Get("limit"), 0),
		}
		if id, ok := parseID(r.URL.Query().Get("id")); ok {
			opts.ID = id
		}
		users, err := svc.Users(r.Context(), opts)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}
