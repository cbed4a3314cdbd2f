package http

import (
	"encoding/json"
	"errors"
	"net/http"

	authmw "github.com/deepakranpise0/vulse-backend/internal/auth/middleware"
	"github.com/deepakranpise0/vulse-backend/internal/quiz"

	"github.com/go-chi/chi/v5"
)

func SubmitQuizHandler(svc *quiz.SubmissionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid quiz id")
			return
		}
		var req struct {
			Responses []quiz.Response `json:"responses"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		userID := authmw.UserIDFromContext(r.Context())
		sub, err := svc.Submit(r.Context(), id, userID, req.Responses)
		if err != nil {
			if errors.Is(err, quiz.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Quiz not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int{"Score": sub.Score})
	}
}

func ResultsHandler(svc *quiz.SubmissionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.UserIDFromContext(r.Context())
		results, err := svc.ResultsForUser(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}
