package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/deepakranpise0/vulse-backend/internal/quiz"

	"github.com/go-chi/chi/v5"
)

type quizPayload struct {
	Title     string                `json:"title"`
	Questions []quiz.QuestionUpsert `json:"questions"`
}

func ListQuizzesHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := quiz.ListOpts{
			Search:    strings.TrimSpace(r.URL.Query().Get("search")),
			SortBy:    r.URL.Query().Get("sortBy"),
			SortOrder: r.URL.Query().Get("sortOrder"),
			Page:      parseIntDefault(r.URL.Query().Get("page"), 0),
			Limit:     parseIntDefault(r.URL.Query().Get("limit"), 0),
		}
		if id, ok := parseID(r.URL.Query().Get("id")); ok {
			opts.ID = id
		}
		list, err := svc.List(r.Context(), opts)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func CreateQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quizPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.Title == "" {
			writeError(w, http.StatusBadRequest, "title required")
			return
		}
		created, err := svc.Create(r.Context(), req.Title, req.Questions)
		if err != nil {
			if errors.Is(err, quiz.ErrCorrectOptionRange) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Quiz created successfully",
			"data":    created,
		})
	}
}

func UpdateQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid quiz id")
			return
		}
		var req quizPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		updated, err := svc.Update(r.Context(), id, req.Title, req.Questions)
		if err != nil {
			switch {
			case errors.Is(err, quiz.ErrNotFound):
				writeError(w, http.StatusNotFound, "Quiz not found")
			case errors.Is(err, quiz.ErrCorrectOptionRange):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "Internal Server Error")
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Quiz updated successfully",
			"data":    updated,
		})
	}
}

func DeleteQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid quiz id")
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Quiz deleted successfully"})
	}
}
