package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/deepakranpise0/vulse-backend/internal/api/http"
	"github.com/deepakranpise0/vulse-backend/internal/auth"
	authmw "github.com/deepakranpise0/vulse-backend/internal/auth/middleware"
	"github.com/deepakranpise0/vulse-backend/internal/quiz"

	"github.com/go-chi/chi/v5"
)

func newQuizRouter(store quiz.Store) chi.Router {
	r := chi.NewRouter()
	quizSvc := quiz.NewService(store)
	submitSvc := quiz.NewSubmissionService(store)
	r.Get("/api/quizzes", api.ListQuizzesHandler(quizSvc))
	r.Post("/api/quizzes", api.CreateQuizHandler(quizSvc))
	r.Put("/api/quizzes/{id}", api.UpdateQuizHandler(quizSvc))
	r.Delete("/api/quizzes/{id}", api.DeleteQuizHandler(quizSvc))
	r.Get("/api/quizzes/results", api.ResultsHandler(submitSvc))
	r.Post("/api/quizzes/{id}", api.SubmitQuizHandler(submitSvc))
	return r
}

func doJSON(t *testing.T, h http.Handler, method, target, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != 0 {
		req = req.WithContext(authmw.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateQuizEndpoint(t *testing.T) {
	r := newQuizRouter(quiz.NewMemoryStore())

	rec := doJSON(t, r, "POST", "/api/quizzes",
		`{"title":"Maths Quiz3","questions":[{"text":"2+2","options":["4","6","7","8"],"correctOption":1}]}`, 0)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string    `json:"message"`
		Data    quiz.Quiz `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Quiz created successfully" || resp.Data.ID == 0 {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
	if len(resp.Data.Questions) != 1 || resp.Data.Questions[0].ID == 0 {
		t.Fatalf("questions missing generated ids: %s", rec.Body.String())
	}
}

func TestCreateQuizRequiresTitle(t *testing.T) {
	r := newQuizRouter(quiz.NewMemoryStore())
	rec := doJSON(t, r, "POST", "/api/quizzes", `{"questions":[]}`, 0)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateQuizNotFound(t *testing.T) {
	r := newQuizRouter(quiz.NewMemoryStore())
	rec := doJSON(t, r, "PUT", "/api/quizzes/999", `{"title":"x","questions":[]}`, 0)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Quiz not found") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSubmitEndpoint(t *testing.T) {
	store := quiz.NewMemoryStore()
	if _, err := quiz.NewService(store).Create(context.Background(), "Maths Quiz", []quiz.QuestionUpsert{
		{Text: "2+2", Options: []string{"3", "4"}, CorrectOption: 1},
		{Text: "2-2", Options: []string{"0", "4"}, CorrectOption: 0},
	}); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	r := newQuizRouter(store)

	rec := doJSON(t, r, "POST", "/api/quizzes/1",
		`{"responses":[{"id":1,"selectedOption":1},{"id":2,"selectedOption":1}]}`, 7)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["Score"] != 1 {
		t.Fatalf("expected Score 1, got %v", resp)
	}
}

func TestSubmitMissingQuiz(t *testing.T) {
	r := newQuizRouter(quiz.NewMemoryStore())
	rec := doJSON(t, r, "POST", "/api/quizzes/999", `{"responses":[]}`, 7)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "Quiz not found" {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func TestDeleteThenListEndpoint(t *testing.T) {
	store := quiz.NewMemoryStore()
	if _, err := quiz.NewService(store).Create(context.Background(), "Maths Quiz", nil); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	r := newQuizRouter(store)

	rec := doJSON(t, r, "DELETE", "/api/quizzes/1", "", 0)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, r, "GET", "/api/quizzes?id=1", "", 0)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []quiz.Quiz
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
}

func TestResultsEndpoint(t *testing.T) {
	store := quiz.NewMemoryStore()
	store.PutUser(auth.User{ID: 7, Username: "newUser", Role: auth.RoleUser})
	q, err := quiz.NewService(store).Create(context.Background(), "Maths Quiz", []quiz.QuestionUpsert{
		{Text: "2+2", Options: []string{"3", "4"}, CorrectOption: 1},
	})
	if err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	if _, err := quiz.NewSubmissionService(store).Submit(context.Background(), q.ID, 7,
		[]quiz.Response{{ID: q.Questions[0].ID, SelectedOption: 1}}); err != nil {
		t.Fatalf("seed submission: %v", err)
	}
	r := newQuizRouter(store)

	rec := doJSON(t, r, "GET", "/api/quizzes/results", "", 7)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var results []quiz.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].Score != 1 || results[0].User.Username != "newUser" {
		t.Fatalf("unexpected results: %s", rec.Body.String())
	}
}

// ---- login ----

type stubUserStore struct{ users map[string]auth.User }

func (s *stubUserStore) CreateUser(ctx context.Context, u auth.User) (auth.User, error) {
	u.ID = int64(len(s.users) + 1)
	s.users[u.Username] = u
	return u, nil
}

func (s *stubUserStore) GetUserByUsername(ctx context.Context, username string) (auth.User, error) {
	u, ok := s.users[username]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserStore) GetUserByID(ctx context.Context, id int64) (auth.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (s *stubUserStore) ListUsers(ctx context.Context, opts auth.ListOpts) ([]auth.User, error) {
	out := []auth.User{}
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func TestLoginEndpoint(t *testing.T) {
	svc := auth.NewService(&stubUserStore{users: map[string]auth.User{}}, authmw.NewAuthService("test-secret"))
	if _, err := svc.CreateUser(context.Background(), "newUser", "newUser@example.com", "password123", auth.RoleUser); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	h := api.LoginHandler(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/users/login",
		strings.NewReader(`{"username":"newUser","password":"password123"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["token"] == "" {
		t.Fatalf("expected a token, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/users/login",
		strings.NewReader(`{"username":"newUser","password":"wrong"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/users/login",
		strings.NewReader(`{"username":"ghost","password":"x"}`)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateUserEndpointRejectsBadRole(t *testing.T) {
	svc := auth.NewService(&stubUserStore{users: map[string]auth.User{}}, authmw.NewAuthService("test-secret"))
	rec := httptest.NewRecorder()
	api.CreateUserHandler(svc).ServeHTTP(rec, httptest.NewRequest("POST", "/api/users",
		strings.NewReader(`{"username":"u","email":"u@example.com","password":"p","role":"SUPERUSER"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateUserEndpointHidesHash(t *testing.T) {
	svc := auth.NewService(&stubUserStore{users: map[string]auth.User{}}, authmw.NewAuthService("test-secret"))
	rec := httptest.NewRecorder()
	api.CreateUserHandler(svc).ServeHTTP(rec, httptest.NewRequest("POST", "/api/users",
		strings.NewReader(`{"username":"u","email":"u@example.com","password":"secret1","role":"USER"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if strings.Contains(body, "secret1") || strings.Contains(body, "password") {
		t.Fatalf("response must not expose password material: %s", body)
	}
}
