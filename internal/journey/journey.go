// Package journey records every handled request (method, url, user,
// status, bodies) as an audit trail. Appends are best-effort: a failed
// write is logged and never surfaces to the client.
package journey

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	authmw "github.com/deepakranpise0/vulse-backend/internal/auth/middleware"

	"github.com/go-chi/chi/v5/middleware"
)

type Entry struct {
	Method       string
	URL          string
	UserID       int64
	StatusCode   int
	RequestBody  string
	ResponseBody string
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_journeys (method, url, user_id, status_code, request_body, response_body, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.Method, e.URL, e.UserID, e.StatusCode, e.RequestBody, e.ResponseBody, time.Now().Unix())
	return err
}

// bodies larger than this are truncated in the log row
const maxBodyLog = 1 << 16

// Middleware captures the request and response around the handler chain.
// The user id is resolved from the bearer token when one is present; the
// JWT middleware runs further down the chain, so the token is parsed here
// independently.
func Middleware(repo *Repo, authSvc *authmw.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var reqBody []byte
			if r.Body != nil {
				reqBody, _ = io.ReadAll(io.LimitReader(r.Body, maxBodyLog))
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(reqBody), r.Body))
			}

			var respBody bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&respBody)

			next.ServeHTTP(ww, r)

			var userID int64
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				if claims, err := authSvc.Parse(strings.TrimPrefix(h, "Bearer ")); err == nil && claims != nil {
					userID = claims.UserID
				}
			}

			body := respBody.Bytes()
			if len(body) > maxBodyLog {
				body = body[:maxBodyLog]
			}
			err := repo.Append(r.Context(), Entry{
				Method:       r.Method,
				URL:          r.URL.String(),
				UserID:       userID,
				StatusCode:   ww.Status(),
				RequestBody:  string(reqBody),
				ResponseBody: string(body),
			})
			if err != nil {
				log.Printf("journey log: %v", err)
			}
		})
	}
}
