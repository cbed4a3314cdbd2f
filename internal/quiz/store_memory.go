package quiz

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deepakranpise0/vulse-backend/internal/auth"
)

// MemoryStore is an in-process Store used by tests and local experiments.
type MemoryStore struct {
	mu          sync.RWMutex
	quizzes     map[int64]Quiz
	submissions map[int64]Submission
	users       map[int64]auth.User
	nextQuiz    int64
	nextQn      int64
	nextSub     int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quizzes:     map[int64]Quiz{},
		submissions: map[int64]Submission{},
		users:       map[int64]auth.User{},
	}
}

// PutUser seeds a user for the results join.
func (m *MemoryStore) PutUser(u auth.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *MemoryStore) ListQuizzes(ctx context.Context, opts ListOpts) ([]Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Quiz{}
	for _, q := range m.quizzes {
		if opts.ID != 0 && q.ID != opts.ID {
			continue
		}
		if opts.Search != "" && !strings.Contains(q.Title, opts.Search) {
			continue
		}
		out = append(out, cloneQuiz(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if opts.SortBy != "" {
		sortQuizzes(out, opts.SortBy, opts.SortOrder)
	}
	if opts.Page > 0 && opts.Limit > 0 {
		skip := (opts.Page - 1) * opts.Limit
		if skip >= len(out) {
			return []Quiz{}, nil
		}
		out = out[skip:]
		if len(out) > opts.Limit {
			out = out[:opts.Limit]
		}
	}
	return out, nil
}

func (m *MemoryStore) GetQuiz(ctx context.Context, id int64) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	return cloneQuiz(q), nil
}

func (m *MemoryStore) CreateQuiz(ctx context.Context, title string, questions []QuestionUpsert) (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextQuiz++
	now := time.Now().UTC().Truncate(time.Second)
	q := Quiz{ID: m.nextQuiz, Title: title, CreatedAt: now, UpdatedAt: now, Questions: []Question{}}
	for _, in := range questions {
		m.nextQn++
		q.Questions = append(q.Questions, Question{
			ID:            m.nextQn,
			QuizID:        q.ID,
			Text:          in.Text,
			Options:       append([]string(nil), in.Options...),
			CorrectOption: in.CorrectOption,
		})
	}
	m.quizzes[q.ID] = q
	return cloneQuiz(q), nil
}

func (m *MemoryStore) UpdateQuiz(ctx context.Context, id int64, title string, questions []QuestionUpsert) (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	q.Title = title
	q.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	for _, in := range questions {
		if in.IsNew() {
			m.nextQn++
			q.Questions = append(q.Questions, Question{
				ID:            m.nextQn,
				QuizID:        q.ID,
				Text:          in.Text,
				Options:       append([]string(nil), in.Options...),
				CorrectOption: in.CorrectOption,
			})
			continue
		}
		for i := range q.Questions {
			if q.Questions[i].ID == in.ID {
				q.Questions[i].Text = in.Text
				q.Questions[i].Options = append([]string(nil), in.Options...)
				q.Questions[i].CorrectOption = in.CorrectOption
				break
			}
		}
	}
	m.quizzes[id] = q
	return cloneQuiz(q), nil
}

func (m *MemoryStore) DeleteQuiz(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.quizzes, id)
	return nil
}

func (m *MemoryStore) CreateSubmission(ctx context.Context, sub Submission) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSub++
	sub.ID = m.nextSub
	sub.CreatedAt = time.Now().UTC().Truncate(time.Second)
	sub.Responses = append([]Response(nil), sub.Responses...)
	m.submissions[sub.ID] = sub
	return sub, nil
}

func (m *MemoryStore) ListSubmissionsByUser(ctx context.Context, userID int64) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Result{}
	for _, s := range m.submissions {
		if s.UserID != userID {
			continue
		}
		r := Result{
			ID:        s.ID,
			UserID:    s.UserID,
			QuizID:    s.QuizID,
			Responses: append([]Response(nil), s.Responses...),
			Score:     s.Score,
			CreatedAt: s.CreatedAt,
			User:      m.users[s.UserID],
		}
		if q, ok := m.quizzes[s.QuizID]; ok {
			r.Quiz = Quiz{ID: q.ID, Title: q.Title, CreatedAt: q.CreatedAt, UpdatedAt: q.UpdatedAt}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func cloneQuiz(q Quiz) Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, qu := range q.Questions {
		qu.Options = append([]string(nil), qu.Options...)
		out.Questions[i] = qu
	}
	return out
}

func sortQuizzes(qs []Quiz, by, order string) {
	less := func(i, j int) bool { return qs[i].ID < qs[j].ID }
	switch by {
	case "title":
		less = func(i, j int) bool { return qs[i].Title < qs[j].Title }
	case "createdAt":
		less = func(i, j int) bool { return qs[i].CreatedAt.Before(qs[j].CreatedAt) }
	case "updatedAt":
		less = func(i, j int) bool { return qs[i].UpdatedAt.Before(qs[j].UpdatedAt) }
	case "id":
	default:
		return // unknown field: keep natural order
	}
	if order == "desc" {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(qs, less)
}
