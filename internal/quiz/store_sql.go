package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLStore persists quizzes, questions and submissions over database/sql.
// Queries use $N placeholders, which both the pgx and modernc sqlite
// drivers accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// sortColumns whitelists caller-supplied sort fields. Unknown fields fall
// back to natural order.
var sortColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) ListQuizzes(ctx context.Context, opts ListOpts) ([]Quiz, error) {
	query := `SELECT id,title,created_at,updated_at FROM quizzes`
	var (
		where []string
		args  []any
	)
	if opts.ID != 0 {
		args = append(args, opts.ID)
		where = append(where, fmt.Sprintf("id=$%d", len(args)))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		where = append(where, fmt.Sprintf("title LIKE $%d", len(args)))
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	if col, ok := sortColumns[opts.SortBy]; ok {
		dir := "ASC"
		if opts.SortOrder == "desc" {
			dir = "DESC"
		}
		query += " ORDER BY " + col + " " + dir
	}
	if opts.Page > 0 && opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", opts.Limit, (opts.Page-1)*opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	out := []Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	for i := range out {
		qs, err := loadQuestions(ctx, s.db, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Questions = qs
	}
	return out, nil
}

func (s *SQLStore) GetQuiz(ctx context.Context, id int64) (Quiz, error) {
	return getQuiz(ctx, s.db, id)
}

func (s *SQLStore) CreateQuiz(ctx context.Context, title string, questions []QuestionUpsert) (q Quiz, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	now := time.Now().Unix()
	err = tx.QueryRowContext(ctx,
		`INSERT INTO quizzes (title,created_at,updated_at) VALUES ($1,$2,$3) RETURNING id`,
		title, now, now).Scan(&q.ID)
	if err != nil {
		return Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	q.Title = title
	q.CreatedAt = time.Unix(now, 0).UTC()
	q.UpdatedAt = q.CreatedAt
	q.Questions = []Question{}
	for _, in := range questions {
		var created Question
		created, err = insertQuestion(ctx, tx, q.ID, in)
		if err != nil {
			return Quiz{}, err
		}
		q.Questions = append(q.Questions, created)
	}
	return q, nil
}

func (s *SQLStore) UpdateQuiz(ctx context.Context, id int64, title string, questions []QuestionUpsert) (q Quiz, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Quiz{}, fmt.Errorf("update quiz: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var createdAt int64
	err = tx.QueryRowContext(ctx, `SELECT created_at FROM quizzes WHERE id=$1`, id).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Quiz{}, ErrNotFound
	}
	if err != nil {
		return Quiz{}, fmt.Errorf("update quiz: %w", err)
	}

	now := time.Now().Unix()
	if _, err = tx.ExecContext(ctx,
		`UPDATE quizzes SET title=$1, updated_at=$2 WHERE id=$3`, title, now, id); err != nil {
		return Quiz{}, fmt.Errorf("update quiz: %w", err)
	}

	// Merge: incoming questions with an id update the stored row in place,
	// the rest are inserted. Stored questions absent from the input are
	// left untouched.
	for _, in := range questions {
		if in.IsNew() {
			if _, err = insertQuestion(ctx, tx, id, in); err != nil {
				return Quiz{}, err
			}
			continue
		}
		var oj []byte
		oj, err = json.Marshal(in.Options)
		if err != nil {
			return Quiz{}, fmt.Errorf("update quiz: %w", err)
		}
		if _, err = tx.ExecContext(ctx,
			`UPDATE questions SET text=$1, options_json=$2, correct_option=$3 WHERE id=$4 AND quiz_id=$5`,
			in.Text, string(oj), in.CorrectOption, in.ID, id); err != nil {
			return Quiz{}, fmt.Errorf("update quiz: %w", err)
		}
	}

	q = Quiz{ID: id, Title: title, CreatedAt: time.Unix(createdAt, 0).UTC(), UpdatedAt: time.Unix(now, 0).UTC()}
	q.Questions, err = loadQuestions(ctx, tx, id)
	if err != nil {
		return Quiz{}, err
	}
	return q, nil
}

// DeleteQuiz removes the quiz's questions first, then the quiz. Deleting an
// unknown id is not an error.
func (s *SQLStore) DeleteQuiz(ctx context.Context, id int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id=$1`, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}

func (s *SQLStore) CreateSubmission(ctx context.Context, sub Submission) (Submission, error) {
	rj, err := json.Marshal(sub.Responses)
	if err != nil {
		return Submission{}, fmt.Errorf("create submission: %w", err)
	}
	now := time.Now().Unix()
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO submissions (user_id,quiz_id,responses_json,score,created_at)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		sub.UserID, sub.QuizID, string(rj), sub.Score, now).Scan(&sub.ID)
	if err != nil {
		return Submission{}, fmt.Errorf("create submission: %w", err)
	}
	sub.CreatedAt = time.Unix(now, 0).UTC()
	return sub, nil
}

func (s *SQLStore) ListSubmissionsByUser(ctx context.Context, userID int64) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.user_id, s.quiz_id, s.responses_json, s.score, s.created_at,
		        u.id, u.username, u.email, u.role, u.created_at,
		        q.id, q.title, q.created_at, q.updated_at
		 FROM submissions s
		 JOIN users u ON u.id = s.user_id
		 LEFT JOIN quizzes q ON q.id = s.quiz_id
		 WHERE s.user_id=$1
		 ORDER BY s.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var (
			r           Result
			rjson       string
			subCreated  int64
			userCreated int64
			quizID      sql.NullInt64
			quizTitle   sql.NullString
			quizCreated sql.NullInt64
			quizUpdated sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.QuizID, &rjson, &r.Score, &subCreated,
			&r.User.ID, &r.User.Username, &r.User.Email, &r.User.Role, &userCreated,
			&quizID, &quizTitle, &quizCreated, &quizUpdated); err != nil {
			return nil, fmt.Errorf("list submissions: %w", err)
		}
		if err := json.Unmarshal([]byte(rjson), &r.Responses); err != nil {
			r.Responses = []Response{}
		}
		r.CreatedAt = time.Unix(subCreated, 0).UTC()
		r.User.CreatedAt = time.Unix(userCreated, 0).UTC()
		if quizID.Valid {
			r.Quiz = Quiz{
				ID:        quizID.Int64,
				Title:     quizTitle.String,
				CreatedAt: time.Unix(quizCreated.Int64, 0).UTC(),
				UpdatedAt: time.Unix(quizUpdated.Int64, 0).UTC(),
			}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return out, nil
}

func getQuiz(ctx context.Context, q querier, id int64) (Quiz, error) {
	row := q.QueryRowContext(ctx, `SELECT id,title,created_at,updated_at FROM quizzes WHERE id=$1`, id)
	qz, err := scanQuiz(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Quiz{}, ErrNotFound
	}
	if err != nil {
		return Quiz{}, err
	}
	qz.Questions, err = loadQuestions(ctx, q, id)
	if err != nil {
		return Quiz{}, err
	}
	return qz, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanQuiz(row rowScanner) (Quiz, error) {
	var (
		q       Quiz
		created int64
		updated int64
	)
	if err := row.Scan(&q.ID, &q.Title, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, err
		}
		return Quiz{}, fmt.Errorf("scan quiz: %w", err)
	}
	q.CreatedAt = time.Unix(created, 0).UTC()
	q.UpdatedAt = time.Unix(updated, 0).UTC()
	return q, nil
}

func loadQuestions(ctx context.Context, q querier, quizID int64) ([]Question, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id,quiz_id,text,options_json,correct_option FROM questions WHERE quiz_id=$1 ORDER BY id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		var (
			qu Question
			oj string
		)
		if err := rows.Scan(&qu.ID, &qu.QuizID, &qu.Text, &oj, &qu.CorrectOption); err != nil {
			return nil, fmt.Errorf("load questions: %w", err)
		}
		if err := json.Unmarshal([]byte(oj), &qu.Options); err != nil {
			return nil, fmt.Errorf("load questions: %w", err)
		}
		out = append(out, qu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return out, nil
}

func insertQuestion(ctx context.Context, tx *sql.Tx, quizID int64, in QuestionUpsert) (Question, error) {
	oj, err := json.Marshal(in.Options)
	if err != nil {
		return Question{}, fmt.Errorf("insert question: %w", err)
	}
	qu := Question{QuizID: quizID, Text: in.Text, Options: in.Options, CorrectOption: in.CorrectOption}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO questions (quiz_id,text,options_json,correct_option) VALUES ($1,$2,$3,$4) RETURNING id`,
		quizID, in.Text, string(oj), in.CorrectOption).Scan(&qu.ID)
	if err != nil {
		return Question{}, fmt.Errorf("insert question: %w", err)
	}
	return qu, nil
}
