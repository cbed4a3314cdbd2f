package quiz

import (
	"time"

	"github.com/deepakranpise0/vulse-backend/internal/auth"
)

type Question struct {
	ID            int64    `json:"id"`
	QuizID        int64    `json:"quizId"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"` // zero-based index into Options
}

type Quiz struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Questions []Question `json:"questions,omitempty"`
}

// QuestionUpsert is an incoming question on create/update. A zero ID marks
// an insert; a non-zero ID marks an in-place update of the stored question.
type QuestionUpsert struct {
	ID            int64    `json:"id,omitempty"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
}

func (u QuestionUpsert) IsNew() bool { return u.ID == 0 }

// Response is one answer in a submission, persisted verbatim. SelectedOption
// is not validated against the question's option bounds.
type Response struct {
	ID             int64 `json:"id"` // question id
	SelectedOption int   `json:"selectedOption"`
}

type Submission struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	QuizID    int64      `json:"quizId"`
	Responses []Response `json:"responses"`
	Score     int        `json:"score"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Result is a submission joined with its user and quiz snapshot at read
// time. The quiz snapshot omits questions and is zero when the quiz has
// been deleted since the submission.
type Result struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	QuizID    int64      `json:"quizId"`
	Responses []Response `json:"responses"`
	Score     int        `json:"score"`
	CreatedAt time.Time  `json:"createdAt"`
	User      auth.User  `json:"user"`
	Quiz      Quiz       `json:"quiz"`
}
