package quiz

import "context"

type ListOpts struct {
	ID        int64  // filter to a single quiz
	Search    string // substring match on title
	SortBy    string // id|title|createdAt|updatedAt
	SortOrder string // asc|desc (default asc)
	Page      int    // 1-based; paging applies only when Page and Limit are both set
	Limit     int
}

type Store interface {
	ListQuizzes(ctx context.Context, opts ListOpts) ([]Quiz, error)
	GetQuiz(ctx context.Context, id int64) (Quiz, error)
	CreateQuiz(ctx context.Context, title string, questions []QuestionUpsert) (Quiz, error)
	UpdateQuiz(ctx context.Context, id int64, title string, questions []QuestionUpsert) (Quiz, error)
	DeleteQuiz(ctx context.Context, id int64) error

	CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
	ListSubmissionsByUser(ctx context.Context, userID int64) ([]Result, error)
}
