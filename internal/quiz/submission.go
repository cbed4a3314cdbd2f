package quiz

import "context"

// SubmissionService scores answers against a quiz and records the outcome.
type SubmissionService struct {
	store Store
}

func NewSubmissionService(store Store) *SubmissionService {
	return &SubmissionService{store: store}
}

// Submit loads the quiz, scores the responses and persists a submission.
// A missing quiz returns ErrNotFound and persists nothing. Responses are
// recorded verbatim, unvalidated against option bounds.
func (s *SubmissionService) Submit(ctx context.Context, quizID, userID int64, responses []Response) (Submission, error) {
	q, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return Submission{}, err
	}
	sub := Submission{
		UserID:    userID,
		QuizID:    quizID,
		Responses: responses,
		Score:     Score(q, responses),
	}
	return s.store.CreateSubmission(ctx, sub)
}

// ResultsForUser returns every submission of the user joined with its user
// and quiz snapshot. No submissions yields an empty slice, not an error.
func (s *SubmissionService) ResultsForUser(ctx context.Context, userID int64) ([]Result, error) {
	return s.store.ListSubmissionsByUser(ctx, userID)
}
