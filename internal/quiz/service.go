package quiz

import "context"

// Service orchestrates quiz CRUD over a Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

func (s *Service) List(ctx context.Context, opts ListOpts) ([]Quiz, error) {
	return s.store.ListQuizzes(ctx, opts)
}

func (s *Service) Create(ctx context.Context, title string, questions []QuestionUpsert) (Quiz, error) {
	if err := checkQuestions(questions); err != nil {
		return Quiz{}, err
	}
	return s.store.CreateQuiz(ctx, title, questions)
}

// Update overwrites the title and merges the incoming questions: those with
// an id update the stored question in place, the rest are inserted. Stored
// questions omitted from the input are kept.
func (s *Service) Update(ctx context.Context, id int64, title string, questions []QuestionUpsert) (Quiz, error) {
	if err := checkQuestions(questions); err != nil {
		return Quiz{}, err
	}
	return s.store.UpdateQuiz(ctx, id, title, questions)
}

// Delete is idempotent; removing an unknown quiz succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteQuiz(ctx, id)
}

func checkQuestions(questions []QuestionUpsert) error {
	for _, q := range questions {
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return ErrCorrectOptionRange
		}
	}
	return nil
}
