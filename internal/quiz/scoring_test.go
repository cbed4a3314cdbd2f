package quiz

import "testing"

func scoringQuiz() Quiz {
	return Quiz{
		ID:    1,
		Title: "Maths Quiz",
		Questions: []Question{
			{ID: 1, QuizID: 1, Text: "2+2", Options: []string{"3", "4"}, CorrectOption: 1},
			{ID: 2, QuizID: 1, Text: "2-2", Options: []string{"0", "4"}, CorrectOption: 0},
		},
	}
}

func TestScore(t *testing.T) {
	q := scoringQuiz()
	got := Score(q, []Response{
		{ID: 1, SelectedOption: 1},
		{ID: 2, SelectedOption: 1},
	})
	if got != 1 {
		t.Fatalf("expected score 1, got %d", got)
	}
}

func TestScore_AllCorrect(t *testing.T) {
	q := scoringQuiz()
	got := Score(q, []Response{
		{ID: 1, SelectedOption: 1},
		{ID: 2, SelectedOption: 0},
	})
	if got != 2 {
		t.Fatalf("expected score 2, got %d", got)
	}
}

func TestScore_UnknownResponseIDsIgnored(t *testing.T) {
	q := scoringQuiz()
	got := Score(q, []Response{
		{ID: 999, SelectedOption: 1},
		{ID: 1, SelectedOption: 1},
	})
	if got != 1 {
		t.Fatalf("expected unknown ids to contribute 0; got score %d", got)
	}
}

func TestScore_DuplicateResponsesEachCount(t *testing.T) {
	q := scoringQuiz()
	got := Score(q, []Response{
		{ID: 1, SelectedOption: 1},
		{ID: 1, SelectedOption: 1},
	})
	if got != 2 {
		t.Fatalf("duplicate responses are evaluated independently; expected 2, got %d", got)
	}
}

func TestScore_NoResponses(t *testing.T) {
	if got := Score(scoringQuiz(), nil); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
