package quiz

// Score computes a submission's score: one point per response whose
// selected option matches the correct option of the question it names.
// Responses naming a question not in the quiz are ignored. Duplicate
// response ids are evaluated independently, so a question can score more
// than once when the caller repeats it.
func Score(q Quiz, responses []Response) int {
	score := 0
	for _, r := range responses {
		for _, qu := range q.Questions {
			if qu.ID == r.ID {
				if qu.CorrectOption == r.SelectedOption {
					score++
				}
				break
			}
		}
	}
	return score
}
