package handlers

// testQuestionCount is the fixed size of the quiz; the submission form and
// the seeded question bank both carry exactly this many positions.
const testQuestionCount = 5

// scoreAnswers counts the positions where the submitted 1-based option index
// equals the stored correct answer. Positions beyond the shorter slice never
// score.
func scoreAnswers(submitted, correct []int) int {
	n := len(submitted)
	if len(correct) < n {
		n = len(correct)
	}

	score := 0
	for i := 0; i < n; i++ {
		if submitted[i] == correct[i] {
			score++
		}
	}
	return score
}
