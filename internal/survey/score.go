package survey

import (
	"fmt"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

// Score grades answers (question id -> chosen option). Unanswered questions count
// as wrong.
func Score(s *domain.Survey, answers map[string]string) (domain.SurveyResult, error) {
	known := make(map[string]struct{}, len(s.Questions))
	correct := 0
	for _, q := range s.Questions {
		known[q.ID] = struct{}{}
		if answers[q.ID] == q.CorrectAnswer {
			correct++
		}
	}

	for id := range answers {
		if _, ok := known[id]; !ok {
			return domain.SurveyResult{}, fmt.Errorf("survey: %q has no question %q", s.ID, id)
		}
	}

	total := len(s.Questions)
	return domain.SurveyResult{
		SurveyID:      s.ID,
		Accuracy:      float64(correct) / float64(total),
		QuestionCount: total,
		CorrectCount:  correct,
	}, nil
}
