package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	all := c.All()
	require.Len(t, all, 4)
	for _, s := range all {
		assert.Len(t, s.Questions, 10, s.ID)
	}

	s, err := c.Get("sci-01")
	require.NoError(t, err)
	assert.Equal(t, "Science", s.Category)

	_, err = c.Get("missing")
	assert.ErrorIs(t, err, ErrSurveyNotFound)

	available := c.Available([]string{"geo-01", "pol-01"})
	require.Len(t, available, 2)
	assert.Equal(t, "sci-01", available[0].ID)
	assert.Equal(t, "agr-01", available[1].ID)
}

func TestParseCatalogRejectsBadEntries(t *testing.T) {
	_, err := ParseCatalog([]byte(`
- id: a
  title: A
  questions:
    - id: q1
      text: x
      options: [a, b]
      correctAnswer: c
`))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte(`
- id: a
  questions: []
`))
	assert.Error(t, err)
}

func TestScore(t *testing.T) {
	s := &domain.Survey{
		ID: "t",
		Questions: []domain.Question{
			{ID: "q1", Options: []string{"a", "b"}, CorrectAnswer: "a"},
			{ID: "q2", Options: []string{"a", "b"}, CorrectAnswer: "b"},
			{ID: "q3", Options: []string{"a", "b"}, CorrectAnswer: "b"},
			{ID: "q4", Options: []string{"a", "b"}, CorrectAnswer: "a"},
		},
	}

	res, err := Score(s, map[string]string{"q1": "a", "q2": "b", "q3": "a"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, 4, res.QuestionCount)
	assert.InDelta(t, 0.5, res.Accuracy, 1e-9)

	_, err = Score(s, map[string]string{"q9": "a"})
	assert.Error(t, err)
}

func TestCheckEligibility(t *testing.T) {
	s := &domain.Survey{ID: "geo-01", Questions: make([]domain.Question, 10)}
	fresh := func() *domain.Account {
		return &domain.Account{ID: 1, Role: domain.RoleUser, ActivationCode: "UAB4O3QN9W"}
	}

	assert.NoError(t, CheckEligibility(fresh(), s, 3))

	a := fresh()
	a.IsBlocked = true
	assert.ErrorIs(t, CheckEligibility(a, s, 3), ErrBlocked)

	a = fresh()
	a.ActivationCode = ""
	assert.ErrorIs(t, CheckEligibility(a, s, 3), ErrNotActivated)

	a = fresh()
	a.CompletedSurveys = []string{"geo-01"}
	assert.ErrorIs(t, CheckEligibility(a, s, 3), ErrAlreadyCompleted)

	a = fresh()
	a.DailyCount = 3
	assert.ErrorIs(t, CheckEligibility(a, s, 3), ErrDailyLimitReached)
	assert.Equal(t, 0, RemainingToday(a, 3))

	a.IsPremium, a.PremiumTier = true, domain.TierBasic
	assert.ErrorIs(t, CheckEligibility(a, s, 3), ErrTierCapExceeded)
	a.PremiumTier = domain.TierStandard
	assert.ErrorIs(t, CheckEligibility(a, s, 3), ErrTierCapExceeded)
	a.PremiumTier = domain.TierElite
	assert.NoError(t, CheckEligibility(a, s, 3))
	assert.Equal(t, -1, RemainingToday(a, 3))
}
