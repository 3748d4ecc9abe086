package reward

import "github.com/josphatwangui51-hash/survey-market/internal/domain"

// Unlimited marks a tier without a question cap.
const Unlimited = -1

type Tier struct {
	Name        domain.PremiumTier `json:"name"`
	Label       string             `json:"label"`
	Price       int64              `json:"price"`
	QuestionCap int                `json:"questionCap"`
}

// Tiers is the single pricing and question-cap table for premium plans.
var Tiers = []Tier{
	{Name: domain.TierBasic, Label: "Essential", Price: 100, QuestionCap: 5},
	{Name: domain.TierStandard, Label: "Professional", Price: 300, QuestionCap: 7},
	{Name: domain.TierElite, Label: "Elite Master", Price: 500, QuestionCap: Unlimited},
}

func LookupTier(name domain.PremiumTier) (Tier, bool) {
	for _, t := range Tiers {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

func TierPrice(name domain.PremiumTier) int64 {
	t, ok := LookupTier(name)
	if !ok {
		return 0
	}
	return t.Price
}

// QuestionCap returns the cap for a tier. Accounts without a paid tier have no
// per-survey cap; they are limited by the daily survey count instead.
func QuestionCap(name domain.PremiumTier) int {
	t, ok := LookupTier(name)
	if !ok {
		return Unlimited
	}
	return t.QuestionCap
}

func AllowsQuestionCount(name domain.PremiumTier, count int) bool {
	limit := QuestionCap(name)
	return limit == Unlimited || count <= limit
}
