package survey

import (
	"errors"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/reward"
)

var (
	ErrBlocked           = errors.New("survey: account is blocked")
	ErrNotActivated      = errors.New("survey: account is not activated")
	ErrAlreadyCompleted  = errors.New("survey: already completed")
	ErrDailyLimitReached = errors.New("survey: daily limit reached")
	ErrTierCapExceeded   = errors.New("survey: question count exceeds premium tier")
)

// CheckEligibility decides whether account may start s today. Free accounts are
// bound by dailyLimit; premium accounts by their tier's question cap.
func CheckEligibility(account *domain.Account, s *domain.Survey, dailyLimit int) error {
	switch {
	case account.IsBlocked:
		return ErrBlocked
	case !account.IsActivated():
		return ErrNotActivated
	case account.HasCompleted(s.ID):
		return ErrAlreadyCompleted
	}

	if !account.IsPremium {
		if account.DailyCount >= dailyLimit {
			return ErrDailyLimitReached
		}
		return nil
	}

	if !reward.AllowsQuestionCount(account.PremiumTier, len(s.Questions)) {
		return ErrTierCapExceeded
	}
	return nil
}

// RemainingToday is the number of surveys a free account may still take.
// Premium accounts get -1.
func RemainingToday(account *domain.Account, dailyLimit int) int {
	if account.IsPremium {
		return -1
	}
	return max(dailyLimit-account.DailyCount, 0)
}
