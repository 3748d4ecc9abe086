package domain

import (
	"slices"
	"time"
)

type Account struct {
	ID               int64         `json:"id"`
	Username         string        `json:"username"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone"`
	PasswordHash     string        `json:"-"`
	Role             Role          `json:"role"`
	Balance          int64         `json:"balance"`
	IsPremium        bool          `json:"isPremium"`
	PremiumTier      PremiumTier   `json:"premiumTier"`
	IsBlocked        bool          `json:"isBlocked"`
	ActivationCode   string        `json:"activationCode,omitempty"`
	PremiumCode      string        `json:"premiumCode,omitempty"`
	Notes            string        `json:"notes,omitempty"`
	Permissions      PermissionSet `json:"permissions"`
	DailyCount       int           `json:"dailyCount"`
	CompletedSurveys []string      `json:"completedSurveys"`
	CreatedAt        time.Time     `json:"createdAt"`
	Version          int32         `json:"-"`
}

func (a *Account) IsActivated() bool {
	return a.ActivationCode != "" || a.Role.IsStaff()
}

func (a *Account) HasCompleted(surveyID string) bool {
	return slices.Contains(a.CompletedSurveys, surveyID)
}
