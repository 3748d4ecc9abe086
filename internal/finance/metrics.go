// Package finance summarises platform revenue against what is owed to users.
package finance

import (
	"math"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/reward"
)

type Metrics struct {
	UserCount        int   `json:"userCount"`
	PremiumCount     int   `json:"premiumCount"`
	PremiumRatio     int   `json:"premiumRatio"`
	TotalUserBalance int64 `json:"totalUserBalance"`

	RegistrationFees int64 `json:"registrationFees"`
	PremiumRevenue   int64 `json:"premiumRevenue"`
	TotalRevenue     int64 `json:"totalRevenue"`
	NetCapital       int64 `json:"netCapital"`
}

// Summarize computes metrics over regular user accounts. Staff balances are not
// liabilities. Premium revenue is the tier price each premium account paid.
func Summarize(accounts []*domain.Account, registrationFee int64) Metrics {
	var m Metrics
	for _, a := range accounts {
		if a.Role != domain.RoleUser {
			continue
		}
		m.UserCount++
		m.TotalUserBalance += a.Balance
		if a.IsActivated() {
			m.RegistrationFees += registrationFee
		}
		if a.IsPremium {
			m.PremiumCount++
			m.PremiumRevenue += reward.TierPrice(a.PremiumTier)
		}
	}

	m.TotalRevenue = m.RegistrationFees + m.PremiumRevenue
	m.NetCapital = m.TotalRevenue - m.TotalUserBalance
	if m.UserCount > 0 {
		m.PremiumRatio = int(math.Round(float64(m.PremiumCount) * 100 / float64(m.UserCount)))
	}
	return m
}

// Redacted drops revenue figures for callers without revenue access.
func (m Metrics) Redacted() Metrics {
	m.RegistrationFees = 0
	m.PremiumRevenue = 0
	m.TotalRevenue = 0
	m.NetCapital = 0
	return m
}
