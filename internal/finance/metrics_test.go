package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

func TestSummarize(t *testing.T) {
	accounts := []*domain.Account{
		{Role: domain.RoleUser, Balance: 300, ActivationCode: "AAAAAAAAAA"},
		{Role: domain.RoleUser, Balance: 1200, ActivationCode: "BBBBBBBBBB", IsPremium: true, PremiumTier: domain.TierElite},
		{Role: domain.RoleUser, Balance: 0, ActivationCode: "CCCCCCCCCC", IsPremium: true, PremiumTier: domain.TierBasic},
		{Role: domain.RoleUser, Balance: 0},
		{Role: domain.RoleSuperAdmin, Balance: 99999},
	}

	m := Summarize(accounts, 49)
	assert.Equal(t, 4, m.UserCount)
	assert.Equal(t, 2, m.PremiumCount)
	assert.Equal(t, 50, m.PremiumRatio)
	assert.Equal(t, int64(1500), m.TotalUserBalance)
	assert.Equal(t, int64(147), m.RegistrationFees)
	assert.Equal(t, int64(600), m.PremiumRevenue)
	assert.Equal(t, int64(747), m.TotalRevenue)
	assert.Equal(t, int64(-753), m.NetCapital)

	r := m.Redacted()
	assert.Zero(t, r.TotalRevenue)
	assert.Zero(t, r.NetCapital)
	assert.Equal(t, int64(1500), r.TotalUserBalance)
}

func TestSummarizeEmpty(t *testing.T) {
	m := Summarize(nil, 49)
	assert.Equal(t, Metrics{}, m)
}
