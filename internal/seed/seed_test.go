package seed

import (
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

type memoryStore struct {
	accounts map[string]*domain.Account
}

func (m *memoryStore) GetAccountByIdentifier(identifier string) (*domain.Account, error) {
	if a, ok := m.accounts[identifier]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memoryStore) CreateAccount(account *domain.Account) error {
	account.ID = int64(len(m.accounts) + 1)
	m.accounts[account.Username] = account
	return nil
}

func TestParseAccountsSampleFile(t *testing.T) {
	f, err := os.Open("data/accounts.csv")
	require.NoError(t, err)
	defer f.Close()

	records, err := ParseAccounts(f)
	require.NoError(t, err)
	require.Len(t, records, 6)

	assert.True(t, strings.HasPrefix(records[0].Username, "gracewanjiru"))
	assert.Equal(t, int64(1250), records[0].Balance)
	assert.True(t, records[0].Activated)
	assert.Equal(t, 2, records[0].Line)

	assert.Equal(t, "kmutua", records[3].Username)
	assert.Equal(t, domain.RoleAdmin, records[3].Role)

	assert.True(t, strings.HasPrefix(records[5].Username, "wangwei"))
	assert.Equal(t, domain.TierElite, records[5].PremiumTier)
}

func TestParseAccountsErrors(t *testing.T) {
	cases := map[string]string{
		"missing column": "name,email,phone\nA,a@example.com,0712000001\n",
		"bad phone":      "name,email,phone,role\nA,a@example.com,12345,user\n",
		"bad role":       "name,email,phone,role\nA,a@example.com,0712000001,owner\n",
		"super admin":    "name,email,phone,role\nA,a@example.com,0712000001,super_admin\n",
		"bad balance":    "name,email,phone,role,balance\nA,a@example.com,0712000001,user,-3\n",
		"bad tier":       "name,email,phone,role,premium_tier\nA,a@example.com,0712000001,user,gold\n",
		"no name":        "name,email,phone,role\n,a@example.com,0712000001,user\n",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAccounts(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestRecordAccount(t *testing.T) {
	premium := AccountRecord{Username: "brian", Role: domain.RoleUser, PremiumTier: domain.TierStandard}.Account("hash")
	assert.True(t, premium.IsActivated())
	assert.True(t, premium.IsPremium)
	assert.Equal(t, domain.TierStandard, premium.PremiumTier)
	assert.Len(t, premium.PremiumCode, 10)

	fresh := AccountRecord{Username: "faith", Role: domain.RoleUser, PremiumTier: domain.TierNone}.Account("hash")
	assert.False(t, fresh.IsActivated())
	assert.False(t, fresh.IsPremium)

	staff := AccountRecord{Username: "kmutua", Role: domain.RoleAdmin, PremiumTier: domain.TierElite}.Account("hash")
	assert.False(t, staff.IsPremium)
	assert.Empty(t, staff.ActivationCode)
}

func TestImportAccountsSkipsExisting(t *testing.T) {
	store := &memoryStore{accounts: map[string]*domain.Account{
		"kmutua": {ID: 99, Username: "kmutua"},
	}}

	records := []AccountRecord{
		{Line: 2, Username: "grace", Role: domain.RoleUser, PremiumTier: domain.TierNone, Activated: true},
		{Line: 3, Username: "kmutua", Role: domain.RoleAdmin, PremiumTier: domain.TierNone},
	}

	created := ImportAccounts(store, records, "hash")
	assert.Equal(t, 1, created)
	assert.Equal(t, int64(99), store.accounts["kmutua"].ID)
	assert.Equal(t, "hash", store.accounts["grace"].PasswordHash)
}
