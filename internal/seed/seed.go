package seed

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/utils"
)

var requiredHeaders = []string{"name", "email", "phone", "role"}

// AccountStore is the part of the repository an import needs.
type AccountStore interface {
	GetAccountByIdentifier(identifier string) (*domain.Account, error)
	CreateAccount(account *domain.Account) error
}

// AccountRecord is one row of an account import file.
type AccountRecord struct {
	Line        int
	Username    string
	Email       string
	Phone       string
	Role        domain.Role
	Balance     int64
	PremiumTier domain.PremiumTier
	Activated   bool
	Notes       string
}

// ParseAccounts reads an account CSV. The header row names the columns; name,
// email, phone and role are required, username, balance, premium_tier,
// activated and notes are optional. A missing username is derived from name.
func ParseAccounts(r io.Reader) ([]AccountRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("seed: read header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(headers[i]))
	}
	for _, h := range requiredHeaders {
		if !slices.Contains(headers, h) {
			return nil, fmt.Errorf("seed: missing column %q", h)
		}
	}

	var records []AccountRecord
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("seed: read line %d: %w", line+1, err)
		}
		line++

		record := make(map[string]string, len(headers))
		for i, value := range row {
			record[headers[i]] = strings.TrimSpace(value)
		}

		ar, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("seed: line %d: %w", line, err)
		}
		ar.Line = line
		records = append(records, ar)
	}

	return records, nil
}

func parseRecord(record map[string]string) (AccountRecord, error) {
	ar := AccountRecord{
		Username:    record["username"],
		Email:       record["email"],
		Phone:       record["phone"],
		Role:        domain.Role(record["role"]),
		PremiumTier: domain.TierNone,
		Notes:       record["notes"],
	}

	if ar.Username == "" {
		if record["name"] == "" {
			return ar, errors.New("name or username is required")
		}
		ar.Username = utils.UsernameFromName(record["name"])
	}
	if ar.Email == "" {
		return ar, errors.New("email is required")
	}
	if !utils.IsValidPhone(ar.Phone) {
		return ar, fmt.Errorf("invalid phone %q", ar.Phone)
	}
	if !ar.Role.Valid() {
		return ar, fmt.Errorf("unknown role %q", ar.Role)
	}
	if ar.Role == domain.RoleSuperAdmin {
		return ar, errors.New("the super admin cannot be imported")
	}

	if v := record["balance"]; v != "" {
		balance, err := strconv.ParseInt(v, 10, 64)
		if err != nil || balance < 0 {
			return ar, fmt.Errorf("invalid balance %q", v)
		}
		ar.Balance = balance
	}

	if v := record["premium_tier"]; v != "" {
		ar.PremiumTier = domain.PremiumTier(v)
		if !ar.PremiumTier.Valid() {
			return ar, fmt.Errorf("unknown premium tier %q", v)
		}
	}

	if v := record["activated"]; v != "" {
		activated, err := strconv.ParseBool(v)
		if err != nil {
			return ar, fmt.Errorf("invalid activated flag %q", v)
		}
		ar.Activated = activated
	}

	return ar, nil
}

// Account builds the account stored for a record.
func (ar AccountRecord) Account(passwordHash string) *domain.Account {
	a := &domain.Account{
		Username:     ar.Username,
		Email:        ar.Email,
		Phone:        ar.Phone,
		PasswordHash: passwordHash,
		Role:         ar.Role,
		Balance:      ar.Balance,
		PremiumTier:  domain.TierNone,
		Notes:        ar.Notes,
	}
	if ar.Role == domain.RoleUser && (ar.Activated || ar.PremiumTier != domain.TierNone) {
		a.ActivationCode = utils.GenerateRandomPaymentCode()
	}
	if ar.Role == domain.RoleUser && ar.PremiumTier != domain.TierNone {
		a.IsPremium = true
		a.PremiumTier = ar.PremiumTier
		a.PremiumCode = utils.GenerateRandomPaymentCode()
	}
	return a
}

// ImportAccounts creates every record whose username is not taken yet and
// returns how many were created. Rows that fail are logged and skipped.
func ImportAccounts(store AccountStore, records []AccountRecord, passwordHash string) int {
	created := 0
	for _, ar := range records {
		_, err := store.GetAccountByIdentifier(ar.Username)
		switch {
		case err == nil:
			slog.Info("account already exists, skipped", "line", ar.Line, "username", ar.Username)
			continue
		case !errors.Is(err, sql.ErrNoRows):
			slog.Error("failed to look up account", "line", ar.Line, "username", ar.Username, "error", err)
			continue
		}

		if err := store.CreateAccount(ar.Account(passwordHash)); err != nil {
			slog.Error("failed to create account", "line", ar.Line, "username", ar.Username, "error", err)
			continue
		}
		created++
	}

	return created
}
