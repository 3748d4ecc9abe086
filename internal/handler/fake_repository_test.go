package handler

import (
	"context"
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/repository"
)

// fakeRepository mirrors the PostgreSQL constraints the handlers depend on.
type fakeRepository struct {
	mu           sync.Mutex
	nextID       int64
	accounts     map[int64]*domain.Account
	paymentCodes map[string]int64
	withdrawals  map[int64]*domain.WithdrawalRequest
	directives   map[int64]*domain.Directive
	messages     []*domain.StaffMessage
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		accounts:     make(map[int64]*domain.Account),
		paymentCodes: make(map[string]int64),
		withdrawals:  make(map[int64]*domain.WithdrawalRequest),
		directives:   make(map[int64]*domain.Directive),
	}
}

func (f *fakeRepository) id() int64 {
	f.nextID++
	return f.nextID
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	c.CompletedSurveys = slices.Clone(a.CompletedSurveys)
	if c.CompletedSurveys == nil {
		c.CompletedSurveys = []string{}
	}
	return &c
}

func copyWithdrawal(w *domain.WithdrawalRequest) *domain.WithdrawalRequest {
	c := *w
	return &c
}

func (f *fakeRepository) uniqueViolation(a *domain.Account) error {
	for _, other := range f.accounts {
		if other.ID == a.ID {
			continue
		}
		switch {
		case other.Username == a.Username:
			return &pgconn.PgError{Code: "23505", ConstraintName: "accounts_username_key"}
		case other.Email == a.Email:
			return &pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"}
		case other.Phone == a.Phone:
			return &pgconn.PgError{Code: "23505", ConstraintName: "accounts_phone_key"}
		case other.Role == domain.RoleSuperAdmin && a.Role == domain.RoleSuperAdmin:
			return &pgconn.PgError{Code: "23505", ConstraintName: "accounts_super_admin_key"}
		}
	}
	if a.Balance < 0 {
		return &pgconn.PgError{Code: "23514", ConstraintName: "accounts_balance_check"}
	}
	return nil
}

func (f *fakeRepository) CreateAccount(account *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.uniqueViolation(account); err != nil {
		return err
	}
	account.ID = f.id()
	account.CreatedAt = time.Now()
	account.Version = 1
	f.accounts[account.ID] = copyAccount(account)
	return nil
}

func (f *fakeRepository) GetAccountByID(id int64) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.accounts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyAccount(a), nil
}

func (f *fakeRepository) GetAccountByIdentifier(identifier string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.accounts {
		if a.Username == identifier || a.Email == identifier || a.Phone == identifier {
			return copyAccount(a), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepository) sortedAccounts(keep func(*domain.Account) bool) []*domain.Account {
	accounts := make([]*domain.Account, 0)
	for _, a := range f.accounts {
		if keep(a) {
			accounts = append(accounts, copyAccount(a))
		}
	}
	slices.SortFunc(accounts, func(a, b *domain.Account) int { return int(a.ID - b.ID) })
	return accounts
}

func (f *fakeRepository) GetAllAccounts() ([]*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedAccounts(func(*domain.Account) bool { return true }), nil
}

func (f *fakeRepository) GetStaffAccounts() ([]*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedAccounts(func(a *domain.Account) bool { return a.Role.IsStaff() }), nil
}

func (f *fakeRepository) UpdateAccount(account *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.accounts[account.ID]
	if !ok || stored.Version != account.Version {
		return sql.ErrNoRows
	}
	if err := f.uniqueViolation(account); err != nil {
		return err
	}

	account.Version++
	account.Username = stored.Username
	account.ActivationCode = stored.ActivationCode
	account.PremiumCode = stored.PremiumCode
	account.CreatedAt = stored.CreatedAt

	updated := copyAccount(account)
	updated.CompletedSurveys = stored.CompletedSurveys
	updated.DailyCount = 0
	f.accounts[account.ID] = updated
	return nil
}

func (f *fakeRepository) DeleteAccount(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.accounts[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.accounts, id)
	return nil
}

func (f *fakeRepository) SuperAdminExists() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.accounts {
		if a.Role == domain.RoleSuperAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) ActivateAccount(accountID int64, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, used := f.paymentCodes[code]; used {
		return &pgconn.PgError{Code: "23505", ConstraintName: "payment_codes_pkey"}
	}
	a, ok := f.accounts[accountID]
	if !ok || a.ActivationCode != "" {
		return repository.ErrAlreadyActivated
	}
	f.paymentCodes[code] = accountID
	a.ActivationCode = code
	a.Version++
	return nil
}

func (f *fakeRepository) UpgradePremium(accountID int64, tier domain.PremiumTier, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, used := f.paymentCodes[code]; used {
		return &pgconn.PgError{Code: "23505", ConstraintName: "payment_codes_pkey"}
	}
	a, ok := f.accounts[accountID]
	if !ok || a.IsBlocked {
		return repository.ErrAccountBlocked
	}
	f.paymentCodes[code] = accountID
	a.IsPremium = true
	a.PremiumTier = tier
	a.PremiumCode = code
	a.Version++
	return nil
}

func (f *fakeRepository) CreditSurveyReward(accountID int64, surveyID string, accuracy float64, reward int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.accounts[accountID]
	if !ok || a.IsBlocked {
		return 0, repository.ErrAccountBlocked
	}
	if slices.Contains(a.CompletedSurveys, surveyID) {
		return 0, &pgconn.PgError{Code: "23505", ConstraintName: "survey_completions_account_survey_key"}
	}
	a.CompletedSurveys = append(a.CompletedSurveys, surveyID)
	a.Balance += reward
	a.Version++
	return a.Balance, nil
}

func (f *fakeRepository) CreateWithdrawal(w *domain.WithdrawalRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.accounts[w.AccountID]
	if !ok || a.IsBlocked || a.Balance < w.Amount {
		return repository.ErrInsufficientBalance
	}
	a.Balance -= w.Amount
	a.Version++

	w.ID = f.id()
	w.Username = a.Username
	w.Status = domain.WithdrawalPending
	w.CreatedAt = time.Now()
	f.withdrawals[w.ID] = copyWithdrawal(w)
	return nil
}

func (f *fakeRepository) GetWithdrawalByID(id int64) (*domain.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.withdrawals[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyWithdrawal(w), nil
}

func (f *fakeRepository) listWithdrawals(keep func(*domain.WithdrawalRequest) bool) []*domain.WithdrawalRequest {
	withdrawals := make([]*domain.WithdrawalRequest, 0)
	for _, w := range f.withdrawals {
		if keep(w) {
			withdrawals = append(withdrawals, copyWithdrawal(w))
		}
	}
	slices.SortFunc(withdrawals, func(a, b *domain.WithdrawalRequest) int { return int(b.ID - a.ID) })
	return withdrawals
}

func (f *fakeRepository) GetAllWithdrawals(status domain.WithdrawalStatus) ([]*domain.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listWithdrawals(func(w *domain.WithdrawalRequest) bool { return status == "" || w.Status == status }), nil
}

func (f *fakeRepository) GetWithdrawalsByAccount(accountID int64) ([]*domain.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listWithdrawals(func(w *domain.WithdrawalRequest) bool { return w.AccountID == accountID }), nil
}

func (f *fakeRepository) ResolveWithdrawal(id int64, resolverID int64, status domain.WithdrawalStatus) (*domain.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.withdrawals[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if w.Status != domain.WithdrawalPending {
		return nil, repository.ErrWithdrawalResolved
	}

	now := time.Now()
	w.Status = status
	w.ResolvedBy = &resolverID
	w.ResolvedAt = &now
	if status == domain.WithdrawalRejected {
		if a, ok := f.accounts[w.AccountID]; ok {
			a.Balance += w.Amount
			a.Version++
		}
	}
	return copyWithdrawal(w), nil
}

func (f *fakeRepository) CreateDirective(d *domain.Directive) (*domain.StaffMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d.ID = f.id()
	d.Status = domain.DirectiveActive
	d.CreatedAt = time.Now()
	stored := *d
	f.directives[d.ID] = &stored

	msg := &domain.StaffMessage{
		ID:             f.id(),
		SenderID:       d.IssuerID,
		SenderUsername: d.IssuerUsername,
		SenderRole:     f.accounts[d.IssuerID].Role,
		Kind:           domain.MessageDirective,
		Text:           d.Instruction,
		CreatedAt:      d.CreatedAt,
	}
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeRepository) GetDirectives(targetRole domain.Role, activeOnly bool) ([]*domain.Directive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	directives := make([]*domain.Directive, 0)
	for _, d := range f.directives {
		if targetRole != "" && d.TargetRole != targetRole {
			continue
		}
		if activeOnly && d.Status != domain.DirectiveActive {
			continue
		}
		c := *d
		directives = append(directives, &c)
	}
	slices.SortFunc(directives, func(a, b *domain.Directive) int { return int(b.ID - a.ID) })
	return directives, nil
}

func (f *fakeRepository) RetractDirective(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.directives[id]
	if !ok {
		return sql.ErrNoRows
	}
	if d.Status != domain.DirectiveActive {
		return repository.ErrDirectiveInactive
	}
	d.Status = domain.DirectiveRetracted
	return nil
}

func (f *fakeRepository) CreateStaffMessage(msg *domain.StaffMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	msg.ID = f.id()
	msg.CreatedAt = time.Now()
	c := *msg
	f.messages = append(f.messages, &c)
	return nil
}

func (f *fakeRepository) GetRecentStaffMessages(limit int) ([]*domain.StaffMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := max(len(f.messages)-limit, 0)
	messages := make([]*domain.StaffMessage, 0, len(f.messages)-start)
	for _, m := range f.messages[start:] {
		c := *m
		messages = append(messages, &c)
	}
	return messages, nil
}

// fakePublisher records queued mail.
type fakePublisher struct {
	mu        sync.Mutex
	published []amqp.Publishing
}

func (p *fakePublisher) PublishWithContext(_ context.Context, _, _ string, _, _ bool, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, msg)
	return nil
}

func (p *fakePublisher) messages() []amqp.Publishing {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.published)
}
