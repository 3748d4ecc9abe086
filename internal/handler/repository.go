package handler

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/repository"
)

// Repository is the persistence the handlers rely on. *repository.Repository
// implements it against PostgreSQL.
type Repository interface {
	CreateAccount(account *domain.Account) error
	GetAccountByID(id int64) (*domain.Account, error)
	GetAccountByIdentifier(identifier string) (*domain.Account, error)
	GetAllAccounts() ([]*domain.Account, error)
	GetStaffAccounts() ([]*domain.Account, error)
	UpdateAccount(account *domain.Account) error
	DeleteAccount(id int64) error
	SuperAdminExists() (bool, error)
	ActivateAccount(accountID int64, code string) error
	UpgradePremium(accountID int64, tier domain.PremiumTier, code string) error
	CreditSurveyReward(accountID int64, surveyID string, accuracy float64, reward int64) (int64, error)

	CreateWithdrawal(w *domain.WithdrawalRequest) error
	GetWithdrawalByID(id int64) (*domain.WithdrawalRequest, error)
	GetAllWithdrawals(status domain.WithdrawalStatus) ([]*domain.WithdrawalRequest, error)
	GetWithdrawalsByAccount(accountID int64) ([]*domain.WithdrawalRequest, error)
	ResolveWithdrawal(id int64, resolverID int64, status domain.WithdrawalStatus) (*domain.WithdrawalRequest, error)

	CreateDirective(d *domain.Directive) (*domain.StaffMessage, error)
	GetDirectives(targetRole domain.Role, activeOnly bool) ([]*domain.Directive, error)
	RetractDirective(id int64) error

	CreateStaffMessage(msg *domain.StaffMessage) error
	GetRecentStaffMessages(limit int) ([]*domain.StaffMessage, error)
}

var _ Repository = (*repository.Repository)(nil)

// MailPublisher is satisfied by *amqp.Channel.
type MailPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}
