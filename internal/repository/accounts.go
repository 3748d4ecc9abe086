package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

const accountColumns = `
	id, username, email, phone, password_hash, role, balance, is_premium, premium_tier,
	is_blocked, activation_code, premium_code, notes, permissions, created_at, version
`

func accountDst(a *domain.Account) []any {
	return []any{
		&a.ID,
		&a.Username,
		&a.Email,
		&a.Phone,
		&a.PasswordHash,
		&a.Role,
		&a.Balance,
		&a.IsPremium,
		&a.PremiumTier,
		&a.IsBlocked,
		&a.ActivationCode,
		&a.PremiumCode,
		&a.Notes,
		&a.Permissions,
		&a.CreatedAt,
		&a.Version,
	}
}

func (r *Repository) CreateAccount(account *domain.Account) error {
	query := `
		INSERT INTO accounts (
			username, email, phone, password_hash, role, balance,
			is_premium, premium_tier, activation_code, premium_code, permissions
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, is_blocked, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if account.PremiumTier == "" {
		account.PremiumTier = domain.TierNone
	}

	args := []any{
		account.Username,
		account.Email,
		account.Phone,
		account.PasswordHash,
		account.Role,
		account.Balance,
		account.IsPremium,
		account.PremiumTier,
		account.ActivationCode,
		account.PremiumCode,
		int16(account.Permissions),
	}
	dst := []any{&account.ID, &account.IsBlocked, &account.CreatedAt, &account.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAccountByID(id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	account := &domain.Account{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(accountDst(account)...); err != nil {
		return nil, err
	}

	completed, err := r.listCompletedSurveys(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	account.CompletedSurveys = completed

	return account, nil
}

// GetAccountByIdentifier looks an account up by username, email or phone.
func (r *Repository) GetAccountByIdentifier(identifier string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + ` FROM accounts
		WHERE username = $1 OR email = $1 OR phone = $1
		ORDER BY id
		LIMIT 1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	account := &domain.Account{}
	if err := r.dbpool.QueryRowContext(ctx, query, identifier).Scan(accountDst(account)...); err != nil {
		return nil, err
	}

	completed, err := r.listCompletedSurveys(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	account.CompletedSurveys = completed

	return account, nil
}

func (r *Repository) GetAllAccounts() ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY id`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.queryAccounts(ctx, query)
}

// GetStaffAccounts returns every account whose role is not a regular user.
func (r *Repository) GetStaffAccounts() ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE role <> 'user' ORDER BY id`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.queryAccounts(ctx, query)
}

func (r *Repository) queryAccounts(ctx context.Context, query string, args ...any) ([]*domain.Account, error) {
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account := &domain.Account{}
		if err := rows.Scan(accountDst(account)...); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *Repository) UpdateAccount(account *domain.Account) error {
	query := `
		UPDATE accounts
		SET
			email = $1,
			phone = $2,
			password_hash = $3,
			role = $4,
			balance = $5,
			is_premium = $6,
			premium_tier = $7,
			is_blocked = $8,
			notes = $9,
			permissions = $10,
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING username, activation_code, premium_code, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		account.Email,
		account.Phone,
		account.PasswordHash,
		account.Role,
		account.Balance,
		account.IsPremium,
		account.PremiumTier,
		account.IsBlocked,
		account.Notes,
		int16(account.Permissions),
		account.ID,
		account.Version,
	}
	dst := []any{&account.Username, &account.ActivationCode, &account.PremiumCode, &account.CreatedAt, &account.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteAccount(id int64) error {
	query := `DELETE FROM accounts WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *Repository) SuperAdminExists() (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE role = 'super_admin')`
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

// ActivateAccount records the registration payment code and marks the account activated.
func (r *Repository) ActivateAccount(accountID int64, code string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `INSERT INTO payment_codes (code, account_id, purpose) VALUES ($1, $2, 'activation')`, code, accountID); err != nil {
		return err
	}

	query := `
		UPDATE accounts SET activation_code = $1, version = version + 1
		WHERE id = $2 AND activation_code = ''
	`
	result, err := tx.ExecContext(ctx, query, code, accountID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyActivated
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpgradePremium(accountID int64, tier domain.PremiumTier, code string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `INSERT INTO payment_codes (code, account_id, purpose) VALUES ($1, $2, 'premium')`, code, accountID); err != nil {
		return err
	}

	query := `
		UPDATE accounts
		SET is_premium = TRUE, premium_tier = $1, premium_code = $2, version = version + 1
		WHERE id = $3 AND NOT is_blocked
	`
	result, err := tx.ExecContext(ctx, query, tier, code, accountID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAccountBlocked
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// CreditSurveyReward stores the completion and credits the net reward in one
// transaction. A second completion of the same survey violates
// survey_completions_account_survey_key.
func (r *Repository) CreditSurveyReward(accountID int64, surveyID string, accuracy float64, reward int64) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertQuery := `
		INSERT INTO survey_completions (account_id, survey_id, accuracy, reward)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, insertQuery, accountID, surveyID, accuracy, reward); err != nil {
		return 0, err
	}

	updateQuery := `
		UPDATE accounts SET balance = balance + $1, version = version + 1
		WHERE id = $2 AND NOT is_blocked
		RETURNING balance
	`
	var balance int64
	if err := tx.QueryRowContext(ctx, updateQuery, reward, accountID).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrAccountBlocked
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return balance, nil
}

func (r *Repository) listCompletedSurveys(ctx context.Context, accountID int64) ([]string, error) {
	query := `SELECT survey_id FROM survey_completions WHERE account_id = $1 ORDER BY created_at`

	rows, err := r.dbpool.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completed := make([]string, 0)
	for rows.Next() {
		var surveyID string
		if err := rows.Scan(&surveyID); err != nil {
			return nil, err
		}
		completed = append(completed, surveyID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return completed, nil
}
