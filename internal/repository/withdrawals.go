package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

const withdrawalColumns = `
	w.id, w.account_id, a.username, w.amount, w.deduction, w.disbursement,
	w.status, w.resolved_by, w.created_at, w.resolved_at
`

func withdrawalDst(w *domain.WithdrawalRequest) []any {
	return []any{
		&w.ID,
		&w.AccountID,
		&w.Username,
		&w.Amount,
		&w.Deduction,
		&w.Disbursement,
		&w.Status,
		&w.ResolvedBy,
		&w.CreatedAt,
		&w.ResolvedAt,
	}
}

// CreateWithdrawal debits the requested amount and records a pending request.
// The debit only succeeds while the balance covers the amount.
func (r *Repository) CreateWithdrawal(w *domain.WithdrawalRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	debitQuery := `
		UPDATE accounts SET balance = balance - $1, version = version + 1
		WHERE id = $2 AND balance >= $1 AND NOT is_blocked
		RETURNING username
	`
	if err := tx.QueryRowContext(ctx, debitQuery, w.Amount, w.AccountID).Scan(&w.Username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInsufficientBalance
		}
		return err
	}

	insertQuery := `
		INSERT INTO withdrawal_requests (account_id, amount, deduction, disbursement)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at
	`
	args := []any{w.AccountID, w.Amount, w.Deduction, w.Disbursement}
	if err := tx.QueryRowContext(ctx, insertQuery, args...).Scan(&w.ID, &w.Status, &w.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetWithdrawalByID(id int64) (*domain.WithdrawalRequest, error) {
	query := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawal_requests w
		JOIN accounts a ON a.id = w.account_id
		WHERE w.id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	w := &domain.WithdrawalRequest{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(withdrawalDst(w)...); err != nil {
		return nil, err
	}

	return w, nil
}

// GetAllWithdrawals lists requests newest first. An empty status lists every request.
func (r *Repository) GetAllWithdrawals(status domain.WithdrawalStatus) ([]*domain.WithdrawalRequest, error) {
	query := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawal_requests w
		JOIN accounts a ON a.id = w.account_id
		WHERE $1 = '' OR w.status = $1
		ORDER BY w.created_at DESC, w.id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.queryWithdrawals(ctx, query, string(status))
}

func (r *Repository) GetWithdrawalsByAccount(accountID int64) ([]*domain.WithdrawalRequest, error) {
	query := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawal_requests w
		JOIN accounts a ON a.id = w.account_id
		WHERE w.account_id = $1
		ORDER BY w.created_at DESC, w.id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.queryWithdrawals(ctx, query, accountID)
}

func (r *Repository) queryWithdrawals(ctx context.Context, query string, args ...any) ([]*domain.WithdrawalRequest, error) {
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	withdrawals := make([]*domain.WithdrawalRequest, 0)
	for rows.Next() {
		w := &domain.WithdrawalRequest{}
		if err := rows.Scan(withdrawalDst(w)...); err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return withdrawals, nil
}

// ResolveWithdrawal moves a pending request to approved or rejected. Rejection
// returns the debited amount to the account.
func (r *Repository) ResolveWithdrawal(id int64, resolverID int64, status domain.WithdrawalStatus) (*domain.WithdrawalRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	resolveQuery := `
		UPDATE withdrawal_requests
		SET status = $1, resolved_by = $2, resolved_at = NOW()
		WHERE id = $3 AND status = 'pending'
		RETURNING id
	`
	var resolvedID int64
	if err := tx.QueryRowContext(ctx, resolveQuery, status, resolverID, id).Scan(&resolvedID); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		isExists := false
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM withdrawal_requests WHERE id = $1)`, id).Scan(&isExists); err != nil {
			return nil, err
		}
		if isExists {
			return nil, ErrWithdrawalResolved
		}
		return nil, sql.ErrNoRows
	}

	selectQuery := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawal_requests w
		JOIN accounts a ON a.id = w.account_id
		WHERE w.id = $1
	`
	w := &domain.WithdrawalRequest{}
	if err := tx.QueryRowContext(ctx, selectQuery, resolvedID).Scan(withdrawalDst(w)...); err != nil {
		return nil, err
	}

	if status == domain.WithdrawalRejected {
		refundQuery := `UPDATE accounts SET balance = balance + $1, version = version + 1 WHERE id = $2`
		if _, err := tx.ExecContext(ctx, refundQuery, w.Amount, w.AccountID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return w, nil
}
