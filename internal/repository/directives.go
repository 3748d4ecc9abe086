package repository

import (
	"context"
	"time"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

// CreateDirective stores the directive and mirrors it into the staff chat so
// every staff member sees it in the liaison feed.
func (r *Repository) CreateDirective(d *domain.Directive) (*domain.StaffMessage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	directiveQuery := `
		INSERT INTO directives (instruction, issuer_id, target_role)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at
	`
	if err := tx.QueryRowContext(ctx, directiveQuery, d.Instruction, d.IssuerID, d.TargetRole).Scan(&d.ID, &d.Status, &d.CreatedAt); err != nil {
		return nil, err
	}

	msg := &domain.StaffMessage{
		SenderID:       d.IssuerID,
		SenderUsername: d.IssuerUsername,
		Kind:           domain.MessageDirective,
		Text:           d.Instruction,
	}
	messageQuery := `
		INSERT INTO staff_messages (sender_id, kind, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, (SELECT role FROM accounts WHERE id = $1)
	`
	if err := tx.QueryRowContext(ctx, messageQuery, msg.SenderID, msg.Kind, msg.Text).Scan(&msg.ID, &msg.CreatedAt, &msg.SenderRole); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return msg, nil
}

// GetDirectives lists directives newest first. An empty target role lists all of
// them; activeOnly hides retracted ones.
func (r *Repository) GetDirectives(targetRole domain.Role, activeOnly bool) ([]*domain.Directive, error) {
	query := `
		SELECT d.id, d.instruction, d.issuer_id, a.username, d.target_role, d.status, d.created_at
		FROM directives d
		JOIN accounts a ON a.id = d.issuer_id
		WHERE ($1 = '' OR d.target_role = $1) AND (NOT $2 OR d.status = 'active')
		ORDER BY d.created_at DESC, d.id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, string(targetRole), activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	directives := make([]*domain.Directive, 0)
	for rows.Next() {
		d := &domain.Directive{}
		dst := []any{&d.ID, &d.Instruction, &d.IssuerID, &d.IssuerUsername, &d.TargetRole, &d.Status, &d.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		directives = append(directives, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return directives, nil
}

func (r *Repository) RetractDirective(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var status domain.DirectiveStatus
	if err := r.dbpool.QueryRowContext(ctx, `SELECT status FROM directives WHERE id = $1`, id).Scan(&status); err != nil {
		return err
	}
	if status != domain.DirectiveActive {
		return ErrDirectiveInactive
	}

	result, err := r.dbpool.ExecContext(ctx, `UPDATE directives SET status = 'retracted' WHERE id = $1 AND status = 'active'`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// retracted concurrently
		return ErrDirectiveInactive
	}

	return nil
}
