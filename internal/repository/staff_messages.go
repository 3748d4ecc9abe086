package repository

import (
	"context"
	"time"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

func (r *Repository) CreateStaffMessage(msg *domain.StaffMessage) error {
	query := `
		INSERT INTO staff_messages (sender_id, kind, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, msg.SenderID, msg.Kind, msg.Text).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return err
	}

	return nil
}

// GetRecentStaffMessages returns the last limit messages in chronological order.
func (r *Repository) GetRecentStaffMessages(limit int) ([]*domain.StaffMessage, error) {
	query := `
		SELECT id, sender_id, username, role, kind, text, created_at FROM (
			SELECT m.id, m.sender_id, a.username, a.role, m.kind, m.text, m.created_at
			FROM staff_messages m
			JOIN accounts a ON a.id = m.sender_id
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT $1
		) recent
		ORDER BY created_at, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.queryStaffMessages(ctx, query, limit)
}

func (r *Repository) queryStaffMessages(ctx context.Context, query string, args ...any) ([]*domain.StaffMessage, error) {
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*domain.StaffMessage, 0)
	for rows.Next() {
		msg := &domain.StaffMessage{}
		dst := []any{&msg.ID, &msg.SenderID, &msg.SenderUsername, &msg.SenderRole, &msg.Kind, &msg.Text, &msg.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
