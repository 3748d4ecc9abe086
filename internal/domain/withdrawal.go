package domain

import "time"

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

func (s WithdrawalStatus) Valid() bool {
	switch s {
	case WithdrawalPending, WithdrawalApproved, WithdrawalRejected:
		return true
	}
	return false
}

type WithdrawalRequest struct {
	ID           int64            `json:"id"`
	AccountID    int64            `json:"accountID"`
	Username     string           `json:"username"`
	Amount       int64            `json:"amount"`
	Deduction    int64            `json:"deduction"`
	Disbursement int64            `json:"disbursement"`
	Status       WithdrawalStatus `json:"status"`
	ResolvedBy   *int64           `json:"resolvedBy,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	ResolvedAt   *time.Time       `json:"resolvedAt,omitempty"`
}
