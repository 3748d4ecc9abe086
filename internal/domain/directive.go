package domain

import "time"

type DirectiveStatus string

const (
	DirectiveActive    DirectiveStatus = "active"
	DirectiveRetracted DirectiveStatus = "retracted"
)

type Directive struct {
	ID             int64           `json:"id"`
	Instruction    string          `json:"instruction"`
	IssuerID       int64           `json:"issuerID"`
	IssuerUsername string          `json:"issuer"`
	TargetRole     Role            `json:"targetRole"`
	Status         DirectiveStatus `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}
