package domain

import "time"

type StaffMessageKind string

const (
	MessageChat      StaffMessageKind = "chat"
	MessageAdvice    StaffMessageKind = "advice"
	MessageBriefing  StaffMessageKind = "briefing"
	MessageDirective StaffMessageKind = "directive"
)

type StaffMessage struct {
	ID             int64            `json:"id"`
	SenderID       int64            `json:"senderID"`
	SenderUsername string           `json:"sender"`
	SenderRole     Role             `json:"role"`
	Kind           StaffMessageKind `json:"kind"`
	Text           string           `json:"text"`
	CreatedAt      time.Time        `json:"createdAt"`
}
