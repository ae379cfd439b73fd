package mail

import (
	"time"
)

type EmailType string

const (
	TypeQuizPublication EmailType = "QUIZ_PUBLICATION"
	TypeManual          EmailType = "MANUAL"
)

type EmailStatus string

const (
	StatusDraft   EmailStatus = "DRAFT"
	StatusSending EmailStatus = "SENDING"
	StatusSent    EmailStatus = "SENT"
	StatusFailed  EmailStatus = "FAILED"
)

type RecipientStatus string

const (
	RecipientPending RecipientStatus = "PENDING"
	RecipientSent    RecipientStatus = "SENT"
	RecipientFailed  RecipientStatus = "FAILED"
)

type Recipient struct {
	Email  string          `json:"email"`
	Name   string          `json:"name"`
	Status RecipientStatus `json:"status"`
	Error  string          `json:"error,omitempty"`
}

// Email is the delivery record of one outbound campaign: who was addressed
// and what happened per recipient.
type Email struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	Subject    string      `json:"subject" gorm:"size:255;not null"`
	Message    string      `json:"message" gorm:"type:text;not null"`
	Recipients []Recipient `json:"recipients" gorm:"serializer:json"`
	Type       EmailType   `json:"type" gorm:"size:30;not null"`

	QuizID  *uint `json:"quizId" gorm:"index"`
	ClassID *uint `json:"classId" gorm:"index"`

	TotalRecipients int `json:"totalRecipients"`
	SuccessCount    int `json:"successCount"`
	FailedCount     int `json:"failedCount"`

	CreatedBy uint        `json:"createdBy"`
	SentAt    *time.Time  `json:"sentAt"`
	Status    EmailStatus `json:"status" gorm:"size:10;not null;default:'DRAFT'"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Email) TableName() string { return "emails" }
