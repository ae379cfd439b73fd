package submission

import (
	"time"
)

type Answer struct {
	QuestionID uint   `json:"questionId"`
	Value      string `json:"value"`
}

// Submission is the anonymous document: one quiz attempt's answers with a
// submission-level sentiment score, and deliberately no reference to the
// student who wrote it.
type Submission struct {
	ID      uint     `json:"id" gorm:"primaryKey"`
	QuizID  uint     `json:"quizId" gorm:"not null;index"`
	Answers []Answer `json:"answers" gorm:"serializer:json"`

	SentimentScore     float64 `json:"sentimentScore"`
	SentimentMagnitude float64 `json:"sentimentMagnitude"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Submission) TableName() string { return "submissions" }

// SubmissionLog is the identity-linked trace. The composite unique index on
// (student, quiz) is the sole duplicate-prevention mechanism; the log holds
// no pointer to the Submission or its answers, which keeps responses
// anonymous.
type SubmissionLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	StudentID   uint      `json:"studentId" gorm:"not null;uniqueIndex:idx_submission_logs_student_quiz,priority:1"`
	QuizID      uint      `json:"quizId" gorm:"not null;uniqueIndex:idx_submission_logs_student_quiz,priority:2"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func (SubmissionLog) TableName() string { return "submission_logs" }
