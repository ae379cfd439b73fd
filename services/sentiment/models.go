package sentiment

import (
	"time"
)

type PolarityBucket struct {
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
	Examples   []string `json:"examples"`
}

type Results struct {
	Positive PolarityBucket `json:"positive"`
	Negative PolarityBucket `json:"negative"`
	Neutral  PolarityBucket `json:"neutral"`
}

// Analysis is a stored sentiment/theme breakdown of the free-text responses
// to one question.
type Analysis struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	QuestionID    uint      `json:"questionId" gorm:"not null;index"`
	QuizID        *uint     `json:"quizId" gorm:"index"`
	AnalyzedAt    time.Time `json:"analyzedAt"`
	ResponseCount int       `json:"responseCount" gorm:"not null"`
	Results       Results   `json:"results" gorm:"serializer:json"`
	Themes        []Theme   `json:"themes" gorm:"serializer:json"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Analysis) TableName() string { return "sentiment_analyses" }
