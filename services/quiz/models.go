package quiz

import (
	"time"
)

type QuestionType string

const (
	QuestionMCQ    QuestionType = "MCQ"
	QuestionOpen   QuestionType = "OPEN"
	QuestionClosed QuestionType = "CLOSED"
)

type QuizType string

const (
	QuizMidTerm QuizType = "MI_PARCOURS"
	QuizFinal   QuizType = "FINAL"
)

type QuizStatus string

const (
	StatusDraft     QuizStatus = "DRAFT"
	StatusPublished QuizStatus = "PUBLISHED"
	StatusArchived  QuizStatus = "ARCHIVED"
)

type QuestionOption struct {
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type Question struct {
	ID             uint             `json:"id" gorm:"primaryKey"`
	Text           string           `json:"text" gorm:"size:1000;not null"`
	Type           QuestionType     `json:"type" gorm:"size:10;not null"`
	Options        []QuestionOption `json:"options" gorm:"serializer:json"`
	CorrectAnswer  string           `json:"correctAnswer" gorm:"size:500"`
	CourseID       *uint            `json:"courseId" gorm:"index"`
	AcademicYearID uint             `json:"academicYearId" gorm:"index"`
	ClassID        uint             `json:"classId" gorm:"index"`
	Order          int              `json:"order" gorm:"column:sort_order"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func (Question) TableName() string { return "questions" }

// QuizQuestion snapshots a question at attach time so later edits never
// change what a published quiz asked.
type QuizQuestion struct {
	QuestionID      uint         `json:"questionId"`
	TextSnapshot    string       `json:"textSnapshot"`
	Type            QuestionType `json:"qType"`
	OptionsSnapshot []string     `json:"optionsSnapshot"`
}

type Quiz struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Title          string         `json:"title" gorm:"size:200;not null"`
	Description    string         `json:"description" gorm:"size:1000"`
	CourseID       *uint          `json:"courseId" gorm:"index"`
	AcademicYearID uint           `json:"academicYearId" gorm:"not null;index"`
	ClassID        uint           `json:"classId" gorm:"not null;index"`
	SemesterID     *uint          `json:"semesterId"`
	Type           QuizType       `json:"type" gorm:"size:20;not null"`
	Status         QuizStatus     `json:"status" gorm:"size:10;not null;default:'DRAFT'"`
	Questions      []QuizQuestion `json:"questions" gorm:"serializer:json"`
	StartDate      time.Time      `json:"startDate" gorm:"not null"`
	EndDate        time.Time      `json:"endDate" gorm:"not null"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (Quiz) TableName() string { return "quizzes" }
