package academic

import (
	"time"
)

type AcademicYear struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Label     string     `json:"label" gorm:"size:20;not null"` // e.g. "2025-2026"
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	IsCurrent bool       `json:"isCurrent"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (AcademicYear) TableName() string { return "academic_years" }

type Semester struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Number         int       `json:"number" gorm:"not null"` // 1 or 2
	Label          string    `json:"label" gorm:"size:50;not null"`
	AcademicYearID uint      `json:"academicYearId" gorm:"not null;index"`
	StartDate      time.Time `json:"startDate" gorm:"not null"`
	EndDate        time.Time `json:"endDate" gorm:"not null"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Semester) TableName() string { return "semesters" }

type Class struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Code           string    `json:"code" gorm:"size:20;not null"` // e.g. "ING4-ISI"
	Name           string    `json:"name" gorm:"size:100;not null"`
	Level          string    `json:"level" gorm:"size:20;not null"` // e.g. "ING4", "L3"
	Field          string    `json:"field" gorm:"size:100;not null"`
	AcademicYearID uint      `json:"academicYearId" gorm:"not null;index"`
	Capacity       int       `json:"capacity"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Class) TableName() string { return "classes" }

type Course struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Code       string    `json:"code" gorm:"size:20;not null"` // e.g. "ISI4217"
	Name       string    `json:"name" gorm:"size:150;not null"`
	Credits    int       `json:"credits" gorm:"not null"`
	Teacher    string    `json:"teacher" gorm:"size:100;not null"`
	ClassID    uint      `json:"classId" gorm:"not null;index"`
	SemesterID uint      `json:"semesterId" gorm:"not null;index"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Course) TableName() string { return "courses" }

type EvaluationType struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Label     string    `json:"label" gorm:"size:50;not null"`
	Code      string    `json:"code" gorm:"uniqueIndex;size:30;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (EvaluationType) TableName() string { return "evaluation_types" }
