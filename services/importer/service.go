package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/institutsaintjean/evalhub/config"
	"github.com/institutsaintjean/evalhub/services/auth"
	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/quiz"
	"github.com/institutsaintjean/evalhub/services/user"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	ErrEmptyWorkbook = errors.New("workbook has no data rows")
	ErrTooManyRows   = errors.New("workbook exceeds the row limit")
)

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type Result struct {
	Total   int        `json:"total"`
	Success int        `json:"success"`
	Errors  []RowError `json:"errors"`
}

type Service struct {
	config  *config.Config
	quizzes *quiz.Service
	users   *user.Service
	auth    *auth.Service
	logger  *logging.Service
}

func NewService(cfg *config.Config, quizzes *quiz.Service, users *user.Service, authSvc *auth.Service, logger *logging.Service) *Service {
	return &Service{
		config:  cfg,
		quizzes: quizzes,
		users:   users,
		auth:    authSvc,
		logger:  logger,
	}
}

// readSheet loads the first sheet of the workbook and returns a header-keyed
// map per data row. Row numbers in errors are 1-based spreadsheet rows.
func (s *Service) readSheet(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyWorkbook
	}
	if len(rows)-1 > s.config.Import.MaxRows {
		return nil, ErrTooManyRows
	}

	headers := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[strings.TrimSpace(header)] = strings.TrimSpace(row[i])
			} else {
				record[strings.TrimSpace(header)] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// ImportQuestions loads a question bank for a course from an Excel sheet
// with columns Enonce, Type, Options (';'-separated, MCQ only) and Reponse.
func (s *Service) ImportQuestions(r io.Reader, courseID, academicYearID, classID uint) (*Result, error) {
	records, err := s.readSheet(r)
	if err != nil {
		return nil, err
	}

	result := &Result{Total: len(records)}
	var questions []quiz.Question

	for i, record := range records {
		rowNum := i + 2 // 1-based, after the header row

		text := record["Enonce"]
		qType := quiz.QuestionType(record["Type"])
		if text == "" || qType == "" {
			result.Errors = append(result.Errors, RowError{
				Row:     rowNum,
				Message: "Énoncé ou Type manquant",
			})
			continue
		}

		switch qType {
		case quiz.QuestionMCQ, quiz.QuestionOpen, quiz.QuestionClosed:
		default:
			result.Errors = append(result.Errors, RowError{
				Row:     rowNum,
				Message: fmt.Sprintf("Type de question inconnu: %s", qType),
			})
			continue
		}

		var options []quiz.QuestionOption
		if qType == quiz.QuestionMCQ && record["Options"] != "" {
			for order, opt := range strings.Split(record["Options"], ";") {
				options = append(options, quiz.QuestionOption{
					Text:  strings.TrimSpace(opt),
					Order: order,
				})
			}
		}

		questions = append(questions, quiz.Question{
			Text:           text,
			Type:           qType,
			Options:        options,
			CorrectAnswer:  record["Reponse"],
			CourseID:       &courseID,
			AcademicYearID: academicYearID,
			ClassID:        classID,
			Order:          len(questions),
		})
	}

	if err := s.quizzes.CreateQuestions(questions); err != nil {
		return nil, err
	}
	result.Success = len(questions)

	if s.logger != nil {
		s.logger.Info("questions imported",
			zap.Uint("course_id", courseID),
			zap.Int("imported", result.Success),
			zap.Int("rejected", len(result.Errors)))
	}
	return result, nil
}

// ImportStudents bulk-creates student accounts from an Excel sheet with
// columns Matricule, Nom, Prenom, Email and optional MotDePasse. Rows that
// collide with existing accounts are reported, not fatal.
func (s *Service) ImportStudents(r io.Reader, classID uint) (*Result, error) {
	records, err := s.readSheet(r)
	if err != nil {
		return nil, err
	}

	result := &Result{Total: len(records)}

	for i, record := range records {
		rowNum := i + 2

		email := record["Email"]
		matricule := record["Matricule"]
		if email == "" || matricule == "" {
			result.Errors = append(result.Errors, RowError{
				Row:     rowNum,
				Message: "Email ou matricule manquant",
			})
			continue
		}

		if err := s.auth.CheckEmailDomain(email); err != nil {
			result.Errors = append(result.Errors, RowError{
				Row:     rowNum,
				Message: fmt.Sprintf("Email non institutionnel: %s", email),
			})
			continue
		}

		password := record["MotDePasse"]
		if password == "" {
			password = s.config.Auth.DefaultStudentPassword
		}
		hash, err := s.auth.HashPassword(password)
		if err != nil {
			result.Errors = append(result.Errors, RowError{
				Row:     rowNum,
				Message: err.Error(),
			})
			continue
		}

		mat := matricule
		student := &user.User{
			Matricule: &mat,
			Email:     email,
			Password:  hash,
			FirstName: record["Prenom"],
			LastName:  record["Nom"],
			Role:      user.RoleStudent,
			ClassID:   &classID,
		}

		if err := s.users.Create(student); err != nil {
			if errors.Is(err, user.ErrUserExists) {
				result.Errors = append(result.Errors, RowError{
					Row:     rowNum,
					Message: fmt.Sprintf("Email ou matricule déjà utilisé: %s", email),
				})
				continue
			}
			return nil, err
		}
		result.Success++
	}

	if s.logger != nil {
		s.logger.Info("students imported",
			zap.Uint("class_id", classID),
			zap.Int("imported", result.Success),
			zap.Int("rejected", len(result.Errors)))
	}
	return result, nil
}
