package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/institutsaintjean/evalhub/services/quiz"
	"github.com/institutsaintjean/evalhub/services/submission"
	"github.com/labstack/echo/v4"
)

type QuizHandler struct {
	quizzes     *quiz.Service
	submissions *submission.Service
}

func NewQuizHandler(quizzes *quiz.Service, submissions *submission.Service) *QuizHandler {
	return &QuizHandler{
		quizzes:     quizzes,
		submissions: submissions,
	}
}

type questionRequest struct {
	Text           string                `json:"text" validate:"required"`
	Type           quiz.QuestionType     `json:"type" validate:"required,oneof=MCQ OPEN CLOSED"`
	Options        []quiz.QuestionOption `json:"options"`
	CorrectAnswer  string                `json:"correctAnswer"`
	CourseID       *uint                 `json:"courseId"`
	AcademicYearID uint                  `json:"academicYearId" validate:"required"`
	ClassID        uint                  `json:"classId" validate:"required"`
	Order          int                   `json:"order"`
}

func (h *QuizHandler) CreateQuestion(c echo.Context) error {
	var req questionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	q := &quiz.Question{
		Text:           req.Text,
		Type:           req.Type,
		Options:        req.Options,
		CorrectAnswer:  req.CorrectAnswer,
		CourseID:       req.CourseID,
		AcademicYearID: req.AcademicYearID,
		ClassID:        req.ClassID,
		Order:          req.Order,
	}
	if err := h.quizzes.CreateQuestion(q); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, q)
}

func (h *QuizHandler) ListQuestions(c echo.Context) error {
	questions, err := h.quizzes.ListQuestions(queryUint(c, "courseId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, questions)
}

func (h *QuizHandler) UpdateQuestion(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	q, err := h.quizzes.FindQuestion(id)
	if err != nil {
		if errors.Is(err, quiz.ErrQuestionNotFound) {
			return c.JSON(http.StatusNotFound, CodedResponse{
				Message: "Question introuvable",
				Code:    "QUESTION_NOT_FOUND",
			})
		}
		return err
	}

	var req questionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	q.Text = req.Text
	q.Type = req.Type
	q.Options = req.Options
	q.CorrectAnswer = req.CorrectAnswer
	q.CourseID = req.CourseID
	q.AcademicYearID = req.AcademicYearID
	q.ClassID = req.ClassID
	q.Order = req.Order

	if err := h.quizzes.UpdateQuestion(q); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, q)
}

func (h *QuizHandler) DeleteQuestion(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if err := h.quizzes.DeleteQuestion(id); err != nil {
		if errors.Is(err, quiz.ErrQuestionNotFound) {
			return c.JSON(http.StatusNotFound, CodedResponse{
				Message: "Question introuvable",
				Code:    "QUESTION_NOT_FOUND",
			})
		}
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Question supprimée"})
}

type quizRequest struct {
	Title          string        `json:"title" validate:"required"`
	Description    string        `json:"description"`
	CourseID       *uint         `json:"courseId"`
	AcademicYearID uint          `json:"academicYearId" validate:"required"`
	ClassID        uint          `json:"classId" validate:"required"`
	SemesterID     *uint         `json:"semesterId"`
	Type           quiz.QuizType `json:"type" validate:"required,oneof=MI_PARCOURS FINAL"`
	StartDate      time.Time     `json:"startDate" validate:"required"`
	EndDate        time.Time     `json:"endDate" validate:"required,gtfield=StartDate"`
}

func (h *QuizHandler) CreateQuiz(c echo.Context) error {
	var req quizRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	q := &quiz.Quiz{
		Title:          req.Title,
		Description:    req.Description,
		CourseID:       req.CourseID,
		AcademicYearID: req.AcademicYearID,
		ClassID:        req.ClassID,
		SemesterID:     req.SemesterID,
		Type:           req.Type,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}
	if err := h.quizzes.CreateQuiz(q); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, q)
}

func (h *QuizHandler) ListQuizzes(c echo.Context) error {
	quizzes, err := h.quizzes.ListQuizzes(queryUint(c, "classId"), quiz.QuizStatus(c.QueryParam("status")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) GetQuiz(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	q, err := h.quizzes.FindQuiz(id)
	if err != nil {
		if errors.Is(err, quiz.ErrQuizNotFound) {
			return c.JSON(http.StatusNotFound, CodedResponse{
				Message: "Quiz introuvable",
				Code:    "QUIZ_NOT_FOUND",
			})
		}
		return err
	}
	return c.JSON(http.StatusOK, q)
}

func (h *QuizHandler) DeleteQuiz(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if err := h.quizzes.DeleteQuiz(id); err != nil {
		if errors.Is(err, quiz.ErrQuizNotFound) {
			return c.JSON(http.StatusNotFound, CodedResponse{
				Message: "Quiz introuvable",
				Code:    "QUIZ_NOT_FOUND",
			})
		}
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Quiz supprimé"})
}

type attachQuestionsRequest struct {
	QuestionIDs []uint `json:"questionIds" validate:"required,min=1"`
}

func (h *QuizHandler) AttachQuestions(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var req attachQuestionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	q, err := h.quizzes.AttachQuestions(id, req.QuestionIDs)
	if err != nil {
		if errors.Is(err, quiz.ErrQuizNotFound) {
			return c.JSON(http.StatusNotFound, CodedResponse{
				Message: "Quiz introuvable",
				Code:    "QUIZ_NOT_FOUND",
			})
		}
		return err
	}
	return c.JSON(http.StatusOK, q)
}

func (h *QuizHandler) Publish(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	q, err := h.quizzes.Publish(id)
	if err != nil {
		switch {
		case errors.Is(err, quiz.ErrQuizNotFound):
			return c.JSON(http.StatusNotFound, CodedResponse{
				Message: "Quiz introuvable",
				Code:    "QUIZ_NOT_FOUND",
			})
		case errors.Is(err, quiz.ErrAlreadyPublished):
			return c.JSON(http.StatusConflict, CodedResponse{
				Message: "Quiz déjà publié",
				Code:    "ALREADY_PUBLISHED",
			})
		default:
			return err
		}
	}
	return c.JSON(http.StatusOK, q)
}

// Submissions returns the anonymous responses of a quiz.
func (h *QuizHandler) Submissions(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	subs, err := h.submissions.ListForQuiz(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subs)
}
