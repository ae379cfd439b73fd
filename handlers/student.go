package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/institutsaintjean/evalhub/middleware/authgate"
	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/quiz"
	"github.com/institutsaintjean/evalhub/services/submission"
	"github.com/institutsaintjean/evalhub/services/user"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type StudentHandler struct {
	quizzes     *quiz.Service
	submissions *submission.Service
	users       *user.Service
	logger      *logging.Service
}

func NewStudentHandler(quizzes *quiz.Service, submissions *submission.Service, users *user.Service, logger *logging.Service) *StudentHandler {
	return &StudentHandler{
		quizzes:     quizzes,
		submissions: submissions,
		users:       users,
		logger:      logger,
	}
}

// AvailableQuizzes lists the published quizzes of the student's class that
// they have not yet submitted.
func (h *StudentHandler) AvailableQuizzes(c echo.Context) error {
	u := authgate.GetUser(c)
	if u.ClassID == nil {
		return c.JSON(http.StatusOK, []quiz.Quiz{})
	}

	published, err := h.quizzes.ListPublishedForClass(*u.ClassID)
	if err != nil {
		return err
	}

	answeredIDs, err := h.submissions.AnsweredQuizIDs(u.ID)
	if err != nil {
		return err
	}
	answered := make(map[uint]bool, len(answeredIDs))
	for _, id := range answeredIDs {
		answered[id] = true
	}

	available := make([]quiz.Quiz, 0, len(published))
	for _, q := range published {
		if !answered[q.ID] {
			available = append(available, q)
		}
	}

	return c.JSON(http.StatusOK, available)
}

type submitAnswer struct {
	QuestionID uint   `json:"questionId" validate:"required"`
	Value      string `json:"value"`
}

type submitRequest struct {
	QuizID  uint           `json:"quizId" validate:"required"`
	Answers []submitAnswer `json:"answers" validate:"required,min=1,dive"`
}

// Submit records the student's answers to a quiz. The response never carries
// the submission id; answers are stored without a link to the student.
func (h *StudentHandler) Submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u := authgate.GetUser(c)

	q, err := h.quizzes.FindQuiz(req.QuizID)
	if err != nil {
		if errors.Is(err, quiz.ErrQuizNotFound) {
			return c.JSON(http.StatusNotFound, CodedResponse{
				Message: "Quiz introuvable",
				Code:    "QUIZ_NOT_FOUND",
			})
		}
		return err
	}

	if q.Status != quiz.StatusPublished || u.ClassID == nil || q.ClassID != *u.ClassID {
		return c.JSON(http.StatusForbidden, CodedResponse{
			Message: "Ce quiz n'est pas disponible",
			Code:    "QUIZ_NOT_AVAILABLE",
		})
	}

	now := time.Now()
	if now.Before(q.StartDate) || now.After(q.EndDate) {
		return c.JSON(http.StatusForbidden, CodedResponse{
			Message: "La période de réponse est close",
			Code:    "QUIZ_CLOSED",
		})
	}

	answers := make([]submission.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, submission.Answer{
			QuestionID: a.QuestionID,
			Value:      a.Value,
		})
	}

	if _, err := h.submissions.SubmitQuiz(u.ID, req.QuizID, answers); err != nil {
		if errors.Is(err, submission.ErrDuplicateSubmission) {
			return c.JSON(http.StatusBadRequest, CodedResponse{
				Message: "Quiz déjà soumis",
				Code:    "ALREADY_SUBMITTED",
			})
		}
		return err
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Réponses enregistrées"})
}

type fcmTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *StudentHandler) RegisterFCMToken(c echo.Context) error {
	var req fcmTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u := authgate.GetUser(c)
	if err := h.users.AddFCMToken(u.ID, req.Token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Token enregistré"})
}

type updateClassRequest struct {
	ClassID uint `json:"classId" validate:"required"`
}

func (h *StudentHandler) UpdateClass(c echo.Context) error {
	var req updateClassRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u := authgate.GetUser(c)
	u.ClassID = &req.ClassID
	if err := h.users.Update(u); err != nil {
		return err
	}

	if h.logger != nil {
		h.logger.Info("student changed class",
			zap.Uint("user_id", u.ID),
			zap.Uint("class_id", req.ClassID))
	}
	return c.JSON(http.StatusOK, u.Profile())
}
