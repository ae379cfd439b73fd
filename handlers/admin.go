package handlers

import (
	"errors"
	"net/http"

	"github.com/institutsaintjean/evalhub/middleware/authgate"
	"github.com/institutsaintjean/evalhub/services/auth"
	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/mail"
	"github.com/institutsaintjean/evalhub/services/sentiment"
	"github.com/institutsaintjean/evalhub/services/stats"
	"github.com/institutsaintjean/evalhub/services/user"
	"github.com/labstack/echo/v4"
)

// AdminHandler groups the dashboard endpoints: student management,
// statistics, sentiment analyses and the outbound email journal.
type AdminHandler struct {
	users      *user.Service
	auth       *auth.Service
	stats      *stats.Service
	sentiments *sentiment.Service
	mails      *mail.Service
	logger     *logging.Service
}

func NewAdminHandler(users *user.Service, authSvc *auth.Service, statsSvc *stats.Service, sentiments *sentiment.Service, mails *mail.Service, logger *logging.Service) *AdminHandler {
	return &AdminHandler{
		users:      users,
		auth:       authSvc,
		stats:      statsSvc,
		sentiments: sentiments,
		mails:      mails,
		logger:     logger,
	}
}

func (h *AdminHandler) ListStudents(c echo.Context) error {
	students, err := h.users.ListStudents(user.StudentFilter{
		ClassID: queryUint(c, "classId"),
		Search:  c.QueryParam("search"),
	})
	if err != nil {
		return err
	}

	profiles := make([]user.Profile, 0, len(students))
	for _, student := range students {
		profiles = append(profiles, student.Profile())
	}
	return c.JSON(http.StatusOK, profiles)
}

func (h *AdminHandler) GetStudent(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	student, err := h.users.FindStudent(id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, CodedResponse{
				Message: "Étudiant introuvable",
				Code:    "STUDENT_NOT_FOUND",
			})
		}
		return err
	}
	return c.JSON(http.StatusOK, student.Profile())
}

type createStudentRequest struct {
	Matricule string `json:"matricule"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	ClassID   *uint  `json:"classId"`
	Password  string `json:"password"`
}

// CreateStudent provisions an account with the default password when none is
// given.
func (h *AdminHandler) CreateStudent(c echo.Context) error {
	var req createStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	student, err := h.auth.CreateStudent(auth.StudentInput{
		Matricule: req.Matricule,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ClassID:   req.ClassID,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailDomainNotAllowed):
			return c.JSON(http.StatusBadRequest, CodedResponse{
				Message: "Une adresse email institutionnelle est requise",
				Code:    "EMAIL_DOMAIN_NOT_ALLOWED",
			})
		case errors.Is(err, auth.ErrUserExists):
			return c.JSON(http.StatusConflict, CodedResponse{
				Message: "Email ou matricule déjà utilisé",
				Code:    "USER_EXISTS",
			})
		case errors.Is(err, auth.ErrPasswordHashingFailed):
			return err
		default:
			return c.JSON(http.StatusBadRequest, CodedResponse{
				Message: err.Error(),
				Code:    "INVALID_PASSWORD",
			})
		}
	}

	return c.JSON(http.StatusCreated, student.Profile())
}

type updateStudentRequest struct {
	Matricule *string `json:"matricule"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	ClassID   *uint   `json:"classId"`
}

// UpdateStudent applies the provided fields only; absent fields keep their
// stored value.
func (h *AdminHandler) UpdateStudent(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var req updateStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	student, err := h.users.FindStudent(id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, CodedResponse{
				Message: "Étudiant introuvable",
				Code:    "STUDENT_NOT_FOUND",
			})
		}
		return err
	}

	if req.Email != nil {
		if err := h.auth.CheckEmailDomain(*req.Email); err != nil {
			return c.JSON(http.StatusBadRequest, CodedResponse{
				Message: "Une adresse email institutionnelle est requise",
				Code:    "EMAIL_DOMAIN_NOT_ALLOWED",
			})
		}
		student.Email = *req.Email
	}
	if req.Matricule != nil {
		if *req.Matricule == "" {
			student.Matricule = nil
		} else {
			student.Matricule = req.Matricule
		}
	}
	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.ClassID != nil {
		student.ClassID = req.ClassID
	}

	if err := h.users.Update(student); err != nil {
		if errors.Is(err, user.ErrUserExists) {
			return c.JSON(http.StatusConflict, CodedResponse{
				Message: "Email ou matricule déjà utilisé",
				Code:    "USER_EXISTS",
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, student.Profile())
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// ResetStudentPassword falls back to the default password when the body
// leaves newPassword empty.
func (h *AdminHandler) ResetStudentPassword(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.auth.ResetStudentPassword(id, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, CodedResponse{
				Message: "Étudiant introuvable",
				Code:    "STUDENT_NOT_FOUND",
			})
		case errors.Is(err, auth.ErrPasswordHashingFailed):
			return err
		default:
			return c.JSON(http.StatusBadRequest, CodedResponse{
				Message: err.Error(),
				Code:    "INVALID_PASSWORD",
			})
		}
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Mot de passe réinitialisé avec succès"})
}

func (h *AdminHandler) DeleteStudent(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.users.FindStudent(id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, CodedResponse{
				Message: "Étudiant introuvable",
				Code:    "STUDENT_NOT_FOUND",
			})
		}
		return err
	}

	if err := h.users.Delete(id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Étudiant supprimé"})
}

func (h *AdminHandler) GlobalStats(c echo.Context) error {
	result, err := h.stats.GlobalStats()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) QuizStats(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	result, err := h.stats.QuizStats(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) CourseStats(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	classID := queryUint(c, "classId")
	result, err := h.stats.CourseStats(id, classID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type runAnalysisRequest struct {
	QuestionID uint  `json:"questionId" validate:"required"`
	QuizID     *uint `json:"quizId"`
}

func (h *AdminHandler) RunAnalysis(c echo.Context) error {
	var req runAnalysisRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	analysis, err := h.sentiments.RunAnalysis(req.QuestionID, req.QuizID)
	if err != nil {
		if errors.Is(err, sentiment.ErrNoResponses) {
			return c.JSON(http.StatusBadRequest, CodedResponse{
				Message: "Aucune réponse à analyser pour cette question",
				Code:    "NO_RESPONSES",
			})
		}
		return err
	}
	return c.JSON(http.StatusCreated, analysis)
}

func (h *AdminHandler) ListAnalyses(c echo.Context) error {
	var questionIDs []uint
	if id := queryUint(c, "questionId"); id != 0 {
		questionIDs = append(questionIDs, id)
	}
	analyses, err := h.sentiments.ListAnalyses(questionIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analyses)
}

func (h *AdminHandler) GetAnalysis(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	analysis, err := h.sentiments.FindAnalysis(id)
	if err != nil {
		if errors.Is(err, sentiment.ErrAnalysisNotFound) {
			return c.JSON(http.StatusNotFound, CodedResponse{
				Message: "Analyse introuvable",
				Code:    "ANALYSIS_NOT_FOUND",
			})
		}
		return err
	}
	return c.JSON(http.StatusOK, analysis)
}

type emailRecipient struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

type sendEmailRequest struct {
	Subject    string           `json:"subject" validate:"required"`
	Message    string           `json:"message" validate:"required"`
	Recipients []emailRecipient `json:"recipients" validate:"dive"`
	QuizID     *uint            `json:"quizId"`
	ClassID    *uint            `json:"classId"`
}

// SendEmail sends a manual campaign to explicit recipients, or to a class
// roster when only classId is given.
func (h *AdminHandler) SendEmail(c echo.Context) error {
	var req sendEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	recipients := make([]mail.Recipient, 0, len(req.Recipients))
	for _, r := range req.Recipients {
		recipients = append(recipients, mail.Recipient{Email: r.Email, Name: r.Name})
	}

	var createdBy uint
	if u := authgate.GetUser(c); u != nil {
		createdBy = u.ID
	}

	email, err := h.mails.SendManual(mail.ManualEmailInput{
		Subject:    req.Subject,
		Message:    req.Message,
		Recipients: recipients,
		QuizID:     req.QuizID,
		ClassID:    req.ClassID,
		CreatedBy:  createdBy,
	})
	if err != nil {
		if errors.Is(err, mail.ErrNoRecipients) {
			return c.JSON(http.StatusBadRequest, CodedResponse{
				Message: "Sujet, message et destinataires requis",
				Code:    "NO_RECIPIENTS",
			})
		}
		return err
	}

	return c.JSON(http.StatusCreated, email)
}

func (h *AdminHandler) ListEmails(c echo.Context) error {
	emails, err := h.mails.ListEmails()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emails)
}
