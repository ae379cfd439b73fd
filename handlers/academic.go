package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/institutsaintjean/evalhub/services/academic"
	"github.com/labstack/echo/v4"
)

type AcademicHandler struct {
	academics *academic.Service
}

func NewAcademicHandler(academics *academic.Service) *AcademicHandler {
	return &AcademicHandler{academics: academics}
}

func (h *AcademicHandler) notFound(c echo.Context, err error) error {
	if errors.Is(err, academic.ErrNotFound) {
		return c.JSON(http.StatusNotFound, CodedResponse{
			Message: "Ressource introuvable",
			Code:    "NOT_FOUND",
		})
	}
	return err
}

type yearRequest struct {
	Label     string     `json:"label" validate:"required"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	IsCurrent bool       `json:"isCurrent"`
}

func (h *AcademicHandler) CreateYear(c echo.Context) error {
	var req yearRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	year := &academic.AcademicYear{
		Label:     req.Label,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsCurrent: req.IsCurrent,
	}
	if err := h.academics.CreateYear(year); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, year)
}

func (h *AcademicHandler) ListYears(c echo.Context) error {
	years, err := h.academics.ListYears()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, years)
}

func (h *AcademicHandler) SetCurrentYear(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	year, err := h.academics.SetCurrentYear(id)
	if err != nil {
		return h.notFound(c, err)
	}
	return c.JSON(http.StatusOK, year)
}

type semesterRequest struct {
	Number         int       `json:"number" validate:"required,min=1,max=2"`
	Label          string    `json:"label" validate:"required"`
	AcademicYearID uint      `json:"academicYearId" validate:"required"`
	StartDate      time.Time `json:"startDate" validate:"required"`
	EndDate        time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
}

func (h *AcademicHandler) CreateSemester(c echo.Context) error {
	var req semesterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	semester := &academic.Semester{
		Number:         req.Number,
		Label:          req.Label,
		AcademicYearID: req.AcademicYearID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}
	if err := h.academics.CreateSemester(semester); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, semester)
}

func (h *AcademicHandler) ListSemesters(c echo.Context) error {
	semesters, err := h.academics.ListSemesters(queryUint(c, "academicYearId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, semesters)
}

type classRequest struct {
	Code           string `json:"code" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Level          string `json:"level" validate:"required"`
	Field          string `json:"field" validate:"required"`
	AcademicYearID uint   `json:"academicYearId" validate:"required"`
	Capacity       int    `json:"capacity"`
}

func (h *AcademicHandler) CreateClass(c echo.Context) error {
	var req classRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	class := &academic.Class{
		Code:           req.Code,
		Name:           req.Name,
		Level:          req.Level,
		Field:          req.Field,
		AcademicYearID: req.AcademicYearID,
		Capacity:       req.Capacity,
	}
	if err := h.academics.CreateClass(class); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, class)
}

func (h *AcademicHandler) ListClasses(c echo.Context) error {
	classes, err := h.academics.ListClasses(queryUint(c, "academicYearId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, classes)
}

func (h *AcademicHandler) UpdateClass(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	class, err := h.academics.FindClass(id)
	if err != nil {
		return h.notFound(c, err)
	}

	var req classRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	class.Code = req.Code
	class.Name = req.Name
	class.Level = req.Level
	class.Field = req.Field
	class.AcademicYearID = req.AcademicYearID
	class.Capacity = req.Capacity

	if err := h.academics.UpdateClass(class); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, class)
}

func (h *AcademicHandler) DeleteClass(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if err := h.academics.DeleteClass(id); err != nil {
		return h.notFound(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Classe supprimée"})
}

type courseRequest struct {
	Code       string `json:"code" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Credits    int    `json:"credits" validate:"required,min=1"`
	Teacher    string `json:"teacher" validate:"required"`
	ClassID    uint   `json:"classId" validate:"required"`
	SemesterID uint   `json:"semesterId" validate:"required"`
}

func (h *AcademicHandler) CreateCourse(c echo.Context) error {
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	course := &academic.Course{
		Code:       req.Code,
		Name:       req.Name,
		Credits:    req.Credits,
		Teacher:    req.Teacher,
		ClassID:    req.ClassID,
		SemesterID: req.SemesterID,
	}
	if err := h.academics.CreateCourse(course); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, course)
}

func (h *AcademicHandler) ListCourses(c echo.Context) error {
	courses, err := h.academics.ListCourses(queryUint(c, "classId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courses)
}

func (h *AcademicHandler) UpdateCourse(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	course, err := h.academics.FindCourse(id)
	if err != nil {
		return h.notFound(c, err)
	}

	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	course.Code = req.Code
	course.Name = req.Name
	course.Credits = req.Credits
	course.Teacher = req.Teacher
	course.ClassID = req.ClassID
	course.SemesterID = req.SemesterID

	if err := h.academics.UpdateCourse(course); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

func (h *AcademicHandler) DeleteCourse(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if err := h.academics.DeleteCourse(id); err != nil {
		return h.notFound(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Cours supprimé"})
}

func (h *AcademicHandler) ListEvaluationTypes(c echo.Context) error {
	types, err := h.academics.ListEvaluationTypes()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}
