package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/institutsaintjean/evalhub/services/importer"
	"github.com/labstack/echo/v4"
)

type ImportHandler struct {
	imports *importer.Service
}

func NewImportHandler(imports *importer.Service) *ImportHandler {
	return &ImportHandler{imports: imports}
}

func (h *ImportHandler) openUpload(c echo.Context) (multipart.File, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "missing file upload")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable file upload")
	}
	return file, nil
}

func (h *ImportHandler) importError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, importer.ErrEmptyWorkbook):
		return c.JSON(http.StatusBadRequest, CodedResponse{
			Message: "Le fichier ne contient aucune ligne de données",
			Code:    "EMPTY_WORKBOOK",
		})
	case errors.Is(err, importer.ErrTooManyRows):
		return c.JSON(http.StatusBadRequest, CodedResponse{
			Message: "Le fichier dépasse la taille maximale autorisée",
			Code:    "TOO_MANY_ROWS",
		})
	default:
		return err
	}
}

// ImportQuestions loads a question bank from an uploaded Excel workbook.
func (h *ImportHandler) ImportQuestions(c echo.Context) error {
	courseID, err := formUint(c, "courseId")
	if err != nil {
		return err
	}
	academicYearID, err := formUint(c, "academicYearId")
	if err != nil {
		return err
	}
	classID, err := formUint(c, "classId")
	if err != nil {
		return err
	}

	file, err := h.openUpload(c)
	if err != nil {
		return err
	}
	defer file.Close()

	result, err := h.imports.ImportQuestions(file, courseID, academicYearID, classID)
	if err != nil {
		return h.importError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ImportStudents bulk-creates student accounts from an uploaded workbook.
func (h *ImportHandler) ImportStudents(c echo.Context) error {
	classID, err := formUint(c, "classId")
	if err != nil {
		return err
	}

	file, err := h.openUpload(c)
	if err != nil {
		return err
	}
	defer file.Close()

	result, err := h.imports.ImportStudents(file, classID)
	if err != nil {
		return h.importError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
