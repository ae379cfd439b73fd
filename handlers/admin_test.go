package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/institutsaintjean/evalhub/server"
	"github.com/institutsaintjean/evalhub/services/auth"
	"github.com/institutsaintjean/evalhub/services/mail"
	"github.com/institutsaintjean/evalhub/services/token"
	"github.com/institutsaintjean/evalhub/services/user"
	"github.com/institutsaintjean/evalhub/testutils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	handler *AdminHandler
	auth    *auth.Service
	users   *user.Service
	echo    *echo.Echo
}

func setupAdmin(t *testing.T) *adminFixture {
	t.Helper()
	db := testutils.SetupTestDB(t, &user.User{}, &token.Session{}, &mail.Email{})
	cfg := testutils.GetTestConfig()

	users := user.NewService(db, nil)
	tokens := token.NewService(db, cfg, token.NewHS256Signer(cfg.JWT.SecretKey, cfg.JWT.Issuer), nil)
	tokens.SetUserResolver(users)
	authSvc := auth.NewService(cfg, users, tokens, nil)
	mails, err := mail.NewService(&cfg.Mail, db, users, nil)
	require.NoError(t, err)

	e := echo.New()
	e.Validator = server.NewValidator()
	e.HTTPErrorHandler = server.ErrorHandler(nil)

	return &adminFixture{
		handler: NewAdminHandler(users, authSvc, nil, nil, mails, nil),
		auth:    authSvc,
		users:   users,
		echo:    e,
	}
}

func (f *adminFixture) perform(t *testing.T, handler echo.HandlerFunc, body, id string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	if err := handler(c); err != nil {
		f.echo.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAdminCreateStudent(t *testing.T) {
	f := setupAdmin(t)

	body := `{"matricule":"2024001","email":"marie.ngo@institutsaintjean.org","firstName":"Marie","lastName":"Ngo","classId":1}`

	rec := f.perform(t, f.handler.CreateStudent, body, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var profile user.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, user.RoleStudent, profile.Role)
	assert.NotContains(t, rec.Body.String(), "password")

	t.Run("duplicate", func(t *testing.T) {
		rec := f.perform(t, f.handler.CreateStudent, body, "")
		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp CodedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "USER_EXISTS", resp.Code)
	})

	t.Run("foreign domain", func(t *testing.T) {
		rec := f.perform(t, f.handler.CreateStudent,
			`{"email":"x@gmail.com","firstName":"X","lastName":"Y"}`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp CodedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "EMAIL_DOMAIN_NOT_ALLOWED", resp.Code)
	})
}

func TestAdminUpdateStudent(t *testing.T) {
	f := setupAdmin(t)

	student, err := f.auth.CreateStudent(auth.StudentInput{
		Matricule: "2024001",
		Email:     "marie.ngo@institutsaintjean.org",
		FirstName: "Marie",
		LastName:  "Ngo",
	})
	require.NoError(t, err)

	rec := f.perform(t, f.handler.UpdateStudent,
		`{"firstName":"Marie-Claire","classId":2}`, "1")
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.users.FindStudent(student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Marie-Claire", stored.FirstName)
	assert.Equal(t, "Ngo", stored.LastName)
	require.NotNil(t, stored.ClassID)
	assert.Equal(t, uint(2), *stored.ClassID)

	t.Run("unknown student", func(t *testing.T) {
		rec := f.perform(t, f.handler.UpdateStudent, `{"firstName":"X"}`, "999")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp CodedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "STUDENT_NOT_FOUND", resp.Code)
	})
}

func TestAdminResetStudentPassword(t *testing.T) {
	f := setupAdmin(t)

	_, err := f.auth.CreateStudent(auth.StudentInput{
		Matricule: "2024001",
		Email:     "marie.ngo@institutsaintjean.org",
		FirstName: "Marie",
		LastName:  "Ngo",
		Password:  "ancienpass123",
	})
	require.NoError(t, err)

	rec := f.perform(t, f.handler.ResetStudentPassword, `{}`, "1")
	require.Equal(t, http.StatusOK, rec.Code)

	// The account now opens with the default password.
	_, err = f.auth.Login("2024001", "password123", token.DeviceInfo{})
	assert.NoError(t, err)
	_, err = f.auth.Login("2024001", "ancienpass123", token.DeviceInfo{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	t.Run("unknown student", func(t *testing.T) {
		rec := f.perform(t, f.handler.ResetStudentPassword, `{}`, "999")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAdminSendEmail(t *testing.T) {
	f := setupAdmin(t)

	rec := f.perform(t, f.handler.SendEmail,
		`{"subject":"Annonce","message":"Contenu du message","recipients":[{"email":"a@institutsaintjean.org","name":"A"}]}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var email mail.Email
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &email))
	assert.Equal(t, mail.TypeManual, email.Type)
	assert.Equal(t, mail.StatusSent, email.Status)
	require.Len(t, email.Recipients, 1)

	t.Run("no recipients", func(t *testing.T) {
		rec := f.perform(t, f.handler.SendEmail,
			`{"subject":"Annonce","message":"Contenu"}`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp CodedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "NO_RECIPIENTS", resp.Code)
	})
}
