package importer

import (
	"bytes"
	"testing"

	"github.com/institutsaintjean/evalhub/services/auth"
	"github.com/institutsaintjean/evalhub/services/quiz"
	"github.com/institutsaintjean/evalhub/services/token"
	"github.com/institutsaintjean/evalhub/services/user"
	"github.com/institutsaintjean/evalhub/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestService(t *testing.T) (*Service, *quiz.Service, *user.Service) {
	t.Helper()
	db := testutils.SetupTestDB(t, &user.User{}, &token.Session{}, &quiz.Question{}, &quiz.Quiz{})
	cfg := testutils.GetTestConfig()

	users := user.NewService(db, nil)
	tokens := token.NewService(db, cfg, token.NewHS256Signer(cfg.JWT.SecretKey, cfg.JWT.Issuer), nil)
	quizzes := quiz.NewService(db, nil)
	authSvc := auth.NewService(cfg, users, tokens, nil)

	return NewService(cfg, quizzes, users, authSvc, nil), quizzes, users
}

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestImportQuestions(t *testing.T) {
	svc, quizzes, _ := newTestService(t)

	workbook := buildWorkbook(t, [][]any{
		{"Enonce", "Type", "Options", "Reponse"},
		{"Comment trouvez-vous le rythme ?", "MCQ", "Trop rapide;Adapté;Trop lent", "Adapté"},
		{"Que pensez-vous du cours ?", "OPEN", "", ""},
		{"", "MCQ", "A;B", ""},
		{"Question au type inconnu", "AUTRE", "", ""},
	})

	result, err := svc.ImportQuestions(workbook, 1, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 2, result.Success)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 4, result.Errors[0].Row)
	assert.Equal(t, 5, result.Errors[1].Row)

	questions, err := quizzes.ListQuestions(1)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, quiz.QuestionMCQ, questions[0].Type)
	require.Len(t, questions[0].Options, 3)
	assert.Equal(t, "Trop rapide", questions[0].Options[0].Text)
	assert.Equal(t, "Adapté", questions[0].CorrectAnswer)
	assert.Equal(t, quiz.QuestionOpen, questions[1].Type)
	assert.Empty(t, questions[1].Options)
}

func TestImportQuestions_EmptyWorkbook(t *testing.T) {
	svc, _, _ := newTestService(t)

	workbook := buildWorkbook(t, [][]any{
		{"Enonce", "Type", "Options", "Reponse"},
	})

	_, err := svc.ImportQuestions(workbook, 1, 1, 1)
	assert.ErrorIs(t, err, ErrEmptyWorkbook)
}

func TestImportStudents(t *testing.T) {
	svc, _, users := newTestService(t)

	workbook := buildWorkbook(t, [][]any{
		{"Matricule", "Nom", "Prenom", "Email", "MotDePasse"},
		{"2024001", "Mbarga", "Jean", "jean.mbarga@institutsaintjean.org", ""},
		{"2024002", "Ngo", "Marie", "marie.ngo@institutsaintjean.org", "sonmotdepasse1"},
		{"2024003", "Fouda", "Anne", "anne.fouda@gmail.com", ""},
		{"", "Essomba", "Paul", "paul.essomba@institutsaintjean.org", ""},
	})

	result, err := svc.ImportStudents(workbook, 1)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 2, result.Success)
	assert.Len(t, result.Errors, 2)

	students, err := users.ListStudents(user.StudentFilter{ClassID: 1})
	require.NoError(t, err)
	require.Len(t, students, 2)

	// The default password is applied and hashed.
	jean, err := users.FindByIdentifier("2024001")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", jean.Password)
	assert.Equal(t, user.RoleStudent, jean.Role)
	require.NotNil(t, jean.ClassID)
	assert.Equal(t, uint(1), *jean.ClassID)
}

func TestImportStudents_DuplicatesReported(t *testing.T) {
	svc, _, _ := newTestService(t)

	workbook := buildWorkbook(t, [][]any{
		{"Matricule", "Nom", "Prenom", "Email"},
		{"2024001", "Mbarga", "Jean", "jean.mbarga@institutsaintjean.org"},
		{"2024001", "Mbarga", "Jean", "jean.mbarga@institutsaintjean.org"},
	})

	result, err := svc.ImportStudents(workbook, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
}
