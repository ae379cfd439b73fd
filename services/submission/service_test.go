package submission

import (
	"testing"

	"github.com/institutsaintjean/evalhub/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutils.SetupTestDB(t, &Submission{}, &SubmissionLog{})
	return NewService(db, nil), db
}

func TestSubmitQuiz(t *testing.T) {
	svc, db := newTestService(t)

	answers := []Answer{
		{QuestionID: 1, Value: "Option A"},
		{QuestionID: 2, Value: "Le cours était très clair et bien structuré"},
	}

	sub, err := svc.SubmitQuiz(10, 1, answers)
	require.NoError(t, err)
	assert.Equal(t, uint(1), sub.QuizID)
	assert.Len(t, sub.Answers, 2)

	// The stored submission has no student reference; only the log does.
	var log SubmissionLog
	require.NoError(t, db.Where("student_id = ? AND quiz_id = ?", 10, 1).First(&log).Error)
	assert.NotZero(t, log.SubmittedAt)
}

func TestSubmitQuiz_Duplicate(t *testing.T) {
	svc, db := newTestService(t)

	answers := []Answer{{QuestionID: 1, Value: "Première réponse"}}

	_, err := svc.SubmitQuiz(10, 1, answers)
	require.NoError(t, err)

	_, err = svc.SubmitQuiz(10, 1, answers)
	assert.ErrorIs(t, err, ErrDuplicateSubmission)

	// No second submission was written.
	var count int64
	db.Model(&Submission{}).Where("quiz_id = ?", 1).Count(&count)
	assert.Equal(t, int64(1), count)

	// Other quizzes and other students remain unaffected.
	_, err = svc.SubmitQuiz(10, 2, answers)
	assert.NoError(t, err)
	_, err = svc.SubmitQuiz(11, 1, answers)
	assert.NoError(t, err)
}

func TestSubmitQuiz_RepeatedRetries(t *testing.T) {
	svc, db := newTestService(t)

	answers := []Answer{{QuestionID: 1, Value: "Réponse initiale"}}

	_, err := svc.SubmitQuiz(10, 1, answers)
	require.NoError(t, err)

	// Every retry hits the unique index, regardless of payload.
	for i := 0; i < 5; i++ {
		_, err := svc.SubmitQuiz(10, 1, []Answer{{QuestionID: 1, Value: "Autre contenu"}})
		assert.ErrorIs(t, err, ErrDuplicateSubmission)
	}

	var count int64
	db.Model(&Submission{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmitQuiz_SentimentAveraging(t *testing.T) {
	svc, _ := newTestService(t)

	// Deterministic scorer: long answers score 0.8.
	svc.SetScorer(func(text string) float64 { return 0.8 })

	t.Run("short answers are not scored", func(t *testing.T) {
		sub, err := svc.SubmitQuiz(1, 1, []Answer{
			{QuestionID: 1, Value: "Oui"},
			{QuestionID: 2, Value: "Non"},
		})
		require.NoError(t, err)
		assert.Zero(t, sub.SentimentScore)
	})

	t.Run("long answers are averaged", func(t *testing.T) {
		sub, err := svc.SubmitQuiz(2, 1, []Answer{
			{QuestionID: 1, Value: "Une réponse assez longue pour être analysée"},
			{QuestionID: 2, Value: "Oui"},
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.8, sub.SentimentScore, 0.001)
	})
}

func TestAnsweredQuizIDs(t *testing.T) {
	svc, _ := newTestService(t)

	answers := []Answer{{QuestionID: 1, Value: "ok"}}
	_, err := svc.SubmitQuiz(10, 1, answers)
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(10, 3, answers)
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(11, 2, answers)
	require.NoError(t, err)

	ids, err := svc.AnsweredQuizIDs(10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 3}, ids)
}

func TestDistinctSubmitters(t *testing.T) {
	svc, _ := newTestService(t)

	answers := []Answer{{QuestionID: 1, Value: "ok"}}
	_, err := svc.SubmitQuiz(10, 1, answers)
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(10, 2, answers)
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(11, 1, answers)
	require.NoError(t, err)

	t.Run("all quizzes", func(t *testing.T) {
		count, err := svc.DistinctSubmitters(nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("restricted to one quiz", func(t *testing.T) {
		count, err := svc.DistinctSubmitters([]uint{2})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestResponsesForQuestion(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SubmitQuiz(10, 1, []Answer{
		{QuestionID: 1, Value: "Le cours était vraiment excellent"},
		{QuestionID: 2, Value: "Oui"},
	})
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(11, 1, []Answer{
		{QuestionID: 1, Value: "Trop rapide et difficile à suivre"},
	})
	require.NoError(t, err)

	texts, err := svc.ResponsesForQuestion(1)
	require.NoError(t, err)
	assert.Len(t, texts, 2)

	// Short option picks are excluded.
	texts, err = svc.ResponsesForQuestion(2)
	require.NoError(t, err)
	assert.Empty(t, texts)
}
