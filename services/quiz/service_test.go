package quiz

import (
	"testing"
	"time"

	"github.com/institutsaintjean/evalhub/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	quizIDs  []uint
	classIDs []uint
}

func (n *recordingNotifier) NotifyQuizPublished(quizID uint, title string, classID uint) {
	n.quizIDs = append(n.quizIDs, quizID)
	n.classIDs = append(n.classIDs, classID)
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutils.SetupTestDB(t, &Question{}, &Quiz{})
	return NewService(db, nil), db
}

func seedQuiz(t *testing.T, svc *Service, classID uint) *Quiz {
	t.Helper()
	q := &Quiz{
		Title:          "Évaluation mi-parcours",
		AcademicYearID: 1,
		ClassID:        classID,
		Type:           QuizMidTerm,
		StartDate:      time.Now().Add(-time.Hour),
		EndDate:        time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, svc.CreateQuiz(q))
	return q
}

func TestCreateQuiz_DefaultsToDraft(t *testing.T) {
	svc, _ := newTestService(t)
	q := seedQuiz(t, svc, 1)
	assert.Equal(t, StatusDraft, q.Status)
}

func TestAttachQuestions_Snapshots(t *testing.T) {
	svc, _ := newTestService(t)

	question := &Question{
		Text:           "Comment trouvez-vous le rythme du cours ?",
		Type:           QuestionMCQ,
		Options:        []QuestionOption{{Text: "Trop rapide"}, {Text: "Adapté"}},
		AcademicYearID: 1,
		ClassID:        1,
	}
	require.NoError(t, svc.CreateQuestion(question))

	q := seedQuiz(t, svc, 1)
	attached, err := svc.AttachQuestions(q.ID, []uint{question.ID})
	require.NoError(t, err)
	require.Len(t, attached.Questions, 1)
	assert.Equal(t, question.Text, attached.Questions[0].TextSnapshot)
	assert.Equal(t, []string{"Trop rapide", "Adapté"}, attached.Questions[0].OptionsSnapshot)

	// Editing the bank does not change the snapshot.
	question.Text = "Texte modifié"
	require.NoError(t, svc.UpdateQuestion(question))

	reloaded, err := svc.FindQuiz(q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Comment trouvez-vous le rythme du cours ?", reloaded.Questions[0].TextSnapshot)
}

func TestPublish(t *testing.T) {
	svc, _ := newTestService(t)
	notifier := &recordingNotifier{}
	svc.SetPublishNotifier(notifier)

	q := seedQuiz(t, svc, 7)

	published, err := svc.Publish(q.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, published.Status)

	// The class notification fired once.
	require.Len(t, notifier.quizIDs, 1)
	assert.Equal(t, q.ID, notifier.quizIDs[0])
	assert.Equal(t, uint(7), notifier.classIDs[0])

	t.Run("publishing twice fails", func(t *testing.T) {
		_, err := svc.Publish(q.ID)
		assert.ErrorIs(t, err, ErrAlreadyPublished)
		assert.Len(t, notifier.quizIDs, 1)
	})

	t.Run("unknown quiz", func(t *testing.T) {
		_, err := svc.Publish(9999)
		assert.ErrorIs(t, err, ErrQuizNotFound)
	})
}

func TestListPublishedForClass(t *testing.T) {
	svc, _ := newTestService(t)

	published := seedQuiz(t, svc, 1)
	_, err := svc.Publish(published.ID)
	require.NoError(t, err)

	seedQuiz(t, svc, 1) // stays draft
	other := seedQuiz(t, svc, 2)
	_, err = svc.Publish(other.ID)
	require.NoError(t, err)

	quizzes, err := svc.ListPublishedForClass(1)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, published.ID, quizzes[0].ID)
}

func TestListQuestions_Ordering(t *testing.T) {
	svc, _ := newTestService(t)

	courseID := uint(1)
	for i, text := range []string{"troisième", "première", "deuxième"} {
		order := []int{2, 0, 1}[i]
		require.NoError(t, svc.CreateQuestion(&Question{
			Text:           text,
			Type:           QuestionOpen,
			CourseID:       &courseID,
			AcademicYearID: 1,
			ClassID:        1,
			Order:          order,
		}))
	}

	questions, err := svc.ListQuestions(courseID)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "première", questions[0].Text)
	assert.Equal(t, "deuxième", questions[1].Text)
	assert.Equal(t, "troisième", questions[2].Text)
}

func TestDeleteQuestion(t *testing.T) {
	svc, _ := newTestService(t)

	question := &Question{Text: "q", Type: QuestionOpen, AcademicYearID: 1, ClassID: 1}
	require.NoError(t, svc.CreateQuestion(question))

	require.NoError(t, svc.DeleteQuestion(question.ID))
	assert.ErrorIs(t, svc.DeleteQuestion(question.ID), ErrQuestionNotFound)
}
