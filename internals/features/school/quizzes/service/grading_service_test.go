package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scoreRow struct {
	StudentID uuid.UUID
	Score     int
	GradedBy  uuid.UUID
	Cancelled bool
}

// fakeScoreStore keeps the full correction log so tests can assert the
// cancel+insert invariant.
type fakeScoreStore struct {
	quizzes map[uuid.UUID]*QuizInfo // keyed by quiz ID; nil teacher check simplified
	owner   uuid.UUID
	rows    []scoreRow
}

func (f *fakeScoreStore) QuizForTeacher(_ context.Context, quizID, teacherID uuid.UUID) (*QuizInfo, error) {
	if teacherID != f.owner {
		return nil, nil
	}
	return f.quizzes[quizID], nil
}

func (f *fakeScoreStore) CancelActiveScores(_ context.Context, _ uuid.UUID, studentID uuid.UUID) error {
	for i := range f.rows {
		if f.rows[i].StudentID == studentID {
			f.rows[i].Cancelled = true
		}
	}
	return nil
}

func (f *fakeScoreStore) InsertScore(_ context.Context, _ uuid.UUID, studentID uuid.UUID, score int, gradedBy uuid.UUID) error {
	f.rows = append(f.rows, scoreRow{StudentID: studentID, Score: score, GradedBy: gradedBy})
	return nil
}

func (f *fakeScoreStore) Transact(_ context.Context, fn func(ScoreStore) error) error {
	return fn(f)
}

func (f *fakeScoreStore) activeRows(studentID uuid.UUID) []scoreRow {
	var out []scoreRow
	for _, r := range f.rows {
		if r.StudentID == studentID && !r.Cancelled {
			out = append(out, r)
		}
	}
	return out
}

func TestSaveScores(t *testing.T) {
	teacherID := uuid.New()
	quizID := uuid.New()
	studentA := uuid.New()
	studentB := uuid.New()

	store := &fakeScoreStore{
		owner:   teacherID,
		quizzes: map[uuid.UUID]*QuizInfo{quizID: {ID: quizID, MaxScore: 100}},
	}
	svc := NewGradingService(store)

	saved, err := svc.SaveScores(context.Background(), teacherID, quizID, []ScoreEntry{
		{StudentID: studentA, Score: 80},
		{StudentID: studentB, Score: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	assert.Len(t, store.activeRows(studentA), 1)
	assert.Equal(t, 80, store.activeRows(studentA)[0].Score)
	assert.Equal(t, teacherID, store.activeRows(studentA)[0].GradedBy)
}

func TestSaveScoresRegradeKeepsOneActiveRow(t *testing.T) {
	teacherID := uuid.New()
	quizID := uuid.New()
	studentID := uuid.New()

	store := &fakeScoreStore{
		owner:   teacherID,
		quizzes: map[uuid.UUID]*QuizInfo{quizID: {ID: quizID, MaxScore: 100}},
	}
	svc := NewGradingService(store)

	for _, score := range []int{70, 85, 90} {
		_, err := svc.SaveScores(context.Background(), teacherID, quizID, []ScoreEntry{
			{StudentID: studentID, Score: score},
		})
		require.NoError(t, err)
	}

	active := store.activeRows(studentID)
	require.Len(t, active, 1, "regrading must leave exactly one active row")
	assert.Equal(t, 90, active[0].Score)
	assert.Len(t, store.rows, 3, "the correction log keeps every row")
}

func TestSaveScoresSkipsOutOfRange(t *testing.T) {
	teacherID := uuid.New()
	quizID := uuid.New()
	studentA := uuid.New()
	studentB := uuid.New()

	store := &fakeScoreStore{
		owner:   teacherID,
		quizzes: map[uuid.UUID]*QuizInfo{quizID: {ID: quizID, MaxScore: 50}},
	}
	svc := NewGradingService(store)

	saved, err := svc.SaveScores(context.Background(), teacherID, quizID, []ScoreEntry{
		{StudentID: studentA, Score: 51}, // above max, skipped
		{StudentID: studentB, Score: -1}, // negative, skipped
		{StudentID: studentA, Score: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	assert.Len(t, store.rows, 1)
	assert.Equal(t, 50, store.rows[0].Score)
}

func TestSaveScoresUnknownQuiz(t *testing.T) {
	teacherID := uuid.New()
	store := &fakeScoreStore{owner: teacherID, quizzes: map[uuid.UUID]*QuizInfo{}}
	svc := NewGradingService(store)

	_, err := svc.SaveScores(context.Background(), teacherID, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestSaveScoresForeignTeacher(t *testing.T) {
	quizID := uuid.New()
	store := &fakeScoreStore{
		owner:   uuid.New(),
		quizzes: map[uuid.UUID]*QuizInfo{quizID: {ID: quizID, MaxScore: 100}},
	}
	svc := NewGradingService(store)

	_, err := svc.SaveScores(context.Background(), uuid.New(), quizID, []ScoreEntry{
		{StudentID: uuid.New(), Score: 10},
	})
	assert.ErrorIs(t, err, ErrQuizNotFound)
	assert.Empty(t, store.rows)
}
