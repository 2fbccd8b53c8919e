package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "kelasku_backend/internals/features/school/grades/dto"
	repository "kelasku_backend/internals/features/school/grades/repository"
)

/* ===== In-memory store fake ===== */

type pairKey struct {
	a uuid.UUID
	b uuid.UUID
}

type fakeStore struct {
	classrooms map[pairKey]*repository.ClassroomInfo // (classID, teacherID)
	students   map[uuid.UUID][]repository.StudentInfo
	sessions   map[uuid.UUID][]repository.SessionInfo

	lessonPoints map[pairKey]int // (sessionID, studentID); absence = no row
	quizScores   map[pairKey]repository.QuizScoreInfo
	groupIDs     map[pairKey][]uuid.UUID // (sessionID, studentID)
	votes        map[uuid.UUID]map[uuid.UUID][2]int
	contribAvgs  map[uuid.UUID]float64

	classPoints       map[pairKey]*repository.ClassPointsRecord // (classID, studentID)
	classLessonPoints map[pairKey][]repository.LessonPointRecord
	enrolled          map[pairKey]bool

	upserts []upsertCall
}

type upsertCall struct {
	ClassID   uuid.UUID
	StudentID uuid.UUID
	Rate      float64
	Points    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		classrooms:        map[pairKey]*repository.ClassroomInfo{},
		students:          map[uuid.UUID][]repository.StudentInfo{},
		sessions:          map[uuid.UUID][]repository.SessionInfo{},
		lessonPoints:      map[pairKey]int{},
		quizScores:        map[pairKey]repository.QuizScoreInfo{},
		groupIDs:          map[pairKey][]uuid.UUID{},
		votes:             map[uuid.UUID]map[uuid.UUID][2]int{},
		contribAvgs:       map[uuid.UUID]float64{},
		classPoints:       map[pairKey]*repository.ClassPointsRecord{},
		classLessonPoints: map[pairKey][]repository.LessonPointRecord{},
		enrolled:          map[pairKey]bool{},
	}
}

func (f *fakeStore) ClassroomForTeacher(_ context.Context, classID, teacherID uuid.UUID) (*repository.ClassroomInfo, error) {
	return f.classrooms[pairKey{classID, teacherID}], nil
}

func (f *fakeStore) EnrolledStudents(_ context.Context, classID uuid.UUID) ([]repository.StudentInfo, error) {
	return f.students[classID], nil
}

func (f *fakeStore) Sessions(_ context.Context, classID uuid.UUID) ([]repository.SessionInfo, error) {
	return f.sessions[classID], nil
}

func (f *fakeStore) LessonPoints(_ context.Context, sessionID, studentID uuid.UUID) (int, bool, error) {
	p, ok := f.lessonPoints[pairKey{sessionID, studentID}]
	return p, ok, nil
}

func (f *fakeStore) QuizScore(_ context.Context, sessionID, studentID uuid.UUID) (repository.QuizScoreInfo, error) {
	return f.quizScores[pairKey{sessionID, studentID}], nil
}

func (f *fakeStore) StudentGroupIDs(_ context.Context, sessionID, studentID uuid.UUID) ([]uuid.UUID, error) {
	return f.groupIDs[pairKey{sessionID, studentID}], nil
}

func (f *fakeStore) PlacementVotes(_ context.Context, sessionID uuid.UUID, groupIDs []uuid.UUID) (int, int, error) {
	first, second := 0, 0
	for _, gid := range groupIDs {
		if v, ok := f.votes[sessionID][gid]; ok {
			first += v[0]
			second += v[1]
		}
	}
	return first, second, nil
}

func (f *fakeStore) ContributionAverage(_ context.Context, sessionID uuid.UUID) (float64, error) {
	return f.contribAvgs[sessionID], nil
}

func (f *fakeStore) ClassPoints(_ context.Context, classID, studentID uuid.UUID) (*repository.ClassPointsRecord, error) {
	return f.classPoints[pairKey{classID, studentID}], nil
}

func (f *fakeStore) ClassLessonPoints(_ context.Context, classID, studentID uuid.UUID) ([]repository.LessonPointRecord, error) {
	return f.classLessonPoints[pairKey{classID, studentID}], nil
}

func (f *fakeStore) IsEnrolled(_ context.Context, classID, studentID uuid.UUID) (bool, error) {
	return f.enrolled[pairKey{classID, studentID}], nil
}

func (f *fakeStore) UpsertAttendance(_ context.Context, classID, studentID uuid.UUID, rate float64, points int) error {
	f.upserts = append(f.upserts, upsertCall{classID, studentID, rate, points})
	return nil
}

/* ===== Fixtures ===== */

var (
	teacherID = uuid.New()
	classID   = uuid.New()
	studentID = uuid.New()
)

func seedClassroom(f *fakeStore, sessions ...repository.SessionInfo) repository.StudentInfo {
	f.classrooms[pairKey{classID, teacherID}] = &repository.ClassroomInfo{ID: classID, Name: "1-A"}
	student := repository.StudentInfo{ID: studentID, StudentNumber: "S001", FullName: "Tanaka Yui", Points: 7}
	f.students[classID] = []repository.StudentInfo{student}
	f.sessions[classID] = sessions
	return student
}

func session(n int, hasQuiz, hasPeer bool) repository.SessionInfo {
	return repository.SessionInfo{
		ID:                uuid.New(),
		Number:            n,
		Date:              time.Date(2026, 4, n, 0, 0, 0, 0, time.UTC),
		HasQuiz:           hasQuiz,
		HasPeerEvaluation: hasPeer,
	}
}

/* ===== ClassEvaluation ===== */

func TestClassEvaluationWorkedExample(t *testing.T) {
	// Two sessions with scan points 1 and 0, one quiz score of 80, no
	// saved summary row.
	f := newFakeStore()
	s1 := session(1, true, false)
	s2 := session(2, false, false)
	seedClassroom(f, s1, s2)

	f.lessonPoints[pairKey{s1.ID, studentID}] = 1
	f.lessonPoints[pairKey{s2.ID, studentID}] = 0
	f.quizScores[pairKey{s1.ID, studentID}] = repository.QuizScoreInfo{HasQuiz: true, Scored: true, Score: 80}

	svc := NewEvaluationService(f)
	result, err := svc.ClassEvaluation(context.Background(), teacherID, classID)
	require.NoError(t, err)
	require.Len(t, result.StudentEvaluations, 1)

	ev := result.StudentEvaluations[0]
	assert.Equal(t, 81, ev.TotalCombinedScore)
	assert.Equal(t, 80, ev.TotalQuizScore)
	// base (81-80=1) * 2 + quiz 80 = 82
	assert.Equal(t, 82, ev.ClassPoints)
	assert.Equal(t, 82, ev.MultipliedPoints)
	// no saved attendance points: total = 0 + 82*2
	assert.Equal(t, 164, ev.TotalPoints)
	assert.Equal(t, 1, ev.SessionCount) // only the session with QR points > 0
	assert.Equal(t, 1, ev.QRPoints)
	assert.InDelta(t, 50.0, ev.AttendanceRate, 0.001) // 1 of 2 sessions
	assert.Equal(t, 2, ev.Multiplier)

	assert.Equal(t, []string{"第1回", "第2回"}, result.SessionList)
	assert.Contains(t, ev.SessionData, "第1回")
	assert.Equal(t, 81, ev.SessionData["第1回"].TotalScore)
}

func TestClassEvaluationZeroSessions(t *testing.T) {
	f := newFakeStore()
	seedClassroom(f)

	svc := NewEvaluationService(f)
	result, err := svc.ClassEvaluation(context.Background(), teacherID, classID)
	require.NoError(t, err)

	ev := result.StudentEvaluations[0]
	assert.Equal(t, 0, result.TotalSessions)
	assert.Zero(t, ev.AttendanceRate)
	assert.Zero(t, ev.AveragePoints)
	assert.Zero(t, ev.TotalPoints)
	assert.Empty(t, ev.SessionData)
}

func TestClassEvaluationUnknownClassroom(t *testing.T) {
	f := newFakeStore()
	svc := NewEvaluationService(f)

	_, err := svc.ClassEvaluation(context.Background(), teacherID, classID)
	assert.ErrorIs(t, err, ErrClassroomNotFound)
}

func TestClassEvaluationSavedSummaryWins(t *testing.T) {
	// A saved summary row overrides the computed attendance rate and
	// contributes both stored class points and attendance points.
	f := newFakeStore()
	s1 := session(1, false, false)
	seedClassroom(f, s1)
	f.lessonPoints[pairKey{s1.ID, studentID}] = 2

	f.classPoints[pairKey{classID, studentID}] = &repository.ClassPointsRecord{
		Points:           10,
		AttendanceRate:   75,
		AttendancePoints: 4,
	}

	svc := NewEvaluationService(f)
	result, err := svc.ClassEvaluation(context.Background(), teacherID, classID)
	require.NoError(t, err)

	ev := result.StudentEvaluations[0]
	assert.InDelta(t, 75.0, ev.AttendanceRate, 0.001)
	assert.Equal(t, 4, ev.AttendancePoints)
	// legacy correction: stored 10 >= 4, so saved class points become 6.
	// class points = 6 + (2-0)*2 + 0 = 10; total = 4 + 10*2 = 24
	assert.Equal(t, 10, ev.ClassPoints)
	assert.Equal(t, 24, ev.TotalPoints)
}

func TestClassEvaluationLegacyCorrectionSkippedWhenSmaller(t *testing.T) {
	// Stored points below attendance points are the already corrected
	// shape; no subtraction happens.
	f := newFakeStore()
	s1 := session(1, false, false)
	seedClassroom(f, s1)

	f.classPoints[pairKey{classID, studentID}] = &repository.ClassPointsRecord{
		Points:           3,
		AttendanceRate:   50,
		AttendancePoints: 5,
	}

	svc := NewEvaluationService(f)
	result, err := svc.ClassEvaluation(context.Background(), teacherID, classID)
	require.NoError(t, err)

	ev := result.StudentEvaluations[0]
	// class points = 3 + 0 + 0; total = 5 + 3*2
	assert.Equal(t, 3, ev.ClassPoints)
	assert.Equal(t, 11, ev.TotalPoints)
}

func TestClassEvaluationPlacementPrecedence(t *testing.T) {
	cases := []struct {
		name   string
		first  int
		second int
		want   int
	}{
		{"first place wins", 1, 3, 5},
		{"second place only", 0, 2, 3},
		{"no votes", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeStore()
			s1 := session(1, false, true)
			seedClassroom(f, s1)

			groupID := uuid.New()
			f.groupIDs[pairKey{s1.ID, studentID}] = []uuid.UUID{groupID}
			f.votes[s1.ID] = map[uuid.UUID][2]int{groupID: {tc.first, tc.second}}

			svc := NewEvaluationService(f)
			result, err := svc.ClassEvaluation(context.Background(), teacherID, classID)
			require.NoError(t, err)

			ev := result.StudentEvaluations[0]
			assert.Equal(t, tc.want, ev.SessionData["第1回"].PeerScore)
		})
	}
}

func TestClassEvaluationNoGroupNoPeerScore(t *testing.T) {
	f := newFakeStore()
	s1 := session(1, false, true)
	seedClassroom(f, s1)

	svc := NewEvaluationService(f)
	result, err := svc.ClassEvaluation(context.Background(), teacherID, classID)
	require.NoError(t, err)

	breakdown := result.StudentEvaluations[0].SessionData["第1回"]
	assert.Zero(t, breakdown.PeerScore)
	assert.Empty(t, breakdown.PeerScoreNote)
}

func TestClassEvaluationPeerAverages(t *testing.T) {
	f := newFakeStore()
	s1 := session(1, false, true)
	s2 := session(2, false, false)
	seedClassroom(f, s1, s2)
	f.contribAvgs[s1.ID] = 3.456

	svc := NewEvaluationService(f)
	result, err := svc.ClassEvaluation(context.Background(), teacherID, classID)
	require.NoError(t, err)

	require.NotNil(t, result.SessionPeerAverages[s1.ID])
	assert.InDelta(t, 3.5, *result.SessionPeerAverages[s1.ID], 0.001)
	assert.Nil(t, result.SessionPeerAverages[s2.ID])
}

func TestClassEvaluationIdempotent(t *testing.T) {
	f := newFakeStore()
	s1 := session(1, true, false)
	seedClassroom(f, s1)
	f.lessonPoints[pairKey{s1.ID, studentID}] = 3
	f.quizScores[pairKey{s1.ID, studentID}] = repository.QuizScoreInfo{HasQuiz: true, Scored: true, Score: 60}

	svc := NewEvaluationService(f)
	first, err := svc.ClassEvaluation(context.Background(), teacherID, classID)
	require.NoError(t, err)
	second, err := svc.ClassEvaluation(context.Background(), teacherID, classID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

/* ===== UpdateAttendanceRate ===== */

func validAttendanceRequest() dto.UpdateAttendanceRateRequest {
	sid := studentID
	rate := 80.0
	return dto.UpdateAttendanceRateRequest{
		StudentID:        &sid,
		AttendanceRate:   &rate,
		AttendancePoints: 4,
	}
}

func TestUpdateAttendanceRate(t *testing.T) {
	f := newFakeStore()
	seedClassroom(f)
	f.enrolled[pairKey{classID, studentID}] = true

	svc := NewEvaluationService(f)
	err := svc.UpdateAttendanceRate(context.Background(), teacherID, classID, validAttendanceRequest())
	require.NoError(t, err)

	require.Len(t, f.upserts, 1)
	assert.Equal(t, classID, f.upserts[0].ClassID)
	assert.Equal(t, studentID, f.upserts[0].StudentID)
	assert.InDelta(t, 80.0, f.upserts[0].Rate, 0.001)
	assert.Equal(t, 4, f.upserts[0].Points)
}

func TestUpdateAttendanceRateValidation(t *testing.T) {
	f := newFakeStore()
	seedClassroom(f)
	f.enrolled[pairKey{classID, studentID}] = true
	svc := NewEvaluationService(f)

	t.Run("missing student", func(t *testing.T) {
		req := validAttendanceRequest()
		req.StudentID = nil
		err := svc.UpdateAttendanceRate(context.Background(), teacherID, classID, req)
		assert.True(t, IsValidation(err))
	})

	t.Run("rate out of range", func(t *testing.T) {
		req := validAttendanceRequest()
		rate := 150.0
		req.AttendanceRate = &rate
		err := svc.UpdateAttendanceRate(context.Background(), teacherID, classID, req)
		assert.True(t, IsValidation(err))
	})

	assert.Empty(t, f.upserts, "validation failures must not write")
}

func TestUpdateAttendanceRateAuthorization(t *testing.T) {
	t.Run("unknown classroom", func(t *testing.T) {
		f := newFakeStore()
		svc := NewEvaluationService(f)
		err := svc.UpdateAttendanceRate(context.Background(), teacherID, classID, validAttendanceRequest())
		assert.ErrorIs(t, err, ErrClassroomNotFound)
	})

	t.Run("not enrolled", func(t *testing.T) {
		f := newFakeStore()
		seedClassroom(f)
		svc := NewEvaluationService(f)
		err := svc.UpdateAttendanceRate(context.Background(), teacherID, classID, validAttendanceRequest())
		assert.ErrorIs(t, err, ErrStudentNotEnrolled)
		assert.Empty(t, f.upserts)
	})
}
