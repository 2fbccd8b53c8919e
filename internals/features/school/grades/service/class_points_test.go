package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repository "kelasku_backend/internals/features/school/grades/repository"
)

func TestGradeBand(t *testing.T) {
	cases := []struct {
		average float64
		level   string
		color   string
	}{
		{6.0, "excellent", "success"},
		{5.0, "excellent", "success"},
		{4.9, "good", "warning"},
		{3.0, "good", "warning"},
		{2.5, "normal", "info"},
		{1.0, "normal", "info"},
		{0.9, "needs_improvement", "secondary"},
		{0.0, "needs_improvement", "secondary"},
	}
	for _, tc := range cases {
		level, color := GradeBand(tc.average)
		assert.Equal(t, tc.level, level, "average %.1f", tc.average)
		assert.Equal(t, tc.color, color, "average %.1f", tc.average)
	}
}

func TestClassPointsSummary(t *testing.T) {
	f := newFakeStore()
	f.classrooms[pairKey{classID, teacherID}] = &repository.ClassroomInfo{ID: classID, Name: "1-A"}

	alice := repository.StudentInfo{ID: studentID, StudentNumber: "S001", FullName: "Sato Rin", Points: 3}
	bobID := uuid.New()
	bob := repository.StudentInfo{ID: bobID, StudentNumber: "S002", FullName: "Kimura Ken", Points: 9}
	f.students[classID] = []repository.StudentInfo{alice, bob}

	f.classLessonPoints[pairKey{classID, studentID}] = []repository.LessonPointRecord{
		{SessionNumber: 1, Points: 1},
		{SessionNumber: 2, Points: 2},
	}
	f.classLessonPoints[pairKey{classID, bobID}] = []repository.LessonPointRecord{
		{SessionNumber: 1, Points: 6},
	}
	f.classPoints[pairKey{classID, bobID}] = &repository.ClassPointsRecord{Points: 12}

	svc := NewEvaluationService(f)
	summary, err := svc.ClassPointsSummary(context.Background(), teacherID, classID)
	require.NoError(t, err)
	require.Len(t, summary.StudentGrades, 2)

	// Sorted by average descending: Bob (6.0) before Alice (1.5).
	assert.Equal(t, "S002", summary.StudentGrades[0].Student.StudentNumber)
	assert.InDelta(t, 6.0, summary.StudentGrades[0].AveragePoints, 0.001)
	assert.Equal(t, "excellent", summary.StudentGrades[0].GradeLevel)
	require.NotNil(t, summary.StudentGrades[0].ClassPoints)
	assert.Equal(t, 12, *summary.StudentGrades[0].ClassPoints)

	assert.Equal(t, "S001", summary.StudentGrades[1].Student.StudentNumber)
	assert.InDelta(t, 1.5, summary.StudentGrades[1].AveragePoints, 0.001)
	assert.Equal(t, "normal", summary.StudentGrades[1].GradeLevel)
	assert.Nil(t, summary.StudentGrades[1].ClassPoints)

	assert.Equal(t, 2, summary.Stats.TotalStudents)
	assert.InDelta(t, 3.8, summary.Stats.ClassAverage, 0.001) // (6.0+1.5)/2 rounded
	assert.InDelta(t, 6.0, summary.Stats.MaxAverage, 0.001)
	assert.InDelta(t, 1.5, summary.Stats.MinAverage, 0.001)
}

func TestClassPointsSummaryEmptyRoster(t *testing.T) {
	f := newFakeStore()
	f.classrooms[pairKey{classID, teacherID}] = &repository.ClassroomInfo{ID: classID, Name: "1-A"}

	svc := NewEvaluationService(f)
	summary, err := svc.ClassPointsSummary(context.Background(), teacherID, classID)
	require.NoError(t, err)

	assert.Empty(t, summary.StudentGrades)
	assert.Zero(t, summary.Stats.TotalStudents)
	assert.Zero(t, summary.Stats.ClassAverage)
}
