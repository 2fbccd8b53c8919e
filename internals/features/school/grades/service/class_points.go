package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	dto "kelasku_backend/internals/features/school/grades/dto"
)

// GradeBand maps an average points figure to a qualitative band.
// Thresholds are fixed: ≥5 excellent, ≥3 good, ≥1 normal, else needs
// improvement.
func GradeBand(average float64) (level, color string) {
	switch {
	case average >= 5:
		return "excellent", "success"
	case average >= 3:
		return "good", "warning"
	case average >= 1:
		return "normal", "info"
	default:
		return "needs_improvement", "secondary"
	}
}

// ClassPointsSummary is the simpler, non-multiplier aggregation used by
// the points page. It is intentionally separate from ClassEvaluation:
// the two serve different pages with different semantics.
func (s *EvaluationService) ClassPointsSummary(ctx context.Context, teacherID, classID uuid.UUID) (*dto.ClassPointsSummary, error) {
	classroom, err := s.store.ClassroomForTeacher(ctx, classID, teacherID)
	if err != nil {
		return nil, err
	}
	if classroom == nil {
		return nil, ErrClassroomNotFound
	}

	students, err := s.store.EnrolledStudents(ctx, classID)
	if err != nil {
		return nil, err
	}

	grades := make([]dto.StudentGrade, 0, len(students))
	for _, student := range students {
		lessonPoints, err := s.store.ClassLessonPoints(ctx, classID, student.ID)
		if err != nil {
			return nil, err
		}

		total := 0
		for _, lp := range lessonPoints {
			total += lp.Points
		}
		sessionCount := len(lessonPoints)
		average := 0.0
		if sessionCount > 0 {
			average = round1(float64(total) / float64(sessionCount))
		}

		level, color := GradeBand(average)

		var classPoints *int
		if record, err := s.store.ClassPoints(ctx, classID, student.ID); err != nil {
			return nil, err
		} else if record != nil {
			p := record.Points
			classPoints = &p
		}

		grades = append(grades, dto.StudentGrade{
			Student:       student,
			TotalPoints:   total,
			AveragePoints: average,
			SessionCount:  sessionCount,
			LessonPoints:  lessonPoints,
			GradeLevel:    level,
			GradeColor:    color,
			OverallPoints: student.Points,
			ClassPoints:   classPoints,
		})
	}

	// Average descending; stable so ties keep the student-number order.
	sort.SliceStable(grades, func(i, j int) bool {
		return grades[i].AveragePoints > grades[j].AveragePoints
	})

	stats := dto.ClassStats{TotalStudents: len(grades)}
	if len(grades) > 0 {
		sum := 0.0
		maxAvg := grades[0].AveragePoints
		minAvg := grades[0].AveragePoints
		for _, g := range grades {
			sum += g.AveragePoints
			if g.AveragePoints > maxAvg {
				maxAvg = g.AveragePoints
			}
			if g.AveragePoints < minAvg {
				minAvg = g.AveragePoints
			}
		}
		stats.ClassAverage = round1(sum / float64(len(grades)))
		stats.MaxAverage = maxAvg
		stats.MinAverage = minAvg
	}

	return &dto.ClassPointsSummary{
		Classroom:     *classroom,
		StudentGrades: grades,
		Stats:         stats,
	}, nil
}
