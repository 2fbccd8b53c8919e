package service

import (
	"math"

	dto "kelasku_backend/internals/features/school/quizzes/dto"
)

// ComputeStats summarizes the active (non-cancelled) scores of a quiz.
// Returns nil when nothing has been graded yet.
func ComputeStats(scores []int, totalStudents int) *dto.QuizStats {
	if len(scores) == 0 {
		return nil
	}
	sum := 0
	maxScore := scores[0]
	minScore := scores[0]
	for _, sc := range scores {
		sum += sc
		if sc > maxScore {
			maxScore = sc
		}
		if sc < minScore {
			minScore = sc
		}
	}
	avg := math.Round(float64(sum)/float64(len(scores))*10) / 10
	return &dto.QuizStats{
		Count:          len(scores),
		Average:        avg,
		Max:            maxScore,
		Min:            minScore,
		TotalStudents:  totalStudents,
		GradedStudents: len(scores),
	}
}
