package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
)

var ErrQuizNotFound = errors.New("quiz not found or not owned by this teacher")

type QuizInfo struct {
	ID       uuid.UUID
	MaxScore int
}

// ScoreStore is the storage boundary of quiz grading. Scores form an
// append-only correction log: a re-grade cancels the active row and
// inserts a fresh one, leaving at most one non-cancelled row per
// (quiz, student).
type ScoreStore interface {
	QuizForTeacher(ctx context.Context, quizID, teacherID uuid.UUID) (*QuizInfo, error)
	CancelActiveScores(ctx context.Context, quizID, studentID uuid.UUID) error
	InsertScore(ctx context.Context, quizID, studentID uuid.UUID, score int, gradedBy uuid.UUID) error

	// Transact runs fn against a transaction-bound view of the store.
	Transact(ctx context.Context, fn func(ScoreStore) error) error
}

type ScoreEntry struct {
	StudentID uuid.UUID
	Score     int
}

type GradingService struct {
	store ScoreStore
}

func NewGradingService(store ScoreStore) *GradingService {
	return &GradingService{store: store}
}

// SaveScores records grading results for a quiz. Entries outside
// [0, max_score] are skipped, matching the grading sheet behavior of
// ignoring invalid cells rather than failing the whole submit. The
// cancel+insert pair runs inside a single transaction.
func (s *GradingService) SaveScores(ctx context.Context, teacherID, quizID uuid.UUID, entries []ScoreEntry) (saved int, err error) {
	quiz, err := s.store.QuizForTeacher(ctx, quizID, teacherID)
	if err != nil {
		return 0, err
	}
	if quiz == nil {
		return 0, ErrQuizNotFound
	}

	err = s.store.Transact(ctx, func(tx ScoreStore) error {
		for _, entry := range entries {
			if entry.Score < 0 || entry.Score > quiz.MaxScore {
				log.Printf("[WARN] score out of range, skipped: quiz=%s student=%s score=%d max=%d", quizID, entry.StudentID, entry.Score, quiz.MaxScore)
				continue
			}
			if err := tx.CancelActiveScores(ctx, quizID, entry.StudentID); err != nil {
				return err
			}
			if err := tx.InsertScore(ctx, quizID, entry.StudentID, entry.Score, teacherID); err != nil {
				return err
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}
