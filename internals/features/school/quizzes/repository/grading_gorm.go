package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "kelasku_backend/internals/features/school/quizzes/model"
	service "kelasku_backend/internals/features/school/quizzes/service"
)

// GormScoreStore is the Postgres-backed service.ScoreStore.
type GormScoreStore struct {
	DB *gorm.DB
}

func NewGormScoreStore(db *gorm.DB) *GormScoreStore {
	return &GormScoreStore{DB: db}
}

var _ service.ScoreStore = (*GormScoreStore)(nil)

func (s *GormScoreStore) QuizForTeacher(ctx context.Context, quizID, teacherID uuid.UUID) (*service.QuizInfo, error) {
	var row struct {
		ID       uuid.UUID
		MaxScore int
	}
	err := s.DB.WithContext(ctx).
		Table("quizzes").
		Select("quizzes.quiz_id AS id, quizzes.quiz_max_score AS max_score").
		Joins("JOIN lesson_sessions ON lesson_sessions.lesson_session_id = quizzes.quiz_lesson_session_id").
		Joins("JOIN class_teachers ON class_teachers.class_teacher_class_room_id = lesson_sessions.lesson_session_class_room_id").
		Where("quizzes.quiz_id = ? AND class_teachers.class_teacher_user_id = ?", quizID, teacherID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &service.QuizInfo{ID: row.ID, MaxScore: row.MaxScore}, nil
}

func (s *GormScoreStore) CancelActiveScores(ctx context.Context, quizID, studentID uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Model(&model.QuizScoreModel{}).
		Where("quiz_score_quiz_id = ? AND quiz_score_student_id = ? AND quiz_score_is_cancelled = FALSE", quizID, studentID).
		Update("quiz_score_is_cancelled", true).Error
}

func (s *GormScoreStore) InsertScore(ctx context.Context, quizID, studentID uuid.UUID, score int, gradedBy uuid.UUID) error {
	return s.DB.WithContext(ctx).Create(&model.QuizScoreModel{
		QuizID:    quizID,
		StudentID: studentID,
		Score:     score,
		GradedBy:  gradedBy,
	}).Error
}

func (s *GormScoreStore) Transact(ctx context.Context, fn func(service.ScoreStore) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormScoreStore{DB: tx})
	})
}
