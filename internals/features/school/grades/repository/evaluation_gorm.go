package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceModel "kelasku_backend/internals/features/school/attendance/model"
)

// GormEvaluationStore is the Postgres-backed EvaluationStore.
type GormEvaluationStore struct {
	DB *gorm.DB
}

func NewGormEvaluationStore(db *gorm.DB) *GormEvaluationStore {
	return &GormEvaluationStore{DB: db}
}

var _ EvaluationStore = (*GormEvaluationStore)(nil)

func (s *GormEvaluationStore) ClassroomForTeacher(ctx context.Context, classID, teacherID uuid.UUID) (*ClassroomInfo, error) {
	var row ClassroomInfo
	err := s.DB.WithContext(ctx).
		Table("class_rooms").
		Select("class_rooms.class_room_id AS id, class_rooms.class_room_name AS name").
		Joins("JOIN class_teachers ON class_teachers.class_teacher_class_room_id = class_rooms.class_room_id").
		Where("class_rooms.class_room_id = ? AND class_teachers.class_teacher_user_id = ? AND class_rooms.class_room_deleted_at IS NULL", classID, teacherID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormEvaluationStore) EnrolledStudents(ctx context.Context, classID uuid.UUID) ([]StudentInfo, error) {
	var rows []StudentInfo
	err := s.DB.WithContext(ctx).
		Table("users").
		Select("users.user_id AS id, COALESCE(users.user_student_number, '') AS student_number, users.user_full_name AS full_name, users.user_points AS points").
		Joins("JOIN class_students ON class_students.class_student_user_id = users.user_id").
		Where("class_students.class_student_class_room_id = ? AND users.user_deleted_at IS NULL", classID).
		Order("users.user_student_number ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *GormEvaluationStore) Sessions(ctx context.Context, classID uuid.UUID) ([]SessionInfo, error) {
	var rows []SessionInfo
	err := s.DB.WithContext(ctx).
		Table("lesson_sessions").
		Select("lesson_session_id AS id, lesson_session_number AS number, lesson_session_date AS date, lesson_session_has_quiz AS has_quiz, lesson_session_has_peer_evaluation AS has_peer_evaluation").
		Where("lesson_session_class_room_id = ?", classID).
		Order("lesson_session_number ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *GormEvaluationStore) LessonPoints(ctx context.Context, sessionID, studentID uuid.UUID) (int, bool, error) {
	var row attendanceModel.StudentLessonPointsModel
	err := s.DB.WithContext(ctx).
		Where("student_lesson_point_lesson_session_id = ? AND student_lesson_point_student_id = ?", sessionID, studentID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return row.Points, true, nil
}

func (s *GormEvaluationStore) QuizScore(ctx context.Context, sessionID, studentID uuid.UUID) (QuizScoreInfo, error) {
	var quizID uuid.UUID
	err := s.DB.WithContext(ctx).
		Table("quizzes").
		Select("quiz_id").
		Where("quiz_lesson_session_id = ?", sessionID).
		Order("quiz_created_at ASC, quiz_id ASC"). // deterministic pick when a session has several
		Limit(1).
		Scan(&quizID).Error
	if err != nil {
		return QuizScoreInfo{}, err
	}
	if quizID == uuid.Nil {
		return QuizScoreInfo{}, nil
	}

	var score int
	err = s.DB.WithContext(ctx).
		Table("quiz_scores").
		Select("quiz_score_value").
		Where("quiz_score_quiz_id = ? AND quiz_score_student_id = ? AND quiz_score_is_cancelled = FALSE", quizID, studentID).
		Take(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return QuizScoreInfo{HasQuiz: true}, nil
	}
	if err != nil {
		return QuizScoreInfo{HasQuiz: true}, err
	}
	return QuizScoreInfo{HasQuiz: true, Scored: true, Score: score}, nil
}

func (s *GormEvaluationStore) StudentGroupIDs(ctx context.Context, sessionID, studentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.DB.WithContext(ctx).
		Table("groups").
		Select("groups.group_id").
		Joins("JOIN group_members ON group_members.group_member_group_id = groups.group_id").
		Where("groups.group_lesson_session_id = ? AND group_members.group_member_student_id = ?", sessionID, studentID).
		Scan(&ids).Error
	return ids, err
}

func (s *GormEvaluationStore) PlacementVotes(ctx context.Context, sessionID uuid.UUID, groupIDs []uuid.UUID) (int, int, error) {
	if len(groupIDs) == 0 {
		return 0, 0, nil
	}
	var first, second int64
	err := s.DB.WithContext(ctx).
		Table("peer_evaluations").
		Where("peer_evaluation_lesson_session_id = ? AND peer_evaluation_first_place_group_id IN ?", sessionID, groupIDs).
		Count(&first).Error
	if err != nil {
		return 0, 0, err
	}
	err = s.DB.WithContext(ctx).
		Table("peer_evaluations").
		Where("peer_evaluation_lesson_session_id = ? AND peer_evaluation_second_place_group_id IN ?", sessionID, groupIDs).
		Count(&second).Error
	if err != nil {
		return 0, 0, err
	}
	return int(first), int(second), nil
}

func (s *GormEvaluationStore) ContributionAverage(ctx context.Context, sessionID uuid.UUID) (float64, error) {
	var avg float64
	err := s.DB.WithContext(ctx).
		Table("contribution_evaluations").
		Select("COALESCE(AVG(contribution_evaluations.contribution_evaluation_score), 0)").
		Joins("JOIN peer_evaluations ON peer_evaluations.peer_evaluation_id = contribution_evaluations.contribution_evaluation_peer_evaluation_id").
		Where("peer_evaluations.peer_evaluation_lesson_session_id = ?", sessionID).
		Scan(&avg).Error
	return avg, err
}

func (s *GormEvaluationStore) ClassPoints(ctx context.Context, classID, studentID uuid.UUID) (*ClassPointsRecord, error) {
	var row attendanceModel.StudentClassPointsModel
	err := s.DB.WithContext(ctx).
		Where("student_class_point_class_room_id = ? AND student_class_point_student_id = ?", classID, studentID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ClassPointsRecord{
		Points:           row.Points,
		AttendanceRate:   row.AttendanceRate,
		AttendancePoints: row.AttendancePoints,
	}, nil
}

func (s *GormEvaluationStore) ClassLessonPoints(ctx context.Context, classID, studentID uuid.UUID) ([]LessonPointRecord, error) {
	var rows []LessonPointRecord
	err := s.DB.WithContext(ctx).
		Table("student_lesson_points").
		Select("lesson_sessions.lesson_session_number AS session_number, student_lesson_points.student_lesson_point_points AS points").
		Joins("JOIN lesson_sessions ON lesson_sessions.lesson_session_id = student_lesson_points.student_lesson_point_lesson_session_id").
		Where("lesson_sessions.lesson_session_class_room_id = ? AND student_lesson_points.student_lesson_point_student_id = ?", classID, studentID).
		Order("lesson_sessions.lesson_session_number ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *GormEvaluationStore) IsEnrolled(ctx context.Context, classID, studentID uuid.UUID) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Table("class_students").
		Where("class_student_class_room_id = ? AND class_student_user_id = ?", classID, studentID).
		Count(&n).Error
	return n > 0, err
}

func (s *GormEvaluationStore) UpsertAttendance(ctx context.Context, classID, studentID uuid.UUID, rate float64, points int) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row attendanceModel.StudentClassPointsModel
		err := tx.
			Where("student_class_point_class_room_id = ? AND student_class_point_student_id = ?", classID, studentID).
			Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = attendanceModel.StudentClassPointsModel{
				ClassRoomID:      classID,
				StudentID:        studentID,
				Points:           0,
				AttendanceRate:   rate,
				AttendancePoints: points,
			}
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}
		// Partial update: never touch points here.
		return tx.Model(&attendanceModel.StudentClassPointsModel{}).
			Where("student_class_point_id = ?", row.ID).
			Updates(map[string]interface{}{
				"student_class_point_attendance_rate":   rate,
				"student_class_point_attendance_points": points,
			}).Error
	})
}
