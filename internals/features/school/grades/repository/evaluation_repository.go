package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

/* =========================
   Read models
========================= */

type ClassroomInfo struct {
	ID   uuid.UUID `json:"class_room_id"`
	Name string    `json:"class_room_name"`
}

type StudentInfo struct {
	ID            uuid.UUID `json:"student_id"`
	StudentNumber string    `json:"student_number"`
	FullName      string    `json:"full_name"`
	Points        int       `json:"points"` // overall points across classes
}

type SessionInfo struct {
	ID                uuid.UUID `json:"lesson_session_id"`
	Number            int       `json:"session_number"`
	Date              time.Time `json:"date"`
	HasQuiz           bool      `json:"has_quiz"`
	HasPeerEvaluation bool      `json:"has_peer_evaluation"`
}

// QuizScoreInfo resolves the session's quiz (earliest created, then id,
// when more than one exists) and the student's single non-cancelled
// score on it.
type QuizScoreInfo struct {
	HasQuiz bool
	Scored  bool
	Score   int
}

type ClassPointsRecord struct {
	Points           int
	AttendanceRate   float64
	AttendancePoints int
}

type LessonPointRecord struct {
	SessionNumber int `json:"session_number"`
	Points        int `json:"points"`
}

/* =========================
   Store interface
========================= */

// EvaluationStore is the data-access boundary of the grade aggregator.
// Every call re-queries the store; the aggregator keeps no state
// between requests.
type EvaluationStore interface {
	// ClassroomForTeacher returns the classroom only when the teacher
	// owns it; (nil, nil) otherwise.
	ClassroomForTeacher(ctx context.Context, classID, teacherID uuid.UUID) (*ClassroomInfo, error)

	// EnrolledStudents returns the roster ordered by student number.
	EnrolledStudents(ctx context.Context, classID uuid.UUID) ([]StudentInfo, error)

	// Sessions returns the classroom's sessions ordered by session number.
	Sessions(ctx context.Context, classID uuid.UUID) ([]SessionInfo, error)

	// LessonPoints returns the stored scan points for the pair and
	// whether a row exists at all.
	LessonPoints(ctx context.Context, sessionID, studentID uuid.UUID) (points int, found bool, err error)

	QuizScore(ctx context.Context, sessionID, studentID uuid.UUID) (QuizScoreInfo, error)

	// StudentGroupIDs lists the session groups the student belongs to.
	StudentGroupIDs(ctx context.Context, sessionID, studentID uuid.UUID) ([]uuid.UUID, error)

	// PlacementVotes counts first/second-place votes any of the given
	// groups received in the session's peer evaluations.
	PlacementVotes(ctx context.Context, sessionID uuid.UUID, groupIDs []uuid.UUID) (first, second int, err error)

	// ContributionAverage averages all contribution scores whose parent
	// peer evaluation belongs to the session; 0 when none exist.
	ContributionAverage(ctx context.Context, sessionID uuid.UUID) (float64, error)

	// ClassPoints returns the stored summary row, or (nil, nil) when
	// none exists yet.
	ClassPoints(ctx context.Context, classID, studentID uuid.UUID) (*ClassPointsRecord, error)

	// ClassLessonPoints returns all lesson-point rows of the student in
	// the classroom, ordered by session number.
	ClassLessonPoints(ctx context.Context, classID, studentID uuid.UUID) ([]LessonPointRecord, error)

	IsEnrolled(ctx context.Context, classID, studentID uuid.UUID) (bool, error)

	// UpsertAttendance creates or updates the summary row, touching
	// only attendance_rate and attendance_points, never points.
	UpsertAttendance(ctx context.Context, classID, studentID uuid.UUID, rate float64, points int) error
}
