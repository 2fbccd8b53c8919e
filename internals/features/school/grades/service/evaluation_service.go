package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"

	dto "kelasku_backend/internals/features/school/grades/dto"
	repository "kelasku_backend/internals/features/school/grades/repository"
)

// ClassPointsMultiplier is the fixed class multiplier applied to the
// non-quiz session base score. Quiz points are never multiplied.
const ClassPointsMultiplier = 2

/* ===== Error taxonomy ===== */

var (
	ErrClassroomNotFound  = errors.New("classroom not found or not owned by this teacher")
	ErrStudentNotEnrolled = errors.New("student is not enrolled in this classroom")
)

// ValidationError reports missing or out-of-range input. No state is
// changed when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

/* ===== Service ===== */

// EvaluationService recomputes all derived metrics from stored rows on
// every call; it holds no cross-request state.
type EvaluationService struct {
	store repository.EvaluationStore
}

func NewEvaluationService(store repository.EvaluationStore) *EvaluationService {
	return &EvaluationService{store: store}
}

// SessionLabel formats the display key of a session ("第N回").
func SessionLabel(number int) string {
	return fmt.Sprintf("第%d回", number)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ClassEvaluation builds the full per-student evaluation table for the
// classroom: per-session breakdowns, totals, multiplier-applied class
// points, and per-session peer-evaluation averages.
func (s *EvaluationService) ClassEvaluation(ctx context.Context, teacherID, classID uuid.UUID) (*dto.ClassEvaluation, error) {
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
	sessions, err := s.store.Sessions(ctx, classID)
	if err != nil {
		return nil, err
	}
	totalSessions := len(sessions)

	evaluations := make([]dto.StudentEvaluation, 0, len(students))
	for _, student := range students {
		ev, err := s.evaluateStudent(ctx, classID, student, sessions, totalSessions)
		if err != nil {
			return nil, err
		}
		evaluations = append(evaluations, ev)
	}

	sessionList := make([]string, 0, totalSessions)
	for _, sess := range sessions {
		sessionList = append(sessionList, SessionLabel(sess.Number))
	}

	peerAverages, err := s.sessionPeerAverages(ctx, sessions)
	if err != nil {
		return nil, err
	}

	return &dto.ClassEvaluation{
		Classroom:           *classroom,
		StudentEvaluations:  evaluations,
		SessionList:         sessionList,
		Sessions:            sessions,
		SessionPeerAverages: peerAverages,
		TotalSessions:       totalSessions,
	}, nil
}

func (s *EvaluationService) evaluateStudent(ctx context.Context, classID uuid.UUID, student repository.StudentInfo, sessions []repository.SessionInfo, totalSessions int) (dto.StudentEvaluation, error) {
	sessionData := make(map[string]dto.SessionBreakdown, len(sessions))
	sessionCount := 0
	totalQRPoints := 0

	for _, sess := range sessions {
		breakdown, err := s.resolveSession(ctx, student.ID, sess)
		if err != nil {
			return dto.StudentEvaluation{}, err
		}
		if breakdown.QRPoints > 0 {
			sessionCount++
		}
		totalQRPoints += breakdown.QRPoints
		sessionData[SessionLabel(sess.Number)] = breakdown
	}

	totalPeerScore := 0
	totalQuizScore := 0
	totalCombinedScore := 0
	for _, data := range sessionData {
		totalPeerScore += data.PeerScore
		totalQuizScore += data.QuizScore
		totalCombinedScore += data.TotalScore
	}

	// Saved summary row wins over the computed attendance rate.
	attendanceRate := 0.0
	savedAttendancePoints := 0
	savedClassPoints := 0
	record, err := s.store.ClassPoints(ctx, classID, student.ID)
	if err != nil {
		return dto.StudentEvaluation{}, err
	}
	if record != nil {
		attendanceRate = record.AttendanceRate
		savedAttendancePoints = record.AttendancePoints
		savedClassPoints = record.Points
		// Legacy shape stored the total; self-heal by removing the
		// attendance share.
		if savedClassPoints >= savedAttendancePoints {
			savedClassPoints -= savedAttendancePoints
		}
	} else if totalSessions > 0 {
		attendanceRate = float64(sessionCount) / float64(totalSessions) * 100
	}

	// Multiplier applies to attendance + peer contributions only; quiz
	// points are added back at face value.
	sessionBaseScore := totalCombinedScore - totalQuizScore
	if sessionBaseScore < 0 {
		sessionBaseScore = 0
	}
	classPointsValue := savedClassPoints + sessionBaseScore*ClassPointsMultiplier + totalQuizScore

	averagePoints := 0.0
	if sessionCount > 0 {
		averagePoints = round1(float64(totalQRPoints) / float64(sessionCount))
	}

	attendancePointsValue := 0
	if savedAttendancePoints > 0 {
		attendancePointsValue = savedAttendancePoints
	}

	// The displayed total multiplies the already multiplied class
	// points a second time. Known compounding carried over from the
	// legacy grade sheet; keep until product says otherwise.
	totalPoints := attendancePointsValue + classPointsValue*ClassPointsMultiplier

	return dto.StudentEvaluation{
		Student:            student,
		TotalPoints:        totalPoints,
		TotalPeerScore:     totalPeerScore,
		TotalQuizScore:     totalQuizScore,
		TotalCombinedScore: totalCombinedScore,
		AttendancePoints:   attendancePointsValue,
		AttendanceRate:     attendanceRate,
		MultipliedPoints:   classPointsValue,
		Multiplier:         ClassPointsMultiplier,
		SessionData:        sessionData,
		SessionCount:       sessionCount,
		AveragePoints:      averagePoints,
		ClassPoints:        classPointsValue,
		StudentPoints:      student.Points,
		QRPoints:           totalQRPoints,
	}, nil
}

// resolveSession resolves the three independent sub-scores of one
// (student, session) pair. A failed quiz or peer lookup is logged and
// substituted with zero so a single bad session cannot abort the whole
// roster row; the substitution reason is kept on the breakdown.
func (s *EvaluationService) resolveSession(ctx context.Context, studentID uuid.UUID, sess repository.SessionInfo) (dto.SessionBreakdown, error) {
	breakdown := dto.SessionBreakdown{
		Date:              sess.Date,
		HasPeerEvaluation: sess.HasPeerEvaluation,
	}

	qrPoints, found, err := s.store.LessonPoints(ctx, sess.ID, studentID)
	if err != nil {
		return dto.SessionBreakdown{}, err
	}
	if found {
		breakdown.QRPoints = qrPoints
	}

	quiz, err := s.store.QuizScore(ctx, sess.ID, studentID)
	if err != nil {
		log.Printf("[WARN] quiz score lookup failed: session=%s student=%s err=%v", sess.ID, studentID, err)
		breakdown.QuizScoreNote = "quiz score lookup failed"
	} else {
		breakdown.HasQuiz = quiz.HasQuiz
		if quiz.Scored {
			breakdown.QuizScore = quiz.Score
		}
	}

	if sess.HasPeerEvaluation {
		peerScore, note := s.resolvePeerScore(ctx, studentID, sess.ID)
		breakdown.PeerScore = peerScore
		breakdown.PeerScoreNote = note
	}

	breakdown.TotalScore = breakdown.QRPoints + breakdown.QuizScore + breakdown.PeerScore
	return breakdown, nil
}

// resolvePeerScore derives the placement score: 5 for any first-place
// vote, else 3 for any second-place vote, else 0. Votes do not stack.
func (s *EvaluationService) resolvePeerScore(ctx context.Context, studentID, sessionID uuid.UUID) (int, string) {
	groupIDs, err := s.store.StudentGroupIDs(ctx, sessionID, studentID)
	if err != nil {
		log.Printf("[WARN] peer score lookup failed: session=%s student=%s err=%v", sessionID, studentID, err)
		return 0, "peer score lookup failed"
	}
	if len(groupIDs) == 0 {
		return 0, ""
	}
	first, second, err := s.store.PlacementVotes(ctx, sessionID, groupIDs)
	if err != nil {
		log.Printf("[WARN] placement vote lookup failed: session=%s student=%s err=%v", sessionID, studentID, err)
		return 0, "peer score lookup failed"
	}
	switch {
	case first > 0:
		return 5, ""
	case second > 0:
		return 3, ""
	default:
		return 0, ""
	}
}

func (s *EvaluationService) sessionPeerAverages(ctx context.Context, sessions []repository.SessionInfo) (map[uuid.UUID]*float64, error) {
	averages := make(map[uuid.UUID]*float64, len(sessions))
	for _, sess := range sessions {
		if !sess.HasPeerEvaluation {
			averages[sess.ID] = nil
			continue
		}
		avg, err := s.store.ContributionAverage(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		rounded := round1(avg)
		averages[sess.ID] = &rounded
	}
	return averages, nil
}

/* ===== Attendance-rate update ===== */

// UpdateAttendanceRate creates or updates the student's class summary
// row, setting only attendance_rate and attendance_points.
func (s *EvaluationService) UpdateAttendanceRate(ctx context.Context, teacherID, classID uuid.UUID, req dto.UpdateAttendanceRateRequest) error {
	if req.StudentID == nil || *req.StudentID == uuid.Nil {
		return &ValidationError{Message: "student_id is required"}
	}
	if req.AttendanceRate == nil {
		return &ValidationError{Message: "attendance_rate is required"}
	}
	if *req.AttendanceRate < 0 || *req.AttendanceRate > 100 {
		return &ValidationError{Message: "attendance_rate must be between 0 and 100"}
	}

	classroom, err := s.store.ClassroomForTeacher(ctx, classID, teacherID)
	if err != nil {
		return err
	}
	if classroom == nil {
		return ErrClassroomNotFound
	}

	enrolled, err := s.store.IsEnrolled(ctx, classID, *req.StudentID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrStudentNotEnrolled
	}

	return s.store.UpsertAttendance(ctx, classID, *req.StudentID, *req.AttendanceRate, req.AttendancePoints)
}
