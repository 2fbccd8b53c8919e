package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	sessionModel "kelasku_backend/internals/features/school/sessions/model"

	dto "kelasku_backend/internals/features/school/quizzes/dto"
	model "kelasku_backend/internals/features/school/quizzes/model"
	service "kelasku_backend/internals/features/school/quizzes/service"
	helper "kelasku_backend/internals/helpers"
)

type QuizController struct {
	DB        *gorm.DB
	Grading   *service.GradingService
	Validator *validator.Validate
}

func NewQuizController(db *gorm.DB, grading *service.GradingService) *QuizController {
	return &QuizController{
		DB:        db,
		Grading:   grading,
		Validator: validator.New(),
	}
}

func mapQuizToResponse(m *model.QuizModel) dto.QuizResponse {
	return dto.QuizResponse{
		ID:              m.ID,
		LessonSessionID: m.LessonSessionID,
		Name:            m.Name,
		MaxScore:        m.MaxScore,
		GradingMethod:   m.GradingMethod,
		QuickButtons:    m.QuickButtons,
		CreatedAt:       m.CreatedAt,
	}
}

// sessionForTeacher loads the lesson session only when the requesting
// teacher owns its classroom.
func (ctl *QuizController) sessionForTeacher(c *fiber.Ctx, sessionID, teacherID uuid.UUID) (*sessionModel.LessonSessionModel, error) {
	var sess sessionModel.LessonSessionModel
	err := ctl.DB.WithContext(c.UserContext()).
		Joins("JOIN class_teachers ON class_teachers.class_teacher_class_room_id = lesson_sessions.lesson_session_class_room_id").
		Where("lesson_sessions.lesson_session_id = ? AND class_teachers.class_teacher_user_id = ?", sessionID, teacherID).
		First(&sess).Error
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// POST /sessions/:session_id/quizzes
func (ctl *QuizController) Create(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(strings.TrimSpace(c.Params("session_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	sess, err := ctl.sessionForTeacher(c, sessionID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Lesson session not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	row := model.QuizModel{
		LessonSessionID: sess.ID,
		Name:            strings.TrimSpace(req.Name),
		MaxScore:        req.MaxScore,
		GradingMethod:   req.GradingMethod,
		QuickButtons:    req.QuickButtons,
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		// Creating a quiz flips the session flag.
		return tx.Model(&sessionModel.LessonSessionModel{}).
			Where("lesson_session_id = ?", sess.ID).
			Update("lesson_session_has_quiz", true).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Quiz created", mapQuizToResponse(&row))
}

// GET /sessions/:session_id/quizzes
func (ctl *QuizController) List(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(strings.TrimSpace(c.Params("session_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if _, err := ctl.sessionForTeacher(c, sessionID, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Lesson session not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.QuizModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("quiz_lesson_session_id = ?", sessionID).
		Order("quiz_created_at ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.QuizResponse, 0, len(rows))
	for i := range rows {
		out = append(out, mapQuizToResponse(&rows[i]))
	}
	return helper.JsonOK(c, "ok", out)
}

// POST /quizzes/:quiz_id/grading
func (ctl *QuizController) SaveScores(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(strings.TrimSpace(c.Params("quiz_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid quiz ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.SaveScoresRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	entries := make([]service.ScoreEntry, 0, len(req.Scores))
	for _, sc := range req.Scores {
		entries = append(entries, service.ScoreEntry{StudentID: sc.StudentID, Score: sc.Score})
	}

	saved, err := ctl.Grading.SaveScores(c.UserContext(), teacherID, quizID, entries)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Quiz not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "Scores saved", fiber.Map{"saved": saved})
}

// GET /quizzes/:quiz_id/results
func (ctl *QuizController) Results(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(strings.TrimSpace(c.Params("quiz_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid quiz ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var quiz model.QuizModel
	err = ctl.DB.WithContext(c.UserContext()).
		Joins("JOIN lesson_sessions ON lesson_sessions.lesson_session_id = quizzes.quiz_lesson_session_id").
		Joins("JOIN class_teachers ON class_teachers.class_teacher_class_room_id = lesson_sessions.lesson_session_class_room_id").
		Where("quizzes.quiz_id = ? AND class_teachers.class_teacher_user_id = ?", quizID, teacherID).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Quiz not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// Roster with the active score of each student, ordered by number.
	type scoreRow struct {
		StudentID     uuid.UUID
		StudentNumber string
		FullName      string
		Score         *int
	}
	var rows []scoreRow
	err = ctl.DB.WithContext(c.UserContext()).
		Table("users").
		Select("users.user_id AS student_id, COALESCE(users.user_student_number, '') AS student_number, users.user_full_name AS full_name, quiz_scores.quiz_score_value AS score").
		Joins("JOIN lesson_sessions ON lesson_sessions.lesson_session_id = ?", quiz.LessonSessionID).
		Joins("JOIN class_students ON class_students.class_student_class_room_id = lesson_sessions.lesson_session_class_room_id AND class_students.class_student_user_id = users.user_id").
		Joins("LEFT JOIN quiz_scores ON quiz_scores.quiz_score_quiz_id = ? AND quiz_scores.quiz_score_student_id = users.user_id AND quiz_scores.quiz_score_is_cancelled = FALSE", quiz.ID).
		Where("users.user_deleted_at IS NULL").
		Order("users.user_student_number ASC").
		Scan(&rows).Error
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	scores := make([]dto.ScoreResponse, 0, len(rows))
	graded := make([]int, 0, len(rows))
	for _, r := range rows {
		resp := dto.ScoreResponse{
			StudentID:     r.StudentID,
			StudentNumber: r.StudentNumber,
			FullName:      r.FullName,
			Score:         r.Score,
			IsGraded:      r.Score != nil,
		}
		if r.Score != nil {
			graded = append(graded, *r.Score)
		}
		scores = append(scores, resp)
	}

	return helper.JsonOK(c, "ok", dto.QuizResultsResponse{
		Quiz:   mapQuizToResponse(&quiz),
		Scores: scores,
		Stats:  service.ComputeStats(graded, len(rows)),
	})
}
