package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "kelasku_backend/internals/features/school/sessions/dto"
	model "kelasku_backend/internals/features/school/sessions/model"
	helper "kelasku_backend/internals/helpers"
)

const dateLayout = "2006-01-02"

type LessonSessionController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewLessonSessionController(db *gorm.DB) *LessonSessionController {
	return &LessonSessionController{DB: db, Validator: validator.New()}
}

func mapSessionToResponse(m *model.LessonSessionModel) dto.SessionResponse {
	return dto.SessionResponse{
		ID:                   m.ID,
		ClassRoomID:          m.ClassRoomID,
		SessionNumber:        m.SessionNumber,
		Label:                fmt.Sprintf("第%d回", m.SessionNumber),
		Date:                 m.Date.Format(dateLayout),
		Topic:                m.Topic,
		HasQuiz:              m.HasQuiz,
		HasPeerEvaluation:    m.HasPeerEvaluation,
		PeerEvaluationClosed: m.PeerEvaluationClosed,
		CreatedAt:            m.CreatedAt,
	}
}

func (ctl *LessonSessionController) classForTeacher(c *fiber.Ctx, classID, teacherID uuid.UUID) error {
	var n int64
	err := ctl.DB.WithContext(c.UserContext()).
		Table("class_teachers").
		Where("class_teacher_class_room_id = ? AND class_teacher_user_id = ?", classID, teacherID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// POST /classes/:class_id/sessions
func (ctl *LessonSessionController) Create(c *fiber.Ctx) error {
	classID, err := uuid.Parse(strings.TrimSpace(c.Params("class_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if err := ctl.classForTeacher(c, classID, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Classroom not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date")
	}

	row := model.LessonSessionModel{
		ClassRoomID: classID,
		Date:        date,
		Topic:       strings.TrimSpace(req.Topic),
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if req.SessionNumber != nil {
			row.SessionNumber = *req.SessionNumber
		} else {
			var maxNumber int
			if err := tx.Model(&model.LessonSessionModel{}).
				Where("lesson_session_class_room_id = ?", classID).
				Select("COALESCE(MAX(lesson_session_number), 0)").
				Scan(&maxNumber).Error; err != nil {
				return err
			}
			row.SessionNumber = maxNumber + 1
		}

		var n int64
		if err := tx.Model(&model.LessonSessionModel{}).
			Where("lesson_session_class_room_id = ? AND lesson_session_number = ?", classID, row.SessionNumber).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusConflict, "Session number already used")
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Lesson session created", mapSessionToResponse(&row))
}

// GET /classes/:class_id/sessions
func (ctl *LessonSessionController) List(c *fiber.Ctx) error {
	classID, err := uuid.Parse(strings.TrimSpace(c.Params("class_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if err := ctl.classForTeacher(c, classID, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Classroom not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.LessonSessionModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("lesson_session_class_room_id = ?", classID).
		Order("lesson_session_number ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.SessionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, mapSessionToResponse(&rows[i]))
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /sessions/:session_id
func (ctl *LessonSessionController) Detail(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(strings.TrimSpace(c.Params("session_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var sess model.LessonSessionModel
	err = ctl.DB.WithContext(c.UserContext()).
		Joins("JOIN class_teachers ON class_teachers.class_teacher_class_room_id = lesson_sessions.lesson_session_class_room_id").
		Where("lesson_sessions.lesson_session_id = ? AND class_teachers.class_teacher_user_id = ?", sessionID, teacherID).
		First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Lesson session not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	detail := dto.SessionDetailResponse{SessionResponse: mapSessionToResponse(&sess)}

	type countRow struct {
		QuizCount     int
		GroupCount    int
		ScannedCount  int
		EvaluatedBy   int
		TotalStudents int
	}
	var counts countRow
	err = ctl.DB.WithContext(c.UserContext()).Raw(`
		SELECT
			(SELECT COUNT(*) FROM quizzes WHERE quiz_lesson_session_id = @sid) AS quiz_count,
			(SELECT COUNT(*) FROM groups WHERE group_lesson_session_id = @sid) AS group_count,
			(SELECT COUNT(*) FROM student_lesson_points WHERE student_lesson_point_lesson_session_id = @sid AND student_lesson_point_points > 0) AS scanned_count,
			(SELECT COUNT(*) FROM peer_evaluations WHERE peer_evaluation_lesson_session_id = @sid AND peer_evaluation_submitted_at IS NOT NULL) AS evaluated_by,
			(SELECT COUNT(*) FROM class_students WHERE class_student_class_room_id = @cid) AS total_students`,
		map[string]interface{}{"sid": sess.ID, "cid": sess.ClassRoomID}).
		Scan(&counts).Error
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	detail.QuizCount = counts.QuizCount
	detail.GroupCount = counts.GroupCount
	detail.ScannedCount = counts.ScannedCount
	detail.EvaluatedBy = counts.EvaluatedBy
	detail.TotalStudents = counts.TotalStudents

	return helper.JsonOK(c, "ok", detail)
}

// PATCH /sessions/:session_id
func (ctl *LessonSessionController) Update(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(strings.TrimSpace(c.Params("session_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var sess model.LessonSessionModel
	err = ctl.DB.WithContext(c.UserContext()).
		Joins("JOIN class_teachers ON class_teachers.class_teacher_class_room_id = lesson_sessions.lesson_session_class_room_id").
		Where("lesson_sessions.lesson_session_id = ? AND class_teachers.class_teacher_user_id = ?", sessionID, teacherID).
		First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Lesson session not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var req dto.UpdateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date")
		}
		updates["lesson_session_date"] = date
		sess.Date = date
	}
	if req.Topic != nil {
		topic := strings.TrimSpace(*req.Topic)
		updates["lesson_session_topic"] = topic
		sess.Topic = topic
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ctl.DB.WithContext(c.UserContext()).
		Model(&model.LessonSessionModel{}).
		Where("lesson_session_id = ?", sess.ID).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "Lesson session updated", mapSessionToResponse(&sess))
}
