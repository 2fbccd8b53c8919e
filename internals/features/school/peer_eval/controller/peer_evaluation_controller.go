package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	groupModel "kelasku_backend/internals/features/school/groups/model"
	sessionModel "kelasku_backend/internals/features/school/sessions/model"

	dto "kelasku_backend/internals/features/school/peer_eval/dto"
	model "kelasku_backend/internals/features/school/peer_eval/model"
	service "kelasku_backend/internals/features/school/peer_eval/service"
	helper "kelasku_backend/internals/helpers"
)

type PeerEvaluationController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPeerEvaluationController(db *gorm.DB) *PeerEvaluationController {
	return &PeerEvaluationController{DB: db, Validator: validator.New()}
}

func (ctl *PeerEvaluationController) sessionForTeacher(c *fiber.Ctx, sessionID, teacherID uuid.UUID) (*sessionModel.LessonSessionModel, error) {
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

func (ctl *PeerEvaluationController) sessionGroups(c *fiber.Ctx, sessionID uuid.UUID) ([]groupModel.GroupModel, error) {
	var groups []groupModel.GroupModel
	err := ctl.DB.WithContext(c.UserContext()).
		Where("group_lesson_session_id = ?", sessionID).
		Order("group_number ASC").
		Find(&groups).Error
	return groups, err
}

// POST /sessions/:session_id/peer-evaluations/links
//
// Issues one evaluator token per group, skipping groups that already
// have one, and marks the session as peer-evaluated.
func (ctl *PeerEvaluationController) CreateLinks(c *fiber.Ctx) error {
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

	groups, err := ctl.sessionGroups(c, sess.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if len(groups) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "No groups in this session")
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		for i := range groups {
			g := &groups[i]
			var n int64
			if err := tx.Model(&model.PeerEvaluationModel{}).
				Where("peer_evaluation_lesson_session_id = ? AND peer_evaluation_evaluator_group_id = ?", sess.ID, g.ID).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			row := model.PeerEvaluationModel{
				LessonSessionID:  sess.ID,
				EvaluatorToken:   uuid.New(),
				EvaluatorGroupID: &g.ID,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return tx.Model(&sessionModel.LessonSessionModel{}).
			Where("lesson_session_id = ?", sess.ID).
			Update("lesson_session_has_peer_evaluation", true).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	entries, err := ctl.linkEntries(c, sess.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Evaluation links ready", entries)
}

// GET /sessions/:session_id/peer-evaluations/links
func (ctl *PeerEvaluationController) ListLinks(c *fiber.Ctx) error {
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

	entries, err := ctl.linkEntries(c, sessionID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", entries)
}

func (ctl *PeerEvaluationController) linkEntries(c *fiber.Ctx, sessionID uuid.UUID) ([]dto.EvaluationLinkEntry, error) {
	type row struct {
		GroupID     uuid.UUID
		GroupNumber int
		GroupName   string
		Token       uuid.UUID
		SubmittedAt *time.Time
	}
	var rows []row
	err := ctl.DB.WithContext(c.UserContext()).
		Table("peer_evaluations").
		Select(`groups.group_id AS group_id,
			groups.group_number AS group_number,
			groups.group_name AS group_name,
			peer_evaluations.peer_evaluation_evaluator_token AS token,
			peer_evaluations.peer_evaluation_submitted_at AS submitted_at`).
		Joins("JOIN groups ON groups.group_id = peer_evaluations.peer_evaluation_evaluator_group_id").
		Where("peer_evaluations.peer_evaluation_lesson_session_id = ?", sessionID).
		Order("groups.group_number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]dto.EvaluationLinkEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, dto.EvaluationLinkEntry{
			GroupID:     r.GroupID,
			GroupNumber: r.GroupNumber,
			GroupName:   r.GroupName,
			Token:       r.Token,
			Submitted:   r.SubmittedAt != nil,
			SubmittedAt: r.SubmittedAt,
		})
	}
	return entries, nil
}

type setClosedRequest struct {
	Closed *bool `json:"closed" validate:"required"`
}

// PATCH /sessions/:session_id/peer-evaluations/closed
func (ctl *PeerEvaluationController) SetClosed(c *fiber.Ctx) error {
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

	var req setClosedRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if err := ctl.DB.WithContext(c.UserContext()).
		Model(&sessionModel.LessonSessionModel{}).
		Where("lesson_session_id = ?", sess.ID).
		Update("lesson_session_peer_evaluation_closed", *req.Closed).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	msg := "Evaluation reopened"
	if *req.Closed {
		msg = "Evaluation closed"
	}
	return helper.JsonUpdated(c, msg, fiber.Map{"closed": *req.Closed})
}

// GET /sessions/:session_id/peer-evaluations/results
func (ctl *PeerEvaluationController) Results(c *fiber.Ctx) error {
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

	groups, err := ctl.sessionGroups(c, sess.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var submitted []model.PeerEvaluationModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("peer_evaluation_lesson_session_id = ? AND peer_evaluation_submitted_at IS NOT NULL", sess.ID).
		Find(&submitted).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	options := make([]dto.GroupOption, 0, len(groups))
	numberByID := make(map[uuid.UUID]int, len(groups))
	for _, g := range groups {
		options = append(options, dto.GroupOption{GroupID: g.ID, GroupNumber: g.GroupNumber, GroupName: g.GroupName})
		numberByID[g.ID] = g.GroupNumber
	}

	votes := make([]service.Vote, 0, len(submitted))
	comments := make([]dto.EvaluationComment, 0, len(submitted))
	for _, ev := range submitted {
		if ev.FirstPlaceGroupID == nil || ev.SecondPlaceGroupID == nil {
			continue
		}
		votes = append(votes, service.Vote{
			FirstPlaceGroupID:  *ev.FirstPlaceGroupID,
			SecondPlaceGroupID: *ev.SecondPlaceGroupID,
		})
		num := 0
		if ev.EvaluatorGroupID != nil {
			num = numberByID[*ev.EvaluatorGroupID]
		}
		comments = append(comments, dto.EvaluationComment{
			GroupNumber:       num,
			FirstPlaceReason:  ev.FirstPlaceReason,
			SecondPlaceReason: ev.SecondPlaceReason,
			GeneralComment:    ev.GeneralComment,
		})
	}

	return helper.JsonOK(c, "ok", dto.EvaluationResultsResponse{
		SessionID:      sess.ID,
		SessionNumber:  sess.SessionNumber,
		Closed:         sess.PeerEvaluationClosed,
		SubmittedCount: len(votes),
		TotalGroups:    len(groups),
		Groups:         service.BuildGroupStats(options, votes),
		Comments:       comments,
	})
}
