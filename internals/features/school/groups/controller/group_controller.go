package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	sessionModel "kelasku_backend/internals/features/school/sessions/model"

	dto "kelasku_backend/internals/features/school/groups/dto"
	model "kelasku_backend/internals/features/school/groups/model"
	helper "kelasku_backend/internals/helpers"
)

type GroupController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewGroupController(db *gorm.DB) *GroupController {
	return &GroupController{DB: db, Validator: validator.New()}
}

func (ctl *GroupController) sessionForTeacher(c *fiber.Ctx, sessionID, teacherID uuid.UUID) (*sessionModel.LessonSessionModel, error) {
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

// PUT /sessions/:session_id/groups
//
// Replaces the session's group layout wholesale. Members must be
// enrolled in the session's classroom and may appear in one group only.
func (ctl *GroupController) Replace(c *fiber.Ctx) error {
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

	var req dto.ReplaceGroupsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	seenNumbers := make(map[int]bool, len(req.Groups))
	seenMembers := make(map[uuid.UUID]bool)
	allMembers := make([]uuid.UUID, 0)
	for _, g := range req.Groups {
		if seenNumbers[g.GroupNumber] {
			return helper.JsonError(c, fiber.StatusBadRequest, "Duplicate group number")
		}
		seenNumbers[g.GroupNumber] = true
		for _, m := range g.MemberIDs {
			if seenMembers[m] {
				return helper.JsonError(c, fiber.StatusBadRequest, "A student can belong to one group only")
			}
			seenMembers[m] = true
			allMembers = append(allMembers, m)
		}
	}

	var enrolled int64
	if err := ctl.DB.WithContext(c.UserContext()).
		Table("class_students").
		Where("class_student_class_room_id = ? AND class_student_user_id IN ?", sess.ClassRoomID, allMembers).
		Count(&enrolled).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if enrolled != int64(len(allMembers)) {
		return helper.JsonError(c, fiber.StatusBadRequest, "All members must be enrolled in the classroom")
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("group_member_group_id IN (SELECT group_id FROM groups WHERE group_lesson_session_id = ?)", sess.ID).
			Delete(&model.GroupMemberModel{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("group_lesson_session_id = ?", sess.ID).
			Delete(&model.GroupModel{}).Error; err != nil {
			return err
		}

		for _, g := range req.Groups {
			row := model.GroupModel{
				LessonSessionID: sess.ID,
				GroupNumber:     g.GroupNumber,
				GroupName:       strings.TrimSpace(g.GroupName),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			for _, m := range g.MemberIDs {
				member := model.GroupMemberModel{GroupID: row.ID, StudentID: m}
				if err := tx.Create(&member).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out, err := ctl.groupsWithMembers(c, sess.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Groups saved", out)
}

// GET /sessions/:session_id/groups
func (ctl *GroupController) List(c *fiber.Ctx) error {
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

	out, err := ctl.groupsWithMembers(c, sessionID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", out)
}

// DELETE /sessions/:session_id/groups
func (ctl *GroupController) Clear(c *fiber.Ctx) error {
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

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("group_member_group_id IN (SELECT group_id FROM groups WHERE group_lesson_session_id = ?)", sess.ID).
			Delete(&model.GroupMemberModel{}).Error; err != nil {
			return err
		}
		return tx.
			Where("group_lesson_session_id = ?", sess.ID).
			Delete(&model.GroupModel{}).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "Groups removed", fiber.Map{"lesson_session_id": sess.ID})
}

func (ctl *GroupController) groupsWithMembers(c *fiber.Ctx, sessionID uuid.UUID) ([]dto.GroupResponse, error) {
	var groups []model.GroupModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("group_lesson_session_id = ?", sessionID).
		Order("group_number ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}

	type memberRow struct {
		GroupID       uuid.UUID
		StudentID     uuid.UUID
		StudentNumber string
		FullName      string
	}
	var members []memberRow
	if err := ctl.DB.WithContext(c.UserContext()).
		Table("group_members").
		Select("group_members.group_member_group_id AS group_id, users.user_id AS student_id, COALESCE(users.user_student_number, '') AS student_number, users.user_full_name AS full_name").
		Joins("JOIN users ON users.user_id = group_members.group_member_student_id").
		Joins("JOIN groups ON groups.group_id = group_members.group_member_group_id").
		Where("groups.group_lesson_session_id = ?", sessionID).
		Order("users.user_student_number ASC").
		Scan(&members).Error; err != nil {
		return nil, err
	}

	byGroup := make(map[uuid.UUID][]dto.GroupMemberResponse, len(groups))
	for _, m := range members {
		byGroup[m.GroupID] = append(byGroup[m.GroupID], dto.GroupMemberResponse{
			StudentID:     m.StudentID,
			StudentNumber: m.StudentNumber,
			FullName:      m.FullName,
		})
	}

	out := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		ms := byGroup[g.ID]
		if ms == nil {
			ms = []dto.GroupMemberResponse{}
		}
		out = append(out, dto.GroupResponse{
			GroupID:     g.ID,
			GroupNumber: g.GroupNumber,
			GroupName:   g.GroupName,
			Members:     ms,
		})
	}
	return out, nil
}
