package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	sessionModel "kelasku_backend/internals/features/school/sessions/model"

	dto "kelasku_backend/internals/features/school/peer_eval/dto"
	model "kelasku_backend/internals/features/school/peer_eval/model"
	helper "kelasku_backend/internals/helpers"
)

// evaluationByToken resolves a token link to its evaluation row and
// session. Token routes are public, so an unknown token is the only
// authentication failure mode.
func (ctl *PeerEvaluationController) evaluationByToken(c *fiber.Ctx, token uuid.UUID) (*model.PeerEvaluationModel, *sessionModel.LessonSessionModel, error) {
	var ev model.PeerEvaluationModel
	err := ctl.DB.WithContext(c.UserContext()).
		Where("peer_evaluation_evaluator_token = ?", token).
		Take(&ev).Error
	if err != nil {
		return nil, nil, err
	}

	var sess sessionModel.LessonSessionModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("lesson_session_id = ?", ev.LessonSessionID).
		Take(&sess).Error; err != nil {
		return nil, nil, err
	}
	return &ev, &sess, nil
}

// GET /peer-evaluations/:token
func (ctl *PeerEvaluationController) Form(c *fiber.Ctx) error {
	token, err := uuid.Parse(strings.TrimSpace(c.Params("token")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid token")
	}

	ev, sess, err := ctl.evaluationByToken(c, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Evaluation link not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	groups, err := ctl.sessionGroups(c, sess.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := dto.EvaluationFormResponse{
		Token:         token,
		SessionID:     sess.ID,
		SessionNumber: sess.SessionNumber,
		SessionTopic:  sess.Topic,
		Closed:        sess.PeerEvaluationClosed,
		Submitted:     ev.SubmittedAt != nil,
		Candidates:    make([]dto.GroupOption, 0, len(groups)),
	}
	for _, g := range groups {
		opt := dto.GroupOption{GroupID: g.ID, GroupNumber: g.GroupNumber, GroupName: g.GroupName}
		if ev.EvaluatorGroupID != nil && g.ID == *ev.EvaluatorGroupID {
			own := opt
			resp.EvaluatorGroup = &own
			continue // a group never votes for itself
		}
		resp.Candidates = append(resp.Candidates, opt)
	}

	if ev.EvaluatorGroupID != nil {
		var members []dto.MemberOption
		err := ctl.DB.WithContext(c.UserContext()).
			Table("group_members").
			Select("users.user_id AS student_id, COALESCE(users.user_student_number, '') AS student_number, users.user_full_name AS full_name").
			Joins("JOIN users ON users.user_id = group_members.group_member_student_id").
			Where("group_members.group_member_group_id = ?", *ev.EvaluatorGroupID).
			Order("users.user_student_number ASC").
			Scan(&members).Error
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		resp.OwnMembers = members
	}

	return helper.JsonOK(c, "ok", resp)
}

// POST /peer-evaluations/:token
//
// Records or replaces the group's submission. Resubmitting before the
// session closes overwrites the previous answers, contribution scores
// included.
func (ctl *PeerEvaluationController) Submit(c *fiber.Ctx) error {
	token, err := uuid.Parse(strings.TrimSpace(c.Params("token")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid token")
	}

	ev, sess, err := ctl.evaluationByToken(c, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Evaluation link not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if sess.PeerEvaluationClosed {
		return helper.JsonError(c, fiber.StatusForbidden, "Evaluation is closed")
	}

	var req dto.SubmitEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if req.FirstPlaceGroupID == req.SecondPlaceGroupID {
		return helper.JsonError(c, fiber.StatusBadRequest, "First and second place must differ")
	}
	if ev.EvaluatorGroupID != nil &&
		(req.FirstPlaceGroupID == *ev.EvaluatorGroupID || req.SecondPlaceGroupID == *ev.EvaluatorGroupID) {
		return helper.JsonError(c, fiber.StatusBadRequest, "A group cannot vote for itself")
	}

	// Both picks must be groups of this session.
	var n int64
	if err := ctl.DB.WithContext(c.UserContext()).
		Table("groups").
		Where("group_lesson_session_id = ? AND group_id IN ?", sess.ID,
			[]uuid.UUID{req.FirstPlaceGroupID, req.SecondPlaceGroupID}).
		Count(&n).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if n != 2 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Selected groups do not belong to this session")
	}

	now := time.Now()
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.PeerEvaluationModel{}).
			Where("peer_evaluation_id = ?", ev.ID).
			Updates(map[string]interface{}{
				"peer_evaluation_first_place_group_id":  req.FirstPlaceGroupID,
				"peer_evaluation_second_place_group_id": req.SecondPlaceGroupID,
				"peer_evaluation_first_place_reason":    strings.TrimSpace(req.FirstPlaceReason),
				"peer_evaluation_second_place_reason":   strings.TrimSpace(req.SecondPlaceReason),
				"peer_evaluation_general_comment":       strings.TrimSpace(req.GeneralComment),
				"peer_evaluation_submitted_at":          now,
			}).Error; err != nil {
			return err
		}

		if err := tx.
			Where("contribution_evaluation_peer_evaluation_id = ?", ev.ID).
			Delete(&model.ContributionEvaluationModel{}).Error; err != nil {
			return err
		}
		for _, entry := range req.Contributions {
			row := model.ContributionEvaluationModel{
				PeerEvaluationID: ev.ID,
				EvaluateeID:      entry.EvaluateeID,
				Score:            entry.Score,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "Evaluation submitted", fiber.Map{
		"token":        token,
		"submitted_at": now,
	})
}
