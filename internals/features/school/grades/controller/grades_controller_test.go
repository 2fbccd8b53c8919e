package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repository "kelasku_backend/internals/features/school/grades/repository"
	service "kelasku_backend/internals/features/school/grades/service"
	helper "kelasku_backend/internals/helpers"
)

/* ===== Controller-level store fake ===== */

type stubStore struct {
	classroom *repository.ClassroomInfo
	enrolled  bool
	upserts   int
}

func (s *stubStore) ClassroomForTeacher(context.Context, uuid.UUID, uuid.UUID) (*repository.ClassroomInfo, error) {
	return s.classroom, nil
}
func (s *stubStore) EnrolledStudents(context.Context, uuid.UUID) ([]repository.StudentInfo, error) {
	return nil, nil
}
func (s *stubStore) Sessions(context.Context, uuid.UUID) ([]repository.SessionInfo, error) {
	return nil, nil
}
func (s *stubStore) LessonPoints(context.Context, uuid.UUID, uuid.UUID) (int, bool, error) {
	return 0, false, nil
}
func (s *stubStore) QuizScore(context.Context, uuid.UUID, uuid.UUID) (repository.QuizScoreInfo, error) {
	return repository.QuizScoreInfo{}, nil
}
func (s *stubStore) StudentGroupIDs(context.Context, uuid.UUID, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
func (s *stubStore) PlacementVotes(context.Context, uuid.UUID, []uuid.UUID) (int, int, error) {
	return 0, 0, nil
}
func (s *stubStore) ContributionAverage(context.Context, uuid.UUID) (float64, error) {
	return 0, nil
}
func (s *stubStore) ClassPoints(context.Context, uuid.UUID, uuid.UUID) (*repository.ClassPointsRecord, error) {
	return nil, nil
}
func (s *stubStore) ClassLessonPoints(context.Context, uuid.UUID, uuid.UUID) ([]repository.LessonPointRecord, error) {
	return nil, nil
}
func (s *stubStore) IsEnrolled(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return s.enrolled, nil
}
func (s *stubStore) UpsertAttendance(context.Context, uuid.UUID, uuid.UUID, float64, int) error {
	s.upserts++
	return nil
}

func newTestApp(store *stubStore, teacherID uuid.UUID) *fiber.App {
	app := fiber.New()
	// Stand-in for the auth middleware.
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, teacherID.String())
		c.Locals(helper.LocUserRole, "teacher")
		return c.Next()
	})
	ctrl := NewGradesController(service.NewEvaluationService(store))
	app.Post("/classes/:class_id/attendance-rate", ctrl.UpdateAttendanceRate)
	return app
}

func postJSON(t *testing.T, app *fiber.App, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	payload := map[string]any{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &payload))
	return resp, payload
}

func TestUpdateAttendanceRateContract(t *testing.T) {
	teacherID := uuid.New()
	classID := uuid.New()
	studentID := uuid.New()
	url := fmt.Sprintf("/classes/%s/attendance-rate", classID)

	t.Run("success", func(t *testing.T) {
		store := &stubStore{
			classroom: &repository.ClassroomInfo{ID: classID, Name: "1-A"},
			enrolled:  true,
		}
		app := newTestApp(store, teacherID)

		resp, payload := postJSON(t, app, url, fiber.Map{
			"student_id":        studentID,
			"attendance_rate":   85.5,
			"attendance_points": 4,
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, payload["success"])
		assert.Equal(t, "Attendance rate saved", payload["message"])
		assert.NotContains(t, payload, "error")
		assert.Equal(t, 1, store.upserts)
	})

	t.Run("rate out of range", func(t *testing.T) {
		store := &stubStore{
			classroom: &repository.ClassroomInfo{ID: classID, Name: "1-A"},
			enrolled:  true,
		}
		app := newTestApp(store, teacherID)

		resp, payload := postJSON(t, app, url, fiber.Map{
			"student_id":      studentID,
			"attendance_rate": 150,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, false, payload["success"])
		assert.NotEmpty(t, payload["error"])
		assert.NotContains(t, payload, "message")
		assert.Zero(t, store.upserts)
	})

	t.Run("classroom not owned", func(t *testing.T) {
		store := &stubStore{enrolled: true}
		app := newTestApp(store, teacherID)

		resp, payload := postJSON(t, app, url, fiber.Map{
			"student_id":      studentID,
			"attendance_rate": 50,
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, false, payload["success"])
		assert.Equal(t, "Classroom not found", payload["error"])
	})

	t.Run("student not enrolled", func(t *testing.T) {
		store := &stubStore{
			classroom: &repository.ClassroomInfo{ID: classID, Name: "1-A"},
		}
		app := newTestApp(store, teacherID)

		resp, payload := postJSON(t, app, url, fiber.Map{
			"student_id":      studentID,
			"attendance_rate": 50,
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, false, payload["success"])
		assert.Equal(t, "Student is not enrolled in this classroom", payload["error"])
		assert.Zero(t, store.upserts)
	})

	t.Run("invalid class id", func(t *testing.T) {
		store := &stubStore{}
		app := newTestApp(store, teacherID)

		resp, payload := postJSON(t, app, "/classes/not-a-uuid/attendance-rate", fiber.Map{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, false, payload["success"])
	})
}
