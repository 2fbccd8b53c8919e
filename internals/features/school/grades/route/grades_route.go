package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "kelasku_backend/internals/features/school/grades/controller"
	repository "kelasku_backend/internals/features/school/grades/repository"
	service "kelasku_backend/internals/features/school/grades/service"
)

// GradesTeacherRoutes mounts the grade/evaluation endpoints on the
// authenticated teacher group.
func GradesTeacherRoutes(r fiber.Router, db *gorm.DB) {
	store := repository.NewGormEvaluationStore(db)
	ctrl := controller.NewGradesController(service.NewEvaluationService(store))

	r.Get("/classes/:class_id/evaluation", ctrl.ClassEvaluation)
	r.Get("/classes/:class_id/points", ctrl.ClassPoints)
	r.Post("/classes/:class_id/attendance-rate", ctrl.UpdateAttendanceRate)
}
