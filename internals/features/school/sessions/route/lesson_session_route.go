package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "kelasku_backend/internals/features/school/sessions/controller"
)

func SessionTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewLessonSessionController(db)

	r.Post("/classes/:class_id/sessions", ctrl.Create)
	r.Get("/classes/:class_id/sessions", ctrl.List)
	r.Get("/sessions/:session_id", ctrl.Detail)
	r.Patch("/sessions/:session_id", ctrl.Update)
}
