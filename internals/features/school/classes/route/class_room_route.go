package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "kelasku_backend/internals/features/school/classes/controller"
)

func ClassTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewClassRoomController(db)

	r.Post("/classes", ctrl.Create)
	r.Get("/classes", ctrl.List)
	r.Get("/classes/:class_id", ctrl.Detail)
	r.Patch("/classes/:class_id", ctrl.Update)
	r.Delete("/classes/:class_id", ctrl.Delete)

	r.Get("/classes/:class_id/students", ctrl.Roster)
	r.Post("/classes/:class_id/students", ctrl.Enroll)
	r.Delete("/classes/:class_id/students/:student_id", ctrl.RemoveStudent)
}
