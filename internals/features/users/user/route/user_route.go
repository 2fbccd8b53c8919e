package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "kelasku_backend/internals/features/users/user/controller"
)

func StudentTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewStudentController(db)

	r.Post("/students", ctrl.Create)
	r.Get("/students", ctrl.List)
	r.Get("/students/:student_id", ctrl.Detail)
	r.Patch("/students/:student_id", ctrl.Update)
	r.Delete("/students/:student_id", ctrl.Delete)
}
