package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "kelasku_backend/internals/features/school/groups/controller"
)

func GroupTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewGroupController(db)

	r.Get("/sessions/:session_id/groups", ctrl.List)
	r.Put("/sessions/:session_id/groups", ctrl.Replace)
	r.Delete("/sessions/:session_id/groups", ctrl.Clear)
}
