package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "kelasku_backend/internals/features/users/auth/controller"
)

func AuthPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	r.Post("/auth/login", ctrl.Login)
	r.Post("/auth/logout", ctrl.Logout)
}

func AuthPrivateRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	r.Get("/auth/me", ctrl.Me)
	r.Post("/auth/change-password", ctrl.ChangePassword)
}
