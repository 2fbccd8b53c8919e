package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "kelasku_backend/internals/features/school/attendance/controller"
	service "kelasku_backend/internals/features/school/attendance/service"
)

func AttendanceTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAttendanceController(db, service.NewScanService(db))

	r.Post("/attendance/scan", ctrl.RecordScan)
	r.Get("/classes/:class_id/qr-codes", ctrl.ClassQRCodes)
}

func AttendanceStudentRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAttendanceController(db, service.NewScanService(db))

	r.Get("/my-qr-code", ctrl.MyQRCode)
}
