package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "kelasku_backend/internals/features/school/quizzes/controller"
	repository "kelasku_backend/internals/features/school/quizzes/repository"
	service "kelasku_backend/internals/features/school/quizzes/service"
)

func QuizTeacherRoutes(r fiber.Router, db *gorm.DB) {
	grading := service.NewGradingService(repository.NewGormScoreStore(db))
	ctrl := controller.NewQuizController(db, grading)

	r.Get("/sessions/:session_id/quizzes", ctrl.List)
	r.Post("/sessions/:session_id/quizzes", ctrl.Create)
	r.Post("/quizzes/:quiz_id/grading", ctrl.SaveScores)
	r.Get("/quizzes/:quiz_id/results", ctrl.Results)
}
