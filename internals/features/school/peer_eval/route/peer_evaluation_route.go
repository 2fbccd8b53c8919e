package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "kelasku_backend/internals/features/school/peer_eval/controller"
)

func PeerEvaluationTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPeerEvaluationController(db)

	r.Post("/sessions/:session_id/peer-evaluations/links", ctrl.CreateLinks)
	r.Get("/sessions/:session_id/peer-evaluations/links", ctrl.ListLinks)
	r.Patch("/sessions/:session_id/peer-evaluations/closed", ctrl.SetClosed)
	r.Get("/sessions/:session_id/peer-evaluations/results", ctrl.Results)
}

// PeerEvaluationPublicRoutes serves the token form without auth; the
// token itself is the credential.
func PeerEvaluationPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPeerEvaluationController(db)

	r.Get("/peer-evaluations/:token", ctrl.Form)
	r.Post("/peer-evaluations/:token", ctrl.Submit)
}
