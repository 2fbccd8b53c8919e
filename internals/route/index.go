package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	configs "kelasku_backend/internals/configs"
	authmw "kelasku_backend/internals/middlewares/auth"

	attendanceRoute "kelasku_backend/internals/features/school/attendance/route"
	classRoute "kelasku_backend/internals/features/school/classes/route"
	gradesRoute "kelasku_backend/internals/features/school/grades/route"
	groupRoute "kelasku_backend/internals/features/school/groups/route"
	peerEvalRoute "kelasku_backend/internals/features/school/peer_eval/route"
	quizRoute "kelasku_backend/internals/features/school/quizzes/route"
	sessionRoute "kelasku_backend/internals/features/school/sessions/route"
	authRoute "kelasku_backend/internals/features/users/auth/route"
	userRoute "kelasku_backend/internals/features/users/user/route"
)

// SetupRoutes wires every feature under /api. Three surfaces:
//
//	public  — login and the peer-evaluation token form
//	private — any authenticated user
//	teacher — authenticated + teacher/admin role
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	// Public: the evaluator token is the credential for the form.
	authRoute.AuthPublicRoutes(api, db)
	peerEvalRoute.PeerEvaluationPublicRoutes(api, db)

	jwt := authmw.AuthJWT(authmw.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	private := api.Group("", jwt)
	authRoute.AuthPrivateRoutes(private, db)

	student := private.Group("", authmw.RequireStudent())
	attendanceRoute.AttendanceStudentRoutes(student, db)

	teacher := private.Group("", authmw.RequireTeacher())
	userRoute.StudentTeacherRoutes(teacher, db)
	classRoute.ClassTeacherRoutes(teacher, db)
	sessionRoute.SessionTeacherRoutes(teacher, db)
	groupRoute.GroupTeacherRoutes(teacher, db)
	quizRoute.QuizTeacherRoutes(teacher, db)
	peerEvalRoute.PeerEvaluationTeacherRoutes(teacher, db)
	attendanceRoute.AttendanceTeacherRoutes(teacher, db)
	gradesRoute.GradesTeacherRoutes(teacher, db)
}
