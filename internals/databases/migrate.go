package database

import (
	"log"

	attendanceModel "kelasku_backend/internals/features/school/attendance/model"
	classModel "kelasku_backend/internals/features/school/classes/model"
	groupModel "kelasku_backend/internals/features/school/groups/model"
	peerEvalModel "kelasku_backend/internals/features/school/peer_eval/model"
	quizModel "kelasku_backend/internals/features/school/quizzes/model"
	sessionModel "kelasku_backend/internals/features/school/sessions/model"
	userModel "kelasku_backend/internals/features/users/user/model"
)

// AutoMigrate syncs the schema. Meant for dev and first boot; managed
// environments run SQL migrations instead.
func AutoMigrate() {
	log.Println("🛠  Running AutoMigrate...")
	err := DB.AutoMigrate(
		&userModel.UserModel{},
		&classModel.ClassRoomModel{},
		&classModel.ClassTeacherModel{},
		&classModel.ClassStudentModel{},
		&sessionModel.LessonSessionModel{},
		&quizModel.QuizModel{},
		&quizModel.QuizScoreModel{},
		&groupModel.GroupModel{},
		&groupModel.GroupMemberModel{},
		&peerEvalModel.PeerEvaluationModel{},
		&peerEvalModel.ContributionEvaluationModel{},
		&attendanceModel.StudentQRCodeModel{},
		&attendanceModel.QRCodeScanModel{},
		&attendanceModel.StudentLessonPointsModel{},
		&attendanceModel.StudentClassPointsModel{},
	)
	if err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}
	log.Println("✅ AutoMigrate done.")
}
