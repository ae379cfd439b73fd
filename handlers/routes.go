package handlers

import (
	"github.com/institutsaintjean/evalhub/middleware/authgate"
	"github.com/institutsaintjean/evalhub/server"
	"github.com/institutsaintjean/evalhub/services/token"
	"github.com/institutsaintjean/evalhub/services/user"
	"go.uber.org/fx"
)

type RouteParams struct {
	fx.In

	Server *server.Server
	Tokens *token.Service
	Users  *user.Service

	Auth     *AuthHandler
	Student  *StudentHandler
	Quiz     *QuizHandler
	Academic *AcademicHandler
	Admin    *AdminHandler
	Import   *ImportHandler
}

// RegisterRoutes wires the full HTTP surface. Students get the auth and
// student groups; everything else sits behind the admin gate.
func RegisterRoutes(p RouteParams) {
	requireAuth := authgate.RequireAuth(p.Tokens, p.Users)
	requireAdmin := authgate.RequireAdmin()

	api := p.Server.Group("/api")
	api.Use(authgate.ExtractDeviceInfo(token.ParseDeviceInfo))

	authGroup := api.Group("/auth")
	authGroup.POST("/login", p.Auth.Login)
	authGroup.POST("/register", p.Auth.Register)
	authGroup.POST("/refresh", p.Auth.Refresh)
	authGroup.POST("/logout", p.Auth.Logout, requireAuth)
	authGroup.GET("/me", p.Auth.Me, requireAuth)
	authGroup.GET("/sessions", p.Auth.Sessions, requireAuth)
	authGroup.DELETE("/sessions/:id", p.Auth.RevokeSession, requireAuth)
	authGroup.POST("/admins", p.Auth.CreateAdmin, requireAuth, requireAdmin)

	student := api.Group("/student", requireAuth)
	student.GET("/quizzes", p.Student.AvailableQuizzes)
	student.POST("/submit", p.Student.Submit)
	student.POST("/fcm-token", p.Student.RegisterFCMToken)
	student.PUT("/class", p.Student.UpdateClass)

	admin := api.Group("/admin", requireAuth, requireAdmin)

	admin.POST("/questions", p.Quiz.CreateQuestion)
	admin.GET("/questions", p.Quiz.ListQuestions)
	admin.PUT("/questions/:id", p.Quiz.UpdateQuestion)
	admin.DELETE("/questions/:id", p.Quiz.DeleteQuestion)

	admin.POST("/quizzes", p.Quiz.CreateQuiz)
	admin.GET("/quizzes", p.Quiz.ListQuizzes)
	admin.GET("/quizzes/:id", p.Quiz.GetQuiz)
	admin.DELETE("/quizzes/:id", p.Quiz.DeleteQuiz)
	admin.POST("/quizzes/:id/questions", p.Quiz.AttachQuestions)
	admin.POST("/quizzes/:id/publish", p.Quiz.Publish)
	admin.GET("/quizzes/:id/submissions", p.Quiz.Submissions)

	admin.POST("/academic-years", p.Academic.CreateYear)
	admin.GET("/academic-years", p.Academic.ListYears)
	admin.PUT("/academic-years/:id/current", p.Academic.SetCurrentYear)
	admin.POST("/semesters", p.Academic.CreateSemester)
	admin.GET("/semesters", p.Academic.ListSemesters)
	admin.POST("/classes", p.Academic.CreateClass)
	admin.GET("/classes", p.Academic.ListClasses)
	admin.PUT("/classes/:id", p.Academic.UpdateClass)
	admin.DELETE("/classes/:id", p.Academic.DeleteClass)
	admin.POST("/courses", p.Academic.CreateCourse)
	admin.GET("/courses", p.Academic.ListCourses)
	admin.PUT("/courses/:id", p.Academic.UpdateCourse)
	admin.DELETE("/courses/:id", p.Academic.DeleteCourse)
	admin.GET("/evaluation-types", p.Academic.ListEvaluationTypes)

	admin.GET("/students", p.Admin.ListStudents)
	admin.POST("/students", p.Admin.CreateStudent)
	admin.GET("/students/:id", p.Admin.GetStudent)
	admin.PUT("/students/:id", p.Admin.UpdateStudent)
	admin.DELETE("/students/:id", p.Admin.DeleteStudent)
	admin.POST("/students/:id/reset-password", p.Admin.ResetStudentPassword)

	admin.GET("/stats", p.Admin.GlobalStats)
	admin.GET("/stats/quizzes/:id", p.Admin.QuizStats)
	admin.GET("/stats/courses/:id", p.Admin.CourseStats)

	admin.POST("/analyses", p.Admin.RunAnalysis)
	admin.GET("/analyses", p.Admin.ListAnalyses)
	admin.GET("/analyses/:id", p.Admin.GetAnalysis)

	admin.POST("/emails", p.Admin.SendEmail)
	admin.GET("/emails", p.Admin.ListEmails)

	admin.POST("/import/questions", p.Import.ImportQuestions)
	admin.POST("/import/students", p.Import.ImportStudents)
}
