package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/escolar/internal/app/controllers"
	"github.com/yigit/escolar/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Health     *controllers.HealthController
	Role       *controllers.RoleController
	Student    *controllers.StudentController
	Document   *controllers.DocumentController
	History    *controllers.HistoryController
	Enrollment *controllers.EnrollmentController
	Course     *controllers.CourseController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// Public
	v1.GET("/health", c.Health.Health)
	v1.GET("/ping", c.Health.Ping)

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth(), authMiddleware.ResolveActor())

	// Any resolved role, including pending users
	authenticated.GET("/auth/role", c.Role.GetRole)
	authenticated.POST("/auth/request-admin", c.Role.RequestAdmin)

	admin := authenticated.Group("")
	admin.Use(authMiddleware.AdminRequired())
	{
		students := admin.Group("/students")
		{
			students.GET("", c.Student.ListStudents)
			students.POST("", c.Student.CreateStudent)
			students.POST("/documents", c.Document.UploadDocument)
			students.GET("/history", c.History.ListHistory)
			students.GET("/history/gaps", c.History.ListGaps)
			students.GET("/:id", c.Student.GetStudent)
			students.PUT("/:id", c.Student.UpdateStudent)
			students.DELETE("/:id", c.Student.RemoveStudent)
		}

		enrollments := admin.Group("/enrollments")
		{
			enrollments.POST("", c.Enrollment.AssignEnrollment)
			enrollments.DELETE("", c.Enrollment.RemoveEnrollment)
		}

		courses := admin.Group("/courses")
		{
			courses.GET("", c.Course.ListCourses)
			courses.POST("", c.Course.CreateCourse)
			courses.GET("/:id", c.Course.GetCourse)
			courses.PUT("/:id/preceptor", c.Course.AssignPreceptor)
			courses.GET("/:id/students", c.Course.ListCourseStudents)
		}
	}
}
