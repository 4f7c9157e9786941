package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartedu/smartedu/internal/handlers"
	authmw "github.com/smartedu/smartedu/internal/middleware/auth"
)

type Deps struct {
	Auth     *authmw.Middleware
	Accounts *handlers.AuthHandler
	Teachers *handlers.TeacherHandler
	Students *handlers.StudentHandler
	Subjects *handlers.SubjectHandler
	Schedule *handlers.ScheduleHandler
	Bookings *handlers.BookingHandler
	Payments *handlers.PaymentHandler
	Reviews  *handlers.ReviewHandler
	Parents  *handlers.ParentHandler
	Lessons  *handlers.LessonHandler
	Chats    *handlers.ChatHandler
	Groups   *handlers.GroupHandler
	Search   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	auth := e.Group("/auth")
	auth.POST("/register", d.Accounts.Register)
	auth.POST("/login", d.Accounts.Login)
	auth.POST("/logout", d.Accounts.LogOut, d.Auth.RequireAuth)
	auth.POST("/refresh", d.Accounts.Refresh, d.Auth.RequireAuth)
	auth.GET("/me", d.Accounts.Me, d.Auth.RequireAuth)
	auth.POST("/add-user", d.Accounts.AddUser, d.Auth.RequireAuth, d.Auth.RequireAdmin, d.Auth.RequireRoles("admin"))
	auth.POST("/set-permissions-to-user", d.Accounts.SetPermissionsToUser, d.Auth.RequireAuth, d.Auth.RequireAdmin)
	auth.POST("/add-role", d.Accounts.AddRole)
	auth.POST("/add-permissions-to-role", d.Accounts.AddPermissionsToRole)
	auth.POST("/add-role-to-user", d.Accounts.AddRoleToUser)

	teachers := e.Group("/teachers")
	teachers.POST("/profile", d.Teachers.CreateProfile, d.Auth.RequireAuth)
	teachers.GET("/profile/me", d.Teachers.MyProfile, d.Auth.RequireAuth)
	teachers.PUT("/profile/me", d.Teachers.UpdateMyProfile, d.Auth.RequireAuth)
	teachers.POST("/subjects", d.Teachers.AssignSubject, d.Auth.RequireAuth)
	teachers.GET("", d.Teachers.Search)
	teachers.GET("/search", d.Search.Search)
	teachers.GET("/slots/:teacher_id", d.Teachers.TeacherSlots)
	teachers.GET("/:teacher_id", d.Teachers.GetProfile)

	students := e.Group("/students", d.Auth.RequireAuth)
	students.GET("/profile/me", d.Students.MyProfile)
	students.PUT("/profile/me", d.Students.UpdateMyProfile)

	subjects := e.Group("/subjects")
	subjects.POST("", d.Subjects.Create)
	subjects.GET("", d.Subjects.List)

	schedule := e.Group("/schedule", d.Auth.RequireAuth)
	schedule.POST("/slots", d.Schedule.CreateSlot)
	schedule.GET("/slots/me", d.Schedule.MySlots)
	schedule.DELETE("/slots/:slot_id", d.Schedule.DeleteSlot)

	bookings := e.Group("/bookings", d.Auth.RequireAuth)
	bookings.POST("", d.Bookings.Create)
	bookings.GET("/me", d.Bookings.MyBookings)
	bookings.GET("/:booking_id", d.Bookings.Get)
	bookings.PATCH("/:booking_id/cancel", d.Bookings.Cancel)
	bookings.PATCH("/:booking_id/complete", d.Bookings.Complete)

	payments := e.Group("/payments")
	payments.POST("", d.Payments.Create)
	payments.GET("/me", d.Payments.MyPayments, d.Auth.RequireAuth)
	payments.GET("/:payment_id", d.Payments.Get)
	payments.PATCH("/:payment_id/pay", d.Payments.Pay)
	payments.PATCH("/:payment_id/release", d.Payments.Release)

	reviews := e.Group("/reviews")
	reviews.POST("", d.Reviews.Create, d.Auth.RequireAuth)
	reviews.GET("/teacher/:teacher_id", d.Reviews.TeacherReviews)

	parents := e.Group("/parents", d.Auth.RequireAuth)
	parents.GET("/children/:student_id/bookings", d.Parents.ChildBookings)
	parents.GET("/children/:student_id/reviews", d.Parents.ChildReviews)

	lessons := e.Group("/lessons")
	lessons.POST("", d.Lessons.CreateLesson, d.Auth.RequireAuth)
	lessons.GET("/subject/:subject_id", d.Lessons.SubjectLessons)
	lessons.GET("/:lesson_id", d.Lessons.GetLesson)

	questions := e.Group("/questions")
	questions.POST("", d.Lessons.CreateQuestion, d.Auth.RequireAuth)
	questions.GET("/lesson/:lesson_id", d.Lessons.LessonQuestions)

	answers := e.Group("/answers")
	answers.POST("", d.Lessons.CreateAnswer, d.Auth.RequireAuth)
	answers.GET("/question/:question_id", d.Lessons.QuestionAnswers)

	chats := e.Group("/chats")
	chats.POST("", d.Chats.Create, d.Auth.RequireAuth)
	chats.GET("", d.Chats.MyChats, d.Auth.RequireAuth)
	chats.GET("/:chat_id/messages", d.Chats.Messages, d.Auth.RequireAuth)
	chats.GET("/ws/:chat_id", d.Chats.ServeWS)

	groups := e.Group("/groups", d.Auth.RequireAuth)
	groups.POST("", d.Groups.Create)
	groups.GET("", d.Groups.MyGroups)
	groups.POST("/:group_id/members", d.Groups.AddMember)
	groups.GET("/:group_id/messages", d.Groups.Messages)
}
