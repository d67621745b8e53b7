package v1

import (
	"github.com/gofiber/fiber/v2"

	"taskboard/internal/api/v1/handlers"
	"taskboard/internal/middleware"
)

func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Auth
	api.Post("/users", handlers.Register)
	api.Post("/users/auth/login", handlers.Login)
	api.Post("/users/auth/logout", middleware.UseToken, handlers.Logout)
	api.Post("/users/auth/forgot-password", handlers.ForgotPassword)
	api.Post("/users/auth/reset-password/:token", handlers.ResetPassword)

	// User
	userRoutes := api.Group("/users", middleware.UseToken)
	userRoutes.Get("/:id", handlers.GetUser)
	userRoutes.Put("/:id", handlers.UpdateUser)
	userRoutes.Delete("/:id", handlers.DeleteUser)

	// Task
	taskRoutes := api.Group("/tasks", middleware.UseToken)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Put("/:id", handlers.UpdateTask)
	taskRoutes.Delete("/:id", handlers.DeleteTask)
}
