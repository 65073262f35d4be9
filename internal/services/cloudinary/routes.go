package cloudinary

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/barter-api/internal/middleware"
	"github.com/rajivgeraev/barter-api/internal/utils"
)

// SetupRoutes настраивает маршруты для загрузки изображений
func (s *CloudinaryService) SetupRoutes(app *fiber.App) {
	jwtService := utils.NewJWTService(s.cfg.JWTSecret)

	// Маршрут для получения параметров загрузки
	app.Get("/api/upload/params", s.GenerateUploadParams, middleware.AuthMiddleware(jwtService))
}
