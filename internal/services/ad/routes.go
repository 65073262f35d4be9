package ad

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/barter-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API объявлений.
// Защищенный /my регистрируется раньше публичного /:id,
// иначе "my" совпадёт с параметром.
func (s *AdService) SetupRoutes(app *fiber.App) {
	auth := middleware.AuthMiddleware(s.jwtService)

	// Публичный список объявлений
	app.Get("/api/ads", s.GetPublicAds)

	// Защищенные маршруты (требуют авторизации)
	app.Post("/api/ads", s.CreateAd, auth)
	app.Get("/api/ads/my", s.GetMyAds, auth)

	// Публичный просмотр одного объявления
	app.Get("/api/ads/:id", s.GetAd)

	app.Put("/api/ads/:id", s.UpdateAd, auth)
	app.Delete("/api/ads/:id", s.DeleteAd, auth)
}
