package proposal

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/barter-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API предложений обмена
func (s *ProposalService) SetupRoutes(app *fiber.App) {
	auth := middleware.AuthMiddleware(s.jwtService)

	// Предложение создается против целевого объявления
	app.Post("/api/ads/:id/proposals", s.CreateProposal, auth)

	api := app.Group("/api/proposals")
	api.Use(auth)

	api.Get("/", s.GetMyProposals)
	api.Get("/:id", s.GetProposal)

	// Принятие или отклонение: action — accept или reject
	api.Post("/:id/:action", s.UpdateProposalStatus)
}
