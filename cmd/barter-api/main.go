package main

import (
	"os"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rajivgeraev/barter-api/internal/config"
	"github.com/rajivgeraev/barter-api/internal/db"
	"github.com/rajivgeraev/barter-api/internal/exchange"
	"github.com/rajivgeraev/barter-api/internal/services/ad"
	"github.com/rajivgeraev/barter-api/internal/services/auth"
	"github.com/rajivgeraev/barter-api/internal/services/cloudinary"
	"github.com/rajivgeraev/barter-api/internal/services/proposal"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	setupLogger(cfg)

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatal().Err(err).Msg("Ошибка при инициализации базы данных")
	}
	defer db.CloseDB()

	ctx, cancel := db.GetContext()
	if err := db.InitSchema(ctx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("Ошибка при создании схемы базы данных")
	}
	cancel()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Barter API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Создаём сервисы. Ядро обменов работает поверх хранилища PostgreSQL.
	exchangeService := exchange.NewService(db.NewExchangeStore())

	authService := auth.NewAuthService(cfg)
	adService := ad.NewAdService(cfg)
	proposalService := proposal.NewProposalService(cfg, exchangeService)
	cloudinaryService := cloudinary.NewCloudinaryService(cfg)

	// Регистрируем маршруты
	authService.SetupRoutes(app)
	adService.SetupRoutes(app)
	proposalService.SetupRoutes(app)
	cloudinaryService.SetupRoutes(app)

	// Запускаем сервер
	log.Info().Str("port", cfg.Port).Msg("Barter API запущен")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Сервер остановлен с ошибкой")
	}
}

// setupLogger настраивает zerolog
func setupLogger(cfg *config.Config) {
	if cfg.AppEnv != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
