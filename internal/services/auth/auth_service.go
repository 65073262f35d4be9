package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	initdata "github.com/telegram-mini-apps/init-data-golang"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/barter-api/internal/config"
	"github.com/rajivgeraev/barter-api/internal/db"
	"github.com/rajivgeraev/barter-api/internal/middleware"
	"github.com/rajivgeraev/barter-api/internal/models"
	"github.com/rajivgeraev/barter-api/internal/utils"
)

// AuthService – структура для обработки авторизации
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetJWTService возвращает сервис JWT для middleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// credentials — тело запросов регистрации и входа
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupHandler регистрирует нового пользователя и возвращает JWT
func (s *AuthService) SignupHandler(c fiber.Ctx) error {
	var payload credentials
	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if payload.Username == "" || len(payload.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Проверьте введённые данные: имя обязательно, пароль не короче 6 символов"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("Ошибка хеширования пароля")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := db.CreateUser(ctx, payload.Username, string(hash))
	if err != nil {
		if errors.Is(err, db.ErrUserExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error().Err(err).Msg("Ошибка создания пользователя")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}

	return s.respondWithToken(c, fiber.StatusCreated, user)
}

// LoginHandler проверяет имя и пароль и возвращает JWT
func (s *AuthService) LoginHandler(c fiber.Ctx) error {
	var payload credentials
	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := db.GetUserByUsername(ctx, payload.Username)
	if err != nil || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		// Не различаем "нет пользователя" и "неверный пароль"
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверное имя пользователя или пароль"})
	}

	return s.respondWithToken(c, fiber.StatusOK, user)
}

// TelegramAuthHandler проверяет initData Telegram Mini App,
// создает или обновляет пользователя и возвращает JWT
func (s *AuthService) TelegramAuthHandler(c fiber.Ctx) error {
	if s.cfg.TelegramBotToken == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Вход через Telegram не настроен"})
	}

	var payload struct {
		InitData string `json:"init_data"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	// Проверяем initData
	expiration := 24 * time.Hour
	if err := initdata.Validate(payload.InitData, s.cfg.TelegramBotToken, expiration); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid Telegram data"})
	}

	// Парсим данные
	data, err := initdata.Parse(payload.InitData)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse initData"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := db.CreateOrUpdateTelegramUser(ctx,
		data.User.ID, data.User.Username, data.User.FirstName, data.User.LastName, data.User.PhotoURL)
	if err != nil {
		log.Error().Err(err).Msg("Ошибка создания пользователя Telegram")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}

	return s.respondWithToken(c, fiber.StatusOK, user)
}

// ProfileHandler возвращает профиль текущего пользователя
func (s *AuthService) ProfileHandler(c fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := db.GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error().Err(err).Msg("Ошибка получения профиля")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// respondWithToken генерирует JWT и отдает его вместе с пользователем
func (s *AuthService) respondWithToken(c fiber.Ctx, status int, user *models.User) error {
	jwtToken, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("Ошибка генерации JWT")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate JWT"})
	}

	return c.Status(status).JSON(fiber.Map{
		"token": jwtToken,
		"user":  user,
	})
}
