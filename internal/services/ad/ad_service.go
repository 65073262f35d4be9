package ad

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rajivgeraev/barter-api/internal/config"
	"github.com/rajivgeraev/barter-api/internal/db"
	"github.com/rajivgeraev/barter-api/internal/exchange"
	"github.com/rajivgeraev/barter-api/internal/middleware"
	"github.com/rajivgeraev/barter-api/internal/models"
	"github.com/rajivgeraev/barter-api/internal/utils"
)

// AdService представляет сервис для работы с объявлениями
type AdService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAdService создает новый экземпляр AdService
func NewAdService(cfg *config.Config) *AdService {
	return &AdService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// adRequest — тело запроса создания/обновления объявления
type adRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
}

// validate проверяет обязательные поля формы объявления
func (r *adRequest) validate() string {
	if r.Title == "" {
		return "Название обязательно"
	}
	if r.Description == "" {
		return "Описание обязательно"
	}
	if r.Category == "" {
		return "Укажите категорию"
	}
	if !models.Condition(r.Condition).IsValid() {
		return "Состояние должно быть new или used"
	}
	return ""
}

// CreateAd обрабатывает создание нового объявления
func (s *AdService) CreateAd(c fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	var requestData adRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Error().Err(err).Msg("Ошибка декодирования тела запроса")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if msg := requestData.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	ad := &models.Ad{
		ID:          uuid.New(),
		UserID:      actorID,
		Title:       requestData.Title,
		Description: requestData.Description,
		ImageURL:    requestData.ImageURL,
		Category:    requestData.Category,
		Condition:   models.Condition(requestData.Condition),
	}

	if err := db.CreateAd(ctx, ad); err != nil {
		return utils.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"ad":      ad,
	})
}

// GetAd возвращает одно объявление. Доступно без авторизации.
func (s *AdService) GetAd(c fiber.Ctx) error {
	adID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	ad, err := db.GetAd(ctx, adID)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"ad": ad})
}

// GetPublicAds возвращает страницу публичного списка объявлений
// с фильтрами по тексту, категории и состоянию
func (s *AdService) GetPublicAds(c fiber.Ctx) error {
	filter := models.AdFilter{
		Query:     c.Query("q"),
		Category:  c.Query("category"),
		Condition: c.Query("condition"),
		Page:      parsePage(c.Query("page", "1")),
	}
	filter.Normalize()

	ctx, cancel := db.GetContext()
	defer cancel()

	ads, total, err := db.ListAds(ctx, filter)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"ads":       ads,
		"count":     len(ads),
		"total":     total,
		"page":      filter.Page,
		"page_size": models.PageSize,
	})
}

// GetMyAds возвращает страницу объявлений текущего пользователя
func (s *AdService) GetMyAds(c fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	page := parsePage(c.Query("page", "1"))

	ctx, cancel := db.GetContext()
	defer cancel()

	ads, total, err := db.ListUserAds(ctx, actorID, page)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"ads":       ads,
		"count":     len(ads),
		"total":     total,
		"page":      page,
		"page_size": models.PageSize,
	})
}

// UpdateAd обновляет объявление. Разрешено только текущему владельцу.
func (s *AdService) UpdateAd(c fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	adID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	var requestData adRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Error().Err(err).Msg("Ошибка декодирования тела запроса")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if msg := requestData.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	ad, err := db.GetAd(ctx, adID)
	if err != nil {
		return utils.RespondError(c, err)
	}

	if !exchange.CanEditAd(actorID, ad) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы не можете редактировать чужое объявление"})
	}

	ad.Title = requestData.Title
	ad.Description = requestData.Description
	ad.ImageURL = requestData.ImageURL
	ad.Category = requestData.Category
	ad.Condition = models.Condition(requestData.Condition)

	if err := db.UpdateAd(ctx, ad); err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"ad":      ad,
	})
}

// DeleteAd удаляет объявление вместе с предложениями обмена на него.
// Разрешено только текущему владельцу.
func (s *AdService) DeleteAd(c fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	adID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	ad, err := db.GetAd(ctx, adID)
	if err != nil {
		return utils.RespondError(c, err)
	}

	if !exchange.CanDeleteAd(actorID, ad) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы не можете удалить чужое объявление"})
	}

	if err := db.DeleteAd(ctx, adID); err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Объявление удалено",
	})
}

// parsePage разбирает номер страницы из строки запроса
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
