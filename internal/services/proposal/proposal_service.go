package proposal

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

// ProposalService представляет HTTP-слой для предложений обмена.
// Все проверки владения и переходы статусов выполняет exchange.Service,
// здесь только разбор запросов и перевод ошибок в статусы ответов.
type ProposalService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	exchange   *exchange.Service
}

// NewProposalService создает новый экземпляр ProposalService
func NewProposalService(cfg *config.Config, exchangeService *exchange.Service) *ProposalService {
	return &ProposalService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		exchange:   exchangeService,
	}
}

// CreateProposal создает предложение обмена против объявления из URL.
// В теле запроса — объявление отправителя и комментарий.
func (s *ProposalService) CreateProposal(c fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	receiverAdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	var requestData struct {
		SenderAdID string `json:"sender_ad_id"`
		Comment    string `json:"comment"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Error().Err(err).Msg("Ошибка декодирования тела запроса")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.SenderAdID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Укажите объявление для обмена"})
	}

	senderAdID, err := uuid.Parse(requestData.SenderAdID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления отправителя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	p, err := s.exchange.CreateProposal(ctx, actorID, senderAdID, receiverAdID, requestData.Comment)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"proposal": p,
		"message":  "Предложение создано, ждём ответа получателя",
	})
}

// GetMyProposals возвращает страницу предложений текущего пользователя.
// Фильтры: направление (sent/received/all), статус, имена отправителя
// и получателя.
func (s *ProposalService) GetMyProposals(c fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	filter := models.ProposalFilter{
		Type:     c.Query("type", models.ProposalsAll),
		Status:   c.Query("status"),
		Sender:   c.Query("sender"),
		Receiver: c.Query("receiver"),
		Page:     page,
	}
	filter.Normalize()

	ctx, cancel := db.GetContext()
	defer cancel()

	proposals, total, err := db.ListProposals(ctx, actorID, filter)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"proposals": proposals,
		"count":     len(proposals),
		"total":     total,
		"page":      filter.Page,
		"page_size": models.PageSize,
	})
}

// GetProposal возвращает одно предложение. Доступно владельцам
// обоих участвующих объявлений.
func (s *ProposalService) GetProposal(c fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	proposalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	p, err := s.exchange.GetProposal(ctx, actorID, proposalID)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"proposal": p})
}

// UpdateProposalStatus принимает или отклоняет предложение обмена.
// Действие берется из URL: accept или reject.
func (s *ProposalService) UpdateProposalStatus(c fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	proposalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения"})
	}

	action := c.Params("action")

	ctx, cancel := db.GetContext()
	defer cancel()

	p, err := s.exchange.UpdateProposalStatus(ctx, actorID, proposalID, action)
	if err != nil {
		return utils.RespondError(c, err)
	}

	var message string
	switch p.Status {
	case models.ProposalAccepted:
		message = "Обмен успешно выполнен — объявления поменялись владельцами"
	case models.ProposalRejected:
		message = "Предложение обмена отклонено"
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  message,
		"proposal": p,
	})
}
