package utils

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/rajivgeraev/barter-api/internal/exchange"
)

// RespondError отправляет доменную ошибку клиенту. Ответ всегда называет
// нарушенное правило; прочие внутренние ошибки логируются и не раскрываются.
func RespondError(c fiber.Ctx, err error) error {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("Внутренняя ошибка")
		if errors.Is(err, exchange.ErrTransaction) {
			// Неудачу обмена сообщаем явно: клиент не должен повторять
			// запрос вслепую
			return c.Status(status).JSON(fiber.Map{"error": exchange.ErrTransaction.Error()})
		}
		return c.Status(status).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
