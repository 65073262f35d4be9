package utils

import (
	"errors"
	"net/http"

	"github.com/rajivgeraev/barter-api/internal/exchange"
)

// StatusForError сопоставляет доменную ошибку со статусом HTTP-ответа:
// не найдено / нет прав / конфликт статусов / неверный запрос.
// Используется обоими наборами обработчиков, чтобы правила жили в одном месте.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, exchange.ErrAdNotFound),
		errors.Is(err, exchange.ErrProposalNotFound):
		return http.StatusNotFound
	case errors.Is(err, exchange.ErrNotOwner),
		errors.Is(err, exchange.ErrNotReceiver),
		errors.Is(err, exchange.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, exchange.ErrSelfExchange),
		errors.Is(err, exchange.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, exchange.ErrAlreadyDecided):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
