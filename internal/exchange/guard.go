package exchange

import (
	"github.com/google/uuid"

	"github.com/rajivgeraev/barter-api/internal/models"
)

// Предикаты авторизации. Чистые функции без побочных эффектов, вызываются
// перед каждой мутацией. Отказ здесь отличается от "не найдено":
// обработчики отдают 403, а не 404.

// CanEditAd сообщает, может ли пользователь редактировать объявление
func CanEditAd(actorID uuid.UUID, ad *models.Ad) bool {
	return ad != nil && ad.UserID == actorID
}

// CanDeleteAd сообщает, может ли пользователь удалить объявление.
// Правило совпадает с редактированием: только текущий владелец.
func CanDeleteAd(actorID uuid.UUID, ad *models.Ad) bool {
	return CanEditAd(actorID, ad)
}

// CanViewProposal сообщает, может ли пользователь видеть предложение.
// Доступ имеют владельцы обоих объявлений, участвующих в обмене.
// Предложение должно быть загружено вместе с объявлениями.
func CanViewProposal(actorID uuid.UUID, p *models.Proposal) bool {
	if p == nil || p.SenderAd == nil || p.ReceiverAd == nil {
		return false
	}
	return p.SenderAd.UserID == actorID || p.ReceiverAd.UserID == actorID
}

// CanRespondToProposal сообщает, может ли пользователь принять или
// отклонить предложение: только текущий владелец объявления-получателя
func CanRespondToProposal(actorID uuid.UUID, p *models.Proposal) bool {
	if p == nil || p.ReceiverAd == nil {
		return false
	}
	return p.ReceiverAd.UserID == actorID
}
