package exchange

import (
	"testing"

	"github.com/google/uuid"

	"github.com/rajivgeraev/barter-api/internal/models"
)

func TestCanEditAd(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	ad := &models.Ad{ID: uuid.New(), UserID: owner}

	if !CanEditAd(owner, ad) {
		t.Error("владелец должен иметь право редактировать свое объявление")
	}
	if CanEditAd(stranger, ad) {
		t.Error("чужой пользователь не должен редактировать объявление")
	}
	if CanEditAd(owner, nil) {
		t.Error("nil-объявление нельзя редактировать")
	}
}

func TestCanDeleteAdMatchesEdit(t *testing.T) {
	owner := uuid.New()
	ad := &models.Ad{ID: uuid.New(), UserID: owner}

	if CanDeleteAd(owner, ad) != CanEditAd(owner, ad) {
		t.Error("правила удаления и редактирования должны совпадать")
	}
	if CanDeleteAd(uuid.New(), ad) {
		t.Error("чужой пользователь не должен удалять объявление")
	}
}

func TestCanViewProposal(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	stranger := uuid.New()

	p := &models.Proposal{
		SenderAd:   &models.Ad{UserID: sender},
		ReceiverAd: &models.Ad{UserID: receiver},
	}

	if !CanViewProposal(sender, p) {
		t.Error("отправитель должен видеть предложение")
	}
	if !CanViewProposal(receiver, p) {
		t.Error("получатель должен видеть предложение")
	}
	if CanViewProposal(stranger, p) {
		t.Error("посторонний не должен видеть предложение")
	}
	if CanViewProposal(sender, &models.Proposal{}) {
		t.Error("предложение без объявлений недоступно")
	}
}

func TestCanRespondToProposal(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()

	p := &models.Proposal{
		SenderAd:   &models.Ad{UserID: sender},
		ReceiverAd: &models.Ad{UserID: receiver},
	}

	if !CanRespondToProposal(receiver, p) {
		t.Error("владелец объявления-получателя должен иметь право ответить")
	}
	if CanRespondToProposal(sender, p) {
		t.Error("отправитель не должен отвечать на свое же предложение")
	}
	if CanRespondToProposal(uuid.New(), p) {
		t.Error("посторонний не должен отвечать на предложение")
	}
}
