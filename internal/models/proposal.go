package models

import (
	"time"

	"github.com/google/uuid"
)

// ProposalStatus описывает статус предложения обмена
type ProposalStatus string

const (
	ProposalWaiting  ProposalStatus = "waiting"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

// IsValid проверяет, что статус входит в закрытый список значений
func (s ProposalStatus) IsValid() bool {
	return s == ProposalWaiting || s == ProposalAccepted || s == ProposalRejected
}

// Terminal сообщает, является ли статус конечным.
// Из конечного статуса переходы запрещены.
func (s ProposalStatus) Terminal() bool {
	return s == ProposalAccepted || s == ProposalRejected
}

// Proposal представляет предложение об обмене двух объявлений
type Proposal struct {
	ID           uuid.UUID      `json:"id"`
	AdSenderID   uuid.UUID      `json:"ad_sender_id"`
	AdReceiverID uuid.UUID      `json:"ad_receiver_id"`
	Comment      string         `json:"comment,omitempty"`
	Status       ProposalStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	// Дополнительные поля для API
	SenderAd   *Ad `json:"sender_ad,omitempty"`
	ReceiverAd *Ad `json:"receiver_ad,omitempty"`
}
