package exchange

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/barter-api/internal/models"
)

// Действия над предложением обмена
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// Store описывает хранилище, с которым работает сервис обменов.
// Реализация на PostgreSQL живёт в internal/db, тесты используют
// хранилище в памяти.
type Store interface {
	// GetAd возвращает объявление или ErrAdNotFound
	GetAd(ctx context.Context, id uuid.UUID) (*models.Ad, error)

	// GetProposal возвращает предложение вместе с обоими объявлениями
	// или ErrProposalNotFound
	GetProposal(ctx context.Context, id uuid.UUID) (*models.Proposal, error)

	// CreateProposal сохраняет новое предложение
	CreateProposal(ctx context.Context, p *models.Proposal) error

	// AcceptProposal атомарно переводит предложение из waiting в accepted
	// и меняет владельцев обоих объявлений. Все записи фиксируются одной
	// транзакцией. Если предложение уже не в waiting — ErrAlreadyDecided,
	// состояние не меняется. При успехе обновляет p и его объявления.
	AcceptProposal(ctx context.Context, p *models.Proposal) error

	// RejectProposal переводит предложение из waiting в rejected.
	// Если предложение уже не в waiting — ErrAlreadyDecided.
	RejectProposal(ctx context.Context, p *models.Proposal) error
}

// Service реализует бизнес-правила обмена объявлениями: создание
// предложений и машину состояний waiting -> accepted | rejected.
// Все проверки владения и инварианты живут здесь, обработчики HTTP
// только транслируют ошибки в статусы ответов.
type Service struct {
	store Store
}

// NewService создает новый экземпляр Service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateProposal создает предложение обмена от имени пользователя actorID.
// Проверки выполняются по порядку, первая неудача решает:
//  1. объявление отправителя принадлежит actorID, иначе ErrNotOwner;
//  2. объявления различаются, иначе ErrSelfExchange.
//
// При неудаче ничего не сохраняется.
func (s *Service) CreateProposal(ctx context.Context, actorID, senderAdID, receiverAdID uuid.UUID, comment string) (*models.Proposal, error) {
	receiverAd, err := s.store.GetAd(ctx, receiverAdID)
	if err != nil {
		return nil, err
	}

	senderAd, err := s.store.GetAd(ctx, senderAdID)
	if err != nil {
		return nil, err
	}

	if senderAd.UserID != actorID {
		return nil, ErrNotOwner
	}

	if senderAd.ID == receiverAd.ID {
		return nil, ErrSelfExchange
	}

	now := time.Now()
	p := &models.Proposal{
		ID:           uuid.New(),
		AdSenderID:   senderAd.ID,
		AdReceiverID: receiverAd.ID,
		Comment:      comment,
		Status:       models.ProposalWaiting,
		CreatedAt:    now,
		UpdatedAt:    now,
		SenderAd:     senderAd,
		ReceiverAd:   receiverAd,
	}

	if err := s.store.CreateProposal(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// GetProposal возвращает предложение, если пользователь имеет к нему доступ
func (s *Service) GetProposal(ctx context.Context, actorID, proposalID uuid.UUID) (*models.Proposal, error) {
	p, err := s.store.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	if !CanViewProposal(actorID, p) {
		return nil, ErrNotParticipant
	}

	return p, nil
}

// UpdateProposalStatus принимает или отклоняет предложение обмена.
// Порядок проверок: авторизация, затем текущий статус, затем действие.
// Принятие выполняет атомарный обмен владельцами: оба объявления и статус
// предложения фиксируются одной транзакцией, частичного обмена не бывает.
// Повторный вызов для уже решённого предложения возвращает
// ErrAlreadyDecided и ничего не меняет.
func (s *Service) UpdateProposalStatus(ctx context.Context, actorID, proposalID uuid.UUID, action string) (*models.Proposal, error) {
	p, err := s.store.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	if !CanRespondToProposal(actorID, p) {
		return nil, ErrNotReceiver
	}

	if p.Status != models.ProposalWaiting {
		return nil, ErrAlreadyDecided
	}

	switch action {
	case ActionAccept:
		// Гонку двух одновременных ответов решает CAS внутри хранилища:
		// проигравший получает ErrAlreadyDecided
		if err := s.store.AcceptProposal(ctx, p); err != nil {
			return nil, err
		}
	case ActionReject:
		if err := s.store.RejectProposal(ctx, p); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidAction
	}

	return p, nil
}
