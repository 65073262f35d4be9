package exchange

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/rajivgeraev/barter-api/internal/models"
)

// memStore — хранилище в памяти для тестов машины состояний.
// Повторяет контракт PostgreSQL-реализации, включая compare-and-set
// по статусу при принятии и отклонении.
type memStore struct {
	ads       map[uuid.UUID]*models.Ad
	proposals map[uuid.UUID]*models.Proposal
}

func newMemStore() *memStore {
	return &memStore{
		ads:       make(map[uuid.UUID]*models.Ad),
		proposals: make(map[uuid.UUID]*models.Proposal),
	}
}

func (m *memStore) GetAd(_ context.Context, id uuid.UUID) (*models.Ad, error) {
	ad, ok := m.ads[id]
	if !ok {
		return nil, ErrAdNotFound
	}
	c := *ad
	return &c, nil
}

func (m *memStore) GetProposal(_ context.Context, id uuid.UUID) (*models.Proposal, error) {
	p, ok := m.proposals[id]
	if !ok {
		return nil, ErrProposalNotFound
	}
	c := *p
	senderAd := *m.ads[p.AdSenderID]
	receiverAd := *m.ads[p.AdReceiverID]
	c.SenderAd = &senderAd
	c.ReceiverAd = &receiverAd
	return &c, nil
}

func (m *memStore) CreateProposal(_ context.Context, p *models.Proposal) error {
	stored := *p
	m.proposals[p.ID] = &stored
	return nil
}

func (m *memStore) AcceptProposal(_ context.Context, p *models.Proposal) error {
	stored, ok := m.proposals[p.ID]
	if !ok {
		return ErrProposalNotFound
	}
	if stored.Status != models.ProposalWaiting {
		return ErrAlreadyDecided
	}

	senderAd := m.ads[stored.AdSenderID]
	receiverAd := m.ads[stored.AdReceiverID]
	senderAd.UserID, receiverAd.UserID = receiverAd.UserID, senderAd.UserID
	stored.Status = models.ProposalAccepted

	p.Status = models.ProposalAccepted
	if p.SenderAd != nil {
		p.SenderAd.UserID = senderAd.UserID
	}
	if p.ReceiverAd != nil {
		p.ReceiverAd.UserID = receiverAd.UserID
	}
	return nil
}

func (m *memStore) RejectProposal(_ context.Context, p *models.Proposal) error {
	stored, ok := m.proposals[p.ID]
	if !ok {
		return ErrProposalNotFound
	}
	if stored.Status != models.ProposalWaiting {
		return ErrAlreadyDecided
	}
	stored.Status = models.ProposalRejected
	p.Status = models.ProposalRejected
	return nil
}

// setupExchange создает магазин с Алисой, Бобом и их объявлениями
func setupExchange(t *testing.T) (*Service, *memStore, aliceBob) {
	t.Helper()
	store := newMemStore()

	ab := aliceBob{
		alice: uuid.New(),
		bob:   uuid.New(),
	}
	ab.adA1 = &models.Ad{ID: uuid.New(), UserID: ab.alice, Title: "A1", Category: "Cat1", Condition: models.ConditionNew}
	ab.adB1 = &models.Ad{ID: uuid.New(), UserID: ab.bob, Title: "B1", Category: "Cat2", Condition: models.ConditionUsed}
	store.ads[ab.adA1.ID] = ab.adA1
	store.ads[ab.adB1.ID] = ab.adB1

	return NewService(store), store, ab
}

type aliceBob struct {
	alice uuid.UUID
	bob   uuid.UUID
	adA1  *models.Ad
	adB1  *models.Ad
}

func TestCreateProposal(t *testing.T) {
	svc, store, ab := setupExchange(t)
	ctx := context.Background()

	p, err := svc.CreateProposal(ctx, ab.alice, ab.adA1.ID, ab.adB1.ID, "обменяемся?")
	if err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}
	if p.Status != models.ProposalWaiting {
		t.Errorf("новое предложение должно быть в waiting, получили %s", p.Status)
	}
	if p.AdSenderID != ab.adA1.ID || p.AdReceiverID != ab.adB1.ID {
		t.Error("предложение ссылается не на те объявления")
	}
	if _, ok := store.proposals[p.ID]; !ok {
		t.Error("предложение не сохранено")
	}
}

func TestCreateProposalNotOwner(t *testing.T) {
	svc, store, ab := setupExchange(t)

	// Боб пытается предложить объявление Алисы
	_, err := svc.CreateProposal(context.Background(), ab.bob, ab.adA1.ID, ab.adB1.ID, "")
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("ожидали ErrNotOwner, получили %v", err)
	}
	if len(store.proposals) != 0 {
		t.Error("при ошибке ничего не должно сохраняться")
	}
}

func TestCreateProposalSelfExchange(t *testing.T) {
	svc, store, ab := setupExchange(t)

	// Обе стороны — одно и то же объявление
	_, err := svc.CreateProposal(context.Background(), ab.bob, ab.adB1.ID, ab.adB1.ID, "")
	if !errors.Is(err, ErrSelfExchange) {
		t.Fatalf("ожидали ErrSelfExchange, получили %v", err)
	}
	if len(store.proposals) != 0 {
		t.Error("при ошибке ничего не должно сохраняться")
	}
}

func TestCreateProposalAdNotFound(t *testing.T) {
	svc, _, ab := setupExchange(t)

	_, err := svc.CreateProposal(context.Background(), ab.alice, ab.adA1.ID, uuid.New(), "")
	if !errors.Is(err, ErrAdNotFound) {
		t.Fatalf("ожидали ErrAdNotFound, получили %v", err)
	}
	_, err = svc.CreateProposal(context.Background(), ab.alice, uuid.New(), ab.adB1.ID, "")
	if !errors.Is(err, ErrAdNotFound) {
		t.Fatalf("ожидали ErrAdNotFound, получили %v", err)
	}
}

func TestAcceptSwapsOwners(t *testing.T) {
	svc, store, ab := setupExchange(t)
	ctx := context.Background()

	p, err := svc.CreateProposal(ctx, ab.alice, ab.adA1.ID, ab.adB1.ID, "")
	if err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}

	// Боб — владелец объявления-получателя, он принимает
	updated, err := svc.UpdateProposalStatus(ctx, ab.bob, p.ID, ActionAccept)
	if err != nil {
		t.Fatalf("UpdateProposalStatus(accept): %v", err)
	}
	if updated.Status != models.ProposalAccepted {
		t.Errorf("статус должен стать accepted, получили %s", updated.Status)
	}
	if store.ads[ab.adA1.ID].UserID != ab.bob {
		t.Error("объявление A1 должно перейти Бобу")
	}
	if store.ads[ab.adB1.ID].UserID != ab.alice {
		t.Error("объявление B1 должно перейти Алисе")
	}

	// Повторный ответ любым действием — конфликт, владельцы не меняются
	for _, action := range []string{ActionAccept, ActionReject} {
		_, err = svc.UpdateProposalStatus(ctx, ab.bob, p.ID, action)
		if !errors.Is(err, ErrAlreadyDecided) {
			t.Fatalf("повторный %s: ожидали ErrAlreadyDecided, получили %v", action, err)
		}
	}
	if store.ads[ab.adA1.ID].UserID != ab.bob || store.ads[ab.adB1.ID].UserID != ab.alice {
		t.Error("повторный ответ не должен менять владельцев")
	}
}

func TestRejectKeepsOwners(t *testing.T) {
	svc, store, ab := setupExchange(t)
	ctx := context.Background()

	p, err := svc.CreateProposal(ctx, ab.alice, ab.adA1.ID, ab.adB1.ID, "")
	if err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}

	updated, err := svc.UpdateProposalStatus(ctx, ab.bob, p.ID, ActionReject)
	if err != nil {
		t.Fatalf("UpdateProposalStatus(reject): %v", err)
	}
	if updated.Status != models.ProposalRejected {
		t.Errorf("статус должен стать rejected, получили %s", updated.Status)
	}
	if store.ads[ab.adA1.ID].UserID != ab.alice || store.ads[ab.adB1.ID].UserID != ab.bob {
		t.Error("отклонение не должно менять владельцев")
	}
}

func TestUpdateStatusNotReceiver(t *testing.T) {
	svc, store, ab := setupExchange(t)
	ctx := context.Background()

	p, err := svc.CreateProposal(ctx, ab.alice, ab.adA1.ID, ab.adB1.ID, "")
	if err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}

	// Ни отправитель, ни посторонний не могут ответить
	for _, actor := range []uuid.UUID{ab.alice, uuid.New()} {
		_, err = svc.UpdateProposalStatus(ctx, actor, p.ID, ActionAccept)
		if !errors.Is(err, ErrNotReceiver) {
			t.Fatalf("ожидали ErrNotReceiver, получили %v", err)
		}
	}
	if store.proposals[p.ID].Status != models.ProposalWaiting {
		t.Error("статус не должен меняться при отказе в доступе")
	}
	if store.ads[ab.adA1.ID].UserID != ab.alice || store.ads[ab.adB1.ID].UserID != ab.bob {
		t.Error("владельцы не должны меняться при отказе в доступе")
	}
}

func TestUpdateStatusInvalidAction(t *testing.T) {
	svc, store, ab := setupExchange(t)
	ctx := context.Background()

	p, err := svc.CreateProposal(ctx, ab.alice, ab.adA1.ID, ab.adB1.ID, "")
	if err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}

	_, err = svc.UpdateProposalStatus(ctx, ab.bob, p.ID, "cancel")
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("ожидали ErrInvalidAction, получили %v", err)
	}
	if store.proposals[p.ID].Status != models.ProposalWaiting {
		t.Error("неизвестное действие не должно менять статус")
	}
}

func TestUpdateStatusProposalNotFound(t *testing.T) {
	svc, _, ab := setupExchange(t)

	_, err := svc.UpdateProposalStatus(context.Background(), ab.bob, uuid.New(), ActionAccept)
	if !errors.Is(err, ErrProposalNotFound) {
		t.Fatalf("ожидали ErrProposalNotFound, получили %v", err)
	}
}

func TestGetProposalAccess(t *testing.T) {
	svc, _, ab := setupExchange(t)
	ctx := context.Background()

	p, err := svc.CreateProposal(ctx, ab.alice, ab.adA1.ID, ab.adB1.ID, "")
	if err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}

	for _, actor := range []uuid.UUID{ab.alice, ab.bob} {
		if _, err := svc.GetProposal(ctx, actor, p.ID); err != nil {
			t.Errorf("участник обмена должен видеть предложение: %v", err)
		}
	}
	if _, err := svc.GetProposal(ctx, uuid.New(), p.ID); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("посторонний не должен видеть предложение, получили %v", err)
	}
}

// После принятия одного предложения конкурирующие остаются в waiting:
// автоматической отмены нет, но ответить на них уже нельзя тем же
// получателем, если объявление сменило владельца
func TestCompetingProposalsStayWaiting(t *testing.T) {
	svc, store, ab := setupExchange(t)
	ctx := context.Background()

	// Третий участник со своим объявлением тоже претендует на B1
	carol := uuid.New()
	adC1 := &models.Ad{ID: uuid.New(), UserID: carol, Title: "C1", Category: "Cat3", Condition: models.ConditionUsed}
	store.ads[adC1.ID] = adC1

	p1, err := svc.CreateProposal(ctx, ab.alice, ab.adA1.ID, ab.adB1.ID, "")
	if err != nil {
		t.Fatalf("CreateProposal p1: %v", err)
	}
	p2, err := svc.CreateProposal(ctx, carol, adC1.ID, ab.adB1.ID, "")
	if err != nil {
		t.Fatalf("CreateProposal p2: %v", err)
	}

	if _, err := svc.UpdateProposalStatus(ctx, ab.bob, p1.ID, ActionAccept); err != nil {
		t.Fatalf("accept p1: %v", err)
	}

	// p2 осталось в waiting, отвечает теперь новый владелец B1 — Алиса
	if store.proposals[p2.ID].Status != models.ProposalWaiting {
		t.Error("конкурирующее предложение должно остаться в waiting")
	}
	if _, err := svc.UpdateProposalStatus(ctx, ab.bob, p2.ID, ActionReject); !errors.Is(err, ErrNotReceiver) {
		t.Errorf("Боб больше не владелец B1 и не может отвечать, получили %v", err)
	}
	if _, err := svc.UpdateProposalStatus(ctx, ab.alice, p2.ID, ActionReject); err != nil {
		t.Errorf("новый владелец B1 должен иметь право ответить: %v", err)
	}
}
