package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/barter-api/internal/exchange"
	"github.com/rajivgeraev/barter-api/internal/models"
)

// ExchangeStore реализует exchange.Store поверх PostgreSQL
type ExchangeStore struct{}

// NewExchangeStore создает хранилище обменов
func NewExchangeStore() *ExchangeStore {
	return &ExchangeStore{}
}

// GetAd возвращает объявление или exchange.ErrAdNotFound
func (s *ExchangeStore) GetAd(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	return GetAd(ctx, id)
}

// GetProposal возвращает предложение вместе с обоими объявлениями
// и их владельцами одним запросом
func (s *ExchangeStore) GetProposal(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	row := Pool.QueryRow(ctx, `
		SELECT p.id, p.ad_sender_id, p.ad_receiver_id, p.comment, p.status,
		       p.created_at, p.updated_at,
		       sa.id, sa.user_id, sa.title, sa.description, sa.image_url,
		       sa.category, sa.condition, sa.created_at, sa.updated_at, su.username,
		       ra.id, ra.user_id, ra.title, ra.description, ra.image_url,
		       ra.category, ra.condition, ra.created_at, ra.updated_at, ru.username
		FROM exchange_proposals p
		JOIN ads sa ON sa.id = p.ad_sender_id
		JOIN users su ON su.id = sa.user_id
		JOIN ads ra ON ra.id = p.ad_receiver_id
		JOIN users ru ON ru.id = ra.user_id
		WHERE p.id = $1
	`, id)

	p, err := scanProposal(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, exchange.ErrProposalNotFound
		}
		return nil, fmt.Errorf("ошибка при получении предложения обмена: %w", err)
	}
	return p, nil
}

// CreateProposal сохраняет новое предложение обмена
func (s *ExchangeStore) CreateProposal(ctx context.Context, p *models.Proposal) error {
	err := Pool.QueryRow(ctx, `
		INSERT INTO exchange_proposals (id, ad_sender_id, ad_receiver_id, comment, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, p.ID, p.AdSenderID, p.AdReceiverID, p.Comment, p.Status).
		Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("ошибка при создании предложения обмена: %w", err)
	}
	return nil
}

// AcceptProposal принимает предложение: одной транзакцией меняет владельцев
// обоих объявлений и переводит статус waiting -> accepted. Блокировка строк
// объявлений и compare-and-set по статусу делают операцию безопасной при
// гонке двух одновременных ответов: проигравший получает ErrAlreadyDecided,
// состояние не меняется.
func (s *ExchangeStore) AcceptProposal(ctx context.Context, p *models.Proposal) error {
	tx, err := Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", exchange.ErrTransaction, err)
	}
	defer tx.Rollback(ctx)

	// Блокируем оба объявления и читаем актуальных владельцев.
	// Порядок блокировки по id исключает взаимную блокировку.
	owners := make(map[uuid.UUID]uuid.UUID, 2)
	rows, err := tx.Query(ctx, `
		SELECT id, user_id FROM ads
		WHERE id = $1 OR id = $2
		ORDER BY id
		FOR UPDATE
	`, p.AdSenderID, p.AdReceiverID)
	if err != nil {
		return fmt.Errorf("%w: %v", exchange.ErrTransaction, err)
	}
	for rows.Next() {
		var adID, ownerID uuid.UUID
		if err := rows.Scan(&adID, &ownerID); err != nil {
			rows.Close()
			return fmt.Errorf("%w: %v", exchange.ErrTransaction, err)
		}
		owners[adID] = ownerID
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %v", exchange.ErrTransaction, err)
	}
	if len(owners) != 2 {
		return exchange.ErrAdNotFound
	}

	// Compare-and-set по статусу: второй одновременный ответ не найдет
	// строку в waiting и откатится
	tag, err := tx.Exec(ctx, `
		UPDATE exchange_proposals
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.ProposalAccepted, p.ID, models.ProposalWaiting)
	if err != nil {
		return fmt.Errorf("%w: %v", exchange.ErrTransaction, err)
	}
	if tag.RowsAffected() == 0 {
		return exchange.ErrAlreadyDecided
	}

	senderOwner := owners[p.AdSenderID]
	receiverOwner := owners[p.AdReceiverID]

	// Обмен владельцами: объявление отправителя уходит владельцу
	// получателя и наоборот
	if _, err = tx.Exec(ctx, `
		UPDATE ads SET user_id = $1, updated_at = NOW() WHERE id = $2
	`, receiverOwner, p.AdSenderID); err != nil {
		return fmt.Errorf("%w: %v", exchange.ErrTransaction, err)
	}
	if _, err = tx.Exec(ctx, `
		UPDATE ads SET user_id = $1, updated_at = NOW() WHERE id = $2
	`, senderOwner, p.AdReceiverID); err != nil {
		return fmt.Errorf("%w: %v", exchange.ErrTransaction, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %v", exchange.ErrTransaction, err)
	}

	// Транзакция зафиксирована, отражаем результат в записи
	p.Status = models.ProposalAccepted
	if p.SenderAd != nil {
		p.SenderAd.UserID = receiverOwner
	}
	if p.ReceiverAd != nil {
		p.ReceiverAd.UserID = senderOwner
	}
	return nil
}

// RejectProposal отклоняет предложение: одиночная запись со сверкой статуса
func (s *ExchangeStore) RejectProposal(ctx context.Context, p *models.Proposal) error {
	tag, err := Pool.Exec(ctx, `
		UPDATE exchange_proposals
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.ProposalRejected, p.ID, models.ProposalWaiting)

	if err != nil {
		return fmt.Errorf("ошибка при отклонении предложения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return exchange.ErrAlreadyDecided
	}

	p.Status = models.ProposalRejected
	return nil
}

// ListProposals возвращает страницу предложений, в которых участвует
// пользователь. Направление считается по текущим владельцам объявлений.
// Объявления и имена пользователей загружаются тем же запросом,
// без отдельного запроса на строку.
func ListProposals(ctx context.Context, actorID uuid.UUID, filter models.ProposalFilter) ([]models.Proposal, int, error) {
	query := `
		SELECT p.id, p.ad_sender_id, p.ad_receiver_id, p.comment, p.status,
		       p.created_at, p.updated_at,
		       sa.id, sa.user_id, sa.title, sa.description, sa.image_url,
		       sa.category, sa.condition, sa.created_at, sa.updated_at, su.username,
		       ra.id, ra.user_id, ra.title, ra.description, ra.image_url,
		       ra.category, ra.condition, ra.created_at, ra.updated_at, ru.username,
		       COUNT(*) OVER() AS total
		FROM exchange_proposals p
		JOIN ads sa ON sa.id = p.ad_sender_id
		JOIN users su ON su.id = sa.user_id
		JOIN ads ra ON ra.id = p.ad_receiver_id
		JOIN users ru ON ru.id = ra.user_id
		WHERE CASE $2
		        WHEN 'sent' THEN sa.user_id = $1
		        WHEN 'received' THEN ra.user_id = $1
		        ELSE sa.user_id = $1 OR ra.user_id = $1
		      END
		  AND ($3 = '' OR p.status = $3)
		  AND ($4 = '' OR su.username = $4)
		  AND ($5 = '' OR ru.username = $5)
		ORDER BY p.created_at DESC
		LIMIT $6 OFFSET $7
	`

	rows, err := Pool.Query(ctx, query,
		actorID, filter.Type, filter.Status, filter.Sender, filter.Receiver,
		models.PageSize, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при запросе предложений обмена: %w", err)
	}
	defer rows.Close()

	var proposals []models.Proposal
	var total int
	for rows.Next() {
		p, err := scanProposalRow(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка при сканировании предложения: %w", err)
		}
		proposals = append(proposals, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка при чтении предложений: %w", err)
	}

	return proposals, total, nil
}

// scanProposal читает одну строку предложения с объявлениями
func scanProposal(row pgx.Row) (*models.Proposal, error) {
	var p models.Proposal
	var senderAd, receiverAd models.Ad
	var senderOwner, receiverOwner models.User

	err := row.Scan(
		&p.ID, &p.AdSenderID, &p.AdReceiverID, &p.Comment, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
		&senderAd.ID, &senderAd.UserID, &senderAd.Title, &senderAd.Description, &senderAd.ImageURL,
		&senderAd.Category, &senderAd.Condition, &senderAd.CreatedAt, &senderAd.UpdatedAt, &senderOwner.Username,
		&receiverAd.ID, &receiverAd.UserID, &receiverAd.Title, &receiverAd.Description, &receiverAd.ImageURL,
		&receiverAd.Category, &receiverAd.Condition, &receiverAd.CreatedAt, &receiverAd.UpdatedAt, &receiverOwner.Username,
	)
	if err != nil {
		return nil, err
	}

	senderOwner.ID = senderAd.UserID
	receiverOwner.ID = receiverAd.UserID
	senderAd.Owner = &senderOwner
	receiverAd.Owner = &receiverOwner
	p.SenderAd = &senderAd
	p.ReceiverAd = &receiverAd
	return &p, nil
}

// scanProposalRow читает строку списка предложений вместе с общим числом строк
func scanProposalRow(rows pgx.Rows, total *int) (*models.Proposal, error) {
	var p models.Proposal
	var senderAd, receiverAd models.Ad
	var senderOwner, receiverOwner models.User

	err := rows.Scan(
		&p.ID, &p.AdSenderID, &p.AdReceiverID, &p.Comment, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
		&senderAd.ID, &senderAd.UserID, &senderAd.Title, &senderAd.Description, &senderAd.ImageURL,
		&senderAd.Category, &senderAd.Condition, &senderAd.CreatedAt, &senderAd.UpdatedAt, &senderOwner.Username,
		&receiverAd.ID, &receiverAd.UserID, &receiverAd.Title, &receiverAd.Description, &receiverAd.ImageURL,
		&receiverAd.Category, &receiverAd.Condition, &receiverAd.CreatedAt, &receiverAd.UpdatedAt, &receiverOwner.Username,
		total,
	)
	if err != nil {
		return nil, err
	}

	senderOwner.ID = senderAd.UserID
	receiverOwner.ID = receiverAd.UserID
	senderAd.Owner = &senderOwner
	receiverAd.Owner = &receiverOwner
	p.SenderAd = &senderAd
	p.ReceiverAd = &receiverAd
	return &p, nil
}
