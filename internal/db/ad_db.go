package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/barter-api/internal/exchange"
	"github.com/rajivgeraev/barter-api/internal/models"
)

// CreateAd сохраняет новое объявление
func CreateAd(ctx context.Context, ad *models.Ad) error {
	err := Pool.QueryRow(ctx, `
		INSERT INTO ads (id, user_id, title, description, image_url, category, condition)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, ad.ID, ad.UserID, ad.Title, ad.Description, ad.ImageURL, ad.Category, ad.Condition).
		Scan(&ad.CreatedAt, &ad.UpdatedAt)

	if err != nil {
		return fmt.Errorf("ошибка при создании объявления: %w", err)
	}
	return nil
}

// GetAd возвращает объявление вместе с данными владельца
func GetAd(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	var ad models.Ad
	var owner models.User

	err := Pool.QueryRow(ctx, `
		SELECT a.id, a.user_id, a.title, a.description, a.image_url, a.category,
		       a.condition, a.created_at, a.updated_at,
		       u.id, u.username, u.first_name, u.last_name, u.avatar_url, u.created_at
		FROM ads a
		JOIN users u ON u.id = a.user_id
		WHERE a.id = $1
	`, id).Scan(
		&ad.ID, &ad.UserID, &ad.Title, &ad.Description, &ad.ImageURL, &ad.Category,
		&ad.Condition, &ad.CreatedAt, &ad.UpdatedAt,
		&owner.ID, &owner.Username, &owner.FirstName, &owner.LastName, &owner.AvatarURL, &owner.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, exchange.ErrAdNotFound
		}
		return nil, fmt.Errorf("ошибка при получении объявления: %w", err)
	}

	ad.Owner = &owner
	return &ad, nil
}

// UpdateAd обновляет редактируемые поля объявления.
// Владелец и дата создания не меняются.
func UpdateAd(ctx context.Context, ad *models.Ad) error {
	tag, err := Pool.Exec(ctx, `
		UPDATE ads
		SET title = $1, description = $2, image_url = $3, category = $4,
		    condition = $5, updated_at = NOW()
		WHERE id = $6
	`, ad.Title, ad.Description, ad.ImageURL, ad.Category, ad.Condition, ad.ID)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении объявления: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return exchange.ErrAdNotFound
	}
	return nil
}

// DeleteAd удаляет объявление вместе со всеми предложениями обмена,
// ссылающимися на него с любой стороны. Каскад выполняется одной
// транзакцией.
func DeleteAd(ctx context.Context, id uuid.UUID) error {
	tx, err := Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM exchange_proposals
		WHERE ad_sender_id = $1 OR ad_receiver_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("ошибка при удалении предложений объявления: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка при удалении объявления: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return exchange.ErrAdNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return nil
}

// ListAds возвращает страницу публичного списка объявлений.
// Фильтры: поиск по названию/описанию, категория, состояние.
// Сортировка по дате создания, новые первыми. Вторым значением
// возвращается общее число объявлений под фильтром.
func ListAds(ctx context.Context, filter models.AdFilter) ([]models.Ad, int, error) {
	query := `
		SELECT a.id, a.user_id, a.title, a.description, a.image_url, a.category,
		       a.condition, a.created_at, a.updated_at,
		       u.username,
		       COUNT(*) OVER() AS total
		FROM ads a
		JOIN users u ON u.id = a.user_id
		WHERE ($1 = '' OR a.title ILIKE '%' || $1 || '%' OR a.description ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR a.category = $2)
		  AND ($3 = '' OR a.condition = $3)
		ORDER BY a.created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := Pool.Query(ctx, query,
		filter.Query, filter.Category, filter.Condition, models.PageSize, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при запросе объявлений: %w", err)
	}
	defer rows.Close()

	return collectAds(rows)
}

// ListUserAds возвращает страницу объявлений одного пользователя
func ListUserAds(ctx context.Context, userID uuid.UUID, page int) ([]models.Ad, int, error) {
	if page < 1 {
		page = 1
	}

	rows, err := Pool.Query(ctx, `
		SELECT a.id, a.user_id, a.title, a.description, a.image_url, a.category,
		       a.condition, a.created_at, a.updated_at,
		       u.username,
		       COUNT(*) OVER() AS total
		FROM ads a
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, models.PageSize, (page-1)*models.PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при запросе объявлений пользователя: %w", err)
	}
	defer rows.Close()

	return collectAds(rows)
}

// collectAds читает строки списка объявлений
func collectAds(rows pgx.Rows) ([]models.Ad, int, error) {
	var ads []models.Ad
	var total int

	for rows.Next() {
		var ad models.Ad
		var owner models.User
		if err := rows.Scan(
			&ad.ID, &ad.UserID, &ad.Title, &ad.Description, &ad.ImageURL, &ad.Category,
			&ad.Condition, &ad.CreatedAt, &ad.UpdatedAt,
			&owner.Username, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("ошибка при сканировании объявления: %w", err)
		}
		owner.ID = ad.UserID
		ad.Owner = &owner
		ads = append(ads, ad)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка при чтении объявлений: %w", err)
	}
	return ads, total, nil
}
