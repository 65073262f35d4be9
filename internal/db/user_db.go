package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rajivgeraev/barter-api/internal/models"
)

// ErrUserExists — пользователь с таким именем уже зарегистрирован
var ErrUserExists = errors.New("пользователь с таким именем уже существует")

// ErrUserNotFound — пользователь не найден
var ErrUserNotFound = errors.New("пользователь не найден")

// uniqueViolation — код ошибки PostgreSQL для нарушения уникальности
const uniqueViolation = "23505"

// CreateUser регистрирует нового пользователя с паролем
func CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	var user models.User
	user.Username = username
	user.PasswordHash = passwordHash

	err := Pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, username, passwordHash).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	return &user, nil
}

// GetUserByID получает пользователя по ID
func GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return scanUser(Pool.QueryRow(ctx, `
		SELECT id, username, password_hash, first_name, last_name, avatar_url, telegram_id, created_at
		FROM users WHERE id = $1
	`, userID))
}

// GetUserByUsername получает пользователя по имени
func GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(Pool.QueryRow(ctx, `
		SELECT id, username, password_hash, first_name, last_name, avatar_url, telegram_id, created_at
		FROM users WHERE username = $1
	`, username))
}

// CreateOrUpdateTelegramUser создает пользователя по данным Telegram Mini App
// или обновляет профиль существующего
func CreateOrUpdateTelegramUser(ctx context.Context, telegramID int64, username, firstName, lastName, photoURL string) (*models.User, error) {
	tx, err := Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id FROM users WHERE telegram_id = $1
	`, telegramID).Scan(&userID)

	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("ошибка при поиске пользователя Telegram: %w", err)
	}

	if err == pgx.ErrNoRows {
		// У Telegram-пользователя может не быть username, подставляем ID
		if username == "" {
			username = fmt.Sprintf("tg_%d", telegramID)
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO users (username, first_name, last_name, avatar_url, telegram_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, username, firstName, lastName, photoURL, telegramID).Scan(&userID)
		if err != nil {
			return nil, fmt.Errorf("ошибка при создании пользователя Telegram: %w", err)
		}
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE users
			SET first_name = $1, last_name = $2, avatar_url = $3
			WHERE id = $4
		`, firstName, lastName, photoURL, userID)
		if err != nil {
			return nil, fmt.Errorf("ошибка при обновлении пользователя Telegram: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return GetUserByID(ctx, userID)
}

// scanUser читает строку таблицы users с учетом nullable-полей
func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var passwordHash pgtype.Text
	var telegramID pgtype.Int8

	err := row.Scan(
		&user.ID, &user.Username, &passwordHash,
		&user.FirstName, &user.LastName, &user.AvatarURL,
		&telegramID, &user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	if telegramID.Valid {
		user.TelegramID = telegramID.Int64
	}

	return &user, nil
}
