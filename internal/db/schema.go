package db

import "context"

// schema содержит все таблицы сервиса. Bootstrap идемпотентен,
// выполняется при каждом запуске.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	avatar_url    TEXT NOT NULL DEFAULT '',
	telegram_id   BIGINT UNIQUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ads (
	id          UUID PRIMARY KEY,
	user_id     UUID NOT NULL REFERENCES users(id),
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	image_url   TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL,
	condition   TEXT NOT NULL CHECK (condition IN ('new', 'used')),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS exchange_proposals (
	id             UUID PRIMARY KEY,
	ad_sender_id   UUID NOT NULL REFERENCES ads(id),
	ad_receiver_id UUID NOT NULL REFERENCES ads(id),
	comment        TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'waiting'
	               CHECK (status IN ('waiting', 'accepted', 'rejected')),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK (ad_sender_id <> ad_receiver_id)
);

CREATE INDEX IF NOT EXISTS idx_ads_user_id ON ads(user_id);
CREATE INDEX IF NOT EXISTS idx_ads_category ON ads(category);
CREATE INDEX IF NOT EXISTS idx_ads_created_at ON ads(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_proposals_sender ON exchange_proposals(ad_sender_id);
CREATE INDEX IF NOT EXISTS idx_proposals_receiver ON exchange_proposals(ad_receiver_id);
CREATE INDEX IF NOT EXISTS idx_proposals_status ON exchange_proposals(status);
`

// InitSchema создает таблицы, если их еще нет
func InitSchema(ctx context.Context) error {
	_, err := Pool.Exec(ctx, schema)
	return err
}
