package postgres

import (
	"context"

	"github.com/vortex-fintech/go-profile/foundation/errx"
)

// Schema creates the contact tables. Sensitive columns hold whatever the
// store's FieldCodec produces, so they are plain text.
const Schema = `
CREATE TABLE IF NOT EXISTS contact_emails (
	id                 UUID PRIMARY KEY,
	owner_type         TEXT NOT NULL,
	owner_id           TEXT NOT NULL,
	address            TEXT NOT NULL,
	is_default         BOOLEAN NOT NULL DEFAULT FALSE,
	verified_at        TIMESTAMPTZ,
	verification_token TEXT NOT NULL DEFAULT '',
	token_expires_at   TIMESTAMPTZ,
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS contact_emails_owner_idx ON contact_emails (owner_type, owner_id);

CREATE TABLE IF NOT EXISTS contact_phones (
	id                UUID PRIMARY KEY,
	owner_type        TEXT NOT NULL,
	owner_id          TEXT NOT NULL,
	number            TEXT NOT NULL,
	type              TEXT NOT NULL DEFAULT 'mobile',
	is_default        BOOLEAN NOT NULL DEFAULT FALSE,
	verified_at       TIMESTAMPTZ,
	verification_code TEXT NOT NULL DEFAULT '',
	code_expires_at   TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS contact_phones_owner_idx ON contact_phones (owner_type, owner_id);

CREATE TABLE IF NOT EXISTS contact_addresses (
	id                UUID PRIMARY KEY,
	owner_type        TEXT NOT NULL,
	owner_id          TEXT NOT NULL,
	country_id        BIGINT NOT NULL DEFAULT 0,
	country_code      TEXT NOT NULL DEFAULT '',
	primary_line      TEXT NOT NULL DEFAULT '',
	secondary_line    TEXT NOT NULL DEFAULT '',
	city              TEXT NOT NULL DEFAULT '',
	state             TEXT NOT NULL DEFAULT '',
	postcode          TEXT NOT NULL DEFAULT '',
	latitude          DOUBLE PRECISION,
	longitude         DOUBLE PRECISION,
	validation_status TEXT NOT NULL DEFAULT 'pending',
	validated_at      TIMESTAMPTZ,
	is_default        BOOLEAN NOT NULL DEFAULT FALSE,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS contact_addresses_owner_idx ON contact_addresses (owner_type, owner_id);
CREATE INDEX IF NOT EXISTS contact_addresses_country_idx ON contact_addresses (country_id);
`

// Migrate applies Schema.
func (c *Client) Migrate(ctx context.Context) error {
	if _, err := RunnerFromContext(ctx, c).Exec(ctx, Schema); err != nil {
		return errx.Store(err, "postgres: apply schema")
	}
	return nil
}
