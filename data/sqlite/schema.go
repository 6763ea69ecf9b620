package sqlite

// Schema creates the contact tables. Timestamps are UTC Unix nanoseconds
// so that ORDER BY created_at follows time order.
const Schema = `
CREATE TABLE IF NOT EXISTS contact_emails (
	id                 TEXT PRIMARY KEY,
	owner_type         TEXT NOT NULL,
	owner_id           TEXT NOT NULL,
	address            TEXT NOT NULL,
	is_default         INTEGER NOT NULL DEFAULT 0,
	verified_at        INTEGER,
	verification_token TEXT NOT NULL DEFAULT '',
	token_expires_at   INTEGER,
	created_at         INTEGER NOT NULL,
	updated_at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS contact_emails_owner_idx ON contact_emails (owner_type, owner_id);

CREATE TABLE IF NOT EXISTS contact_phones (
	id                TEXT PRIMARY KEY,
	owner_type        TEXT NOT NULL,
	owner_id          TEXT NOT NULL,
	number            TEXT NOT NULL,
	type              TEXT NOT NULL DEFAULT 'mobile',
	is_default        INTEGER NOT NULL DEFAULT 0,
	verified_at       INTEGER,
	verification_code TEXT NOT NULL DEFAULT '',
	code_expires_at   INTEGER,
	created_at        INTEGER NOT NULL,
	updated_at        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS contact_phones_owner_idx ON contact_phones (owner_type, owner_id);

CREATE TABLE IF NOT EXISTS contact_addresses (
	id                TEXT PRIMARY KEY,
	owner_type        TEXT NOT NULL,
	owner_id          TEXT NOT NULL,
	country_id        INTEGER NOT NULL DEFAULT 0,
	country_code      TEXT NOT NULL DEFAULT '',
	primary_line      TEXT NOT NULL DEFAULT '',
	secondary_line    TEXT NOT NULL DEFAULT '',
	city              TEXT NOT NULL DEFAULT '',
	state             TEXT NOT NULL DEFAULT '',
	postcode          TEXT NOT NULL DEFAULT '',
	latitude          REAL,
	longitude         REAL,
	validation_status TEXT NOT NULL DEFAULT 'pending',
	validated_at      INTEGER,
	is_default        INTEGER NOT NULL DEFAULT 0,
	created_at        INTEGER NOT NULL,
	updated_at        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS contact_addresses_owner_idx ON contact_addresses (owner_type, owner_id);
CREATE INDEX IF NOT EXISTS contact_addresses_country_idx ON contact_addresses (country_id);
`
