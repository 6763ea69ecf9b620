package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/errx"
)

const emailColumns = `id, owner_type, owner_id, address, is_default,
	verified_at, verification_token, token_expires_at, created_at, updated_at`

func (s *Store) scanEmail(row scanner) (contact.Email, error) {
	var (
		e                 contact.Email
		verified, expires sql.NullInt64
		created, updated  int64
	)
	err := row.Scan(&e.ID, &e.Owner.Type, &e.Owner.ID, &e.Address, &e.IsDefault,
		&verified, &e.VerificationToken, &expires, &created, &updated)
	if err != nil {
		return contact.Email{}, err
	}
	e.VerifiedAt, e.TokenExpiresAt = fromNull(verified), fromNull(expires)
	e.CreatedAt, e.UpdatedAt = fromNanos(created), fromNanos(updated)
	s.open(&e.Address, &e.VerificationToken)
	return e, nil
}

func (s *Store) CreateEmail(ctx context.Context, e *contact.Email) error {
	if err := s.stamp(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return errx.Store(err, "sqlite: new email id")
	}
	addr, token := e.Address, e.VerificationToken
	if err := s.seal(&addr, &token); err != nil {
		return errx.Store(err, "sqlite: seal email")
	}

	_, err := s.exec(ctx).ExecContext(ctx, `
		INSERT INTO contact_emails (`+emailColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?)
	`, e.ID.String(), e.Owner.Type, e.Owner.ID, addr, e.IsDefault,
		nullNanos(e.VerifiedAt), token, nullNanos(e.TokenExpiresAt), nanos(e.CreatedAt), nanos(e.UpdatedAt))
	if err != nil {
		return errx.Store(err, "sqlite: insert email")
	}
	return nil
}

func (s *Store) GetEmail(ctx context.Context, id uuid.UUID) (contact.Email, error) {
	e, err := s.scanEmail(s.exec(ctx).QueryRowContext(ctx,
		`SELECT `+emailColumns+` FROM contact_emails WHERE id = ?`, id.String()))
	if err != nil {
		return contact.Email{}, one(err, "sqlite: get email")
	}
	return e, nil
}

func (s *Store) ListEmailsExcept(ctx context.Context, id uuid.UUID) ([]contact.Email, error) {
	return list(ctx, s, "emails", s.scanEmail, `
		SELECT `+emailColumns+` FROM contact_emails
		WHERE id <> ? ORDER BY created_at, id
	`, id.String())
}

func (s *Store) ListEmailsByOwner(ctx context.Context, o contact.Owner) ([]contact.Email, error) {
	return list(ctx, s, "emails", s.scanEmail, `
		SELECT `+emailColumns+` FROM contact_emails
		WHERE owner_type = ? AND owner_id = ? ORDER BY created_at, id
	`, o.Type, o.ID)
}

func (s *Store) UpdateEmail(ctx context.Context, e contact.Email) error {
	addr, token := e.Address, e.VerificationToken
	if err := s.seal(&addr, &token); err != nil {
		return errx.Store(err, "sqlite: seal email")
	}
	res, err := s.exec(ctx).ExecContext(ctx, `
		UPDATE contact_emails SET
			address = ?, is_default = ?, verified_at = ?,
			verification_token = ?, token_expires_at = ?, updated_at = ?
		WHERE id = ?
	`, addr, e.IsDefault, nullNanos(e.VerifiedAt),
		token, nullNanos(e.TokenExpiresAt), nanos(e.UpdatedAt), e.ID.String())
	return affected(res, err, "sqlite: update email")
}

func (s *Store) DeleteEmail(ctx context.Context, id uuid.UUID) error {
	res, err := s.exec(ctx).ExecContext(ctx, `DELETE FROM contact_emails WHERE id = ?`, id.String())
	return affected(res, err, "sqlite: delete email")
}
