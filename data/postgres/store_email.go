package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/errx"
)

const emailColumns = `id, owner_type, owner_id, address, is_default,
	verified_at, verification_token, token_expires_at, created_at, updated_at`

func (s *Store) scanEmail(row scanner) (contact.Email, error) {
	var e contact.Email
	err := row.Scan(&e.ID, &e.Owner.Type, &e.Owner.ID, &e.Address, &e.IsDefault,
		&e.VerifiedAt, &e.VerificationToken, &e.TokenExpiresAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return contact.Email{}, err
	}
	s.open(&e.Address, &e.VerificationToken)
	return e, nil
}

func (s *Store) CreateEmail(ctx context.Context, e *contact.Email) error {
	run, err := s.run(ctx)
	if err != nil {
		return err
	}
	if err := s.stamp(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return errx.Store(err, "postgres: new email id")
	}
	addr, token := e.Address, e.VerificationToken
	if err := s.seal(&addr, &token); err != nil {
		return errx.Store(err, "postgres: seal email")
	}

	_, err = run.Exec(ctx, `
		INSERT INTO contact_emails (`+emailColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, e.ID, e.Owner.Type, e.Owner.ID, addr, e.IsDefault,
		e.VerifiedAt, token, e.TokenExpiresAt, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return errx.Store(err, "postgres: insert email")
	}
	return nil
}

func (s *Store) GetEmail(ctx context.Context, id uuid.UUID) (contact.Email, error) {
	run, err := s.run(ctx)
	if err != nil {
		return contact.Email{}, err
	}
	e, err := s.scanEmail(run.QueryRow(ctx,
		`SELECT `+emailColumns+` FROM contact_emails WHERE id = $1`, id))
	if err != nil {
		return contact.Email{}, one(err, "postgres: get email")
	}
	return e, nil
}

func (s *Store) ListEmailsExcept(ctx context.Context, id uuid.UUID) ([]contact.Email, error) {
	return s.listEmails(ctx, `
		SELECT `+emailColumns+` FROM contact_emails
		WHERE id <> $1 ORDER BY created_at, id
	`, id)
}

func (s *Store) ListEmailsByOwner(ctx context.Context, o contact.Owner) ([]contact.Email, error) {
	return s.listEmails(ctx, `
		SELECT `+emailColumns+` FROM contact_emails
		WHERE owner_type = $1 AND owner_id = $2 ORDER BY created_at, id
	`, o.Type, o.ID)
}

func (s *Store) listEmails(ctx context.Context, q string, args ...any) ([]contact.Email, error) {
	run, err := s.run(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := run.Query(ctx, q, args...)
	if err != nil {
		return nil, errx.Store(err, "postgres: list emails")
	}
	defer rows.Close()

	var out []contact.Email
	for rows.Next() {
		e, err := s.scanEmail(rows)
		if err != nil {
			return nil, errx.Store(err, "postgres: scan email")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.Store(err, "postgres: list emails")
	}
	return out, nil
}

func (s *Store) UpdateEmail(ctx context.Context, e contact.Email) error {
	run, err := s.run(ctx)
	if err != nil {
		return err
	}
	addr, token := e.Address, e.VerificationToken
	if err := s.seal(&addr, &token); err != nil {
		return errx.Store(err, "postgres: seal email")
	}
	tag, err := run.Exec(ctx, `
		UPDATE contact_emails SET
			address = $2, is_default = $3, verified_at = $4,
			verification_token = $5, token_expires_at = $6, updated_at = $7
		WHERE id = $1
	`, e.ID, addr, e.IsDefault, e.VerifiedAt, token, e.TokenExpiresAt, e.UpdatedAt)
	return affected(tag, err, "postgres: update email")
}

func (s *Store) DeleteEmail(ctx context.Context, id uuid.UUID) error {
	run, err := s.run(ctx)
	if err != nil {
		return err
	}
	tag, err := run.Exec(ctx, `DELETE FROM contact_emails WHERE id = $1`, id)
	return affected(tag, err, "postgres: delete email")
}
