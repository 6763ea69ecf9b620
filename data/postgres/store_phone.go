package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/errx"
)

const phoneColumns = `id, owner_type, owner_id, number, type, is_default,
	verified_at, verification_code, code_expires_at, created_at, updated_at`

func (s *Store) scanPhone(row scanner) (contact.Phone, error) {
	var p contact.Phone
	err := row.Scan(&p.ID, &p.Owner.Type, &p.Owner.ID, &p.Number, &p.Type, &p.IsDefault,
		&p.VerifiedAt, &p.VerificationCode, &p.CodeExpiresAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return contact.Phone{}, err
	}
	s.open(&p.Number, &p.VerificationCode)
	return p, nil
}

func (s *Store) CreatePhone(ctx context.Context, p *contact.Phone) error {
	run, err := s.run(ctx)
	if err != nil {
		return err
	}
	if err := s.stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return errx.Store(err, "postgres: new phone id")
	}
	if p.Type == "" {
		p.Type = contact.PhoneMobile
	}
	number, code := p.Number, p.VerificationCode
	if err := s.seal(&number, &code); err != nil {
		return errx.Store(err, "postgres: seal phone")
	}

	_, err = run.Exec(ctx, `
		INSERT INTO contact_phones (`+phoneColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, p.ID, p.Owner.Type, p.Owner.ID, number, string(p.Type), p.IsDefault,
		p.VerifiedAt, code, p.CodeExpiresAt, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return errx.Store(err, "postgres: insert phone")
	}
	return nil
}

func (s *Store) GetPhone(ctx context.Context, id uuid.UUID) (contact.Phone, error) {
	run, err := s.run(ctx)
	if err != nil {
		return contact.Phone{}, err
	}
	p, err := s.scanPhone(run.QueryRow(ctx,
		`SELECT `+phoneColumns+` FROM contact_phones WHERE id = $1`, id))
	if err != nil {
		return contact.Phone{}, one(err, "postgres: get phone")
	}
	return p, nil
}

func (s *Store) ListPhonesExcept(ctx context.Context, id uuid.UUID) ([]contact.Phone, error) {
	return s.listPhones(ctx, `
		SELECT `+phoneColumns+` FROM contact_phones
		WHERE id <> $1 ORDER BY created_at, id
	`, id)
}

func (s *Store) ListPhonesByOwner(ctx context.Context, o contact.Owner) ([]contact.Phone, error) {
	return s.listPhones(ctx, `
		SELECT `+phoneColumns+` FROM contact_phones
		WHERE owner_type = $1 AND owner_id = $2 ORDER BY created_at, id
	`, o.Type, o.ID)
}

func (s *Store) listPhones(ctx context.Context, q string, args ...any) ([]contact.Phone, error) {
	run, err := s.run(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := run.Query(ctx, q, args...)
	if err != nil {
		return nil, errx.Store(err, "postgres: list phones")
	}
	defer rows.Close()

	var out []contact.Phone
	for rows.Next() {
		p, err := s.scanPhone(rows)
		if err != nil {
			return nil, errx.Store(err, "postgres: scan phone")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.Store(err, "postgres: list phones")
	}
	return out, nil
}

func (s *Store) UpdatePhone(ctx context.Context, p contact.Phone) error {
	run, err := s.run(ctx)
	if err != nil {
		return err
	}
	number, code := p.Number, p.VerificationCode
	if err := s.seal(&number, &code); err != nil {
		return errx.Store(err, "postgres: seal phone")
	}
	tag, err := run.Exec(ctx, `
		UPDATE contact_phones SET
			number = $2, type = $3, is_default = $4, verified_at = $5,
			verification_code = $6, code_expires_at = $7, updated_at = $8
		WHERE id = $1
	`, p.ID, number, string(p.Type), p.IsDefault, p.VerifiedAt, code, p.CodeExpiresAt, p.UpdatedAt)
	return affected(tag, err, "postgres: update phone")
}

func (s *Store) DeletePhone(ctx context.Context, id uuid.UUID) error {
	run, err := s.run(ctx)
	if err != nil {
		return err
	}
	tag, err := run.Exec(ctx, `DELETE FROM contact_phones WHERE id = $1`, id)
	return affected(tag, err, "postgres: delete phone")
}
