package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/errx"
)

const phoneColumns = `id, owner_type, owner_id, number, type, is_default,
	verified_at, verification_code, code_expires_at, created_at, updated_at`

func (s *Store) scanPhone(row scanner) (contact.Phone, error) {
	var (
		p                 contact.Phone
		typ               string
		verified, expires sql.NullInt64
		created, updated  int64
	)
	err := row.Scan(&p.ID, &p.Owner.Type, &p.Owner.ID, &p.Number, &typ, &p.IsDefault,
		&verified, &p.VerificationCode, &expires, &created, &updated)
	if err != nil {
		return contact.Phone{}, err
	}
	p.Type = contact.PhoneType(typ)
	p.VerifiedAt, p.CodeExpiresAt = fromNull(verified), fromNull(expires)
	p.CreatedAt, p.UpdatedAt = fromNanos(created), fromNanos(updated)
	s.open(&p.Number, &p.VerificationCode)
	return p, nil
}

func (s *Store) CreatePhone(ctx context.Context, p *contact.Phone) error {
	if err := s.stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return errx.Store(err, "sqlite: new phone id")
	}
	if p.Type == "" {
		p.Type = contact.PhoneMobile
	}
	num, code := p.Number, p.VerificationCode
	if err := s.seal(&num, &code); err != nil {
		return errx.Store(err, "sqlite: seal phone")
	}

	_, err := s.exec(ctx).ExecContext(ctx, `
		INSERT INTO contact_phones (`+phoneColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)
	`, p.ID.String(), p.Owner.Type, p.Owner.ID, num, string(p.Type), p.IsDefault,
		nullNanos(p.VerifiedAt), code, nullNanos(p.CodeExpiresAt), nanos(p.CreatedAt), nanos(p.UpdatedAt))
	if err != nil {
		return errx.Store(err, "sqlite: insert phone")
	}
	return nil
}

func (s *Store) GetPhone(ctx context.Context, id uuid.UUID) (contact.Phone, error) {
	p, err := s.scanPhone(s.exec(ctx).QueryRowContext(ctx,
		`SELECT `+phoneColumns+` FROM contact_phones WHERE id = ?`, id.String()))
	if err != nil {
		return contact.Phone{}, one(err, "sqlite: get phone")
	}
	return p, nil
}

func (s *Store) ListPhonesExcept(ctx context.Context, id uuid.UUID) ([]contact.Phone, error) {
	return list(ctx, s, "phones", s.scanPhone, `
		SELECT `+phoneColumns+` FROM contact_phones
		WHERE id <> ? ORDER BY created_at, id
	`, id.String())
}

func (s *Store) ListPhonesByOwner(ctx context.Context, o contact.Owner) ([]contact.Phone, error) {
	return list(ctx, s, "phones", s.scanPhone, `
		SELECT `+phoneColumns+` FROM contact_phones
		WHERE owner_type = ? AND owner_id = ? ORDER BY created_at, id
	`, o.Type, o.ID)
}

func (s *Store) UpdatePhone(ctx context.Context, p contact.Phone) error {
	num, code := p.Number, p.VerificationCode
	if err := s.seal(&num, &code); err != nil {
		return errx.Store(err, "sqlite: seal phone")
	}
	res, err := s.exec(ctx).ExecContext(ctx, `
		UPDATE contact_phones SET
			number = ?, type = ?, is_default = ?, verified_at = ?,
			verification_code = ?, code_expires_at = ?, updated_at = ?
		WHERE id = ?
	`, num, string(p.Type), p.IsDefault, nullNanos(p.VerifiedAt),
		code, nullNanos(p.CodeExpiresAt), nanos(p.UpdatedAt), p.ID.String())
	return affected(res, err, "sqlite: update phone")
}

func (s *Store) DeletePhone(ctx context.Context, id uuid.UUID) error {
	res, err := s.exec(ctx).ExecContext(ctx, `DELETE FROM contact_phones WHERE id = ?`, id.String())
	return affected(res, err, "sqlite: delete phone")
}
