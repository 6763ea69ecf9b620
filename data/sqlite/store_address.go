package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/errx"
)

const addressColumns = `id, owner_type, owner_id, country_id, country_code,
	primary_line, secondary_line, city, state, postcode, latitude, longitude,
	validation_status, validated_at, is_default, created_at, updated_at`

type sealedLines struct {
	primary, secondary, city, state, postcode string
}

func (s *Store) sealLines(a contact.Address) (sealedLines, error) {
	l := sealedLines{a.Primary, a.Secondary, a.City, a.State, a.Postcode}
	err := s.seal(&l.primary, &l.secondary, &l.city, &l.state, &l.postcode)
	return l, err
}

func (s *Store) scanAddress(row scanner) (contact.Address, error) {
	var (
		a                contact.Address
		status           string
		lat, lng         sql.NullFloat64
		validated        sql.NullInt64
		created, updated int64
	)
	err := row.Scan(&a.ID, &a.Owner.Type, &a.Owner.ID, &a.CountryID, &a.CountryCode,
		&a.Primary, &a.Secondary, &a.City, &a.State, &a.Postcode, &lat, &lng,
		&status, &validated, &a.IsDefault, &created, &updated)
	if err != nil {
		return contact.Address{}, err
	}
	a.Latitude, a.Longitude = fromNullFloat(lat), fromNullFloat(lng)
	a.ValidationStatus = contact.ValidationStatus(status)
	a.ValidatedAt = fromNull(validated)
	a.CreatedAt, a.UpdatedAt = fromNanos(created), fromNanos(updated)
	s.open(&a.Primary, &a.Secondary, &a.City, &a.State, &a.Postcode)
	return a, nil
}

func (s *Store) CreateAddress(ctx context.Context, a *contact.Address) error {
	if err := s.stamp(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return errx.Store(err, "sqlite: new address id")
	}
	if a.ValidationStatus == "" {
		a.ValidationStatus = contact.StatusPending
	}
	l, err := s.sealLines(*a)
	if err != nil {
		return errx.Store(err, "sqlite: seal address")
	}

	_, err = s.exec(ctx).ExecContext(ctx, `
		INSERT INTO contact_addresses (`+addressColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`, a.ID.String(), a.Owner.Type, a.Owner.ID, a.CountryID, a.CountryCode,
		l.primary, l.secondary, l.city, l.state, l.postcode, nullFloat(a.Latitude), nullFloat(a.Longitude),
		string(a.ValidationStatus), nullNanos(a.ValidatedAt), a.IsDefault, nanos(a.CreatedAt), nanos(a.UpdatedAt))
	if err != nil {
		return errx.Store(err, "sqlite: insert address")
	}
	return nil
}

func (s *Store) GetAddress(ctx context.Context, id uuid.UUID) (contact.Address, error) {
	a, err := s.scanAddress(s.exec(ctx).QueryRowContext(ctx,
		`SELECT `+addressColumns+` FROM contact_addresses WHERE id = ?`, id.String()))
	if err != nil {
		return contact.Address{}, one(err, "sqlite: get address")
	}
	return a, nil
}

func (s *Store) ListAddressesExcept(ctx context.Context, id uuid.UUID, countryID int64) ([]contact.Address, error) {
	if countryID == 0 {
		return list(ctx, s, "addresses", s.scanAddress, `
			SELECT `+addressColumns+` FROM contact_addresses
			WHERE id <> ? ORDER BY created_at, id
		`, id.String())
	}
	return list(ctx, s, "addresses", s.scanAddress, `
		SELECT `+addressColumns+` FROM contact_addresses
		WHERE id <> ? AND country_id = ? ORDER BY created_at, id
	`, id.String(), countryID)
}

func (s *Store) ListAddressesByOwner(ctx context.Context, o contact.Owner) ([]contact.Address, error) {
	return list(ctx, s, "addresses", s.scanAddress, `
		SELECT `+addressColumns+` FROM contact_addresses
		WHERE owner_type = ? AND owner_id = ? ORDER BY created_at, id
	`, o.Type, o.ID)
}

func (s *Store) UpdateAddress(ctx context.Context, a contact.Address) error {
	l, err := s.sealLines(a)
	if err != nil {
		return errx.Store(err, "sqlite: seal address")
	}
	res, err := s.exec(ctx).ExecContext(ctx, `
		UPDATE contact_addresses SET
			country_id = ?, country_code = ?, primary_line = ?, secondary_line = ?,
			city = ?, state = ?, postcode = ?, latitude = ?, longitude = ?,
			validation_status = ?, validated_at = ?, is_default = ?, updated_at = ?
		WHERE id = ?
	`, a.CountryID, a.CountryCode, l.primary, l.secondary,
		l.city, l.state, l.postcode, nullFloat(a.Latitude), nullFloat(a.Longitude),
		string(a.ValidationStatus), nullNanos(a.ValidatedAt), a.IsDefault, nanos(a.UpdatedAt), a.ID.String())
	return affected(res, err, "sqlite: update address")
}

func (s *Store) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	res, err := s.exec(ctx).ExecContext(ctx, `DELETE FROM contact_addresses WHERE id = ?`, id.String())
	return affected(res, err, "sqlite: delete address")
}
