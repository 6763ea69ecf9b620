package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/errx"
)

const addressColumns = `id, owner_type, owner_id, country_id, country_code,
	primary_line, secondary_line, city, state, postcode, latitude, longitude,
	validation_status, validated_at, is_default, created_at, updated_at`

// sealedLines holds the free-text address fields as written to the table.
type sealedLines struct {
	primary, secondary, city, state, postcode string
}

func (s *Store) scanAddress(row scanner) (contact.Address, error) {
	var a contact.Address
	err := row.Scan(&a.ID, &a.Owner.Type, &a.Owner.ID, &a.CountryID, &a.CountryCode,
		&a.Primary, &a.Secondary, &a.City, &a.State, &a.Postcode, &a.Latitude, &a.Longitude,
		&a.ValidationStatus, &a.ValidatedAt, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return contact.Address{}, err
	}
	s.open(&a.Primary, &a.Secondary, &a.City, &a.State, &a.Postcode)
	return a, nil
}

func (s *Store) CreateAddress(ctx context.Context, a *contact.Address) error {
	run, err := s.run(ctx)
	if err != nil {
		return err
	}
	if err := s.stamp(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return errx.Store(err, "postgres: new address id")
	}
	if a.ValidationStatus == "" {
		a.ValidationStatus = contact.StatusPending
	}
	l := sealedLines{a.Primary, a.Secondary, a.City, a.State, a.Postcode}
	if err := s.seal(&l.primary, &l.secondary, &l.city, &l.state, &l.postcode); err != nil {
		return errx.Store(err, "postgres: seal address")
	}

	_, err = run.Exec(ctx, `
		INSERT INTO contact_addresses (`+addressColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`, a.ID, a.Owner.Type, a.Owner.ID, a.CountryID, a.CountryCode,
		l.primary, l.secondary, l.city, l.state, l.postcode, a.Latitude, a.Longitude,
		string(a.ValidationStatus), a.ValidatedAt, a.IsDefault, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return errx.Store(err, "postgres: insert address")
	}
	return nil
}

func (s *Store) GetAddress(ctx context.Context, id uuid.UUID) (contact.Address, error) {
	run, err := s.run(ctx)
	if err != nil {
		return contact.Address{}, err
	}
	a, err := s.scanAddress(run.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM contact_addresses WHERE id = $1`, id))
	if err != nil {
		return contact.Address{}, one(err, "postgres: get address")
	}
	return a, nil
}

func (s *Store) ListAddressesExcept(ctx context.Context, id uuid.UUID, countryID int64) ([]contact.Address, error) {
	if countryID == 0 {
		return s.listAddresses(ctx, `
			SELECT `+addressColumns+` FROM contact_addresses
			WHERE id <> $1 ORDER BY created_at, id
		`, id)
	}
	return s.listAddresses(ctx, `
		SELECT `+addressColumns+` FROM contact_addresses
		WHERE id <> $1 AND country_id = $2 ORDER BY created_at, id
	`, id, countryID)
}

func (s *Store) ListAddressesByOwner(ctx context.Context, o contact.Owner) ([]contact.Address, error) {
	return s.listAddresses(ctx, `
		SELECT `+addressColumns+` FROM contact_addresses
		WHERE owner_type = $1 AND owner_id = $2 ORDER BY created_at, id
	`, o.Type, o.ID)
}

func (s *Store) listAddresses(ctx context.Context, q string, args ...any) ([]contact.Address, error) {
	run, err := s.run(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := run.Query(ctx, q, args...)
	if err != nil {
		return nil, errx.Store(err, "postgres: list addresses")
	}
	defer rows.Close()

	var out []contact.Address
	for rows.Next() {
		a, err := s.scanAddress(rows)
		if err != nil {
			return nil, errx.Store(err, "postgres: scan address")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.Store(err, "postgres: list addresses")
	}
	return out, nil
}

func (s *Store) UpdateAddress(ctx context.Context, a contact.Address) error {
	run, err := s.run(ctx)
	if err != nil {
		return err
	}
	l := sealedLines{a.Primary, a.Secondary, a.City, a.State, a.Postcode}
	if err := s.seal(&l.primary, &l.secondary, &l.city, &l.state, &l.postcode); err != nil {
		return errx.Store(err, "postgres: seal address")
	}
	tag, err := run.Exec(ctx, `
		UPDATE contact_addresses SET
			country_id = $2, country_code = $3, primary_line = $4, secondary_line = $5,
			city = $6, state = $7, postcode = $8, latitude = $9, longitude = $10,
			validation_status = $11, validated_at = $12, is_default = $13, updated_at = $14
		WHERE id = $1
	`, a.ID, a.CountryID, a.CountryCode, l.primary, l.secondary,
		l.city, l.state, l.postcode, a.Latitude, a.Longitude,
		string(a.ValidationStatus), a.ValidatedAt, a.IsDefault, a.UpdatedAt)
	return affected(tag, err, "postgres: update address")
}

func (s *Store) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	run, err := s.run(ctx)
	if err != nil {
		return err
	}
	tag, err := run.Exec(ctx, `DELETE FROM contact_addresses WHERE id = $1`, id)
	return affected(tag, err, "postgres: delete address")
}
