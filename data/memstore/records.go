package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-profile/foundation/contact"
)

func (s *Store) CreateEmail(ctx context.Context, e *contact.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateEmail"); err != nil {
		return err
	}
	if err := s.assign(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return err
	}
	s.emails[e.ID] = *e
	return nil
}

func (s *Store) GetEmail(ctx context.Context, id uuid.UUID) (contact.Email, error) {
	if err := ctx.Err(); err != nil {
		return contact.Email{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("GetEmail"); err != nil {
		return contact.Email{}, err
	}
	e, ok := s.emails[id]
	if !ok {
		return contact.Email{}, contact.ErrNotFound
	}
	return e, nil
}

func (s *Store) ListEmailsExcept(ctx context.Context, id uuid.UUID) ([]contact.Email, error) {
	return listEmails(ctx, s, "ListEmailsExcept", func(e contact.Email) bool { return e.ID != id })
}

func (s *Store) ListEmailsByOwner(ctx context.Context, o contact.Owner) ([]contact.Email, error) {
	return listEmails(ctx, s, "ListEmailsByOwner", func(e contact.Email) bool { return e.Owner == o })
}

func listEmails(ctx context.Context, s *Store, op string, keep func(contact.Email) bool) ([]contact.Email, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(op); err != nil {
		return nil, err
	}
	out := make([]contact.Email, 0, len(s.emails))
	for _, e := range s.emails {
		if keep(e) {
			out = append(out, e)
		}
	}
	return sorted(out,
		func(e contact.Email) uuid.UUID { return e.ID },
		func(e contact.Email) time.Time { return e.CreatedAt }), nil
}

func (s *Store) UpdateEmail(ctx context.Context, e contact.Email) error {
	return update(ctx, s, "UpdateEmail", emailsOf, e.ID, e)
}

func (s *Store) DeleteEmail(ctx context.Context, id uuid.UUID) error {
	return remove(ctx, s, "DeleteEmail", emailsOf, id)
}

func (s *Store) CreatePhone(ctx context.Context, p *contact.Phone) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreatePhone"); err != nil {
		return err
	}
	if err := s.assign(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}
	s.phones[p.ID] = *p
	return nil
}

func (s *Store) GetPhone(ctx context.Context, id uuid.UUID) (contact.Phone, error) {
	if err := ctx.Err(); err != nil {
		return contact.Phone{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("GetPhone"); err != nil {
		return contact.Phone{}, err
	}
	p, ok := s.phones[id]
	if !ok {
		return contact.Phone{}, contact.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListPhonesExcept(ctx context.Context, id uuid.UUID) ([]contact.Phone, error) {
	return listPhones(ctx, s, "ListPhonesExcept", func(p contact.Phone) bool { return p.ID != id })
}

func (s *Store) ListPhonesByOwner(ctx context.Context, o contact.Owner) ([]contact.Phone, error) {
	return listPhones(ctx, s, "ListPhonesByOwner", func(p contact.Phone) bool { return p.Owner == o })
}

func listPhones(ctx context.Context, s *Store, op string, keep func(contact.Phone) bool) ([]contact.Phone, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(op); err != nil {
		return nil, err
	}
	out := make([]contact.Phone, 0, len(s.phones))
	for _, p := range s.phones {
		if keep(p) {
			out = append(out, p)
		}
	}
	return sorted(out,
		func(p contact.Phone) uuid.UUID { return p.ID },
		func(p contact.Phone) time.Time { return p.CreatedAt }), nil
}

func (s *Store) UpdatePhone(ctx context.Context, p contact.Phone) error {
	return update(ctx, s, "UpdatePhone", phonesOf, p.ID, p)
}

func (s *Store) DeletePhone(ctx context.Context, id uuid.UUID) error {
	return remove(ctx, s, "DeletePhone", phonesOf, id)
}

func (s *Store) CreateAddress(ctx context.Context, a *contact.Address) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateAddress"); err != nil {
		return err
	}
	if err := s.assign(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return err
	}
	if a.ValidationStatus == "" {
		a.ValidationStatus = contact.StatusPending
	}
	s.addresses[a.ID] = *a
	return nil
}

func (s *Store) GetAddress(ctx context.Context, id uuid.UUID) (contact.Address, error) {
	if err := ctx.Err(); err != nil {
		return contact.Address{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("GetAddress"); err != nil {
		return contact.Address{}, err
	}
	a, ok := s.addresses[id]
	if !ok {
		return contact.Address{}, contact.ErrNotFound
	}
	return a, nil
}

func (s *Store) ListAddressesExcept(ctx context.Context, id uuid.UUID, countryID int64) ([]contact.Address, error) {
	return listAddresses(ctx, s, "ListAddressesExcept", func(a contact.Address) bool {
		return a.ID != id && (countryID == 0 || a.CountryID == countryID)
	})
}

func (s *Store) ListAddressesByOwner(ctx context.Context, o contact.Owner) ([]contact.Address, error) {
	return listAddresses(ctx, s, "ListAddressesByOwner", func(a contact.Address) bool { return a.Owner == o })
}

func listAddresses(ctx context.Context, s *Store, op string, keep func(contact.Address) bool) ([]contact.Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(op); err != nil {
		return nil, err
	}
	out := make([]contact.Address, 0, len(s.addresses))
	for _, a := range s.addresses {
		if keep(a) {
			out = append(out, a)
		}
	}
	return sorted(out,
		func(a contact.Address) uuid.UUID { return a.ID },
		func(a contact.Address) time.Time { return a.CreatedAt }), nil
}

func (s *Store) UpdateAddress(ctx context.Context, a contact.Address) error {
	return update(ctx, s, "UpdateAddress", addressesOf, a.ID, a)
}

func (s *Store) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	return remove(ctx, s, "DeleteAddress", addressesOf, id)
}

func emailsOf(s *Store) map[uuid.UUID]contact.Email       { return s.emails }
func phonesOf(s *Store) map[uuid.UUID]contact.Phone       { return s.phones }
func addressesOf(s *Store) map[uuid.UUID]contact.Address { return s.addresses }

// update and remove resolve the map under the lock because a rollback
// replaces it.
func update[T any](ctx context.Context, s *Store, op string, table func(*Store) map[uuid.UUID]T, id uuid.UUID, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(op); err != nil {
		return err
	}
	m := table(s)
	if _, ok := m[id]; !ok {
		return contact.ErrNotFound
	}
	m[id] = v
	return nil
}

func remove[T any](ctx context.Context, s *Store, op string, table func(*Store) map[uuid.UUID]T, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(op); err != nil {
		return err
	}
	m := table(s)
	if _, ok := m[id]; !ok {
		return contact.ErrNotFound
	}
	delete(m, id)
	return nil
}

// Len reports how many records of each kind are stored.
func (s *Store) Len() (emails, phones, addresses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.emails), len(s.phones), len(s.addresses)
}
