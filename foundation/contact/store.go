package contact

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("contact: record not found")

// Every List* method returns records in storage order: creation order,
// ties broken by id.

type EmailStore interface {
	CreateEmail(ctx context.Context, e *Email) error
	GetEmail(ctx context.Context, id uuid.UUID) (Email, error)
	ListEmailsExcept(ctx context.Context, id uuid.UUID) ([]Email, error)
	ListEmailsByOwner(ctx context.Context, o Owner) ([]Email, error)
	UpdateEmail(ctx context.Context, e Email) error
	DeleteEmail(ctx context.Context, id uuid.UUID) error
}

type PhoneStore interface {
	CreatePhone(ctx context.Context, p *Phone) error
	GetPhone(ctx context.Context, id uuid.UUID) (Phone, error)
	ListPhonesExcept(ctx context.Context, id uuid.UUID) ([]Phone, error)
	ListPhonesByOwner(ctx context.Context, o Owner) ([]Phone, error)
	UpdatePhone(ctx context.Context, p Phone) error
	DeletePhone(ctx context.Context, id uuid.UUID) error
}

type AddressStore interface {
	CreateAddress(ctx context.Context, a *Address) error
	GetAddress(ctx context.Context, id uuid.UUID) (Address, error)
	// ListAddressesExcept returns every address but id; a non-zero
	// countryID restricts the result to that country.
	ListAddressesExcept(ctx context.Context, id uuid.UUID, countryID int64) ([]Address, error)
	ListAddressesByOwner(ctx context.Context, o Owner) ([]Address, error)
	UpdateAddress(ctx context.Context, a Address) error
	DeleteAddress(ctx context.Context, id uuid.UUID) error
}

// Store is the full record store.
type Store interface {
	EmailStore
	PhoneStore
	AddressStore
}

// OwnerLister enumerates owners that have at least one record.
type OwnerLister interface {
	ListOwners(ctx context.Context) ([]Owner, error)
}

// TxManager runs fn atomically. Stores called with the ctx passed to fn
// take part in the transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// FieldCodec protects sensitive fields at rest. Decrypt returns its input
// unchanged when it is not a value Encrypt produced.
type FieldCodec interface {
	Encrypt(plain string) (string, error)
	Decrypt(stored string) string
}

// PlainCodec stores values as they are.
type PlainCodec struct{}

func (PlainCodec) Encrypt(plain string) (string, error) { return plain, nil }
func (PlainCodec) Decrypt(stored string) string         { return stored }

// NewID returns a time-ordered record id.
func NewID() (uuid.UUID, error) {
	return uuid.NewV7()
}
