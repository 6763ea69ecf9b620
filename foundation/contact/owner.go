// Package contact holds the e-mail, phone and address records attached to
// an owner, and the storage contracts the deduplication engine relies on.
package contact

import (
	"context"
	"strings"
)

// Owner identifies the entity a record belongs to, e.g. {"user", "42"}.
type Owner struct {
	Type string `json:"type" yaml:"type"`
	ID   string `json:"id" yaml:"id"`
}

func (o Owner) IsZero() bool { return o.Type == "" && o.ID == "" }

func (o Owner) String() string { return o.Type + ":" + o.ID }

// ParseOwner reads the "type:id" form produced by String.
func ParseOwner(s string) (Owner, bool) {
	typ, id, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || typ == "" || id == "" {
		return Owner{}, false
	}
	return Owner{Type: typ, ID: id}, true
}

// ContactOwner is anything that owns contact records and can list them.
type ContactOwner interface {
	OwnerRef() Owner
	Emails(ctx context.Context) ([]Email, error)
	Phones(ctx context.Context) ([]Phone, error)
	Addresses(ctx context.Context) ([]Address, error)
}

// Bind returns a ContactOwner that reads o's records from s.
func Bind(o Owner, s Store) ContactOwner {
	return boundOwner{owner: o, store: s}
}

type boundOwner struct {
	owner Owner
	store Store
}

func (b boundOwner) OwnerRef() Owner { return b.owner }

func (b boundOwner) Emails(ctx context.Context) ([]Email, error) {
	return b.store.ListEmailsByOwner(ctx, b.owner)
}

func (b boundOwner) Phones(ctx context.Context) ([]Phone, error) {
	return b.store.ListPhonesByOwner(ctx, b.owner)
}

func (b boundOwner) Addresses(ctx context.Context) ([]Address, error) {
	return b.store.ListAddressesByOwner(ctx, b.owner)
}
