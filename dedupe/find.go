package dedupe

import (
	"context"
	"fmt"

	"github.com/vortex-fintech/go-profile/foundation/contact"
)

// FindDuplicateEmails returns every other stored email whose canonical form
// equals e's, in storage order.
func (d *Detector) FindDuplicateEmails(ctx context.Context, e contact.Email) ([]contact.Email, error) {
	others, err := d.store.ListEmailsExcept(ctx, e.ID)
	if err != nil {
		return nil, fmt.Errorf("dedupe: list emails: %w", err)
	}

	target := e.Canonical()
	var out []contact.Email
	for _, o := range others {
		if o.Canonical() == target {
			out = append(out, o)
		}
	}
	d.metrics.addFound(kindEmail, len(out))
	return out, nil
}

// FindDuplicatePhones returns every other stored phone with the same E.164
// form as p. Both sides are standardized with callingCode, or the
// formatter's fallback when it is empty.
func (d *Detector) FindDuplicatePhones(ctx context.Context, p contact.Phone, callingCode string) ([]contact.Phone, error) {
	others, err := d.store.ListPhonesExcept(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("dedupe: list phones: %w", err)
	}

	target := d.phones.E164(p.Number, callingCode)
	var out []contact.Phone
	for _, o := range others {
		if d.phones.E164(o.Number, callingCode) == target {
			out = append(out, o)
		}
	}
	d.metrics.addFound(kindPhone, len(out))
	return out, nil
}

// FindDuplicateAddresses returns every other stored address scoring at least
// threshold against a. threshold <= 0 means DefaultThreshold. When a has a
// country id only addresses in that country are considered.
func (d *Detector) FindDuplicateAddresses(ctx context.Context, a contact.Address, threshold float64) ([]contact.Address, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	others, err := d.store.ListAddressesExcept(ctx, a.ID, a.CountryID)
	if err != nil {
		return nil, fmt.Errorf("dedupe: list addresses: %w", err)
	}

	var out []contact.Address
	for _, o := range others {
		score := d.AddressSimilarity(a, o)
		d.metrics.observeSimilarity(score)
		if score >= threshold {
			out = append(out, o)
		}
	}
	d.metrics.addFound(kindAddress, len(out))
	return out, nil
}
