package dedupe

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/piiutil"
)

// MergeResult is the primary as saved and the id of the deleted duplicate.
type MergeResult[T any] struct {
	Primary   T
	RemovedID uuid.UUID
}

// MergeEmails keeps primary and deletes duplicate. A verification on the
// duplicate carries over to an unverified primary. Both writes happen in one
// transaction; on failure nothing changes and the error wraps
// ErrMergeFailed.
func (d *Detector) MergeEmails(ctx context.Context, primary, duplicate contact.Email) (MergeResult[contact.Email], error) {
	if primary.ID == duplicate.ID {
		return MergeResult[contact.Email]{}, ErrSelfMerge
	}

	err := d.tx.WithinTx(ctx, func(ctx context.Context) error {
		if duplicate.Verified() && !primary.Verified() {
			primary.VerifiedAt = duplicate.VerifiedAt
			primary.UpdatedAt = d.clock.Now()
			if err := d.store.UpdateEmail(ctx, primary); err != nil {
				return mergeErr("update primary email", err)
			}
		}
		if err := d.store.DeleteEmail(ctx, duplicate.ID); err != nil {
			return mergeErr("delete duplicate email", err)
		}
		return nil
	})
	if err != nil {
		d.metrics.incFailed(kindEmail)
		d.log.Ctx(ctx).Errorw("email merge failed",
			"primary_id", primary.ID, "duplicate_id", duplicate.ID, "error", err)
		return MergeResult[contact.Email]{}, err
	}

	d.metrics.incMerged(kindEmail)
	d.log.Ctx(ctx).Infow("email merged",
		"primary_id", primary.ID, "duplicate_id", duplicate.ID,
		"email", piiutil.MaskEmail(primary.Address))
	return MergeResult[contact.Email]{Primary: primary, RemovedID: duplicate.ID}, nil
}

// MergePhones keeps primary and deletes duplicate, carrying a verification
// over the same way MergeEmails does.
func (d *Detector) MergePhones(ctx context.Context, primary, duplicate contact.Phone) (MergeResult[contact.Phone], error) {
	if primary.ID == duplicate.ID {
		return MergeResult[contact.Phone]{}, ErrSelfMerge
	}

	err := d.tx.WithinTx(ctx, func(ctx context.Context) error {
		if duplicate.Verified() && !primary.Verified() {
			primary.VerifiedAt = duplicate.VerifiedAt
			primary.UpdatedAt = d.clock.Now()
			if err := d.store.UpdatePhone(ctx, primary); err != nil {
				return mergeErr("update primary phone", err)
			}
		}
		if err := d.store.DeletePhone(ctx, duplicate.ID); err != nil {
			return mergeErr("delete duplicate phone", err)
		}
		return nil
	})
	if err != nil {
		d.metrics.incFailed(kindPhone)
		d.log.Ctx(ctx).Errorw("phone merge failed",
			"primary_id", primary.ID, "duplicate_id", duplicate.ID, "error", err)
		return MergeResult[contact.Phone]{}, err
	}

	d.metrics.incMerged(kindPhone)
	d.log.Ctx(ctx).Infow("phone merged",
		"primary_id", primary.ID, "duplicate_id", duplicate.ID,
		"phone", piiutil.MaskPhone(primary.Number))
	return MergeResult[contact.Phone]{Primary: primary, RemovedID: duplicate.ID}, nil
}

// MergeAddresses keeps primary and deletes duplicate. Coordinates missing on
// the primary are taken from the duplicate, and a pending primary takes the
// duplicate's validation result. The primary is always saved.
func (d *Detector) MergeAddresses(ctx context.Context, primary, duplicate contact.Address) (MergeResult[contact.Address], error) {
	if primary.ID == duplicate.ID {
		return MergeResult[contact.Address]{}, ErrSelfMerge
	}

	err := d.tx.WithinTx(ctx, func(ctx context.Context) error {
		if !primary.HasCoordinates() && duplicate.HasCoordinates() {
			primary.Latitude = duplicate.Latitude
			primary.Longitude = duplicate.Longitude
		}
		if primary.Pending() && !duplicate.Pending() {
			primary.ValidationStatus = duplicate.ValidationStatus
			primary.ValidatedAt = duplicate.ValidatedAt
		}
		primary.UpdatedAt = d.clock.Now()

		if err := d.store.UpdateAddress(ctx, primary); err != nil {
			return mergeErr("update primary address", err)
		}
		if err := d.store.DeleteAddress(ctx, duplicate.ID); err != nil {
			return mergeErr("delete duplicate address", err)
		}
		return nil
	})
	if err != nil {
		d.metrics.incFailed(kindAddress)
		d.log.Ctx(ctx).Errorw("address merge failed",
			"primary_id", primary.ID, "duplicate_id", duplicate.ID, "error", err)
		return MergeResult[contact.Address]{}, err
	}

	d.metrics.incMerged(kindAddress)
	d.log.Ctx(ctx).Infow("address merged",
		"primary_id", primary.ID, "duplicate_id", duplicate.ID,
		"postcode", piiutil.MaskPostcode(primary.Postcode))
	return MergeResult[contact.Address]{Primary: primary, RemovedID: duplicate.ID}, nil
}

func mergeErr(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrMergeFailed, step, err)
}
