package dedupe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/hash"
)

// Group is a duplicate cluster. Record is the first member in storage order;
// Duplicates match Record and appear in no other group.
type Group[T any] struct {
	Record     T
	Duplicates []T
}

func (g Group[T]) members() []T {
	out := make([]T, 0, len(g.Duplicates)+1)
	out = append(out, g.Record)
	return append(out, g.Duplicates...)
}

// Report lists the duplicate clusters found in one owner's records.
type Report struct {
	Owner     contact.Owner
	Emails    []Group[contact.Email]
	Phones    []Group[contact.Phone]
	Addresses []Group[contact.Address]
}

// Total is the number of records that would be removed by merging every
// group.
func (r Report) Total() int {
	n := 0
	for _, g := range r.Emails {
		n += len(g.Duplicates)
	}
	for _, g := range r.Phones {
		n += len(g.Duplicates)
	}
	for _, g := range r.Addresses {
		n += len(g.Duplicates)
	}
	return n
}

func (r Report) Empty() bool { return r.Total() == 0 }

// MergeCounts is the number of records removed per kind.
type MergeCounts struct {
	Emails    int
	Phones    int
	Addresses int
}

func (c MergeCounts) Total() int { return c.Emails + c.Phones + c.Addresses }

// FindAllDuplicates compares each of the owner's records with the owner's
// other records of the same kind. Phones are compared using the formatter's
// fallback calling code and addresses using the detector threshold.
func (d *Detector) FindAllDuplicates(ctx context.Context, owner contact.ContactOwner) (Report, error) {
	var (
		emails    []contact.Email
		phones    []contact.Phone
		addresses []contact.Address
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if emails, err = owner.Emails(gctx); err != nil {
			return fmt.Errorf("dedupe: list owner emails: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if phones, err = owner.Phones(gctx); err != nil {
			return fmt.Errorf("dedupe: list owner phones: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if addresses, err = owner.Addresses(gctx); err != nil {
			return fmt.Errorf("dedupe: list owner addresses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	rep := Report{
		Owner: owner.OwnerRef(),
		Emails: cluster(emails, func(a, b contact.Email) bool {
			return a.Canonical() == b.Canonical()
		}),
		Phones: cluster(phones, func(a, b contact.Phone) bool {
			return d.phones.E164(a.Number, "") == d.phones.E164(b.Number, "")
		}),
		Addresses: cluster(addresses, func(a, b contact.Address) bool {
			if a.CountryID != 0 && b.CountryID != a.CountryID {
				return false
			}
			score := d.AddressSimilarity(a, b)
			d.metrics.observeSimilarity(score)
			return score >= d.threshold
		}),
	}

	for _, grp := range rep.Emails {
		d.metrics.addFound(kindEmail, len(grp.Duplicates))
	}
	for _, grp := range rep.Phones {
		d.metrics.addFound(kindPhone, len(grp.Duplicates))
	}
	for _, grp := range rep.Addresses {
		d.metrics.addFound(kindAddress, len(grp.Duplicates))
	}
	return rep, nil
}

// cluster walks records in order. Each record not yet claimed anchors a
// group and claims every later unclaimed record that matches it.
func cluster[T any](records []T, match func(a, b T) bool) []Group[T] {
	claimed := make([]bool, len(records))
	var groups []Group[T]

	for i := range records {
		if claimed[i] {
			continue
		}
		var dups []T
		for j := i + 1; j < len(records); j++ {
			if claimed[j] || !match(records[i], records[j]) {
				continue
			}
			claimed[j] = true
			dups = append(dups, records[j])
		}
		if len(dups) > 0 {
			groups = append(groups, Group[T]{Record: records[i], Duplicates: dups})
		}
	}
	return groups
}

// AutoMerge merges every duplicate cluster of the owner into the member the
// primary policy selects. Each merge is its own transaction; on error the
// counts of the merges already committed are returned with it. With a
// Locker the owner lease is extended before every cluster.
func (d *Detector) AutoMerge(ctx context.Context, owner contact.ContactOwner) (counts MergeCounts, err error) {
	ref := owner.OwnerRef()
	log := d.log.Ctx(ctx).With("owner", ref.String())

	var lease Lease
	if d.locker != nil {
		var lerr error
		lease, lerr = d.locker.Acquire(ctx, LockKey(ref), d.lockTTL)
		if lerr != nil {
			return counts, fmt.Errorf("dedupe: lock owner %s: %w", ref, lerr)
		}
		defer func() {
			if rerr := lease.Release(context.WithoutCancel(ctx)); rerr != nil {
				log.Warnw("owner lock release failed", "error", rerr)
			}
		}()
	}
	// renew keeps the lease alive across a long owner pass.
	renew := func() error {
		if lease == nil {
			return nil
		}
		if err := lease.Extend(ctx, d.lockTTL); err != nil {
			return fmt.Errorf("dedupe: extend lock on owner %s: %w", ref, err)
		}
		return nil
	}

	rep, err := d.FindAllDuplicates(ctx, owner)
	if err != nil {
		return counts, err
	}

	for _, g := range rep.Emails {
		if err := renew(); err != nil {
			return counts, err
		}
		n, err := mergeGroup(ctx, d.policy, g, emailCreated, emailTrusted, d.MergeEmails)
		counts.Emails += n
		if err != nil {
			return counts, err
		}
	}
	for _, g := range rep.Phones {
		if err := renew(); err != nil {
			return counts, err
		}
		n, err := mergeGroup(ctx, d.policy, g, phoneCreated, phoneTrusted, d.MergePhones)
		counts.Phones += n
		if err != nil {
			return counts, err
		}
	}
	for _, g := range rep.Addresses {
		if err := renew(); err != nil {
			return counts, err
		}
		n, err := mergeGroup(ctx, d.policy, g, addressCreated, addressTrusted, d.MergeAddresses)
		counts.Addresses += n
		if err != nil {
			return counts, err
		}
	}

	if counts.Total() > 0 {
		log.Infow("owner duplicates merged",
			"emails", counts.Emails, "phones", counts.Phones, "addresses", counts.Addresses)
	}
	return counts, nil
}

// mergeGroup folds every other member into the chosen primary, feeding each
// merge the primary as saved by the previous one.
func mergeGroup[T any](
	ctx context.Context,
	p PrimaryPolicy,
	g Group[T],
	created func(T) time.Time,
	trusted func(T) bool,
	merge func(context.Context, T, T) (MergeResult[T], error),
) (int, error) {
	members := g.members()
	idx := pick(p, members, created, trusted)
	primary := members[idx]

	n := 0
	for i, dup := range members {
		if i == idx {
			continue
		}
		res, err := merge(ctx, primary, dup)
		if err != nil {
			if errors.Is(err, ErrSelfMerge) {
				continue
			}
			return n, err
		}
		primary = res.Primary
		n++
	}
	return n, nil
}

// LockKey is the lock name AutoMerge takes for an owner.
func LockKey(o contact.Owner) string {
	return "profile:dedupe:" + hash.Fingerprint(o.Type, o.ID)
}
