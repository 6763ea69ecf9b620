// Package dedupe finds and merges duplicate contact records.
package dedupe

import (
	"context"
	"errors"
	"time"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/logger"
	"github.com/vortex-fintech/go-profile/foundation/phone"
	"github.com/vortex-fintech/go-profile/foundation/timeutil"
)

// DefaultThreshold is the address similarity at or above which two
// addresses are duplicates.
const DefaultThreshold = 0.8

// DefaultLockTTL bounds how long an owner stays locked by AutoMerge.
const DefaultLockTTL = 30 * time.Second

var (
	ErrMergeFailed = errors.New("dedupe: merge failed")
	ErrSelfMerge   = errors.New("dedupe: primary and duplicate are the same record")
)

// Detector finds duplicates in a contact.Store and merges them.
type Detector struct {
	store   contact.Store
	tx      contact.TxManager
	phones  *phone.Formatter
	clock   timeutil.Clock
	log     logger.Logger
	metrics *Metrics
	locker  Locker

	threshold float64
	policy    PrimaryPolicy
	penalize  bool
	lockTTL   time.Duration
}

type Option func(*Detector)

func WithPhoneFormatter(f *phone.Formatter) Option {
	return func(d *Detector) {
		if f != nil {
			d.phones = f
		}
	}
}

func WithClock(c timeutil.Clock) Option {
	return func(d *Detector) { d.clock = timeutil.Or(c) }
}

func WithLogger(l logger.Logger) Option {
	return func(d *Detector) { d.log = logger.Or(l) }
}

func WithMetrics(m *Metrics) Option {
	return func(d *Detector) { d.metrics = m }
}

// WithLocker serializes AutoMerge runs for the same owner. ttl <= 0 keeps
// DefaultLockTTL. The lease is extended by ttl before each cluster merge, so
// ttl must cover loading the owner plus one cluster.
func WithLocker(l Locker, ttl time.Duration) Option {
	return func(d *Detector) {
		d.locker = l
		if ttl > 0 {
			d.lockTTL = ttl
		}
	}
}

// WithThreshold sets the address similarity threshold used by the batch
// operations. Values outside (0, 1] are ignored.
func WithThreshold(t float64) Option {
	return func(d *Detector) {
		if t > 0 && t <= 1 {
			d.threshold = t
		}
	}
}

func WithPrimaryPolicy(p PrimaryPolicy) Option {
	return func(d *Detector) { d.policy = p }
}

// WithMissingFieldPenalty makes address fields present on only one side
// count as a mismatch.
func WithMissingFieldPenalty() Option {
	return func(d *Detector) { d.penalize = true }
}

// New builds a Detector. A nil tx runs merges without a transaction, which
// is only safe for stores that cannot fail halfway.
func New(store contact.Store, tx contact.TxManager, opts ...Option) *Detector {
	d := &Detector{
		store:     store,
		tx:        tx,
		phones:    phone.NewFormatter(),
		clock:     timeutil.UTCClock{},
		log:       logger.Nop(),
		threshold: DefaultThreshold,
		lockTTL:   DefaultLockTTL,
	}
	if d.tx == nil {
		d.tx = directTx{}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Threshold returns the similarity threshold used by the batch operations.
func (d *Detector) Threshold() float64 { return d.threshold }

// AddressSimilarity is the package function with the detector's missing
// field setting applied.
func (d *Detector) AddressSimilarity(a, b contact.Address) float64 {
	return addressSimilarity(a, b, d.penalize)
}

type directTx struct{}

func (directTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
