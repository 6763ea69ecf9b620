// Package config loads the profile toolkit settings from an optional YAML
// file and PROFILE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/vortex-fintech/go-profile/data/postgres"
	"github.com/vortex-fintech/go-profile/data/redis"
	"github.com/vortex-fintech/go-profile/data/sqlite"
	"github.com/vortex-fintech/go-profile/foundation/errx"
	"github.com/vortex-fintech/go-profile/foundation/validator"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Logger   LoggerConfig    `yaml:"logger"`
	Address  AddressConfig   `yaml:"address"`
	Phone    PhoneConfig     `yaml:"phone"`
	Dedupe   DedupeConfig    `yaml:"dedupe"`
	Store    StoreConfig     `yaml:"store"`
	Postgres postgres.Config `yaml:"postgres"`
	SQLite   sqlite.Config   `yaml:"sqlite"`
	Redis    redis.Config    `yaml:"redis"`
	Crypto   CryptoConfig    `yaml:"crypto"`
	Sweep    SweepConfig     `yaml:"sweep"`
}

type LoggerConfig struct {
	Service string `yaml:"service" validate:"required"`
	Env     string `yaml:"env" validate:"oneof=development debug production"`
}

type AddressConfig struct {
	FallbackCountry      string `yaml:"fallback_country" validate:"iso2"`
	UnicodeNormalization bool   `yaml:"unicode_normalization"`
}

type PhoneConfig struct {
	FallbackCallingCode string `yaml:"fallback_calling_code" validate:"calling_code"`
}

type DedupeConfig struct {
	Threshold           float64       `yaml:"threshold" validate:"gt=0,lte=1"`
	PrimaryPolicy       string        `yaml:"primary_policy" validate:"oneof=first_seen oldest most_verified"`
	MissingFieldPenalty bool          `yaml:"missing_field_penalty"`
	LockTTL             time.Duration `yaml:"lock_ttl" validate:"gte=0"`
}

type StoreConfig struct {
	Driver string `yaml:"driver" validate:"oneof=memory postgres sqlite"`
}

// CryptoConfig holds the hex AES-256 key for field encryption. Empty
// stores fields in plain text.
type CryptoConfig struct {
	FieldKey string `yaml:"field_key" validate:"omitempty,hexadecimal,len=64"`
}

type SweepConfig struct {
	// Schedule is a cron expression with a seconds field, or a descriptor such
	// as "@every 1h".
	Schedule    string `yaml:"schedule" validate:"required"`
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
}

// RedisEnabled reports whether a Redis lock should be used.
func (c *Config) RedisEnabled() bool { return len(c.Redis.Addrs) > 0 }

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Logger:  LoggerConfig{Service: "profile", Env: "production"},
		Address: AddressConfig{FallbackCountry: "MY"},
		Phone:   PhoneConfig{FallbackCallingCode: "60"},
		Dedupe: DedupeConfig{
			Threshold:     0.8,
			PrimaryPolicy: "first_seen",
			LockTTL:       30 * time.Second,
		},
		Store:  StoreConfig{Driver: DriverMemory},
		SQLite: sqlite.Config{Path: "profile.db"},
		Sweep:  SweepConfig{Schedule: "0 0 * * * *", MetricsAddr: ":9090"},
	}
}

// TestConfig returns a valid config for tests: in-memory store,
// development logging and no metrics listener.
func TestConfig() *Config {
	c := Default()
	c.Logger = LoggerConfig{Service: "profile-test", Env: "development"}
	c.SQLite.Path = ":memory:"
	c.Sweep.MetricsAddr = ""
	return c
}

// Load reads path (skipped when empty), applies the environment and
// validates the result.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errx.Config(err, "read "+path)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, errx.Config(err, "parse "+path)
		}
	}

	var errs ValidationErrors
	errs = append(errs, c.applyEnv(lookup)...)
	if err := c.Validate(); err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			errs = append(errs, verrs...)
		}
	}
	if len(errs) > 0 {
		return nil, errx.Config(errs, "")
	}
	return c, nil
}

// applyEnv overrides c from PROFILE_* variables and reports values that
// could not be parsed.
func (c *Config) applyEnv(lookup func(string) (string, bool)) ValidationErrors {
	var errs ValidationErrors
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	parse := func(key string, set func(string) error) {
		v, ok := lookup(key)
		if !ok {
			return
		}
		if err := set(strings.TrimSpace(v)); err != nil {
			errs = append(errs, ValidationError{Field: key, Message: "invalid value " + strconv.Quote(v)})
		}
	}

	str("PROFILE_SERVICE", &c.Logger.Service)
	str("PROFILE_ENV", &c.Logger.Env)
	str("PROFILE_FALLBACK_COUNTRY", &c.Address.FallbackCountry)
	str("PROFILE_FALLBACK_CALLING_CODE", &c.Phone.FallbackCallingCode)
	str("PROFILE_PRIMARY_POLICY", &c.Dedupe.PrimaryPolicy)
	str("PROFILE_STORE_DRIVER", &c.Store.Driver)
	str("PROFILE_POSTGRES_URL", &c.Postgres.URL)
	str("PROFILE_SQLITE_PATH", &c.SQLite.Path)
	str("PROFILE_REDIS_MODE", &c.Redis.Mode)
	str("PROFILE_REDIS_PASSWORD", &c.Redis.Password)
	str("PROFILE_FIELD_KEY", &c.Crypto.FieldKey)
	str("PROFILE_SWEEP_SCHEDULE", &c.Sweep.Schedule)
	str("PROFILE_METRICS_ADDR", &c.Sweep.MetricsAddr)

	parse("PROFILE_DEDUPE_THRESHOLD", func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			c.Dedupe.Threshold = f
		}
		return err
	})
	parse("PROFILE_MISSING_FIELD_PENALTY", func(v string) error {
		b, err := strconv.ParseBool(v)
		if err == nil {
			c.Dedupe.MissingFieldPenalty = b
		}
		return err
	})
	parse("PROFILE_LOCK_TTL", func(v string) error {
		d, err := time.ParseDuration(v)
		if err == nil {
			c.Dedupe.LockTTL = d
		}
		return err
	})
	if v, ok := lookup("PROFILE_REDIS_ADDRS"); ok {
		c.Redis.Addrs = splitList(v)
	}
	return errs
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var scheduleParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule parses a sweep schedule the way the sweeper does.
func ParseSchedule(expr string) (cron.Schedule, error) {
	return scheduleParser.Parse(expr)
}

// Validate checks struct tags and the rules that span sections. The
// returned error is a ValidationErrors.
func (c *Config) Validate() error {
	var errs ValidationErrors
	for field, code := range validator.Validate(c) {
		errs = append(errs, ValidationError{Field: field, Message: code})
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if strings.TrimSpace(c.Postgres.URL) == "" {
			errs = append(errs, ValidationError{Field: "Postgres.URL", Message: "required when store driver is postgres"})
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLite.Path) == "" {
			errs = append(errs, ValidationError{Field: "SQLite.Path", Message: "required when store driver is sqlite"})
		}
	}
	if c.Sweep.Schedule != "" {
		if _, err := ParseSchedule(c.Sweep.Schedule); err != nil {
			errs = append(errs, ValidationError{Field: "Sweep.Schedule", Message: err.Error()})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	slices.SortFunc(errs, func(a, b ValidationError) int { return strings.Compare(a.Field, b.Field) })
	return errs
}

// ValidationError is one rejected setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected setting.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}
