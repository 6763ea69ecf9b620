package redis

import (
	"errors"
	"strings"
	"time"
)

const (
	ModeSingle   = "single"
	ModeSentinel = "sentinel"
	ModeCluster  = "cluster"
)

// Config selects a single node, a sentinel group or a cluster.
type Config struct {
	Mode         string        `yaml:"mode" validate:"omitempty,oneof=single sentinel cluster"`
	Addrs        []string      `yaml:"addrs" validate:"dive,hostname_port"`
	MasterName   string        `yaml:"master_name"`
	DB           int           `yaml:"db" validate:"gte=0"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PoolSize     int           `yaml:"pool_size" validate:"gte=0"`
	TLSEnabled   bool          `yaml:"tls_enabled"`

	// KeyPrefix namespaces every key the locker writes.
	KeyPrefix string `yaml:"key_prefix"`
}

var (
	errAddressRequired      = errors.New("redis: address is required")
	errUnsupportedMode      = errors.New("redis: unsupported mode")
	errMasterNameRequired   = errors.New("redis: master name is required for sentinel mode")
	errMasterNameUnexpected = errors.New("redis: master name is only valid for sentinel mode")
	errSingleModeAddrCount  = errors.New("redis: single mode requires exactly one address")
	errClusterModeAddrCount = errors.New("redis: cluster mode requires at least two addresses")
	errClusterDBUnsupported = errors.New("redis: db must be 0 in cluster mode")
	errInvalidDB            = errors.New("redis: db must be >= 0")
)

// mode returns the lower-cased mode, single when unset.
func (c Config) mode() string {
	m := strings.ToLower(strings.TrimSpace(c.Mode))
	if m == "" {
		return ModeSingle
	}
	return m
}

func (c Config) addrs() []string {
	out := make([]string, 0, len(c.Addrs))
	for _, a := range c.Addrs {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func (c Config) validate() error {
	if c.DB < 0 {
		return errInvalidDB
	}
	addrs := c.addrs()
	if len(addrs) == 0 {
		return errAddressRequired
	}
	hasMaster := strings.TrimSpace(c.MasterName) != ""

	switch c.mode() {
	case ModeSingle:
		if len(addrs) != 1 {
			return errSingleModeAddrCount
		}
		if hasMaster {
			return errMasterNameUnexpected
		}
	case ModeCluster:
		if len(addrs) < 2 {
			return errClusterModeAddrCount
		}
		if hasMaster {
			return errMasterNameUnexpected
		}
		if c.DB != 0 {
			return errClusterDBUnsupported
		}
	case ModeSentinel:
		if !hasMaster {
			return errMasterNameRequired
		}
	default:
		return errUnsupportedMode
	}
	return nil
}
