package sqlite

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBusyTimeout  = 10 * time.Second
	defaultMaxOpenConns = 4
)

var errPathRequired = errors.New("sqlite: path is required")

// Config describes a database file. Path ":memory:" opens a private
// in-memory database held on a single connection.
type Config struct {
	Path         string        `yaml:"path"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"`
	MaxOpenConns int           `yaml:"max_open_conns" validate:"gte=0"`
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return errPathRequired
	}
	return nil
}

func (c Config) memory() bool { return c.Path == ":memory:" }

func (c Config) maxOpen() int {
	switch {
	case c.memory():
		return 1
	case c.MaxOpenConns > 0:
		return c.MaxOpenConns
	}
	return defaultMaxOpenConns
}

// dsn builds the driver connection string with the pragmas every
// connection needs.
func (c Config) dsn() string {
	busy := c.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}
	q := url.Values{}
	q.Add("_pragma", "busy_timeout("+strconv.FormatInt(busy.Milliseconds(), 10)+")")
	q.Add("_pragma", "foreign_keys(1)")
	if !c.memory() {
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", "synchronous(NORMAL)")
	}
	return "file:" + c.Path + "?" + q.Encode()
}
