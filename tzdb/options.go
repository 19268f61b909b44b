package tzdb

import (
	"time"

	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/internal/logx"
)

const defaultDebounce = 250 * time.Millisecond

type options struct {
	log      logx.Logger
	clock    instant.Clock
	version  string
	debounce time.Duration
}

// Option configures loaders, stores and Live.
type Option func(*options)

// WithLogger sets the logger. Skipped files are logged at debug level,
// reloads at info level. The default discards everything.
func WithLogger(l logx.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock sets the clock used to stamp SQLite snapshots.
func WithClock(c instant.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithVersion sets the release reported by loaded tables when the source
// does not name one.
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// WithDebounce sets how long Live.Watch waits for changes to settle before
// reloading.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

func newOptions(opts []Option) options {
	o := options{
		log:      logx.Nop(),
		clock:    instant.System,
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
