package log

import (
	"io"
	"sync"
)

// Option adjusts one setting of a logger's configuration. Options are
// applied in order by [Make] and [Config].
type Option func(config) config

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// set makes an [Option] that runs fn under the config's lock, creating the
// lock for a zero config.
func set(fn func(*config)) Option {
	return func(c config) config {
		if c.mutex == nil {
			c.mutex = &sync.RWMutex{}
		} else {
			c.mutex.Lock()
			defer c.mutex.Unlock()
		}

		fn(&c)

		return c
	}
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}
