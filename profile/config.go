package profile

// Stopper stops a running profiler.
type Stopper interface{ Stop() }

// Config selects a profiling mode and output directory. The zero Config
// profiles nothing.
type Config struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option modifies a Config.
type Option func(Config) Config

// New returns a Config with opts applied.
func New(opts ...Option) Config {
	var c Config

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// WithMode sets the profiling mode.
func WithMode(mode string) Option {
	return func(c Config) Config {
		c.Mode = mode

		return c
	}
}

// WithPath sets the output directory.
func WithPath(path string) Option {
	return func(c Config) Config {
		c.Path = path

		return c
	}
}

// WithQuiet suppresses the profiler's own log output.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		c.Quiet = quiet

		return c
	}
}

// Start starts profiling. It returns a no-op Stopper when Mode is empty or
// unsupported, or when built without the pprof tag. Stop is always safe to
// call.
func (c Config) Start() Stopper {
	if c.Mode == "" {
		return ignore{}
	}

	return start(c.Mode, c.Path, c.Quiet)
}

type ignore struct{}

func (ignore) Stop() {}
