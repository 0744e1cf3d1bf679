package catbits

type options struct {
	logger *Logger
}

func defaultOptions() options {
	return options{logger: NoopLogger()}
}

// Option configures index construction.
//
// Options exist to avoid exploding the constructor surface; today the only
// knob is the diagnostic sink. Derived indexes inherit the options of the
// index they were derived from.
type Option func(*options)

// WithLogger configures the diagnostic sink for the index and everything
// derived from it. Passing nil restores the default noop logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}
