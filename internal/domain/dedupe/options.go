package dedupe

type options struct {
	capacity int
}

// Option applies a configuration option to the in-memory deduper.
type Option func(*options)

// WithCapacity pre-sizes the seen set.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}
