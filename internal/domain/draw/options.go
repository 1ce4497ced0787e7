package draw

// Option configures an Engine.
type Option func(*Engine)

// WithScalar replaces the per-sub-draw scalar derivation.
func WithScalar(fn ScalarFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.scalar = fn
		}
	}
}
