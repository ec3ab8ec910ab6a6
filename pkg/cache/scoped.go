package cache

// ScopedKeyer wraps a Keyer with a prefix so that several projects can
// share one cache backend without seeing each other's entries.
//
// Example usage:
//
//	// Per-project keys on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "corridor:wetlands:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ContractionKey generates a prefixed key for contraction results.
func (k *ScopedKeyer) ContractionKey(instanceHash string, opts ContractionKeyOpts) string {
	return k.prefix + k.inner.ContractionKey(instanceHash, opts)
}

// EvalKey generates a prefixed key for ECA values.
func (k *ScopedKeyer) EvalKey(instanceHash string, opts EvalKeyOpts) string {
	return k.prefix + k.inner.EvalKey(instanceHash, opts)
}
