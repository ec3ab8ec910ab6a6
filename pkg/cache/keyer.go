package cache

// FormatVersion is mixed into every key. Bump it when the serialized form
// of cached results changes.
const FormatVersion = 1

// Keyer builds cache keys.
type Keyer interface {
	// ContractionKey identifies the per-target reductions of one instance.
	ContractionKey(instanceHash string, opts ContractionKeyOpts) string
	// EvalKey identifies an ECA value of one instance.
	EvalKey(instanceHash string, opts EvalKeyOpts) string
}

// ContractionKeyOpts are the options that change contraction results.
// Worker counts are deliberately absent: results do not depend on them.
type ContractionKeyOpts struct {
	Targets []int `json:"targets,omitempty"`
}

// EvalKeyOpts are the options that change an ECA value.
type EvalKeyOpts struct {
	Activation []float64 `json:"activation,omitempty"`
}

// DefaultKeyer builds keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer creates a keyer without prefix.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ContractionKey hashes the instance hash, the options and the format version.
func (k *DefaultKeyer) ContractionKey(instanceHash string, opts ContractionKeyOpts) string {
	return hashKey("contract", FormatVersion, instanceHash, opts)
}

// EvalKey hashes the instance hash, the activation and the format version.
func (k *DefaultKeyer) EvalKey(instanceHash string, opts EvalKeyOpts) string {
	return hashKey("eval", FormatVersion, instanceHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
