package casetab

import "fmt"

// ConfigError reports an invalid build configuration. It is always detected
// and returned before any computation starts.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "casetab: invalid configuration: " + e.Reason
}

// IntegrityError reports that the squished arrays failed to reconstruct the
// original delta for a key. It indicates an overlap-computation bug caught by
// the builder's self-check; a table that fails the check is never emitted.
type IntegrityError struct {
	Key  int
	Want int32
	Got  int32
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("casetab: integrity violation at key %#04x: want delta %d, got %d", e.Key, e.Want, e.Got)
}
