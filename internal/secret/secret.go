package secret

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Redacted is the placeholder emitted anywhere a Secret is rendered.
const Redacted = "[REDACTED]"

// ErrEmpty is returned when a requested secret is missing or blank.
var ErrEmpty = errors.New("secret is empty")

// Secret is an opaque credential value scoped to a single run.
type Secret struct {
	value string
}

// New wraps a raw credential. Surrounding whitespace is stripped because
// secret stores routinely append trailing newlines.
func New(value string) Secret {
	return Secret{value: strings.TrimSpace(value)}
}

// FromEnv reads a secret from the named environment variable.
func FromEnv(name string) (Secret, error) {
	s := New(os.Getenv(name))
	if s.IsZero() {
		return Secret{}, fmt.Errorf("environment variable %s: %w", name, ErrEmpty)
	}

	return s, nil
}

// Value returns the raw credential for use at the consumption point.
func (s Secret) Value() string {
	return s.value
}

// IsZero reports whether the secret holds no value.
func (s Secret) IsZero() bool {
	return s.value == ""
}

// String implements fmt.Stringer and always redacts.
func (s Secret) String() string {
	return Redacted
}

// GoString implements fmt.GoStringer so %#v does not leak either.
func (s Secret) GoString() string {
	return Redacted
}

// MarshalText redacts the secret in any text-based encoding (JSON, YAML).
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(Redacted), nil
}
