package secret

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSecretRedaction ensures no formatting verb exposes the raw value.
func TestSecretRedaction(t *testing.T) {
	t.Parallel()

	s := New("ghp_supersecrettoken")

	require.Equal(t, "ghp_supersecrettoken", s.Value())
	require.Equal(t, Redacted, s.String())
	require.Equal(t, Redacted, fmt.Sprintf("%v", s))
	require.Equal(t, Redacted, fmt.Sprintf("%s", s))
	require.Equal(t, Redacted, fmt.Sprintf("%#v", s))

	text, err := s.MarshalText()
	require.NoError(t, err)
	require.Equal(t, Redacted, string(text))
	require.NotContains(t, string(text), "supersecret")
}

// TestFromEnv reads, trims and rejects missing environment values.
func TestFromEnv(t *testing.T) {
	t.Setenv("TEST_RUNNER_TOKEN", "  token-value\n")

	s, err := FromEnv("TEST_RUNNER_TOKEN")
	require.NoError(t, err)
	require.Equal(t, "token-value", s.Value())

	_, err = FromEnv("TEST_RUNNER_TOKEN_MISSING")
	require.ErrorIs(t, err, ErrEmpty)
}
