package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		assert.Equal(t, "hello", SanitizeInput("  hello  "))
	})

	t.Run("escapes html", func(t *testing.T) {
		assert.Equal(t, "&lt;script&gt;", SanitizeInput("<script>"))
	})

	t.Run("strips control characters", func(t *testing.T) {
		assert.Equal(t, "ab", SanitizeInput("a\x00b\x1b"))
	})
}

func TestSanitizeEmail(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		email, err := SanitizeEmail("  Ana.Silva@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, "ana.silva@example.com", email)
	})

	t.Run("rejects invalid addresses", func(t *testing.T) {
		for _, bad := range []string{"", "not-an-email", "a@b", "a b@example.com"} {
			_, err := SanitizeEmail(bad)
			assert.Error(t, err, bad)
		}
	})
}
