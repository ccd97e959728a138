package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("Should return logger from context when present", func(t *testing.T) {
		expected := NewLogger(TestConfig())
		ctx := ContextWithLogger(context.Background(), expected)

		actual := FromContext(ctx)

		require.NotNil(t, actual)
		assert.Equal(t, expected, actual)
	})

	t.Run("Should return default logger when context has none", func(t *testing.T) {
		l := FromContext(context.Background())
		require.NotNil(t, l)
	})

	t.Run("Should return default logger when wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), loggerCtxKey, "not a logger")
		require.NotNil(t, FromContext(ctx))
	})
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":    DebugLevel,
		" WARN ":   WarnLevel,
		"error":    ErrorLevel,
		"disabled": DisabledLevel,
		"":         InfoLevel,
		"verbose":  InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write text output with key values", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"})

		l.With("component", "voice").Info("reminder extracted", "outcome", "ok")

		out := buf.String()
		assert.Contains(t, out, "reminder extracted")
		assert.Contains(t, out, "component")
		assert.Contains(t, out, "outcome")
	})

	t.Run("Should emit JSON when enabled", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true, TimeFormat: "15:04:05"})

		l.Info("hello")

		out := buf.String()
		assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
		assert.Contains(t, out, "hello")
	})

	t.Run("Should drop messages below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: WarnLevel, Output: &buf, TimeFormat: "15:04:05"})

		l.Info("quiet")
		l.Warn("loud")

		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), "loud")
	})
}
