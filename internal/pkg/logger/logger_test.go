package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/cafe-backend/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("json formatter and level", func(t *testing.T) {
		log, err := New(config.LoggingConfig{Level: "debug", Format: "json"})
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, log.GetLevel())
		assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		log, err := New(config.LoggingConfig{Level: "chatty", Format: "text"})
		require.NoError(t, err)
		assert.Equal(t, logrus.InfoLevel, log.GetLevel())
		assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	})

	t.Run("writes to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "app.log")
		log, err := New(config.LoggingConfig{Level: "info", Format: "json", File: path})
		require.NoError(t, err)

		log.WithField("order_id", 42).Info("order created")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"order_id":42`)
	})
}
