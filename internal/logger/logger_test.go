package logger_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"einvoice/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_RejectsUnknownLevel(t *testing.T) {
	err := logger.Setup(logger.LogConfig{Level: "loud", Format: "json", Output: "stderr"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestSetup_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "einvoice.log")
	require.NoError(t, logger.Setup(logger.LogConfig{Level: "info", Format: "json", Output: path}))
	t.Cleanup(func() { _ = logger.Setup(logger.DefaultConfig()) })

	log := logger.WithInvoice(logger.WithComponent("test"), "inv-1")
	log.Info().Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "inv-1", entry["invoice_id"])
	assert.Equal(t, "hello", entry["message"])
}
