package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotwitter/internal/config"
)

func TestSetup_LevelAndFormat(t *testing.T) {
	logger := Setup(config.LoggingConfig{Level: "debug", Format: "json", OutputPath: "stdout"})
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
	_, ok := logger.Formatter.(*log.JSONFormatter)
	assert.True(t, ok)

	logger = Setup(config.LoggingConfig{Level: "nonsense", Format: "text"})
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
	_, ok = logger.Formatter.(*log.TextFormatter)
	assert.True(t, ok)
}

func TestSetup_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger := Setup(config.LoggingConfig{Level: "info", OutputPath: path})
	defer logger.SetOutput(os.Stdout)

	logger.Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
