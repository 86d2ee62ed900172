package logger

import (
	"os"
	"path/filepath"
	"testing"

	"pcns-backend/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcns.log")
	closer := Setup(&config.Config{Env: "test", Log: config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1}})

	log.Debug().Str("entity", "enquiry").Msg("dispatching operation")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"entity":"enquiry"`)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	closer := Setup(&config.Config{Env: "test", Log: config.LogConfig{Level: "loud"}})
	assert.NoError(t, closer.Close())
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
