package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_KB(t *testing.T) {
	t.Run("LEARNPATH_KB_PATH switches embedded to yaml", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LEARNPATH_KB_PATH", "/etc/learnpath/kb.yaml")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "/etc/learnpath/kb.yaml", cfg.KB.Path)
		assert.Equal(t, SourceYAML, cfg.KB.Source)
	})

	t.Run("LEARNPATH_KB_PATH keeps an explicit sqlite source", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LEARNPATH_KB_PATH", "kb.db")

		cfg := &Config{KB: KBConfig{Source: SourceSQLite}}
		cfg.applyEnvOverrides()

		assert.Equal(t, SourceSQLite, cfg.KB.Source)
	})

	t.Run("LEARNPATH_KB_SOURCE wins over the inferred source", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LEARNPATH_KB_PATH", "kb.db")
		t.Setenv("LEARNPATH_KB_SOURCE", SourceSQLite)

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, SourceSQLite, cfg.KB.Source)
	})
}

func TestEnvOverrides_LoggingAndSearch(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEARNPATH_LOG_LEVEL", "debug")
	t.Setenv("LEARNPATH_HEURISTIC", "zero")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "zero", cfg.Search.Heuristic)
}

func TestEnvOverrides_EmptyValuesIgnored(t *testing.T) {
	clearEnv(t)
	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	assert.Equal(t, DefaultConfig(), cfg)
}
