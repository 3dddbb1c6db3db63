package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SCHEDSEARCH_STRATEGY", "")
	t.Setenv("SCHEDSEARCH_MAX_ITERATIONS", "")
	t.Setenv("SCHEDSEARCH_TIMEOUT", "")
	t.Setenv("SCHEDSEARCH_BACKUP_DIR", "")
	t.Setenv("SCHEDSEARCH_OUT_DIR", "")

	config := Load()

	assert.Equal(t, Config{
		Strategy:      "dfs",
		MaxIterations: 0,
		Timeout:       0,
		BackupDir:     "backups",
		OutDir:        ".",
	}, config)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SCHEDSEARCH_STRATEGY", "astar")
	t.Setenv("SCHEDSEARCH_MAX_ITERATIONS", "50000")
	t.Setenv("SCHEDSEARCH_TIMEOUT", "2m30s")
	t.Setenv("SCHEDSEARCH_BACKUP_DIR", "/tmp/backups")
	t.Setenv("SCHEDSEARCH_OUT_DIR", "out")

	config := Load()

	assert.Equal(t, Config{
		Strategy:      "astar",
		MaxIterations: 50000,
		Timeout:       2*time.Minute + 30*time.Second,
		BackupDir:     "/tmp/backups",
		OutDir:        "out",
	}, config)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SCHEDSEARCH_MAX_ITERATIONS", "plenty")
	t.Setenv("SCHEDSEARCH_TIMEOUT", "soon")

	config := Load()

	assert.Equal(t, 0, config.MaxIterations)
	assert.Equal(t, time.Duration(0), config.Timeout)
}
