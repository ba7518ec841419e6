package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("alice")
	cfg.Import.Aliases = map[string][]string{
		"amount": {"importo"},
	}

	path := filepath.Join(t.TempDir(), "moneta.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Owner, got.Owner)
	assert.Equal(t, cfg.Storage.DBPath, got.Storage.DBPath)
	assert.Equal(t, cfg.Import.Profile, got.Import.Profile)
	assert.Equal(t, cfg.Import.DateFormats, got.Import.DateFormats)
	assert.Equal(t, cfg.Import.MaxRows, got.Import.MaxRows)
	assert.Equal(t, cfg.FX.BaseCurrency, got.FX.BaseCurrency)
	require.Contains(t, got.Import.Aliases, "amount")
	assert.Equal(t, []string{"importo"}, got.Import.Aliases["amount"])
}

func TestDefaults(t *testing.T) {
	cfg := Default("alice")

	assert.Equal(t, "alice", cfg.Owner)
	assert.Equal(t, "EUR", cfg.FX.BaseCurrency)
	assert.Equal(t, "generic", cfg.Import.Profile)
	assert.Equal(t, 10000, cfg.Import.MaxRows)
	assert.Contains(t, cfg.Import.DateFormats, "2006-01-02")
	assert.Empty(t, cfg.Import.Aliases)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
