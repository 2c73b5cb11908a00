package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dispatch-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PROVIDER", "mock")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderMock, cfg.Provider)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.GeocodeCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 15*time.Second, cfg.DirectionsTimeout)
	assert.Equal(t, 100.0, cfg.SameSiteMeters)
	assert.Equal(t, 4, cfg.VehicleConcurrency)
	assert.True(t, cfg.PrefetchAddresses)
	assert.Equal(t, OffsetSetFull, cfg.OffsetSet)
	assert.Nil(t, cfg.Offsets)
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PROVIDER", "mock")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://localhost:5173, ,https://dispatch.example.com ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "https://dispatch.example.com"}, cfg.CORSOrigins)
}

func TestLoadRequiresKakaoKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PROVIDER", "kakao")
	t.Setenv("KAKAO_REST_API_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "KAKAO_REST_API_KEY")
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PROVIDER", "mock")
	t.Setenv("GEOCODE_TIMEOUT", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "GEOCODE_TIMEOUT")
}

func TestLoadOffsetsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "offsets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("offsets:\n  - {dlon: 0.0005, dlat: 0}\n  - {dlon: 0, dlat: -0.001}\n"), 0o600))

	t.Chdir(dir)
	t.Setenv("PROVIDER", "mock")
	t.Setenv("OFFSETS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []domain.Offset{{DLon: 0.0005}, {DLat: -0.001}}, cfg.Offsets)
}

func TestLoadOffsetsRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offsets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("offsets: []\n"), 0o600))

	_, err := LoadOffsets(path)
	assert.ErrorContains(t, err, "contains no offsets")
}
