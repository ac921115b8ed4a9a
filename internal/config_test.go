package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/herbscope/internal/surface"
	pkgconfig "github.com/starford/herbscope/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.AuthEnabled())
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, AuthModeDisabled, cfg.Mode)
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.AuthEnabled())
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is empty")
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	assert.Error(t, cfg.Validate())
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	assert.Error(t, cfg.Validate())
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	sc := cfg.ServiceConfig()
	assert.Equal(t, 50, sc.Axis.Samples)
	assert.Equal(t, 15.0, sc.Axis.Max)
	assert.Equal(t, 0.35, sc.Coefficients.SynergyK)
	assert.Equal(t, uint64(42), sc.Graph.Seed)
}

func TestDatasetConfig_Validate(t *testing.T) {
	cases := []struct {
		name string
		cfg  DatasetConfig
		ok   bool
	}{
		{"empty source defaults to embedded", DatasetConfig{}, true},
		{"file with path", DatasetConfig{Source: SourceFile, Path: "herbs.yaml", Watch: true}, true},
		{"file without path", DatasetConfig{Source: SourceFile}, false},
		{"watch without file", DatasetConfig{Source: SourceEmbedded, Watch: true}, false},
		{"unknown source", DatasetConfig{Source: "s3"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestFullConfig_SQLiteSourceNeedsPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Dataset.Source = SourceSQLite
	require.Error(t, cfg.Validate(), "sqlite source without sqlite.path")

	cfg.SQLite.Path = "herbs.db"
	assert.NoError(t, cfg.Validate())
}

func TestSurfaceConfig_RejectsBadAxis(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Surface.AxisMin, cfg.Surface.AxisMax = 10, 5
	assert.Error(t, cfg.Validate(), "inverted axis")

	cfg = NewDefaultConfig()
	cfg.Surface.Samples = 0
	assert.Error(t, cfg.Validate(), "zero samples")

	cfg = NewDefaultConfig()
	cfg.Surface.Samples = surface.MaxSamples + 1
	assert.Error(t, cfg.Validate(), "samples above the grid limit")
}

func TestGraphConfig_RankingRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Graph.RankingSize = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("HERBSCOPE_TEST_TOKEN", "s3cret")
	body := `app:
  log_level: debug
  http:
    port: 9000
dataset:
  source: file
  path: ./herbs.yaml
  watch: true
auth:
  mode: token
  token: ${HERBSCOPE_TEST_TOKEN}
surface:
  samples: 20
graph:
  betweenness_samples: 0
events:
  keep_alive: 30s
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg := NewDefaultConfig()
	require.NoError(t, pkgconfig.Load(path, cfg))

	assert.Equal(t, 9000, cfg.App.HTTP.Port)
	assert.Equal(t, "DEBUG", cfg.App.LogLevel.String())
	assert.True(t, cfg.Auth.AuthEnabled())
	assert.Equal(t, "s3cret", cfg.Auth.Token)
	assert.Equal(t, 20, cfg.Surface.Samples)
	assert.Equal(t, 15.0, cfg.Surface.AxisMax)
	assert.Zero(t, cfg.Graph.BetweennessSamples)
	assert.Equal(t, 10, cfg.Graph.RankingSize)
	assert.Equal(t, 30*time.Second, cfg.Events.KeepAlive)
	assert.Equal(t, 2*time.Second, cfg.Events.GraphThrottle)
}
