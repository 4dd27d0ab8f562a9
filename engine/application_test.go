package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/engine/cost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name    string
		path    string
		check   func(t *testing.T, c *ApplicationConfig)
		wantErr error
	}{
		{
			name: "no file",
			path: "",
			check: func(t *testing.T, c *ApplicationConfig) {
				assert.Equal(t, DefaultApplicationConfig(), c)
			},
		},
		{
			name: "missing file",
			path: filepath.Join(dir, "absent.toml"),
			check: func(t *testing.T, c *ApplicationConfig) {
				assert.Equal(t, "v2", c.CostVersion)
				assert.Equal(t, uint32(250000), c.TriangleBudget)
				assert.Equal(t, 4, c.Workers)
			},
		},
		{
			name: "overrides",
			path: write("full.toml", "name = \"arc\"\nlog_level = \"debug\"\nassets_dir = \"assets\"\ncost_version = \"legacy\"\ntriangle_budget = 1000\nworkers = 8\nwatch = true\n"),
			check: func(t *testing.T, c *ApplicationConfig) {
				assert.Equal(t, "arc", c.Name)
				assert.Equal(t, "debug", c.LogLevel)
				assert.Equal(t, "assets", c.AssetsDir)
				assert.Equal(t, uint32(1000), c.TriangleBudget)
				assert.Equal(t, 8, c.Workers)
				assert.True(t, c.Watch)
				// untouched keys keep their defaults
				assert.Equal(t, uint32(65536), c.MaxTextureCount)

				cc, err := c.CostConfig()
				require.NoError(t, err)
				assert.Equal(t, cost.VersionLegacy, cc.DefaultVersion)
			},
		},
		{
			name:    "unknown version",
			path:    write("version.toml", "cost_version = \"v9\"\n"),
			wantErr: core.ErrUnrecognizedVersion,
		},
		{
			name: "unknown key",
			path: write("typo.toml", "wokers = 2\n"),
		},
		{
			name: "no workers",
			path: write("workers.toml", "workers = 0\n"),
		},
		{
			name: "bad log level",
			path: write("level.toml", "log_level = \"chatty\"\n"),
		},
		{
			name: "malformed",
			path: write("broken.toml", "name = \n"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadConfig(tt.path)
			if tt.check == nil {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestEncodeReport(t *testing.T) {
	report := &Report{
		Scene:   "plaza",
		Version: "v2",
		Linksets: []*LinksetReport{
			{ID: benchID, Name: "bench", RenderCost: 293},
		},
	}
	for _, f := range []string{"json", "yaml", "yml", "toml"} {
		t.Run(f, func(t *testing.T) {
			format, err := ParseReportFormat(f)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, report, format))
			assert.Contains(t, buf.String(), "plaza")
			assert.Contains(t, buf.String(), "render_cost")
		})
	}

	_, err := ParseReportFormat("xml")
	assert.Error(t, err)
	assert.Error(t, Encode(&bytes.Buffer{}, report, ReportFormat("xml")))
}
