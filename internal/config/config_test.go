package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Engine(t *testing.T) {
	t.Parallel()

	creds := Config{DBHost: "db", DBPort: 3306, DBUser: "u", DBPass: "p", DBName: "chain"}

	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{name: "default sqlite", cfg: Config{}, want: EngineSQLite},
		{name: "mysql", cfg: func() Config { c := creds; c.UseMySQL = "true"; return c }(), want: EngineMySQL},
		{name: "postgres via 1", cfg: func() Config { c := creds; c.UsePostgres = "1"; return c }(), want: EnginePostgres},
		{name: "both selected", cfg: Config{UseMySQL: "1", UsePostgres: "1"}, wantErr: true},
		{name: "mysql without creds", cfg: Config{UseMySQL: "true"}, wantErr: true},
		{name: "postgres missing name", cfg: func() Config {
			c := creds
			c.UsePostgres = "true"
			c.DBName = ""
			return c
		}(), wantErr: true},
		{name: "falsy values ignored", cfg: Config{UseMySQL: "no", UsePostgres: "false"}, want: EngineSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Engine()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_NodeURL(t *testing.T) {
	t.Parallel()

	cfg := Config{NodeHost: "localhost", NodePort: 11898}
	assert.Equal(t, "http://localhost:11898", cfg.NodeURL())

	cfg.NodeSSL = "1"
	assert.Equal(t, "https://localhost:11898", cfg.NodeURL())
}

func TestConfig_Production(t *testing.T) {
	t.Parallel()

	assert.False(t, Config{NodeEnv: "development"}.Production())
	assert.True(t, Config{NodeEnv: "production"}.Production())
}
