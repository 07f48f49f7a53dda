package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reachly/leadmatch/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	v.Set("admin.email", "admin@example.com")
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newTestViper(t))
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.SMTP.Enabled)
	// The default database path has its ~ expanded.
	assert.NotContains(t, cfg.Database.Path, "~")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*viper.Viper)
		wantErr error
	}{
		{
			name:    "missing admin email",
			mutate:  func(v *viper.Viper) { v.Set("admin.email", "") },
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "missing database path",
			mutate:  func(v *viper.Viper) { v.Set("database.path", "") },
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "smtp enabled without host",
			mutate: func(v *viper.Viper) {
				v.Set("smtp.enabled", true)
				v.Set("smtp.from", "no-reply@example.com")
			},
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "smtp port out of range",
			mutate: func(v *viper.Viper) {
				v.Set("smtp.enabled", true)
				v.Set("smtp.host", "smtp.example.com")
				v.Set("smtp.from", "no-reply@example.com")
				v.Set("smtp.port", 70000)
			},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViper(t)
			tt.mutate(v)
			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "data.db"), ExpandPath("~/data.db"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "", ExpandPath(""))

	t.Setenv("REACHLY_TEST_DIR", "/tmp/reachly")
	assert.Equal(t, "/tmp/reachly/data.db", ExpandPath("$REACHLY_TEST_DIR/data.db"))
}
