package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/wilhasse/innopage/fault"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
	assert.Equal(t, fault.PolicyReturn, cfg.Policy())
	assert.Equal(t, 1000, cfg.Decode.MaxRecords)
	assert.Equal(t, 4, cfg.Scan.Workers)
}

func TestReadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "innopage.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "debug"
development = true

[decode]
on_corruption = "abort"
max_records = 50
`), 0o644))
	t.Setenv("INNOPAGE_SCAN_WORKERS", "9")

	v := New()
	require.NoError(t, ReadFile(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, fault.PolicyAbort, cfg.Policy())
	assert.Equal(t, 50, cfg.Decode.MaxRecords)
	assert.Equal(t, 9, cfg.Scan.Workers)

	assert.Error(t, ReadFile(New(), filepath.Join(t.TempDir(), "missing.toml")))
	assert.NoError(t, ReadFile(New(), ""))
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		key string
		val interface{}
	}{
		{KeyLogLevel, "loud"},
		{KeyOnCorruption, "ignore"},
		{KeyMaxRecords, -1},
		{KeyScanWorkers, 0},
	} {
		v := New()
		v.Set(tc.key, tc.val)
		_, err := Load(v)
		assert.Error(t, err, tc.key)
	}
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(Log{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log, err = NewLogger(Log{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger(Log{Level: "nope"})
	assert.Error(t, err)

	cfg, err := Load(New())
	require.NoError(t, err)
	rep := cfg.NewReporter(log)
	assert.Equal(t, fault.PolicyReturn, rep.Policy())
}
