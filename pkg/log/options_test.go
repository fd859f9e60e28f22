package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{name: "Valid", opts: Options{Name: "app", Dir: dir}},
		{name: "Missing Name", opts: Options{}, wantErr: "Name"},
		{name: "Dir Is File", opts: Options{Name: "app", Dir: file}, wantErr: "이미 파일로 존재"},
		{name: "Negative MaxAge", opts: Options{Name: "app", MaxAge: -1}, wantErr: "0 이상"},
		{name: "Negative MaxBackups", opts: Options{Name: "app", MaxBackups: -3}, wantErr: "0 이상"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProfiles(t *testing.T) {
	t.Parallel()

	prod := NewProductionOptions("competitor-dashboard")
	assert.Equal(t, InfoLevel, prod.Level)
	assert.True(t, prod.EnableCriticalLog)
	assert.False(t, prod.EnableConsoleLog)
	assert.NoError(t, prod.Validate())

	dev := NewDevelopmentOptions("competitor-dashboard")
	assert.Equal(t, TraceLevel, dev.Level)
	assert.True(t, dev.EnableConsoleLog)
	assert.False(t, dev.EnableVerboseLog)
	assert.NoError(t, dev.Validate())
}
