package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, Validate(cfg))
	assert.Equal(t, "rewrite", cfg.Mode)
	assert.Equal(t, model.Options{}, cfg.Options())
	assert.Equal(t, 200000, cfg.Serve.MaxMessages)
	assert.Equal(t, []string{"**/*.java"}, cfg.Batch.Include)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	d := Default()
	assert.Equal(t, d.Mode, cfg.Mode)
	assert.Equal(t, d.Keep, cfg.Keep)
	assert.Equal(t, d.Serve, cfg.Serve)
	assert.Equal(t, d.Batch, cfg.Batch)
	assert.Equal(t, d.Log, cfg.Log)
	assert.Empty(t, cfg.Types.Files)

	// 没有任何位置参数时 extractSequence 为 false，即改写模式
	cfg.ApplyPositional(nil)
	assert.Equal(t, "rewrite", cfg.Mode)
	assert.Equal(t, model.Options{}, cfg.Options())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	content := `
mode: rewrite
keep:
  comments: true
  unknown_calls: true
types:
  files:
    - extra.yaml
batch:
  workers: 8
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".codetok.yaml"), []byte(content), 0644))

	t.Run("directory", func(t *testing.T) {
		cfg, err := NewLoader(dir).Load()
		require.NoError(t, err)

		assert.Equal(t, "rewrite", cfg.Mode)
		assert.True(t, cfg.Keep.Comments)
		assert.True(t, cfg.Keep.UnknownCalls)
		assert.False(t, cfg.Keep.Imports)
		assert.Equal(t, []string{"extra.yaml"}, cfg.Types.Files)
		assert.Equal(t, 8, cfg.Batch.Workers)
		assert.Equal(t, "debug", cfg.Log.Level)
		// 未出现的键保留默认值
		assert.Equal(t, 200000, cfg.Serve.MaxMessages)
	})

	t.Run("explicit file", func(t *testing.T) {
		cfg, err := NewLoader(filepath.Join(dir, ".codetok.yaml")).Load()
		require.NoError(t, err)
		assert.Equal(t, "rewrite", cfg.Mode)
	})
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".codetok.yaml"), []byte("mode: rewrite\n"), 0644))

	t.Setenv("CODETOK_MODE", "extract")
	t.Setenv("CODETOK_KEEP_IMPORTS", "true")
	t.Setenv("CODETOK_INDEX_PATH", "/tmp/tokens.db")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "extract", cfg.Mode)
	assert.True(t, cfg.Keep.Imports)
	assert.Equal(t, "/tmp/tokens.db", cfg.Index.Path)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".codetok.yaml"), []byte("mode: [extract\n"), 0644))

		_, err := NewLoader(dir).Load()
		assert.Error(t, err)
	})

	t.Run("bad mode", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".codetok.yaml"), []byte("mode: tokenize\n"), 0644))

		_, err := NewLoader(dir).Load()
		assert.ErrorIs(t, err, ErrInvalidMode)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"workers", func(c *Config) { c.Batch.Workers = 0 }, ErrInvalidWorkers},
		{"max messages", func(c *Config) { c.Serve.MaxMessages = -1 }, ErrInvalidMaxMessages},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, ErrInvalidLogLevel},
		{"mode", func(c *Config) { c.Mode = "" }, ErrInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, Validate(cfg), tt.want)
		})
	}

	t.Run("multiple errors", func(t *testing.T) {
		cfg := Default()
		cfg.Mode = "x"
		cfg.Batch.Workers = 0
		err := Validate(cfg)
		assert.ErrorIs(t, err, ErrInvalidMode)
		assert.ErrorIs(t, err, ErrInvalidWorkers)
	})
}

func TestApplyPositional(t *testing.T) {
	tests := []struct {
		name string
		args []string
		mode string
		want model.Options
	}{
		{
			name: "none keeps config",
			args: nil,
			mode: "rewrite",
			want: model.Options{},
		},
		{
			name: "rewrite with comments",
			args: []string{"false", "false", "true", "false"},
			mode: "rewrite",
			want: model.Options{KeepComments: true},
		},
		{
			name: "literals drive declarations",
			args: []string{"True", "TRUE", "no", "true"},
			mode: "extract",
			want: model.Options{KeepImports: true, KeepLiterals: true, KeepDeclarations: true},
		},
		{
			name: "unknown calls",
			args: []string{"true", "false", "false", "false", "true"},
			mode: "extract",
			want: model.Options{KeepUnknownCalls: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.ApplyPositional(tt.args)
			assert.Equal(t, tt.mode, cfg.Mode)
			assert.Equal(t, tt.want, cfg.Options())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, "WARN", lvl.String())

	_, err = ParseLogLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}
