package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/briefly"
	main "github.com/fwojciec/briefly/cmd/briefly"
	"github.com/fwojciec/briefly/gemini"
	"github.com/fwojciec/briefly/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("reads nested sections", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
db: /tmp/b.db
extract:
  engine: trafilatura
  render: never
  wordThreshold: 250
  minChars: 120
  timeout: 30s
  classesToPreserve: [caption]
llm:
  provider: openai
  model: local-model
  base: http://localhost:11434/v1
server:
  addr: 127.0.0.1:9000
`), 0644))

		fc, err := main.LoadConfigFile(path, false)

		require.NoError(t, err)
		assert.Equal(t, "/tmp/b.db", fc.DB)
		assert.Equal(t, "trafilatura", fc.Extract.Engine)
		assert.Equal(t, "never", fc.Extract.Render)
		require.NotNil(t, fc.Extract.WordThreshold)
		assert.Equal(t, 250, *fc.Extract.WordThreshold)
		assert.Equal(t, 120, fc.Extract.MinChars)
		assert.Equal(t, 30*time.Second, fc.Extract.Timeout)
		assert.Equal(t, []string{"caption"}, fc.Extract.ClassesToPreserve)
		assert.Equal(t, "openai", fc.LLM.Provider)
		assert.Equal(t, "http://localhost:11434/v1", fc.LLM.BaseURL)
		assert.Equal(t, "127.0.0.1:9000", fc.Server.Addr)
	})

	t.Run("missing optional file is empty", func(t *testing.T) {
		t.Parallel()

		fc, err := main.LoadConfigFile(filepath.Join(t.TempDir(), "none.yaml"), true)

		require.NoError(t, err)
		assert.Empty(t, fc.DB)
	})

	t.Run("missing required file fails", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfigFile(filepath.Join(t.TempDir(), "none.yaml"), false)

		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid yaml fails", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("extract: [unclosed"), 0644))

		_, err := main.LoadConfigFile(path, false)

		assert.ErrorContains(t, err, "parse yaml")
	})
}

func TestResolveConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.ResolveConfig(&main.CLI{DB: "x.db"}, main.FileConfig{}, env(nil))

		require.NoError(t, err)
		assert.Equal(t, "x.db", cfg.DBPath)
		assert.Equal(t, "gemini", cfg.Provider)
		assert.Equal(t, gemini.DefaultModel, cfg.Model)
		assert.Equal(t, "readability", cfg.Engine)
		assert.Equal(t, briefly.DefaultMinChars, cfg.MinChars)
		assert.Equal(t, briefly.DefaultMaxInputChars, cfg.MaxInputChars)
		assert.Equal(t, briefly.StrategyScored, cfg.ExtractOpts.Strategy)
		assert.Equal(t, briefly.DefaultWordThreshold, cfg.ExtractOpts.WordThreshold)
		assert.Equal(t, "auto", cfg.Render)
		assert.Empty(t, cfg.APIKey)
	})

	t.Run("browser flag forces rendering", func(t *testing.T) {
		t.Parallel()

		var fc main.FileConfig
		fc.Extract.Render = "never"

		cfg, err := main.ResolveConfig(&main.CLI{DB: "x.db", Browser: true}, fc, env(nil))

		require.NoError(t, err)
		assert.Equal(t, "always", cfg.Render)
	})

	t.Run("render flag beats file", func(t *testing.T) {
		t.Parallel()

		var fc main.FileConfig
		fc.Extract.Render = "always"

		cfg, err := main.ResolveConfig(&main.CLI{DB: "x.db", Render: "never"}, fc, env(nil))

		require.NoError(t, err)
		assert.Equal(t, "never", cfg.Render)
	})

	t.Run("rejects unknown render mode", func(t *testing.T) {
		t.Parallel()

		_, err := main.ResolveConfig(&main.CLI{DB: "x.db", Render: "sometimes"}, main.FileConfig{}, env(nil))

		assert.Equal(t, briefly.EINVALID, briefly.ErrorCode(err))
	})

	t.Run("word threshold from file, zero disables", func(t *testing.T) {
		t.Parallel()

		zero := 0
		var fc main.FileConfig
		fc.Extract.WordThreshold = &zero

		cfg, err := main.ResolveConfig(&main.CLI{DB: "x.db"}, fc, env(nil))

		require.NoError(t, err)
		assert.Zero(t, cfg.ExtractOpts.WordThreshold)
	})

	t.Run("accepts go-readability engine", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{DB: "x.db"}
		cli.Extract.Engine = "go-readability"

		cfg, err := main.ResolveConfig(cli, main.FileConfig{}, env(nil))

		require.NoError(t, err)
		assert.Equal(t, "go-readability", cfg.Engine)
	})

	t.Run("flags override file", func(t *testing.T) {
		t.Parallel()

		var fc main.FileConfig
		fc.DB = "file.db"
		fc.LLM.Provider = "gemini"
		fc.LLM.Model = "file-model"

		cfg, err := main.ResolveConfig(&main.CLI{DB: "flag.db", Provider: "openai", Model: "flag-model"}, fc, env(nil))

		require.NoError(t, err)
		assert.Equal(t, "flag.db", cfg.DBPath)
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "flag-model", cfg.Model)
	})

	t.Run("file fills unset flags", func(t *testing.T) {
		t.Parallel()

		var fc main.FileConfig
		fc.DB = "file.db"
		fc.LLM.Provider = "openai"
		fc.Extract.Strategy = "paragraphs"
		fc.Extract.MinChars = 200

		cfg, err := main.ResolveConfig(&main.CLI{}, fc, env(nil))

		require.NoError(t, err)
		assert.Equal(t, "file.db", cfg.DBPath)
		assert.Equal(t, openai.DefaultModel, cfg.Model)
		assert.Equal(t, briefly.StrategyParagraphs, cfg.ExtractOpts.Strategy)
		assert.Equal(t, 200, cfg.MinChars)
	})

	t.Run("environment key beats file key", func(t *testing.T) {
		t.Parallel()

		var fc main.FileConfig
		fc.LLM.APIKey = "file-key"

		cfg, err := main.ResolveConfig(&main.CLI{DB: "x.db"}, fc, env(map[string]string{"GEMINI_API_KEY": "env-key"}))

		require.NoError(t, err)
		assert.Equal(t, "env-key", cfg.APIKey)
	})

	t.Run("placeholder key counts as unset", func(t *testing.T) {
		t.Parallel()

		var fc main.FileConfig
		fc.LLM.APIKey = "file-key"

		cfg, err := main.ResolveConfig(&main.CLI{DB: "x.db"}, fc, env(map[string]string{"GEMINI_API_KEY": "your_gemini_api_key_here"}))

		require.NoError(t, err)
		assert.Equal(t, "file-key", cfg.APIKey)
	})

	t.Run("key is read for the selected provider", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.ResolveConfig(&main.CLI{DB: "x.db", Provider: "openai"}, main.FileConfig{},
			env(map[string]string{"GEMINI_API_KEY": "g", "OPENAI_API_KEY": "o", "OPENAI_BASE_URL": "http://local/v1"}))

		require.NoError(t, err)
		assert.Equal(t, "o", cfg.APIKey)
		assert.Equal(t, "http://local/v1", cfg.BaseURL)
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		t.Parallel()

		_, err := main.ResolveConfig(&main.CLI{DB: "x.db", Provider: "claude"}, main.FileConfig{}, env(nil))

		assert.Equal(t, briefly.EINVALID, briefly.ErrorCode(err))
	})

	t.Run("rejects unknown engine", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{DB: "x.db"}
		cli.Extract.Engine = "boilerpipe"

		_, err := main.ResolveConfig(cli, main.FileConfig{}, env(nil))

		assert.Equal(t, briefly.EINVALID, briefly.ErrorCode(err))
	})

	t.Run("rejects unknown strategy", func(t *testing.T) {
		t.Parallel()

		var fc main.FileConfig
		fc.Extract.Strategy = "magic"

		_, err := main.ResolveConfig(&main.CLI{DB: "x.db"}, fc, env(nil))

		assert.Equal(t, briefly.EINVALID, briefly.ErrorCode(err))
	})
}

func TestIsPlaceholderKey(t *testing.T) {
	t.Parallel()

	assert.True(t, main.IsPlaceholderKey(""))
	assert.True(t, main.IsPlaceholderKey("  "))
	assert.True(t, main.IsPlaceholderKey("your_openai_api_key_here"))
	assert.False(t, main.IsPlaceholderKey("AIzaSyExample"))
}
