// Package testutil provides shared test helpers for creating config files.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ConfigOption configures optional fields of the generated config file.
type ConfigOption func(*testConfig)

type testConfig struct {
	randomWordURL     string
	attempts          uint
	historyOnFailure  bool
	templateOverrides map[string]string
}

// WithRandomWordURL points the random word API at url instead of the dictionary URL.
func WithRandomWordURL(url string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.randomWordURL = url
	}
}

func WithWordOfTheDayAttempts(attempts uint) ConfigOption {
	return func(cfg *testConfig) {
		cfg.attempts = attempts
	}
}

func WithHistoryOnFailure(record bool) ConfigOption {
	return func(cfg *testConfig) {
		cfg.historyOnFailure = record
	}
}

// WithTemplateOverride writes a template file named name into the templates directory.
func WithTemplateOverride(name string, content string) ConfigOption {
	return func(cfg *testConfig) {
		if cfg.templateOverrides == nil {
			cfg.templateOverrides = make(map[string]string)
		}
		cfg.templateOverrides[name] = content
	}
}

// SetupTestConfig creates a config file whose APIs point at apiURL.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, apiURL string, opts ...ConfigOption) string {
	t.Helper()

	cfg := testConfig{
		randomWordURL:    apiURL,
		attempts:         1,
		historyOnFailure: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	configContent := fmt.Sprintf(`dictionary:
  base_url: %s
  timeout: 5s
random_word:
  base_url: %s
word_of_the_day:
  attempts: %d
lookup:
  history_on_failure: %t
`,
		apiURL,
		cfg.randomWordURL,
		cfg.attempts,
		cfg.historyOnFailure,
	)

	if len(cfg.templateOverrides) > 0 {
		templatesDir := filepath.Join(tmpDir, "templates")
		require.NoError(t, os.MkdirAll(templatesDir, 0755))
		for name, content := range cfg.templateOverrides {
			require.NoError(t, os.WriteFile(filepath.Join(templatesDir, name), []byte(content), 0644))
		}
		configContent += fmt.Sprintf("templates:\n  directory: %s\n", templatesDir)
	}

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}
