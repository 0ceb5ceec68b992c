package formfill

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		expected Config
	}{
		{
			name:     "json",
			file:     "config.json",
			content:  `{"locale":"en-gb","timezone":"Europe/London","log_level":"debug"}`,
			expected: Config{Locale: "en-gb", Timezone: "Europe/London", LogLevel: "debug"},
		},
		{
			name:     "yaml",
			file:     "config.yaml",
			content:  "locale: en-us\ntimezone: America/New_York\n",
			expected: Config{Locale: "en-us", Timezone: "America/New_York"},
		},
		{
			name:     "yml",
			file:     "config.YML",
			content:  "log_level: warn\n",
			expected: Config{LogLevel: "warn"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *conf)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	_, err = LoadConfig(writeConfig(t, "broken.json", "{"))
	assert.Error(t, err)
}

func TestConfigOptions(t *testing.T) {
	conf := Config{Locale: "en-gb", Timezone: "Asia/Tokyo", LogLevel: "error"}
	opts, err := conf.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	assert.Equal(t, "en-gb", o.locale)
	assert.Equal(t, "Asia/Tokyo", o.location.String())
	require.NotNil(t, o.logger)

	empty, err := (&Config{}).Options()
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = (&Config{Timezone: "Mars/Olympus"}).Options()
	assert.Error(t, err)
	_, err = (&Config{LogLevel: "loud"}).Options()
	assert.Error(t, err)
}

func TestLocationAppliesToRelativeDates(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	// 2024-05-15 10:30 UTC is already the evening of the 15th in Tokyo.
	form := newProfileForm(WithLocation(tokyo))
	out := form.Assign("Meeting", "tomorrow at 9am")
	require.True(t, out.Succeeded, out.Description)
	assert.True(t, time.Date(2024, time.May, 16, 9, 0, 0, 0, tokyo).Equal(form.Data().Meeting))
}
