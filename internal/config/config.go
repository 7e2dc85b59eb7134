package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for tracky, stored in ~/.tracky/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Google   GoogleConfig   `json:"google"`
	Jira     JiraConfig     `json:"jira"`
	Tempo    TempoConfig    `json:"tempo"`
	Activity ActivityConfig `json:"activity"`
}

// GoogleConfig holds Google Calendar OAuth settings.
type GoogleConfig struct {
	// ClientID / ClientSecret identify the OAuth app ("Desktop app" type).
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	// RedirectPort is the fixed loopback port the consent redirect lands on.
	// It must match the redirect URI registered for the OAuth app.
	RedirectPort int `json:"redirect_port"`
	// DefaultBucket is the bucket name assigned to imported calendar events.
	DefaultBucket string `json:"default_bucket"`
}

// JiraConfig holds Jira Cloud REST credentials.
type JiraConfig struct {
	// BaseURL is the site root, e.g. "https://yourcompany.atlassian.net".
	BaseURL string `json:"base_url"`
	// Email and APIToken form the basic-auth pair for the REST API.
	Email    string `json:"email"`
	APIToken string `json:"api_token"`
}

// TempoConfig holds Tempo Timesheets API credentials.
type TempoConfig struct {
	BaseURL  string `json:"base_url"`
	APIToken string `json:"api_token"`
}

// ActivityConfig filters imported window-activity samples.
type ActivityConfig struct {
	// MinSeconds drops activity samples shorter than this many seconds.
	MinSeconds int64 `json:"min_seconds"`
}

const (
	// DefaultRedirectPort is the loopback port for the OAuth redirect.
	DefaultRedirectPort = 53682
	// DefaultBucketName is assigned to imported events when none is given.
	DefaultBucketName = "Meetings"
	// DefaultTempoBaseURL is the Tempo Cloud REST API root.
	DefaultTempoBaseURL = "https://api.tempo.io/4"
	// DefaultActivityMinSeconds drops sub-5-second window switches.
	DefaultActivityMinSeconds = 5
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Google: GoogleConfig{
			RedirectPort:  DefaultRedirectPort,
			DefaultBucket: DefaultBucketName,
		},
		Tempo: TempoConfig{
			BaseURL: DefaultTempoBaseURL,
		},
		Activity: ActivityConfig{
			MinSeconds: DefaultActivityMinSeconds,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// tracky configuration – ~/.tracky/config.json
//
// All settings are optional; integrations stay disabled until their
// credentials are filled in. Edit this file to customise tracky behaviour.
{
  // ── Google Calendar sync ─────────────────────────────────────────────────
  "google": {
    // OAuth client credentials of a "Desktop app" registration from the
    // Google Cloud console. Required for: tracky calendar auth / sync
    "client_id": "",
    "client_secret": "",

    // Fixed loopback port for the OAuth consent redirect. Must match the
    // registered redirect URI http://127.0.0.1:<port>/callback
    "redirect_port": 53682,

    // Default bucket assigned to imported calendar events.
    // Can be overridden per-sync with: tracky calendar sync --bucket <name>
    "default_bucket": "Meetings"
  },

  // ── Jira Cloud ───────────────────────────────────────────────────────────
  "jira": {
    // Site root, e.g. "https://yourcompany.atlassian.net"
    "base_url": "",

    // Account email plus API token (id.atlassian.com → Security → API tokens)
    "email": "",
    "api_token": ""
  },

  // ── Tempo Timesheets ─────────────────────────────────────────────────────
  "tempo": {
    // Tempo Cloud REST API root; rarely needs changing.
    "base_url": "https://api.tempo.io/4",

    // Tempo API token (Tempo → Settings → API integration)
    "api_token": ""
  },

  // ── Activity import ──────────────────────────────────────────────────────
  "activity": {
    // Window-activity samples shorter than this many seconds are dropped.
    "min_seconds": 5
  }
}
`

// configFilePath returns the path to ~/.tracky/config.json.
func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tracky", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.tracky/config.json, creating it with annotated defaults on
// first run. Lines starting with // are treated as comments and stripped
// before JSON parsing.
func Load() (Config, error) {
	path, err := configFilePath()
	if err != nil {
		return defaultConfig(), err
	}
	return loadFrom(path)
}

// loadFrom implements Load against an explicit path so tests can use a
// temp directory.
func loadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	applyDefaults(&cfg)
	return cfg, nil
}

// applyDefaults backfills fields missing from older or partial config files.
func applyDefaults(cfg *Config) {
	if cfg.Google.RedirectPort == 0 {
		cfg.Google.RedirectPort = DefaultRedirectPort
	}
	if cfg.Google.DefaultBucket == "" {
		cfg.Google.DefaultBucket = DefaultBucketName
	}
	if cfg.Tempo.BaseURL == "" {
		cfg.Tempo.BaseURL = DefaultTempoBaseURL
	}
	if cfg.Activity.MinSeconds == 0 {
		cfg.Activity.MinSeconds = DefaultActivityMinSeconds
	}
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
