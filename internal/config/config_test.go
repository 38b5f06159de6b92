package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"PORT", "DATA_BACKEND", "DATA_DIR", "SQLITE_DB_PATH", "POSTGRES_DSN",
	"CURRENCY", "LOG_LEVEL", "SUMMARY_CACHE_SIZE", "SUMMARY_CACHE_TTL",
	"CHART_PALETTE", "BUDGET_CONFIG_FILE", "RATE_LIMIT_PER_MINUTE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func validConfig() Config {
	return *Defaults()
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid sqlite backend config",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = "./test.db"
			},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "negative rate limit",
			mutate:      func(c *Config) { c.RateLimitPerMinute = -1 },
			wantErr:     true,
			errorString: "invalid rate limit -1: must not be negative",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets': must be one of [memory file sqlite postgres]",
		},
		{
			name:        "file backend missing data directory",
			mutate:      func(c *Config) { c.DataDir = "" },
			wantErr:     true,
			errorString: "data directory cannot be empty when using file backend",
		},
		{
			name: "sqlite backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name:        "postgres backend missing DSN",
			mutate:      func(c *Config) { c.DataBackend = "postgres" },
			wantErr:     true,
			errorString: "POSTGRES_DSN is required when using postgres backend",
		},
		{
			name:        "unknown currency",
			mutate:      func(c *Config) { c.Currency = "XYZ" },
			wantErr:     true,
			errorString: "unknown currency 'XYZ'",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "negative cache size",
			mutate:      func(c *Config) { c.SummaryCacheSize = -1 },
			wantErr:     true,
			errorString: "invalid summary cache size -1: must not be negative",
		},
		{
			name:        "negative cache TTL",
			mutate:      func(c *Config) { c.SummaryCacheTTL = -time.Second },
			wantErr:     true,
			errorString: "invalid summary cache TTL -1s: must not be negative",
		},
		{
			name:        "invalid palette color",
			mutate:      func(c *Config) { c.ChartPalette = []string{"#ff0000", "red"} },
			wantErr:     true,
			errorString: "invalid chart color 'red'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.Currency = "XYZ"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 3 {
		t.Errorf("expected 3 problems, got %d: %v", got, err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		clearEnv(t)
		cfg, err := LoadFrom("")
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}

		if cfg.Port != "8081" {
			t.Errorf("Port = %v, want 8081", cfg.Port)
		}
		if cfg.DataBackend != "file" {
			t.Errorf("DataBackend = %v, want file", cfg.DataBackend)
		}
		if cfg.DataDir != "./data" {
			t.Errorf("DataDir = %v, want ./data", cfg.DataDir)
		}
		if cfg.Currency != "EUR" {
			t.Errorf("Currency = %v, want EUR", cfg.Currency)
		}
		if cfg.SummaryCacheSize != 64 {
			t.Errorf("SummaryCacheSize = %v, want 64", cfg.SummaryCacheSize)
		}
		if cfg.SummaryCacheTTL != 10*time.Minute {
			t.Errorf("SummaryCacheTTL = %v, want 10m", cfg.SummaryCacheTTL)
		}
		if cfg.ChartPalette != nil {
			t.Errorf("ChartPalette = %v, want nil", cfg.ChartPalette)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_BACKEND", "sqlite")
		t.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		t.Setenv("CURRENCY", "USD")
		t.Setenv("SUMMARY_CACHE_SIZE", "5")
		t.Setenv("SUMMARY_CACHE_TTL", "30s")
		t.Setenv("CHART_PALETTE", " #111111, #222222 ,,")

		cfg, err := LoadFrom("")
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}

		if cfg.Port != "9090" {
			t.Errorf("Port = %v, want 9090", cfg.Port)
		}
		if cfg.DataBackend != "sqlite" || cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("unexpected sqlite settings: %v %v", cfg.DataBackend, cfg.SQLiteDBPath)
		}
		if cfg.Currency != "USD" {
			t.Errorf("Currency = %v, want USD", cfg.Currency)
		}
		if cfg.SummaryCacheSize != 5 || cfg.SummaryCacheTTL != 30*time.Second {
			t.Errorf("unexpected cache settings: %v %v", cfg.SummaryCacheSize, cfg.SummaryCacheTTL)
		}
		if len(cfg.ChartPalette) != 2 || cfg.ChartPalette[1] != "#222222" {
			t.Errorf("ChartPalette = %v", cfg.ChartPalette)
		}
	})

	t.Run("invalid numeric env falls back", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SUMMARY_CACHE_SIZE", "lots")
		t.Setenv("SUMMARY_CACHE_TTL", "soon")

		cfg, err := LoadFrom("")
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if cfg.SummaryCacheSize != 64 || cfg.SummaryCacheTTL != 10*time.Minute {
			t.Errorf("expected defaults, got %v %v", cfg.SummaryCacheSize, cfg.SummaryCacheTTL)
		}
	})
}

func TestLoadFile(t *testing.T) {
	writeFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "budget.toml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}
		return path
	}

	t.Run("file overrides defaults and env overrides file", func(t *testing.T) {
		clearEnv(t)
		path := writeFile(t, `
port = "9000"
backend = "memory"
currency = "GBP"
chart_palette = ["#000000", "#ffffff"]
summary_cache_ttl = "1m"
`)
		t.Setenv("PORT", "9100")

		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if cfg.Port != "9100" {
			t.Errorf("Port = %v, want env value 9100", cfg.Port)
		}
		if cfg.DataBackend != "memory" {
			t.Errorf("DataBackend = %v, want memory", cfg.DataBackend)
		}
		if cfg.Currency != "GBP" {
			t.Errorf("Currency = %v, want GBP", cfg.Currency)
		}
		if len(cfg.ChartPalette) != 2 {
			t.Errorf("ChartPalette = %v", cfg.ChartPalette)
		}
		if cfg.SummaryCacheTTL != time.Minute {
			t.Errorf("SummaryCacheTTL = %v, want 1m", cfg.SummaryCacheTTL)
		}
		if cfg.DataDir != "./data" {
			t.Errorf("unset keys keep defaults, got DataDir = %v", cfg.DataDir)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		clearEnv(t)
		path := writeFile(t, `colour = "blue"`)
		if _, err := LoadFrom(path); err == nil || !strings.Contains(err.Error(), "unknown keys colour") {
			t.Errorf("expected unknown key error, got %v", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		clearEnv(t)
		path := writeFile(t, `port = `)
		if _, err := LoadFrom(path); err == nil {
			t.Errorf("expected parse error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Errorf("expected read error")
		}
	})

	t.Run("BUDGET_CONFIG_FILE selects the file", func(t *testing.T) {
		clearEnv(t)
		path := writeFile(t, `log_level = "debug"`)
		t.Setenv("BUDGET_CONFIG_FILE", path)

		if got := FilePath(); got != path {
			t.Fatalf("FilePath() = %v, want %v", got, path)
		}
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
		}
	})
}
