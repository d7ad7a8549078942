// Package config resolves runtime settings from defaults, a TOML file, an
// optional .env file and THINGS_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDatabaseFile   = "database.json"
	DefaultRemoteFile     = "remote.db"
	DefaultDataDir        = "~/.things"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	NextPane   string `toml:"next_pane"`
	Add        string `toml:"add"`
	Toggle     string `toml:"toggle"`
	Cancel     string `toml:"cancel"`
	Delete     string `toml:"delete"`
	Palette    string `toml:"palette"`
	Search     string `toml:"search"`
	Notes      string `toml:"notes"`
	Preview    string `toml:"preview"`
	Duplicate  string `toml:"duplicate"`
	CopyText   string `toml:"copy_text"`
	CopyLink   string `toml:"copy_link"`
	Help       string `toml:"help"`
	EmptyTrash string `toml:"empty_trash"`
}

type Config struct {
	DataDir         string `toml:"data_dir"`
	DatabaseFile    string `toml:"database_file"`
	RemotePath      string `toml:"remote_path"`
	HTTPAddr        string `toml:"http_addr"`
	SchedulerBuffer int    `toml:"scheduler_buffer"`
	TimeZone        string `toml:"time_zone"`
	SeedSample      bool   `toml:"seed_sample"`
	WidgetLimit     int    `toml:"widget_limit"`
	Keys            Keymap `toml:"keys"`
}

func Default() Config {
	return Config{
		DataDir:         DefaultDataDir,
		DatabaseFile:    DefaultDatabaseFile,
		RemotePath:      DefaultRemoteFile,
		HTTPAddr:        "127.0.0.1:8484",
		SchedulerBuffer: 64,
		TimeZone:        "Local",
		SeedSample:      true,
		WidgetLimit:     3,
		Keys: Keymap{
			Quit:       "q",
			Up:         "k",
			Down:       "j",
			NextPane:   "tab",
			Add:        "n",
			Toggle:     "x",
			Cancel:     "c",
			Delete:     "D",
			Palette:    ":",
			Search:     "/",
			Notes:      "e",
			Preview:    "p",
			Duplicate:  "y",
			CopyText:   "C",
			CopyLink:   "L",
			Help:       "?",
			EmptyTrash: "E",
		},
	}
}

// DefaultPath is where the config file lives unless --config says otherwise.
func DefaultPath() string {
	return filepath.Join(expandHome(DefaultDataDir), DefaultConfigFileName)
}

// Load reads .env files (missing ones are skipped), then the TOML file at
// path, creating it with defaults when absent, then applies the environment.
func Load(path string, envFiles ...string) (Config, error) {
	if err := LoadDotEnv(envFiles...); err != nil {
		return Default(), err
	}
	cfg, err := LoadOrCreate(path)
	if err != nil {
		return cfg, err
	}
	return FromEnv(cfg), nil
}

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if strings.TrimSpace(f) == "" {
			continue
		}
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DatabaseFile == "" {
		cfg.DatabaseFile = DefaultDatabaseFile
	}
	if cfg.SchedulerBuffer <= 0 {
		cfg.SchedulerBuffer = Default().SchedulerBuffer
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("THINGS_DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := getEnvString("THINGS_DATABASE_FILE"); ok {
		cfg.DatabaseFile = v
	}
	if v, ok := os.LookupEnv("THINGS_REMOTE_PATH"); ok {
		// Set but empty disables the remote store.
		cfg.RemotePath = strings.TrimSpace(v)
	}
	if v, ok := getEnvString("THINGS_HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := getEnvInt("THINGS_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvString("THINGS_TIMEZONE"); ok {
		cfg.TimeZone = v
	}
	if v, ok := getEnvBool("THINGS_SEED_SAMPLE"); ok {
		cfg.SeedSample = v
	}
	if v, ok := getEnvInt("THINGS_WIDGET_LIMIT"); ok && v > 0 {
		cfg.WidgetLimit = v
	}
	return cfg
}

// DatabasePath is the local JSON file.
func (c Config) DatabasePath() string {
	return c.resolve(c.DatabaseFile)
}

// RemoteDBPath is the SQLite record store, or "" when disabled.
func (c Config) RemoteDBPath() string {
	if strings.TrimSpace(c.RemotePath) == "" {
		return ""
	}
	return c.resolve(c.RemotePath)
}

func (c Config) resolve(name string) string {
	name = expandHome(name)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(expandHome(c.DataDir), name)
}

// Location resolves TimeZone; "" and "Local" mean the system zone.
func (c Config) Location() (*time.Location, error) {
	switch strings.TrimSpace(c.TimeZone) {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
