// Package config loads settings from config.yaml in the data directory,
// a .env file, STRIVETRACK_* environment variables and the OS keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/keyring"
	"github.com/iamhollywoodpro/strivetrack/internal/utils"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "STRIVETRACK"
)

// Primary tier providers.
const (
	PrimaryWorker     = "worker"
	PrimaryCloudinary = "cloudinary"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# StriveTrack configuration
# Every key can be overridden with STRIVETRACK_<SECTION>_<KEY>.

store:
  backend: sqlite   # sqlite, postgres or json
  # dsn:            # postgres connection string; prefer the keyring

timezone: Local
week_start: sunday

media:
  primary: worker   # worker or cloudinary
  upload_concurrency: 4
  keep: 10

# worker:
#   url: https://media-worker.example.workers.dev
# backend:
#   url: https://project.supabase.co
# admin_email:
`

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
}

type WorkerConfig struct {
	URL string `mapstructure:"url"`
}

type BackendConfig struct {
	URL     string `mapstructure:"url"`
	AnonKey string `mapstructure:"anon_key"`
}

type CloudinaryConfig struct {
	URL    string `mapstructure:"url"`
	Folder string `mapstructure:"folder"`
}

type MediaConfig struct {
	Primary           string `mapstructure:"primary"`
	UploadConcurrency int    `mapstructure:"upload_concurrency"`
	Keep              int    `mapstructure:"keep"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Debug bool   `mapstructure:"debug"`
}

type APIConfig struct {
	Listen string `mapstructure:"listen"`
}

type NotifyConfig struct {
	Webhook string        `mapstructure:"webhook"`
	Secret  string        `mapstructure:"secret"`
	Stagger time.Duration `mapstructure:"stagger"`
}

type Config struct {
	DataDir       string           `mapstructure:"data_dir"`
	Store         StoreConfig      `mapstructure:"store"`
	Timezone      string           `mapstructure:"timezone"`
	WeekStart     string           `mapstructure:"week_start"`
	Worker        WorkerConfig     `mapstructure:"worker"`
	Backend       BackendConfig    `mapstructure:"backend"`
	Cloudinary    CloudinaryConfig `mapstructure:"cloudinary"`
	Media         MediaConfig      `mapstructure:"media"`
	AdminEmail    string           `mapstructure:"admin_email"`
	SessionSecret string           `mapstructure:"session_secret"`
	Log           LogConfig        `mapstructure:"log"`
	API           APIConfig        `mapstructure:"api"`
	Notify        NotifyConfig     `mapstructure:"notify"`
}

func setDefaults(v *viper.Viper, dataDir string) {
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("store.backend", "sqlite")
	v.SetDefault("store.path", "")
	v.SetDefault("store.dsn", "")
	v.SetDefault("timezone", "Local")
	v.SetDefault("week_start", "sunday")
	v.SetDefault("worker.url", "")
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.anon_key", "")
	v.SetDefault("cloudinary.url", "")
	v.SetDefault("cloudinary.folder", constants.AppName)
	v.SetDefault("media.primary", PrimaryWorker)
	v.SetDefault("media.upload_concurrency", constants.DefaultUploadLimit)
	v.SetDefault("media.keep", constants.DefaultKeepMedia)
	v.SetDefault("admin_email", "")
	v.SetDefault("session_secret", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.debug", false)
	v.SetDefault("api.listen", "127.0.0.1:8080")
	v.SetDefault("notify.webhook", "")
	v.SetDefault("notify.secret", "")
	v.SetDefault("notify.stagger", constants.NotificationStagger)
}

// Load reads configuration for dataDir. A missing config.yaml is created
// with defaults; a missing .env is ignored.
func Load(dataDir string) (*Config, error) {
	if dataDir == "" {
		dataDir = constants.DefaultDataDir
	}
	dir, err := utils.ExpandHome(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	if err := loadDotEnv(".env", filepath.Join(dir, ".env")); err != nil {
		return nil, err
	}
	if err := ensureConfigDir(dir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(dir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	setDefaults(v, dir)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DataDir, err = utils.ExpandHome(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg.resolveSecrets()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv loads each existing file without overriding variables already set.
func loadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// resolveSecrets fills empty secrets from the OS keyring.
func (c *Config) resolveSecrets() {
	if c.Backend.AnonKey == "" {
		c.Backend.AnonKey = keyring.Lookup(constants.KeyringBackendAnonKey, "")
	}
	if c.Cloudinary.URL == "" {
		c.Cloudinary.URL = os.Getenv("CLOUDINARY_URL")
	}
	if c.Cloudinary.URL == "" {
		c.Cloudinary.URL = keyring.Lookup(constants.KeyringCloudinaryURL, "")
	}
	if c.Store.Backend == "postgres" && c.Store.DSN == "" {
		if dsn, err := keyring.GetConnectionString(); err == nil {
			c.Store.DSN = dsn
		}
	}
}

func (c *Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if _, err := utils.ParseWeekday(c.WeekStart); err != nil {
		return fmt.Errorf("invalid week_start: %w", err)
	}
	switch c.Media.Primary {
	case PrimaryWorker, PrimaryCloudinary:
	default:
		return fmt.Errorf("invalid media.primary %q (want worker or cloudinary)", c.Media.Primary)
	}
	if c.Media.UploadConcurrency < 1 {
		return fmt.Errorf("media.upload_concurrency must be at least 1")
	}
	if c.Media.Keep < 1 {
		return fmt.Errorf("media.keep must be at least 1")
	}
	return nil
}

// StoreLocation is the file path or connection string handed to storage.Open.
func (c *Config) StoreLocation() string {
	if c.Store.Backend == "postgres" {
		return c.Store.DSN
	}
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(c.DataDir, constants.DefaultDBFile)
}

func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) WeekStartDay() time.Weekday {
	wd, err := utils.ParseWeekday(c.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return wd
}

// BackendConfigured reports whether the hosted backend can be reached at all.
func (c *Config) BackendConfigured() bool {
	return c.Backend.URL != "" && c.Backend.AnonKey != ""
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// Path returns the config.yaml location for dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, configFileExt)
}
