// Package config loads stdsdb settings: defaults, then an optional YAML file,
// then STDSDB_* environment variables. CLI flags are applied by main.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"stdsdb/internal/catalog"
	"stdsdb/internal/domain"
	"stdsdb/internal/publish"
	"stdsdb/internal/standards"
)

// Config is the full runtime configuration.
type Config struct {
	Database domain.DatabaseConnection `yaml:"database"`
	Catalog  CatalogConfig             `yaml:"catalog"`
	Seeds    SeedsConfig               `yaml:"seeds"`
	Export   ExportConfig              `yaml:"export"`
	Output   publish.Config            `yaml:"output"`
	Codes    []standards.Code          `yaml:"codes"`
	Watch    WatchConfig               `yaml:"watch"`
	Log      LogConfig                 `yaml:"log"`
}

// CatalogConfig lists the editions that get level-3 tables.
type CatalogConfig struct {
	LightingVersions    []string `yaml:"lighting_versions"`
	VentilationVersions []string `yaml:"ventilation_versions"`
}

// Options converts the section to catalog options.
func (c CatalogConfig) Options() catalog.Options {
	return catalog.Options{
		LightingVersions:    c.LightingVersions,
		VentilationVersions: c.VentilationVersions,
	}
}

// SeedsConfig locates the seed files a build reads.
type SeedsConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // json, csv or empty for json-then-csv
}

// ExportConfig controls dumps of the store back to seed files.
type ExportConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

// WatchConfig drives the rebuild daemon.
type WatchConfig struct {
	Schedule   string        `yaml:"schedule"` // cron spec; empty disables timed rebuilds
	WatchSeeds bool          `yaml:"watch_seeds"`
	Debounce   time.Duration `yaml:"debounce"`
	StatusAddr string        `yaml:"status_addr"`
}

type LogConfig struct {
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Database: domain.DatabaseConnection{
			Driver: domain.DatabaseDriverSQLite,
			Path:   "openstudio_standards.db",
		},
		Seeds:  SeedsConfig{Dir: "database_files"},
		Export: ExportConfig{Dir: "database_files", Formats: []string{"json", "csv"}},
		Output: publish.Config{Driver: publish.DriverFilesystem, Root: "lib/openstudio-standards/standards"},
		Codes:  []standards.Code{standards.ASHRAE901()},
		Watch: WatchConfig{
			WatchSeeds: true,
			Debounce:   500 * time.Millisecond,
			StatusAddr: "127.0.0.1:9464",
		},
	}
}

// Load reads path (when non-empty) over the defaults, applies the
// environment and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ── Environment ────────────────────────────────────────────

func (c *Config) applyEnv() error {
	setString("STDSDB_DB_DRIVER", (*string)(&c.Database.Driver))
	setString("STDSDB_DB_PATH", &c.Database.Path)
	setString("STDSDB_DB_HOST", &c.Database.Host)
	setString("STDSDB_DB_NAME", &c.Database.Database)
	setString("STDSDB_DB_USER", &c.Database.Username)
	setString("STDSDB_DB_PASSWORD", &c.Database.Password)
	setString("STDSDB_DB_SSLMODE", &c.Database.SSLMode)
	if err := setInt("STDSDB_DB_PORT", &c.Database.Port); err != nil {
		return err
	}

	setString("STDSDB_SEED_DIR", &c.Seeds.Dir)
	setString("STDSDB_SEED_FORMAT", &c.Seeds.Format)
	setString("STDSDB_EXPORT_DIR", &c.Export.Dir)
	if v, ok := lookup("STDSDB_EXPORT_FORMATS"); ok {
		c.Export.Formats = splitList(v)
	}

	setString("STDSDB_OUTPUT_DRIVER", (*string)(&c.Output.Driver))
	setString("STDSDB_OUTPUT_ROOT", &c.Output.Root)
	setString("STDSDB_S3_BUCKET", &c.Output.S3.Bucket)
	setString("STDSDB_S3_REGION", &c.Output.S3.Region)
	setString("STDSDB_S3_ENDPOINT", &c.Output.S3.Endpoint)
	setString("STDSDB_S3_PREFIX", &c.Output.S3.Prefix)
	setString("STDSDB_S3_ACCESS_KEY_ID", &c.Output.S3.AccessKeyID)
	setString("STDSDB_S3_SECRET_ACCESS_KEY", &c.Output.S3.SecretAccessKey)
	if err := setBool("STDSDB_S3_PATH_STYLE", &c.Output.S3.PathStyle); err != nil {
		return err
	}
	setString("STDSDB_MONGO_URI", &c.Output.Mongo.URI)
	setString("STDSDB_MONGO_DATABASE", &c.Output.Mongo.Database)
	setString("STDSDB_MONGO_COLLECTION", &c.Output.Mongo.Collection)

	setString("STDSDB_WATCH_SCHEDULE", &c.Watch.Schedule)
	setString("STDSDB_STATUS_ADDR", &c.Watch.StatusAddr)
	if err := setBool("STDSDB_WATCH_SEEDS", &c.Watch.WatchSeeds); err != nil {
		return err
	}
	return setBool("STDSDB_DEBUG", &c.Log.Debug)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ── Validation ─────────────────────────────────────────────

// Validate checks enumerations and required fields.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case domain.DatabaseDriverSQLite, domain.DatabaseDriverPostgres, domain.DatabaseDriverMySQL:
	default:
		return fmt.Errorf("database.driver: unsupported %q", c.Database.Driver)
	}
	if c.Database.Driver != domain.DatabaseDriverSQLite && c.Database.Host == "" {
		return fmt.Errorf("database.host: required for %s", c.Database.Driver)
	}
	switch c.Seeds.Format {
	case "", "json", "csv":
	default:
		return fmt.Errorf("seeds.format: unsupported %q", c.Seeds.Format)
	}
	for _, f := range c.Export.Formats {
		if f != "json" && f != "csv" {
			return fmt.Errorf("export.formats: unsupported %q", f)
		}
	}
	switch c.Output.Driver {
	case "", publish.DriverFilesystem, publish.DriverMemory:
	case publish.DriverS3:
		if c.Output.S3.Bucket == "" {
			return errors.New("output.s3.bucket: required for the s3 driver")
		}
	case publish.DriverMongo:
		if c.Output.Mongo.URI == "" {
			return errors.New("output.mongo.uri: required for the mongo driver")
		}
	default:
		return fmt.Errorf("output.driver: unsupported %q", c.Output.Driver)
	}
	if len(c.Codes) == 0 {
		return errors.New("codes: at least one code is required")
	}
	for i, code := range c.Codes {
		if code.Name == "" || code.TemplatePrefix == "" || len(code.Versions) == 0 {
			return fmt.Errorf("codes[%d]: name, template_prefix and versions are required", i)
		}
	}
	if c.Watch.Debounce < 0 {
		return errors.New("watch.debounce: must not be negative")
	}
	return nil
}
