package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/oraload/oraload/internal/db"
	"github.com/oraload/oraload/internal/domain"
	"github.com/oraload/oraload/internal/header"
)

// ImportSettings are the engine knobs read from the
// import_settings section.
type ImportSettings struct {
	BatchSize              int
	MaxRetries             int
	AutoCommit             bool
	CreateTableIfNotExists bool
	FillAuditColumns       bool
}

// Settings is the full run configuration. It is passed explicitly
// into core operations; there is no process-wide settings object, so
// independent imports can run side by side in tests.
type Settings struct {
	Database     db.Config
	Import       ImportSettings
	Header       header.Config
	SQLOutputDir string
}

// Load reads config.yaml from configPath with environment overrides
// (ORALOAD_ prefix). A missing file is not an error; defaults and
// env vars apply. Invalid values are ConfigErrors and abort the run
// before any file is processed.
func Load(configPath string) (Settings, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv() // allow environment overrides
	v.SetEnvPrefix("ORALOAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // ORALOAD_DATABASE_HOST etc.

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "postgres")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("import_settings.batch_size", 1000)
	v.SetDefault("import_settings.max_retries", 3)
	v.SetDefault("import_settings.auto_commit", true)
	v.SetDefault("import_settings.create_table_if_not_exists", false)
	v.SetDefault("import_settings.fill_audit_columns", false)

	v.SetDefault("header_detection.header_keywords", "")
	v.SetDefault("header_detection.header_detection_mode", "auto")

	v.SetDefault("sql_output.directory", "output")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, &domain.ConfigError{Reason: err.Error()}
		}
	}

	settings := Settings{
		Database: db.Config{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Import: ImportSettings{
			BatchSize:              v.GetInt("import_settings.batch_size"),
			MaxRetries:             v.GetInt("import_settings.max_retries"),
			AutoCommit:             v.GetBool("import_settings.auto_commit"),
			CreateTableIfNotExists: v.GetBool("import_settings.create_table_if_not_exists"),
			FillAuditColumns:       v.GetBool("import_settings.fill_audit_columns"),
		},
		Header: header.Config{
			Keywords: v.GetString("header_detection.header_keywords"),
		},
		SQLOutputDir: v.GetString("sql_output.directory"),
	}

	mode, err := header.ParseMode(v.GetString("header_detection.header_detection_mode"))
	if err != nil {
		return Settings{}, &domain.ConfigError{Key: "header_detection.header_detection_mode", Reason: err.Error()}
	}
	settings.Header.Mode = mode

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate enforces the value ranges the engine depends on.
func (s Settings) Validate() error {
	if s.Import.BatchSize < 1 || s.Import.BatchSize > 10000 {
		return &domain.ConfigError{Key: "import_settings.batch_size", Reason: fmt.Sprintf("must be between 1 and 10000, got %d", s.Import.BatchSize)}
	}
	if s.Import.MaxRetries < 0 || s.Import.MaxRetries > 10 {
		return &domain.ConfigError{Key: "import_settings.max_retries", Reason: fmt.Sprintf("must be between 0 and 10, got %d", s.Import.MaxRetries)}
	}
	if s.Database.Port < 1 || s.Database.Port > 65535 {
		return &domain.ConfigError{Key: "database.port", Reason: fmt.Sprintf("must be between 1 and 65535, got %d", s.Database.Port)}
	}
	return nil
}

// defaultConfigYAML is written by `oraload config init`.
const defaultConfigYAML = `# oraload configuration

database:
  host: localhost
  port: 5432
  user: postgres
  password: ""
  dbname: postgres
  sslmode: disable

import_settings:
  # Rows per batch write; the granularity of retry and commit.
  batch_size: 1000
  # Retries for transient write failures (connection drop, lock timeout).
  max_retries: 3
  # true: commit after every batch. false: one commit per file, any
  # batch failure rolls the whole file back.
  auto_commit: true
  create_table_if_not_exists: false
  # Fill CREATED_BY / CREATE_TIMESTAMP on insert when the matched
  # schema declares them.
  fill_audit_columns: false

header_detection:
  # Comma = AND, pipe = OR. Example: "id,name|code,type" means
  # (id AND name) OR (code AND type). Empty uses the built-in
  # heuristic.
  header_keywords: ""
  # auto / force_header / force_no_header
  header_detection_mode: auto

sql_output:
  # Destination for --create-sql INSERT files.
  directory: output
`

// WriteDefault writes a commented default configuration file.
func WriteDefault(path string) error {
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
