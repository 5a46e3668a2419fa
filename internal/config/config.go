// Package config resolves the run configuration before the pipeline starts.
// Values come from built-in defaults, optional .env files and XLCATALOG_*
// environment variables, in increasing order of precedence. The CLI layers
// explicitly set flags on top with Set.
package config

import "time"

// EnvPrefix is the prefix shared by every environment variable the loader reads.
const EnvPrefix = "XLCATALOG_"

// Config holds the complete run configuration.
type Config struct {
	Source SourceConfig `koanf:"source"`
	Sheet  SheetConfig  `koanf:"sheet"`
	Output OutputConfig `koanf:"output"`
	Remote RemoteConfig `koanf:"remote"`
	Log    LogConfig    `koanf:"log"`
}

// SourceConfig selects the workbook and sheet to read.
type SourceConfig struct {
	// Path is the .xlsx file to ingest.
	Path string `koanf:"path" validate:"required"`
	// Sheet is the sheet name; empty selects the first sheet.
	Sheet string `koanf:"sheet"`
}

// SheetConfig describes the sheet layout.
type SheetConfig struct {
	// HeaderRow is the 1-based row holding the column labels.
	HeaderRow int `koanf:"header_row" validate:"min=1"`
	// ImageColumn is the 1-based column images are anchored to.
	ImageColumn int `koanf:"image_column" validate:"min=1"`
}

type OutputConfig struct {
	CatalogPath string `koanf:"catalog_path" validate:"required"`
	ImagesDir   string `koanf:"images_dir"   validate:"required"`
	Pretty      bool   `koanf:"pretty"`
	// MaxImageEdge downscales images whose longest edge exceeds it; 0 disables.
	MaxImageEdge int `koanf:"max_image_edge" validate:"min=0"`
}

type RemoteConfig struct {
	Enabled         bool          `koanf:"enabled"`
	FolderID        string        `koanf:"folder_id"`
	MakePublic      bool          `koanf:"make_public"`
	CredentialsFile string        `koanf:"credentials_file" validate:"required_if=Enabled true"`
	TokenFile       string        `koanf:"token_file"       validate:"required_if=Enabled true"`
	Concurrency     int           `koanf:"concurrency"      validate:"min=1,max=32"`
	RetryAttempts   int           `koanf:"retry_attempts"   validate:"min=1"`
	RetryStep       time.Duration `koanf:"retry_step"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Sheet: SheetConfig{
			HeaderRow:   4,
			ImageColumn: 14,
		},
		Output: OutputConfig{
			CatalogPath: "catalog.json",
			ImagesDir:   "out_images",
			Pretty:      true,
		},
		Remote: RemoteConfig{
			Enabled:         true,
			MakePublic:      true,
			CredentialsFile: "credentials/oauth_client.json",
			TokenFile:       "credentials/token.json",
			Concurrency:     1,
			RetryAttempts:   3,
			RetryStep:       1500 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
